package db

import (
	"context"
	"errors"

	"lending_register/models"
	"lending_register/notify"

	"gorm.io/gorm"
)

// Collection names used for change notifications.
const (
	CollectionItems        = "items"
	CollectionTransactions = "transactions"
)

type Repo struct {
	DB *gorm.DB

	// Events is optional; tests run with it nil.
	Events *notify.Publisher
}

func NewRepo(db *gorm.DB, events *notify.Publisher) *Repo { return &Repo{DB: db, Events: events} }

// changed publishes a change event per collection after a committed write.
func (r *Repo) changed(ctx context.Context, collections ...string) {
	if r.Events == nil {
		return
	}
	for _, c := range collections {
		r.Events.CollectionChanged(ctx, c)
	}
}

// Users

func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) HasUserWithEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repo) TouchUserLogin(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"last_seen_at":  gorm.Expr("CURRENT_TIMESTAMP"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
