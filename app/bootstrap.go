// app/bootstrap.go
package app

import (
	"context"

	"lending_register/db"
	"lending_register/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstUser creates the initial sign-in account from env config.
// The account only gets admin rights if its email is also on one of the
// allow-lists; the password should be rotated after first login.
func BootstrapFirstUser(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapEmail == "" || cfg.BootstrapPassword == "" {
		return
	}

	exists, err := repo.HasUserWithEmail(ctx, cfg.BootstrapEmail)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap user lookup failed")
		return
	}
	if exists {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap password hash failed")
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Email:        cfg.BootstrapEmail,
		PasswordHash: string(hash),
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Error().Err(err).Msg("bootstrap user create failed")
		return
	}

	log.Info().Str("email", cfg.BootstrapEmail).Str("role", cfg.RoleFor(cfg.BootstrapEmail)).
		Msg("[BOOTSTRAP] created initial user")
}
