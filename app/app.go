package app

import (
	"context"
	"os"
	"strings"
	"time"

	"lending_register/db"
	"lending_register/notify"
	"lending_register/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Aliases so handlers read shorter.
type Ctx = gin.Context
type H = gin.H

// Admin roles, assigned by the configured email allow-lists.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// App aggregates the shared dependencies.
type App struct {
	Router *gin.Engine
	DB     *gorm.DB
	RDB    *redis.Client
	Repo   *db.Repo
	Events *notify.Publisher
	Config Config

	appSess *session.AppSessionStore
}

// Config is read from environment variables.
type Config struct {
	RedisAddr         string
	RedisPwd          string
	WebOrigin         string
	SessionTTL        time.Duration
	AdminEmails       []string
	SuperAdminEmails  []string
	BootstrapEmail    string
	BootstrapPassword string
}

// RoleFor maps an authenticated email to its role; "" means no admin role.
func (c Config) RoleFor(email string) string {
	email = strings.ToLower(email)
	for _, e := range c.SuperAdminEmails {
		if e == email {
			return RoleSuperAdmin
		}
	}
	for _, e := range c.AdminEmails {
		if e == email {
			return RoleAdmin
		}
	}
	return ""
}

func (a *App) AppSessions() *session.AppSessionStore { return a.appSess }

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	// --- Redis ---
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis")
	}

	events := notify.NewPublisher(rdb)
	repo := db.NewRepo(dbConn, events)

	// --- Gin ---
	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	a := &App{
		Router: r, DB: dbConn, RDB: rdb, Repo: repo, Events: events, Config: cfg,
		appSess: session.NewAppSessionStore(rdb, cfg.SessionTTL),
	}
	return a
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	get := func(k, def string) string {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		return v
	}

	ttlSec := get("SESSION_TTL_SECONDS", "86400")
	ttl := 24 * time.Hour
	if d, err := time.ParseDuration(ttlSec + "s"); err == nil {
		ttl = d
	}

	splitEmails := func(csv string) []string {
		var out []string
		for _, s := range strings.Split(csv, ",") {
			if t := strings.TrimSpace(strings.ToLower(s)); t != "" {
				out = append(out, t)
			}
		}
		return out
	}

	return Config{
		RedisAddr:         get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:          os.Getenv("REDIS_PASSWORD"),
		WebOrigin:         get("WEB_ORIGIN", "http://localhost:3000"),
		SessionTTL:        ttl,
		AdminEmails:       splitEmails(os.Getenv("ADMIN_EMAILS")),       // e.g. "ops@example.com,desk@example.com"
		SuperAdminEmails:  splitEmails(os.Getenv("SUPER_ADMIN_EMAILS")), // e.g. "center@example.com"
		BootstrapEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("BOOTSTRAP_EMAIL"))),
		BootstrapPassword: os.Getenv("BOOTSTRAP_PASSWORD"),
	}
}
