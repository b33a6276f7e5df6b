package main

import (
	"context"
	"os"
	"time"

	"lending_register/app"
	"lending_register/config"
	"lending_register/db"
	"lending_register/routes"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Logger
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	config.LoadEnv()
	application := app.MustNew()
	defer application.Close()

	app.BootstrapFirstUser(context.Background(), application.Config, application.Repo)

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	// Log the change feed; the SSE endpoint serves it to clients.
	go func() {
		_ = application.Events.Listen(context.Background(), func(collection string) {
			log.Debug().Str("collection", collection).Msg("collection changed")
		}, db.CollectionItems, db.CollectionTransactions)
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	log.Info().Str("port", port).Msg("listening")
	_ = r.Run(":" + port)
}
