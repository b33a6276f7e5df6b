package db

import (
	"fmt"
	"os"

	"lending_register/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate models")
	}
	log.Info().Msg("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Item{}, &models.Transaction{})
}
