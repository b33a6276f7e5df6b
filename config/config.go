package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env if present; real deployments set the environment directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}
