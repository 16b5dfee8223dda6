package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const DEV_ENV_FILENAME = ".env.development"
const PROD_ENV_FILENAME = ".env.production"

func InitEnvironmentVariables() error {
	if os.Getenv("ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	// Determine which .env file to load
	envFile := DEV_ENV_FILENAME // default to development environment
	if os.Getenv("GO_ENV") == "production" {
		envFile = PROD_ENV_FILENAME
	}

	// Load the specified .env file
	err := godotenv.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load %s file: %v", envFile, err)
	}

	return nil
}

// GetEnv fetches a required environment variable.
func GetEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("GetEnv: %s environment variable not set", name)
	}

	return value, nil
}
