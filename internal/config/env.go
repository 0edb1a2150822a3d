package config

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/cabinkeeper/internal/flagx"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const defaultDotenv = ".env"

// loadDotenv loads -env <path>, or ./.env when it exists. An explicit path
// that cannot be read is an error.
func loadDotenv(args []string) error {
	path := flagx.StringFlag(args, "env")
	if path == "" {
		if !fileExists(defaultDotenv) {
			return nil
		}
		path = defaultDotenv
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load dotenv %s: %w", path, err)
	}
	return nil
}

// parseEnv overlays cfg with environment variables. API_KEY wins over
// GEMINI_API_KEY when both are set.
func parseEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
		cfg.APIKey = v
	}
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
