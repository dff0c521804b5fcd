package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Port string
	}
	DB struct {
		Path string
	}
	Report struct {
		Dir      string
		Timezone *time.Location
	}
	Seed struct {
		AdminUsername string
		AdminEmail    string
		AdminPassword string
	}
	Store struct {
		WhatsAppPhone string
	}
	Session struct {
		Path string
	}
}

// Load reads configuration from the environment, optionally loading a .env
// file first. Missing optional values fall back to defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		err := godotenv.Load(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.App.Port = getenv("APP_PORT", "8080")
	cfg.DB.Path = getenv("DB_PATH", "frutilize.db")
	cfg.Report.Dir = getenv("REPORTS_DIR", ".")
	cfg.Seed.AdminUsername = getenv("ADMIN_USERNAME", "admin")
	cfg.Seed.AdminEmail = getenv("ADMIN_EMAIL", "admin@frutilize.com")
	cfg.Seed.AdminPassword = getenv("ADMIN_PASSWORD", "0406")
	cfg.Store.WhatsAppPhone = getenv("STORE_PHONE", "5521968982850")
	cfg.Session.Path = getenv("SESSIONS_PATH", "sessions.json")

	tzName := getenv("TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tzName, err)
	}
	cfg.Report.Timezone = loc

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
