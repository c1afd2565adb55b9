package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	HTTPAddr string

	DBType     string // file, sqlite, postgres
	DBDSN      string
	SQLitePath string
	DataDir    string

	AuthMode  string // static, jwt
	APIToken  string
	JWTSecret string

	// User schedule, minutes from midnight. Consumed by reminder planning.
	WakeMinutes   int
	BedMinutes    int
	ReminderSlots int
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8088"),
		DBType:        getEnv("STORAGE_BACKEND", "file"),
		DBDSN:         getEnv("POSTGRES_DSN", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "data/habitat.db"),
		DataDir:       getEnv("DATA_DIR", "data"),
		AuthMode:      getEnv("AUTH_MODE", "static"),
		APIToken:      getEnv("API_TOKEN", "MOCK-TOKEN"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		WakeMinutes:   getEnvInt("WAKE_MINUTES", 8*60),
		BedMinutes:    getEnvInt("BED_MINUTES", 23*60),
		ReminderSlots: getEnvInt("REMINDER_SLOTS", 3),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "postgres":
		if c.DBDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "file":
		if c.DataDir == "" {
			return errors.New("DATA_DIR is required when STORAGE_BACKEND=file")
		}
	default:
		return errors.New("STORAGE_BACKEND must be one of: file, sqlite, postgres")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	switch c.AuthMode {
	case "static":
		if c.APIToken == "" {
			return errors.New("API_TOKEN is required when AUTH_MODE=static")
		}
	case "jwt":
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	default:
		return errors.New("AUTH_MODE must be one of: static, jwt")
	}
	if c.WakeMinutes < 0 || c.WakeMinutes > 24*60 || c.BedMinutes < 0 || c.BedMinutes > 24*60 {
		return errors.New("WAKE_MINUTES and BED_MINUTES must be within a single day")
	}
	if c.WakeMinutes >= c.BedMinutes {
		return errors.New("WAKE_MINUTES must be before BED_MINUTES")
	}
	if c.ReminderSlots < 1 {
		return errors.New("REMINDER_SLOTS must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
