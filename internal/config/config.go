package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	StoreDriver     string
	DBDSN           string
	ServerPort      string
	SessionSecret   string
	AdminSecret     string
	AdminSecretHash string
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		StoreDriver:     os.Getenv("STORE_DRIVER"),
		DBDSN:           os.Getenv("DB_DSN"),
		ServerPort:      os.Getenv("SERVER_PORT"),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		AdminSecret:     os.Getenv("ADMIN_SECRET"),
		AdminSecretHash: os.Getenv("ADMIN_SECRET_HASH"),
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = DriverPostgres
	}
	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DBDSN == "" {
			return nil, errors.New("DB_DSN is not set")
		}
	case DriverSQLite:
		if cfg.DBDSN == "" {
			cfg.DBDSN = "agency.db"
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER %q is not supported (postgres, sqlite, memory)", cfg.StoreDriver)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET is not set")
	}
	if cfg.AdminSecret == "" && cfg.AdminSecretHash == "" {
		return nil, errors.New("ADMIN_SECRET or ADMIN_SECRET_HASH is not set")
	}

	return cfg, nil
}
