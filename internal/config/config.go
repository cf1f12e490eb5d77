package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the terminal backend
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	POS      POSConfig
}

type AppConfig struct {
	Port          string
	StorageDriver string // memory or postgres
	CORSOrigins   string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

type AuthConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	ManagerPIN   string
	ApprovalTTL  time.Duration
	SeedPassword string // password of the demo employees created on an empty store
}

type POSConfig struct {
	// TaxRate overrides the stored store tax percent at startup when set.
	TaxRate *decimal.Decimal
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Port:          getEnv("PORT", "3000"),
			StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverMemory)),
			CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "ayaat_pos"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			TimeZone: getEnv("DB_TIMEZONE", "Asia/Dhaka"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
			ManagerPIN:   getEnv("MANAGER_PIN", "8888"),
			SeedPassword: getEnv("SEED_PASSWORD", "admin123"),
		},
	}

	var err error
	if cfg.Auth.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.Auth.ApprovalTTL, err = time.ParseDuration(getEnv("APPROVAL_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("APPROVAL_TTL: %w", err)
	}

	if raw := getEnv("TAX_RATE", ""); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("TAX_RATE: %w", err)
		}
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("TAX_RATE: %s is outside 0..100", raw)
		}
		cfg.POS.TaxRate = &rate
	}

	switch cfg.App.StorageDriver {
	case DriverMemory, DriverPostgres:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER: unknown driver %q", cfg.App.StorageDriver)
	}
	return cfg, nil
}

// DSN returns DATABASE_URL when set, otherwise a key/value DSN built from DB_*.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode, c.TimeZone)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
