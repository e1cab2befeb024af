package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	HTTPPort string

	// Backup intervals for the scheduled scrapes. The daily sources also
	// run once at startup, so these only bound the staleness window.
	PricesInterval   time.Duration
	RashifalInterval time.Duration
	CalendarInterval time.Duration
	EventsInterval   time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DBHost:     envOrDefault("DB_HOST", "localhost"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     envOrDefault("DB_USERNAME", "postgres"),
		DBPassword: envOrDefault("DB_PASSWORD", "postgres"),
		DBName:     envOrDefault("DB_DATABASE", "nepalidata"),
		DBSSLMode:  envOrDefault("DB_SSLMODE", "disable"),
		HTTPPort:   envOrDefault("HTTP_PORT", "3000"),
	}

	var err error
	if cfg.PricesInterval, err = envOrDuration("PRICES_SCRAPE_INTERVAL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.RashifalInterval, err = envOrDuration("RASHIFAL_SCRAPE_INTERVAL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.CalendarInterval, err = envOrDuration("CALENDAR_SCRAPE_INTERVAL", 7*24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.EventsInterval, err = envOrDuration("EVENTS_SCRAPE_INTERVAL", 30*24*time.Hour); err != nil {
		return cfg, err
	}

	if cfg.DBHost == "" || cfg.DBUser == "" || cfg.DBName == "" {
		return cfg, errors.New("missing database configuration")
	}

	return cfg, nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
