package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/medifront/frontdesk-backend/internal/bedpool"
	"github.com/medifront/frontdesk-backend/internal/pkg/dates"
)

const PROD_STRING = "prod"

// Store drivers.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	LogLevel     string

	StoreDriver string
	DataDir     string // file driver
	DBDSN       string // postgres driver

	BedIDs []string

	SlotStart    string
	SlotEnd      string
	SlotInterval time.Duration
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Log level (default: info)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Snapshot store driver (default: file)
	cfg.StoreDriver = getEnv("STORE_DRIVER", StoreFile)
	switch cfg.StoreDriver {
	case StoreMemory, StoreFile:
	case StorePostgres:
		cfg.DBDSN = os.Getenv("DB_DSN")
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	cfg.DataDir = getEnv("DATA_DIR", "./data")

	// Bed catalogue: explicit csv wins, otherwise BED_COUNT stock ids.
	if ids := getEnv("BED_IDS", ""); ids != "" {
		cfg.BedIDs = splitCSV(ids)
	} else {
		count, err := getEnvAsInt("BED_COUNT", 20)
		if err != nil {
			return nil, fmt.Errorf("invalid BED_COUNT: %w", err)
		}
		cfg.BedIDs = bedpool.DefaultIDs(count)
	}

	// Bookable slot window (defaults: 09:00-17:00 every 30m).
	cfg.SlotStart = getEnv("SLOT_START", "09:00")
	cfg.SlotEnd = getEnv("SLOT_END", "17:00")
	for _, v := range []string{cfg.SlotStart, cfg.SlotEnd} {
		if _, err := dates.ParseClock(v); err != nil {
			return nil, fmt.Errorf("invalid slot window: %w", err)
		}
	}

	intervalStr := getEnv("SLOT_INTERVAL", "30m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SLOT_INTERVAL: %w", err)
	}
	cfg.SlotInterval = interval

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
