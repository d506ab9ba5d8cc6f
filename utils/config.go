// utils/config.go
package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port             string
	DatabaseURL      string
	GameServiceToken string
	AllowedOrigins   []string
	Plaid            PlaidConfig
	Ingest           IngestConfig
	Resync           ResyncConfig
	Archive          ArchiveConfig
}

type PlaidConfig struct {
	BaseURL  string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

type IngestConfig struct {
	DefaultCount int
	WindowDays   int
}

type ResyncConfig struct {
	Enabled  bool
	Interval time.Duration
}

type ArchiveConfig struct {
	Enabled         bool
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

// LoadConfig reads the environment (after godotenv has populated it) and validates it.
func LoadConfig() (*Config, error) {
	plaidTimeout, err := GetEnvDuration("PLAID_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	defaultCount, err := GetEnvInt("INGEST_DEFAULT_COUNT", 50)
	if err != nil {
		return nil, err
	}
	windowDays, err := GetEnvInt("INGEST_WINDOW_DAYS", 30)
	if err != nil {
		return nil, err
	}
	resyncInterval, err := GetEnvDuration("RESYNC_INTERVAL", 6*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             GetEnv("PORT", "5200"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GameServiceToken: os.Getenv("GAME_SERVICE_TOKEN"),
		AllowedOrigins:   splitList(GetEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		Plaid: PlaidConfig{
			BaseURL:  GetEnv("PLAID_BASE_URL", "https://sandbox.plaid.com"),
			ClientID: os.Getenv("PLAID_CLIENT_ID"),
			Secret:   os.Getenv("PLAID_SECRET"),
			Timeout:  plaidTimeout,
		},
		Ingest: IngestConfig{
			DefaultCount: defaultCount,
			WindowDays:   windowDays,
		},
		Resync: ResyncConfig{
			Enabled:  GetEnvBool("RESYNC_ENABLED", false),
			Interval: resyncInterval,
		},
		Archive: ArchiveConfig{
			Enabled:         GetEnvBool("WEBHOOK_ARCHIVE_ENABLED", false),
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.GameServiceToken == "" {
		return nil, fmt.Errorf("GAME_SERVICE_TOKEN environment variable not set")
	}
	if cfg.Plaid.ClientID == "" || cfg.Plaid.Secret == "" {
		return nil, fmt.Errorf("PLAID_CLIENT_ID and PLAID_SECRET are required")
	}
	if cfg.Ingest.DefaultCount <= 0 || cfg.Ingest.WindowDays <= 0 {
		return nil, fmt.Errorf("INGEST_DEFAULT_COUNT and INGEST_WINDOW_DAYS must be positive")
	}
	if cfg.Archive.Enabled && (cfg.Archive.AccountID == "" || cfg.Archive.Bucket == "") {
		return nil, fmt.Errorf("CLOUDFLARE_ACCOUNT_ID and R2_BUCKET_NAME are required when WEBHOOK_ARCHIVE_ENABLED=true")
	}

	return cfg, nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func GetEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// GetEnvBool accepts true/false, 1/0, yes/no (case-insensitive); anything else falls back.
func GetEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
