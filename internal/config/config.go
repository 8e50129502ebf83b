package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver    string
	DatabaseURL string
	DBTimeout   time.Duration

	ServerAddr      string
	BaseURL         string
	SessionLifetime time.Duration

	DiscordKey    string
	DiscordSecret string
	GoogleKey     string
	GoogleSecret  string

	Archive ArchiveConfig
}

// ArchiveConfig points at an S3-compatible bucket. An empty Bucket disables archiving.
type ArchiveConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
}

func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// Load reads the environment, with an optional .env file for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:    getEnv("DB_DRIVER", "sqlite3"),
		DatabaseURL: getEnv("DATABASE_URL", "sabo_arena.db"),
		ServerAddr:  getEnv("SERVER_ADDR", ":8080"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		DiscordKey:    os.Getenv("DISCORD_KEY"),
		DiscordSecret: os.Getenv("DISCORD_SECRET"),
		GoogleKey:     os.Getenv("GOOGLE_KEY"),
		GoogleSecret:  os.Getenv("GOOGLE_SECRET"),

		Archive: ArchiveConfig{
			Endpoint:  os.Getenv("ARCHIVE_ENDPOINT"),
			Bucket:    os.Getenv("ARCHIVE_BUCKET"),
			AccessKey: os.Getenv("ARCHIVE_ACCESS_KEY"),
			SecretKey: os.Getenv("ARCHIVE_SECRET_KEY"),
			Region:    getEnv("ARCHIVE_REGION", "auto"),
		},
	}

	if cfg.DBDriver != "sqlite3" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q, expected sqlite3 or postgres", cfg.DBDriver)
	}

	var err error
	if cfg.DBTimeout, err = getDuration("DB_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionLifetime, err = getDuration("SESSION_LIFETIME", 24*time.Hour); err != nil {
		return nil, err
	}

	if cfg.Archive.Enabled() && (cfg.Archive.AccessKey == "" || cfg.Archive.SecretKey == "") {
		return nil, fmt.Errorf("ARCHIVE_BUCKET is set but ARCHIVE_ACCESS_KEY or ARCHIVE_SECRET_KEY is missing")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}
