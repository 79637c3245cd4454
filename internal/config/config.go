package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	DatabaseURL string        // CATALOG_DATABASE_URL (required)
	HTTPAddr    string        // CATALOG_HTTP_ADDR (default ":8081")
	NATSURL     string        // CATALOG_NATS_URL (optional, empty = no live events)
	JWTSecret   string        // CATALOG_JWT_SECRET (required)
	TokenTTL    time.Duration // CATALOG_TOKEN_TTL (default 24h)

	// Backup settings
	BackupInterval   time.Duration // CATALOG_BACKUP_INTERVAL (default 0 = disabled)
	BackupS3Bucket   string        // CATALOG_BACKUP_S3_BUCKET (enables S3 when set)
	BackupS3Endpoint string        // CATALOG_BACKUP_S3_ENDPOINT (custom endpoint for MinIO)
	BackupS3Region   string        // CATALOG_BACKUP_S3_REGION (default "us-east-1")
	BackupS3Key      string        // CATALOG_BACKUP_S3_KEY (default "catalog/backup.jsonl")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:      os.Getenv("CATALOG_DATABASE_URL"),
		HTTPAddr:         envOrDefault("CATALOG_HTTP_ADDR", ":8081"),
		NATSURL:          os.Getenv("CATALOG_NATS_URL"),
		JWTSecret:        os.Getenv("CATALOG_JWT_SECRET"),
		BackupS3Bucket:   os.Getenv("CATALOG_BACKUP_S3_BUCKET"),
		BackupS3Endpoint: os.Getenv("CATALOG_BACKUP_S3_ENDPOINT"),
		BackupS3Region:   envOrDefault("CATALOG_BACKUP_S3_REGION", "us-east-1"),
		BackupS3Key:      envOrDefault("CATALOG_BACKUP_S3_KEY", "catalog/backup.jsonl"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("CATALOG_DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("CATALOG_JWT_SECRET is required")
	}

	ttl, err := time.ParseDuration(envOrDefault("CATALOG_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("CATALOG_TOKEN_TTL: %w", err)
	}
	c.TokenTTL = ttl

	if v := os.Getenv("CATALOG_BACKUP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("CATALOG_BACKUP_INTERVAL: %w", err)
		}
		c.BackupInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
