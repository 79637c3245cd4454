package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CATALOG_DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("CATALOG_JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":8081" {
		t.Errorf("HTTPAddr = %q, want :8081", cfg.HTTPAddr)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.BackupInterval != 0 {
		t.Errorf("BackupInterval = %v, want 0 (disabled)", cfg.BackupInterval)
	}
	if cfg.BackupS3Region != "us-east-1" {
		t.Errorf("BackupS3Region = %q, want us-east-1", cfg.BackupS3Region)
	}
}

func TestLoad_RequiredVars(t *testing.T) {
	t.Setenv("CATALOG_DATABASE_URL", "")
	t.Setenv("CATALOG_JWT_SECRET", "s3cret")
	if _, err := Load(); err == nil {
		t.Error("Load() without CATALOG_DATABASE_URL succeeded, want error")
	}

	t.Setenv("CATALOG_DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("CATALOG_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("Load() without CATALOG_JWT_SECRET succeeded, want error")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CATALOG_DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("CATALOG_JWT_SECRET", "s3cret")
	t.Setenv("CATALOG_HTTP_ADDR", ":9000")
	t.Setenv("CATALOG_TOKEN_TTL", "15m")
	t.Setenv("CATALOG_BACKUP_INTERVAL", "5m")
	t.Setenv("CATALOG_BACKUP_S3_BUCKET", "backups")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.TokenTTL != 15*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.BackupInterval != 5*time.Minute || cfg.BackupS3Bucket != "backups" {
		t.Errorf("backup cfg = %+v", cfg)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("CATALOG_DATABASE_URL", "postgres://localhost/catalog")
	t.Setenv("CATALOG_JWT_SECRET", "s3cret")
	t.Setenv("CATALOG_TOKEN_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Error("Load() with bad CATALOG_TOKEN_TTL succeeded, want error")
	}
}
