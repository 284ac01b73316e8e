package config

import (
	"testing"
	"time"

	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "merchant-api")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("MAX_PAGE_SIZE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Metrics.Prefix != "merchant_api" {
		t.Fatalf("expected metrics prefix merchant_api, got %s", cfg.Metrics.Prefix)
	}
	if cfg.Listing.MaxPageSize != 100 {
		t.Fatalf("expected max page size 100, got %d", cfg.Listing.MaxPageSize)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected 10s shutdown timeout, got %s", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_UnsupportedDriverIsRejected(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestLoad_SQLiteDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/merchants.db")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:5173, http://localhost:3000,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DB.Driver != DriverSQLite {
		t.Fatalf("expected sqlite driver, got %s", cfg.DB.Driver)
	}
	if dsn := cfg.DB.GetDSN(); dsn != "/tmp/merchants.db" {
		t.Fatalf("expected sqlite path as DSN, got %s", dsn)
	}
	if len(cfg.Server.AllowOrigins) != 2 || cfg.Server.AllowOrigins[1] != "http://localhost:3000" {
		t.Fatalf("unexpected origins: %v", cfg.Server.AllowOrigins)
	}
}

func TestGetEnvAsLogLevel(t *testing.T) {
	t.Setenv("DB_LOG_LEVEL", "silent")
	if lvl := getEnvAsLogLevel("DB_LOG_LEVEL", logger.Info); lvl != logger.Silent {
		t.Fatalf("expected silent, got %v", lvl)
	}
	t.Setenv("DB_LOG_LEVEL", "bogus")
	if lvl := getEnvAsLogLevel("DB_LOG_LEVEL", logger.Info); lvl != logger.Info {
		t.Fatalf("expected default on unknown level, got %v", lvl)
	}
}
