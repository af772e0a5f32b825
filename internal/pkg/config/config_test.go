package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != "http://localhost:3001" {
		t.Errorf("unexpected api url: %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.StorageBackend != StorageSQLite {
		t.Errorf("unexpected backend: %s", cfg.StorageBackend)
	}
	if cfg.SearchMinLength != 2 {
		t.Errorf("unexpected search min length: %d", cfg.SearchMinLength)
	}
	if cfg.SQLitePath == "" {
		t.Error("expected a default sqlite path")
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected redis addr: %s", cfg.Redis.Addr)
	}
	if cfg.Redis.Prefix != "blog:" {
		t.Errorf("unexpected redis prefix: %s", cfg.Redis.Prefix)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"BLOG_API_URL":    "http://api.test",
		"STORAGE_BACKEND": "redis",
		"PREFERS_DARK":    "true",
		"SQLITE_PATH":     "/tmp/x.db",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://api.test" || cfg.StorageBackend != StorageRedis || !cfg.PrefersDark {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SQLitePath != "/tmp/x.db" {
		t.Fatalf("unexpected sqlite path: %s", cfg.SQLitePath)
	}
}

func TestLoadFrom_UnknownBackend(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"STORAGE_BACKEND": "floppy",
	}))
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
