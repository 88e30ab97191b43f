package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Errorf("expected postgres driver, got %s", cfg.Store.Driver)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected 24h token ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.TokenTransport != TransportCookie {
		t.Errorf("expected cookie transport, got %s", cfg.Auth.TokenTransport)
	}
	if cfg.Catalog.DefaultPageSize != 10 || cfg.Catalog.MaxPageSize != 100 {
		t.Errorf("unexpected page sizes: %+v", cfg.Catalog)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis must be disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoad_RejectsUnknownValues(t *testing.T) {
	tests := map[string]string{
		"STORE_DRIVER":      "sqlite",
		"TOKEN_TRANSPORT":   "query",
		"DEFAULT_PAGE_SIZE": "500",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(key, val)
			if _, err := Load(context.Background()); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
