package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_ENV", "local")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default HTTP_ADDR :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.StreamInterval != 5*time.Second {
		t.Fatalf("expected 5s stream interval, got %s", cfg.StreamInterval)
	}
	if cfg.Forms.BaseURL != "https://formspree.io" {
		t.Fatalf("expected default forms base url, got %s", cfg.Forms.BaseURL)
	}
	if cfg.Content.RedirectsCSV != "docs/migration/urls.csv" {
		t.Fatalf("expected default redirects csv, got %s", cfg.Content.RedirectsCSV)
	}
	if cfg.JWTSecret == "" {
		t.Fatalf("expected development secret outside prod")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FORMS_CONTACT_ID", "xcontact")
	t.Setenv("METRICS_STREAM_INTERVAL", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Fatalf("expected memory driver, got %s", cfg.Store.Driver)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("expected JWT_SECRET override, got %s", cfg.JWTSecret)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Fatalf("expected SESSION_TTL 30m, got %s", cfg.Session.TTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("expected two CORS origins, got %v", cfg.CORSOrigins)
	}
	if cfg.Forms.FormID("contact") != "xcontact" || cfg.Forms.FormID("volunteer") != "" {
		t.Fatalf("unexpected form ids %+v", cfg.Forms)
	}
	if cfg.StreamInterval != 250*time.Millisecond {
		t.Fatalf("expected 250ms stream interval, got %s", cfg.StreamInterval)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("STORE_DRIVER", "postgres")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown store driver")
	}

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing JWT_SECRET in prod")
	}
}
