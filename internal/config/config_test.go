// ABOUTME: Tests for configuration loading and validation

package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CRMDESK_API_URL", "")
	t.Setenv("CRMDESK_TIMEOUT", "")
	t.Setenv("CRMDESK_CONFIG_DIR", "")
	t.Setenv("CRMDESK_CACHE_TTL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" {
		t.Errorf("expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("expected default timeout 30, got %d", cfg.RequestTimeout)
	}
	if cfg.CacheTTL != 300 {
		t.Errorf("expected default cache TTL 300, got %d", cfg.CacheTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CRMDESK_API_URL", "crm.internal:9090")
	t.Setenv("CRMDESK_TIMEOUT", "60")
	t.Setenv("CRMDESK_CONFIG_DIR", dir)
	t.Setenv("CRMDESK_CACHE_TTL", "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://crm.internal:9090" {
		t.Errorf("expected scheme added, got %s", cfg.APIURL)
	}
	if cfg.RequestTimeout != 60 {
		t.Errorf("expected timeout 60, got %d", cfg.RequestTimeout)
	}
	if cfg.ConfigDir != dir {
		t.Errorf("expected config dir %s, got %s", dir, cfg.ConfigDir)
	}
	if cfg.CacheTTL != 30 {
		t.Errorf("expected cache TTL 30, got %d", cfg.CacheTTL)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("CRMDESK_TIMEOUT", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for timeout below 1")
	}

	t.Setenv("CRMDESK_TIMEOUT", "9999")
	if _, err := Load(); err == nil {
		t.Error("expected error for timeout above 600")
	}
}

func TestLoad_InvalidCacheTTL(t *testing.T) {
	t.Setenv("CRMDESK_TIMEOUT", "")
	t.Setenv("CRMDESK_CACHE_TTL", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for non-positive cache TTL")
	}
}

func TestEnsureScheme(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"localhost:8080", "http://localhost:8080"},
		{"https://crm.example.com", "https://crm.example.com"},
		{"http://crm.example.com", "http://crm.example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ensureScheme(tt.in); got != tt.want {
			t.Errorf("ensureScheme(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got := DefaultConfigDir()
	if got != filepath.Join("/tmp/xdg", "crmdesk") {
		t.Errorf("expected XDG-based dir, got %s", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	got = DefaultConfigDir()
	if got != "" && !strings.HasSuffix(got, filepath.Join(".config", "crmdesk")) {
		t.Errorf("expected ~/.config/crmdesk fallback, got %s", got)
	}
}
