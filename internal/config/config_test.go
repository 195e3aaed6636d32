package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend.BaseURL != "http://localhost:5000/api" {
		t.Errorf("base URL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSeconds != 10 {
		t.Errorf("timeout = %d, want 10", cfg.Backend.TimeoutSeconds)
	}
	if cfg.Invoice.DefaultTaxRate != 10 {
		t.Errorf("tax rate = %v, want 10", cfg.Invoice.DefaultTaxRate)
	}
	if cfg.Backend.Demo {
		t.Error("demo mode must be off by default")
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
backend:
  base_url: https://billing.example.com/api
  demo: true
invoice:
  default_tax_rate: 8.25
company:
  name: My Co
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend.BaseURL != "https://billing.example.com/api" {
		t.Errorf("base URL = %q", cfg.Backend.BaseURL)
	}
	if !cfg.Backend.Demo {
		t.Error("expected demo mode enabled")
	}
	if cfg.Invoice.DefaultTaxRate != 8.25 {
		t.Errorf("tax rate = %v, want 8.25", cfg.Invoice.DefaultTaxRate)
	}
	if cfg.Company.Name != "My Co" {
		t.Errorf("company name = %q", cfg.Company.Name)
	}
	// Unset fields keep their defaults
	if cfg.Backend.TimeoutSeconds != 10 {
		t.Errorf("timeout = %d, want default 10", cfg.Backend.TimeoutSeconds)
	}
}

func TestLoad_EnvOverridesBaseURL(t *testing.T) {
	t.Setenv("INVOICEDESK_API_URL", "http://env.example.com/api")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.BaseURL != "http://env.example.com/api" {
		t.Errorf("base URL = %q, want env override", cfg.Backend.BaseURL)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Company.Name = "Roundtrip Co"
	cfg.Invoice.DefaultTaxRate = 5

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Company.Name != "Roundtrip Co" {
		t.Errorf("company name = %q", loaded.Company.Name)
	}
	if loaded.Invoice.DefaultTaxRate != 5 {
		t.Errorf("tax rate = %v, want 5", loaded.Invoice.DefaultTaxRate)
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := &Config{Backend: BackendConfig{TimeoutSeconds: 3}}
	if cfg.RequestTimeout() != 3*time.Second {
		t.Errorf("timeout = %v, want 3s", cfg.RequestTimeout())
	}
}
