package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Backend connection settings
	Backend BackendConfig `yaml:"backend"`

	// Invoice defaults
	Invoice InvoiceConfig `yaml:"invoice"`

	// Company info that seeds the bill-from party on new drafts
	Company CompanyConfig `yaml:"company"`
}

type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`        // Backend API base URL
	TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request timeout
	Demo           bool   `yaml:"demo"`            // Use the in-memory demo backend
}

type InvoiceConfig struct {
	DefaultTaxRate float64 `yaml:"default_tax_rate"` // Percent (10 = 10%)
	OutputDir      string  `yaml:"output_dir"`       // Directory for exported PDFs
}

type CompanyConfig struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	City    string `yaml:"city"`
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
}

// DefaultConfigPath returns ~/.config/invoicedesk/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "invoicedesk", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "invoicedesk", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Backend: BackendConfig{
			BaseURL:        "http://localhost:5000/api",
			TimeoutSeconds: 10,
		},
		Invoice: InvoiceConfig{
			DefaultTaxRate: 10,
			OutputDir:      filepath.Join(homeDir, ".config", "invoicedesk", "invoices"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// The INVOICEDESK_API_URL environment variable overrides the configured base URL.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if url := os.Getenv("INVOICEDESK_API_URL"); url != "" {
		cfg.Backend.BaseURL = url
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 10
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the PDF output directory
func (c *Config) EnsureDirectories() error {
	return os.MkdirAll(c.Invoice.OutputDir, 0755)
}

// RequestTimeout returns the per-request timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}
