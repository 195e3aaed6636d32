package app

import (
	"context"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/config"
	"github.com/andy/invoicedesk/internal/crypto"
	"github.com/andy/invoicedesk/internal/service"
	"github.com/andy/invoicedesk/internal/session"
)

// App is the dependency injection container for all application components
type App struct {
	Config  *config.Config
	Keyring crypto.Keyring
	API     api.API
	Session *session.Session

	InvoiceService service.InvoiceService
}

// New creates a new App instance, initializing all dependencies:
// 1. Loading config
// 2. Selecting the API client (HTTP, or in-memory when demo mode is on)
// 3. Wiring the keyring-backed session
// 4. Creating services
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	var client api.API
	if cfg.Backend.Demo {
		client = api.NewDemoClient()
	} else {
		client = api.NewClient(cfg.Backend.BaseURL, cfg.RequestTimeout())
	}

	keyring := crypto.NewKeyring()
	sess := session.New(client, keyring)

	return &App{
		Config:         cfg,
		Keyring:        keyring,
		API:            client,
		Session:        sess,
		InvoiceService: service.NewInvoiceService(client, sess, cfg),
	}, nil
}

// Bootstrap probes the backend and tries to resume a stored session.
// An unreachable backend is not fatal: the session records the state and
// the UI shows a connectivity banner in its place.
func (a *App) Bootstrap(ctx context.Context) error {
	return a.Session.Bootstrap(ctx)
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
