//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fallbackKeyring stores the token in a mode-0600 file under the user's
// config directory. The INVOICEDESK_TOKEN environment variable, when set,
// takes precedence and is read-only.
type fallbackKeyring struct{}

func newPlatformKeyring() Keyring {
	return &fallbackKeyring{}
}

func tokenFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", ServiceName, TokenName)
}

// GetToken reads the token from the environment or the token file
func (k *fallbackKeyring) GetToken() (string, error) {
	if token := os.Getenv("INVOICEDESK_TOKEN"); token != "" {
		return token, nil
	}

	data, err := os.ReadFile(tokenFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New("no stored session")
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", errors.New("stored session token is empty")
	}

	return token, nil
}

// SetToken writes the token file, creating the config directory if needed
func (k *fallbackKeyring) SetToken(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}

	path := tokenFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// DeleteToken removes the token file
func (k *fallbackKeyring) DeleteToken() error {
	if err := os.Remove(tokenFilePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}

// IsAvailable reports whether a token source exists
func (k *fallbackKeyring) IsAvailable() bool {
	if os.Getenv("INVOICEDESK_TOKEN") != "" {
		return true
	}
	_, err := os.Stat(tokenFilePath())
	return err == nil
}
