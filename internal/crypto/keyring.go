package crypto

// Keyring provides secure storage for the backend session token.
// It is the terminal-app equivalent of browser local storage: the token
// lives under a fixed key and is cleared on logout or verification failure.
type Keyring interface {
	GetToken() (string, error)
	SetToken(token string) error
	DeleteToken() error
	IsAvailable() bool
}

const (
	ServiceName = "invoicedesk"
	TokenName   = "session-token"
)

// NewKeyring returns the best available keyring implementation
func NewKeyring() Keyring {
	return newPlatformKeyring()
}
