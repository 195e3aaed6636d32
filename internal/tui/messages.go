package tui

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// AuthExpiredMsg signals that a request failed with an auth error; the
// root model clears the session and returns to the login screen.
type AuthExpiredMsg struct{}

// LoggedInMsg signals a successful login
type LoggedInMsg struct{}
