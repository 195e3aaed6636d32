package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/app"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// login form field indices
const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldCount
)

// LoginModel is the sign-in form. When the backend is unreachable the
// form stays visible but submission is blocked.
type LoginModel struct {
	app        *app.App
	fields     []textinput.Model
	fieldFocus int
	submitting bool
	notice     string
	err        error
}

type loginResultMsg struct {
	err error
}

// NewLoginModel creates the login screen
func NewLoginModel(a *app.App) tea.Model {
	return newLoginModel(a, "")
}

// NewLoginModelWithNotice creates the login screen with an informational
// message, e.g. after a session expiry.
func NewLoginModelWithNotice(a *app.App, notice string) tea.Model {
	return newLoginModel(a, notice)
}

func newLoginModel(a *app.App, notice string) tea.Model {
	fields := make([]textinput.Model, loginFieldCount)

	fields[loginFieldEmail] = textinput.New()
	fields[loginFieldEmail].Placeholder = "admin@example.com"
	fields[loginFieldEmail].CharLimit = 100
	fields[loginFieldEmail].Width = 40
	fields[loginFieldEmail].Focus()

	fields[loginFieldPassword] = textinput.New()
	fields[loginFieldPassword].Placeholder = "password"
	fields[loginFieldPassword].CharLimit = 100
	fields[loginFieldPassword].Width = 40
	fields[loginFieldPassword].EchoMode = textinput.EchoPassword

	return &LoginModel{
		app:    a,
		fields: fields,
		notice: notice,
	}
}

// IsCapturingInput always returns true: the login form owns the keyboard
func (m *LoginModel) IsCapturingInput() bool {
	return true
}

func (m *LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *LoginModel) submit() tea.Cmd {
	email := m.fields[loginFieldEmail].Value()
	password := m.fields[loginFieldPassword].Value()

	return func() tea.Msg {
		ctx := context.Background()
		return loginResultMsg{err: m.app.Session.Login(ctx, email, password)}
	}
}

func (m *LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, api.ErrUnauthorized):
				m.err = fmt.Errorf("login failed: check your credentials")
			case errors.Is(msg.err, api.ErrUnreachable):
				m.err = fmt.Errorf("backend not available")
			default:
				m.err = msg.err
			}
			return m, nil
		}
		return m, func() tea.Msg { return LoggedInMsg{} }

	case tea.KeyMsg:
		if m.submitting {
			// Submission in flight: ignore input to prevent a double submit
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % loginFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + loginFieldCount) % loginFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == loginFieldEmail {
				m.fields[loginFieldEmail].Blur()
				m.fieldFocus = loginFieldPassword
				return m, m.fields[loginFieldPassword].Focus()
			}
			if !m.app.Session.BackendUp() {
				m.err = fmt.Errorf("backend not available: start the server and restart")
				return m, nil
			}
			if m.fields[loginFieldEmail].Value() == "" || m.fields[loginFieldPassword].Value() == "" {
				m.err = fmt.Errorf("email and password are required")
				return m, nil
			}
			m.err = nil
			m.submitting = true
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *LoginModel) View() string {
	var s string
	s += titleStyle.Render("Invoice Management System") + "\n"
	s += subtitleStyle.Render("  Administrator Login") + "\n\n"

	if m.notice != "" {
		s += subtitleStyle.Render("  "+m.notice) + "\n\n"
	}

	labels := []string{"Email:", "Password:"}
	for i, label := range labels {
		indicator := "  "
		if i == m.fieldFocus {
			indicator = "> "
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, label, m.fields[i].View())
	}

	if m.submitting {
		s += subtitleStyle.Render("  Signing in...") + "\n"
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  %v", m.err)) + "\n"
	}

	s += "\n" + helpStyle.Render("  tab: next field  enter: sign in")

	return s
}
