package tui

import (
	"fmt"

	"github.com/andy/invoicedesk/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenInvoices
	ScreenCreate
	ScreenSettings
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "Login"
	case ScreenDashboard:
		return "Dashboard"
	case ScreenInvoices:
		return "Invoices"
	case ScreenCreate:
		return "New Invoice"
	case ScreenSettings:
		return "Settings"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model. It guards navigation behind the
// session: until a user is logged in, every route leads to the login
// screen.
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	login     tea.Model
	dashboard tea.Model
	invoices  tea.Model
	create    tea.Model
	settings  tea.Model

	err error
}

// New creates a new root model
func New(a *app.App) Model {
	m := Model{app: a}
	if a.Session.LoggedIn() {
		m.currentScreen = ScreenDashboard
		m.dashboard = NewDashboardModel(a)
	} else {
		m.currentScreen = ScreenLogin
		m.login = NewLoginModel(a)
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if screen := m.activeScreen(); screen != nil {
		return screen.Init()
	}
	return nil
}

func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenLogin:
		return m.login
	case ScreenDashboard:
		return m.dashboard
	case ScreenInvoices:
		return m.invoices
	case ScreenCreate:
		return m.create
	case ScreenSettings:
		return m.settings
	}
	return nil
}

// switchTo activates a screen, lazily constructing it on first visit and
// refreshing its data on later ones. The create screen always starts from
// a fresh draft.
func (m *Model) switchTo(screen Screen) tea.Cmd {
	if screen != ScreenLogin && !m.app.Session.LoggedIn() {
		screen = ScreenLogin
	}
	m.currentScreen = screen

	switch screen {
	case ScreenLogin:
		if m.login == nil {
			m.login = NewLoginModel(m.app)
			return m.login.Init()
		}
		return nil
	case ScreenDashboard:
		if m.dashboard == nil {
			m.dashboard = NewDashboardModel(m.app)
			return m.dashboard.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenInvoices:
		if m.invoices == nil {
			m.invoices = NewInvoicesModel(m.app)
			return m.invoices.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenCreate:
		m.create = NewCreateModel(m.app)
		return m.create.Init()
	case ScreenSettings:
		if m.settings == nil {
			m.settings = NewSettingsModel(m.app)
			return m.settings.Init()
		}
		return nil
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input
// (text forms). When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Dashboard):
				return m, m.switchTo(ScreenDashboard)

			case key.Matches(msg, DefaultKeyMap.Invoices):
				return m, m.switchTo(ScreenInvoices)

			case key.Matches(msg, DefaultKeyMap.Create):
				if m.currentScreen != ScreenInvoices {
					// The invoices screen uses 'n' for its own flow
					return m, m.switchTo(ScreenCreate)
				}

			case key.Matches(msg, DefaultKeyMap.Settings):
				return m, m.switchTo(ScreenSettings)

			case key.Matches(msg, DefaultKeyMap.Logout):
				if m.app.Session.LoggedIn() {
					_ = m.app.Session.Logout()
					m.login = NewLoginModel(m.app)
					return m, m.switchTo(ScreenLogin)
				}
			}
		}

	case LoggedInMsg:
		m.dashboard = nil // force a reload with the new user
		return m, m.switchTo(ScreenDashboard)

	case AuthExpiredMsg:
		m.app.Session.Invalidate()
		m.login = NewLoginModelWithNotice(m.app, "Session expired. Please sign in again.")
		return m, m.switchTo(ScreenLogin)

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenLogin:
		if m.login != nil {
			m.login, cmd = m.login.Update(msg)
		}
	case ScreenDashboard:
		if m.dashboard != nil {
			m.dashboard, cmd = m.dashboard.Update(msg)
		}
	case ScreenInvoices:
		if m.invoices != nil {
			m.invoices, cmd = m.invoices.Update(msg)
		}
	case ScreenCreate:
		if m.create != nil {
			m.create, cmd = m.create.Update(msg)
		}
	case ScreenSettings:
		if m.settings != nil {
			m.settings, cmd = m.settings.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders banners + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var s string

	if !m.app.Session.BackendUp() && !m.app.Config.Backend.Demo {
		s += disconnectedStyle.Render(fmt.Sprintf(
			"⚠ Cannot connect to backend at %s", m.app.Config.Backend.BaseURL)) + "\n"
	}

	s += headerStyle.Render(fmt.Sprintf("invoicedesk - %s", m.currentScreen.String())) + "\n\n"

	if screen := m.activeScreen(); screen != nil {
		s += screen.View()
	} else {
		s += "Loading..."
	}

	s += "\n\n"
	if m.currentScreen == ScreenLogin {
		s += footerStyle.Render("[Q]uit")
	} else {
		s += footerStyle.Render("[D]ashboard  [I]nvoices  [N]ew Invoice  [,] Settings  [Ctrl+L] Logout  [Q]uit")
	}

	return s
}
