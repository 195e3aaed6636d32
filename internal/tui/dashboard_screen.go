package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/app"
	"github.com/andy/invoicedesk/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DashboardModel is the home screen: a welcome line and quick stats
// computed from the fetched invoice list.
type DashboardModel struct {
	app   *app.App
	stats *service.DashboardStats

	loading bool
	err     error
}

type dashboardDataMsg struct {
	stats *service.DashboardStats
	err   error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := m.app.InvoiceService.Stats(ctx)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		return dashboardDataMsg{stats: stats}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, func() tea.Msg { return AuthExpiredMsg{} }
		}
		m.err = msg.err
		m.stats = msg.stats
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			m.loading = true
			return m, m.loadData()
		}
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	var s string

	if user := m.app.Session.User(); user != nil {
		role := ""
		if user.Role != "" {
			role = "  " + selectedStyle.Render(" "+user.Role+" ")
		}
		s += fmt.Sprintf("  Welcome, %s%s\n\n", user.Email, role)
	}

	if m.app.Config.Backend.Demo {
		s += demoBannerStyle.Render("  💡 Demo Mode: using sample data, no backend required") + "\n\n"
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
		s += helpStyle.Render("  r: retry")
		return s
	}

	if m.stats != nil {
		box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
		cards := lipgloss.JoinHorizontal(lipgloss.Top,
			box.Render(fmt.Sprintf("Invoices\n%d", m.stats.TotalInvoices)),
			" ",
			box.Render(fmt.Sprintf("Revenue\n%s", formatMoney(m.stats.TotalRevenue))),
			" ",
			box.Render(fmt.Sprintf("Pending\n%d", m.stats.PendingCount)),
		)
		s += cards + "\n\n"
	}

	s += subtitleStyle.Render("  Create itemized invoices, browse and search them,") + "\n"
	s += subtitleStyle.Render("  change their status, and export or print PDFs.") + "\n"

	return s
}
