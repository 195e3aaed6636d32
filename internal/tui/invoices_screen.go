package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/app"
	"github.com/andy/invoicedesk/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type invoiceViewMode int

const (
	invoiceViewList invoiceViewMode = iota
	invoiceViewDetail
	invoiceViewConfirmDelete
)

// InvoicesModel displays invoices in list and detail views, with a
// client-side search box over the fetched list.
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []*domain.Invoice
	filtered  []*domain.Invoice
	cursor    int
	selected  *domain.Invoice
	loading   bool
	err       error
	statusMsg string

	searchInput   textinput.Model
	searchFocused bool

	// Set while a delete confirmation is pending
	deleteTarget *domain.Invoice
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
	err      error
}

type invoiceDetailMsg struct {
	invoice *domain.Invoice
	err     error
}

type statusChangedMsg struct {
	invoice *domain.Invoice
	err     error
}

// pdfActionMsg reports the outcome of an export/print/share action
type pdfActionMsg struct {
	action string
	path   string
	err    error
}

type deleteDoneMsg struct {
	number string
	err    error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "client, number, email, phone, or item description"
	search.CharLimit = 100
	search.Width = 56

	return &InvoicesModel{
		app:         a,
		mode:        invoiceViewList,
		loading:     true,
		searchInput: search,
	}
}

// IsCapturingInput returns true while the search box has focus
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.searchFocused
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		invoices, err := m.app.InvoiceService.List(ctx)
		if err != nil {
			return invoicesDataMsg{err: err}
		}
		return invoicesDataMsg{invoices: invoices}
	}
}

func (m *InvoicesModel) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		invoice, err := m.app.InvoiceService.Get(ctx, id)
		if err != nil {
			return invoiceDetailMsg{err: err}
		}
		return invoiceDetailMsg{invoice: invoice}
	}
}

func (m *InvoicesModel) changeStatus(id string, status domain.InvoiceStatus) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		invoice, err := m.app.InvoiceService.SetStatus(ctx, id, status)
		if err != nil {
			return statusChangedMsg{err: err}
		}
		return statusChangedMsg{invoice: invoice}
	}
}

func (m *InvoicesModel) runPDFAction(inv *domain.Invoice, action string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		switch action {
		case "print":
			return pdfActionMsg{action: action, err: m.app.InvoiceService.PrintPDF(ctx, inv)}
		case "share":
			path, err := m.app.InvoiceService.SharePDF(ctx, inv)
			return pdfActionMsg{action: action, path: path, err: err}
		default:
			path, err := m.app.InvoiceService.ExportPDF(ctx, inv)
			return pdfActionMsg{action: action, path: path, err: err}
		}
	}
}

func (m *InvoicesModel) deleteInvoice(inv *domain.Invoice) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		return deleteDoneMsg{
			number: inv.InvoiceNumber,
			err:    m.app.InvoiceService.Delete(ctx, inv.ID),
		}
	}
}

// applyFilter recomputes the visible subsequence from the search box
func (m *InvoicesModel) applyFilter() {
	m.filtered = domain.FilterInvoices(m.invoices, m.searchInput.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, func() tea.Msg { return AuthExpiredMsg{} }
		}
		m.err = msg.err
		m.invoices = msg.invoices
		m.applyFilter()
		return m, nil

	case invoiceDetailMsg:
		m.loading = false
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, func() tea.Msg { return AuthExpiredMsg{} }
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.invoice
		m.mode = invoiceViewDetail
		return m, nil

	case statusChangedMsg:
		m.loading = false
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, func() tea.Msg { return AuthExpiredMsg{} }
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.selected = msg.invoice
		m.statusMsg = fmt.Sprintf("Invoice %s marked as %s", msg.invoice.InvoiceNumber, msg.invoice.Status)
		return m, nil

	case pdfActionMsg:
		m.loading = false
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, func() tea.Msg { return AuthExpiredMsg{} }
		}
		if msg.err != nil {
			m.err = fmt.Errorf("%s failed: %w", msg.action, msg.err)
			return m, nil
		}
		switch msg.action {
		case "print":
			m.statusMsg = "Sent to printer"
		default:
			m.statusMsg = fmt.Sprintf("Saved %s", msg.path)
		}
		return m, nil

	case deleteDoneMsg:
		m.loading = false
		m.deleteTarget = nil
		m.mode = invoiceViewList
		m.selected = nil
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, func() tea.Msg { return AuthExpiredMsg{} }
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Invoice %s deleted", msg.number)
		m.loading = true
		return m, m.loadInvoices()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		if m.searchFocused {
			return m.updateSearch(msg)
		}

		switch m.mode {
		case invoiceViewList:
			return m.updateList(msg)
		case invoiceViewDetail:
			return m.updateDetail(msg)
		case invoiceViewConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
	}

	// Forward non-key messages to the search input (cursor blink)
	if m.searchFocused {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *InvoicesModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchFocused = false
		m.searchInput.Blur()
		return m, nil
	case "enter":
		m.searchFocused = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil

	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Search):
		m.searchFocused = true
		m.statusMsg = ""
		return m, m.searchInput.Focus()
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(m.filtered) > 0 {
			m.loading = true
			return m, m.loadDetail(m.filtered[m.cursor].ID)
		}
	case key.Matches(msg, DefaultKeyMap.Delete):
		if len(m.filtered) > 0 {
			m.deleteTarget = m.filtered[m.cursor]
			m.mode = invoiceViewConfirmDelete
		}
	case msg.String() == "e":
		if len(m.filtered) > 0 {
			m.loading = true
			return m, m.runPDFAction(m.filtered[m.cursor], "export")
		}
	case msg.String() == "p":
		if len(m.filtered) > 0 {
			m.loading = true
			return m, m.runPDFAction(m.filtered[m.cursor], "print")
		}
	case msg.String() == "r":
		m.loading = true
		m.statusMsg = ""
		return m, m.loadInvoices()
	case msg.String() == "n":
		return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenCreate} }
	case msg.String() == "c":
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.applyFilter()
		}
	}

	return m, nil
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inv := m.selected
	if inv == nil {
		m.mode = invoiceViewList
		return m, nil
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.mode = invoiceViewList
		m.selected = nil
		m.statusMsg = ""
		m.loading = true
		return m, m.loadInvoices()
	case key.Matches(msg, DefaultKeyMap.Delete):
		m.deleteTarget = inv
		m.mode = invoiceViewConfirmDelete
	case msg.String() == "m":
		// Advance one step: draft goes out, sent gets paid
		switch inv.Status {
		case domain.InvoiceStatusDraft:
			m.loading = true
			return m, m.changeStatus(inv.ID, domain.InvoiceStatusSent)
		case domain.InvoiceStatusSent:
			m.loading = true
			return m, m.changeStatus(inv.ID, domain.InvoiceStatusPaid)
		}
	case msg.String() == "e":
		m.loading = true
		return m, m.runPDFAction(inv, "export")
	case msg.String() == "p":
		m.loading = true
		return m, m.runPDFAction(inv, "print")
	case msg.String() == "s":
		m.loading = true
		return m, m.runPDFAction(inv, "share")
	}

	return m, nil
}

func (m *InvoicesModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.loading = true
		return m, m.deleteInvoice(m.deleteTarget)
	case "n", "N", "esc":
		m.deleteTarget = nil
		if m.selected != nil {
			m.mode = invoiceViewDetail
		} else {
			m.mode = invoiceViewList
		}
	}
	return m, nil
}

func (m *InvoicesModel) View() string {
	if m.loading {
		return "Loading..."
	}

	switch m.mode {
	case invoiceViewDetail:
		return m.viewDetail()
	case invoiceViewConfirmDelete:
		return m.viewConfirmDelete()
	default:
		return m.viewList()
	}
}

func (m *InvoicesModel) viewList() string {
	var s string
	s += titleStyle.Render("Invoices") + "\n\n"

	if m.app.Config.Backend.Demo {
		s += demoBannerStyle.Render("  💡 Demo Mode: using sample data. Search works locally.") + "\n\n"
	}

	if m.statusMsg != "" {
		s += successStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
		s += helpStyle.Render("  r: retry") + "\n\n"
	}

	search := "  Search: " + m.searchInput.View()
	s += search + "\n"
	if q := m.searchInput.Value(); q != "" && !m.searchFocused {
		s += subtitleStyle.Render(fmt.Sprintf("  Found %d invoice(s) matching %q  (c: clear)", len(m.filtered), q)) + "\n"
	}
	s += "\n"

	if len(m.filtered) == 0 && m.err == nil {
		if m.searchInput.Value() != "" {
			s += subtitleStyle.Render("  No invoices found. Adjust the search or press 'c' to clear it.")
		} else {
			s += subtitleStyle.Render("  No invoices yet. Press 'n' to create one.")
		}
		return s
	}

	// Header
	s += subtitleStyle.Render(fmt.Sprintf(
		"  %-12s  %-22s  %-14s  %12s  %s",
		"Number", "Client", "Date", "Total", "Status",
	)) + "\n"

	for i, inv := range m.filtered {
		line := fmt.Sprintf("  %-12s  %-22s  %-14s  %12s  %s",
			inv.InvoiceNumber,
			truncateStr(inv.To.Name, 22),
			formatDate(inv.Date),
			formatMoney(inv.Total),
			statusBadge(inv.Status),
		)

		if i == m.cursor && !m.searchFocused {
			s += selectedStyle.Render(line) + "\n"
		} else {
			s += line + "\n"
		}
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: detail  /: search  n: new  e: pdf  p: print  x: delete  r: refresh")

	return s
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected
	if inv == nil {
		return "No invoice selected"
	}

	var s string
	s += titleStyle.Render(fmt.Sprintf("Invoice #%s", inv.InvoiceNumber)) + "\n\n"

	if m.statusMsg != "" {
		s += successStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += fmt.Sprintf("  Status:   %s\n", statusBadge(inv.Status))
	s += fmt.Sprintf("  Date:     %s\n", formatDate(inv.Date))
	if inv.DueDate != "" {
		s += fmt.Sprintf("  Due:      %s\n", formatDate(inv.DueDate))
	}
	if !inv.CreatedAt.IsZero() {
		s += fmt.Sprintf("  Created:  %s\n", inv.CreatedAt.Format("Jan 02, 2006"))
	}
	s += "\n"

	s += renderParty("From", inv.From)
	s += renderParty("To", inv.To)

	// Line items
	s += subtitleStyle.Render(fmt.Sprintf(
		"  %-36s  %6s  %12s  %12s",
		"Description", "Qty", "Price", "Total",
	)) + "\n"
	for _, item := range inv.Items {
		s += fmt.Sprintf("  %-36s  %6d  %12s  %12s\n",
			truncateStr(item.Description, 36),
			item.Quantity,
			formatMoney(item.Price),
			formatMoney(item.Total),
		)
	}

	s += "\n"
	s += fmt.Sprintf("  Subtotal:     %12s\n", formatMoney(inv.Subtotal))
	s += fmt.Sprintf("  Tax (%.1f%%):  %12s\n", inv.TaxRate, formatMoney(inv.TaxAmount))
	s += titleStyle.Render(fmt.Sprintf("  Total:        %12s", formatMoney(inv.Total))) + "\n"

	if inv.Notes != "" {
		s += "\n" + subtitleStyle.Render("  Notes:") + "\n"
		s += "  " + inv.Notes + "\n"
	}

	help := "  esc: back  e: pdf  p: print  s: share  x: delete"
	switch inv.Status {
	case domain.InvoiceStatusDraft:
		help += "  m: mark sent"
	case domain.InvoiceStatusSent:
		help += "  m: mark paid"
	}
	s += "\n" + helpStyle.Render(help)

	return s
}

func (m *InvoicesModel) viewConfirmDelete() string {
	inv := m.deleteTarget
	if inv == nil {
		return m.viewList()
	}

	var s string
	s += titleStyle.Render("Confirm Delete") + "\n\n"
	s += fmt.Sprintf("  Delete invoice #%s (%s, %s)?\n",
		inv.InvoiceNumber, inv.To.Name, formatMoney(inv.Total))
	s += errorStyle.Render("  This action cannot be undone.") + "\n\n"
	s += helpStyle.Render("  y: delete  n/esc: cancel")
	return s
}

func renderParty(label string, p domain.PartyInfo) string {
	s := subtitleStyle.Render("  "+label+":") + "\n"
	s += "  " + p.Name + "\n"
	for _, line := range []string{p.Address, p.City, p.Phone, p.Email} {
		if line != "" {
			s += "  " + line + "\n"
		}
	}
	return s + "\n"
}

// statusBadge renders an invoice status with color
func statusBadge(status domain.InvoiceStatus) string {
	switch status {
	case domain.InvoiceStatusDraft:
		return subtitleStyle.Render("DRAFT")
	case domain.InvoiceStatusSent:
		return warningStyle.Render("SENT")
	case domain.InvoiceStatusPaid:
		return successStyle.Render("PAID")
	case domain.InvoiceStatusOverdue:
		return errorStyle.Render("OVERDUE")
	default:
		return string(status)
	}
}
