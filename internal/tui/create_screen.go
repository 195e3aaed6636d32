package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/andy/invoicedesk/internal/api"
	"github.com/andy/invoicedesk/internal/app"
	"github.com/andy/invoicedesk/internal/domain"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// fixed form field indices; item fields follow in groups of three
const (
	createFieldToName = iota
	createFieldToAddress
	createFieldToCity
	createFieldToPhone
	createFieldToEmail
	createFieldDate
	createFieldDueDate
	createFieldTaxRate
	createFieldNotes
	createFixedCount
)

const itemFieldsPerRow = 3

type invoiceCreatedMsg struct {
	invoice *domain.Invoice
	err     error
}

// CreateModel is the new-invoice form. It holds a draft whose totals are
// recomputed on every quantity, price, or tax rate keystroke, so the
// rendered subtotal/tax/total always match what submission would send.
type CreateModel struct {
	app        *app.App
	draft      *domain.Draft
	fields     []textinput.Model
	fieldFocus int
	submitting bool
	err        error
}

// NewCreateModel creates a new invoice form seeded with a fresh draft
func NewCreateModel(a *app.App) tea.Model {
	m := &CreateModel{
		app:   a,
		draft: a.InvoiceService.NewDraft(),
	}
	m.initForm()
	return m
}

// IsCapturingInput always returns true; the whole screen is a form
func (m *CreateModel) IsCapturingInput() bool {
	return true
}

func (m *CreateModel) Init() tea.Cmd {
	return textinput.Blink
}

func newFormInput(placeholder string, limit, width int, value string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = width
	in.SetValue(value)
	return in
}

func (m *CreateModel) initForm() {
	m.fields = make([]textinput.Model, createFixedCount)

	m.fields[createFieldToName] = newFormInput("Client name", 100, 40, "")
	m.fields[createFieldToAddress] = newFormInput("Street address", 200, 40, "")
	m.fields[createFieldToCity] = newFormInput("City, State ZIP", 100, 40, "")
	m.fields[createFieldToPhone] = newFormInput("Phone", 30, 24, "")
	m.fields[createFieldToEmail] = newFormInput("client@example.com", 100, 40, "")
	m.fields[createFieldDate] = newFormInput("YYYY-MM-DD", 10, 14, m.draft.Date)
	m.fields[createFieldDueDate] = newFormInput("YYYY-MM-DD", 10, 14, "")
	m.fields[createFieldTaxRate] = newFormInput("0-100", 6, 8, fmt.Sprintf("%g", m.draft.TaxRate))
	m.fields[createFieldNotes] = newFormInput("Payment terms, thank-you note, ...", 500, 60, "")

	for i := range m.draft.Items {
		m.appendItemInputs(m.draft.Items[i])
	}

	m.fieldFocus = createFieldToName
	m.fields[createFieldToName].Focus()
}

func (m *CreateModel) appendItemInputs(item domain.LineItem) {
	qty := ""
	if item.Quantity != 0 {
		qty = fmt.Sprintf("%d", item.Quantity)
	}
	price := ""
	if item.Price != 0 {
		price = fmt.Sprintf("%g", item.Price)
	}
	m.fields = append(m.fields,
		newFormInput("Description", 200, 36, item.Description),
		newFormInput("Qty", 6, 6, qty),
		newFormInput("0.00", 12, 10, price),
	)
}

// itemRow maps a field index to its item row, or -1 for fixed fields
func itemRow(fieldIndex int) int {
	if fieldIndex < createFixedCount {
		return -1
	}
	return (fieldIndex - createFixedCount) / itemFieldsPerRow
}

// syncField writes the focused input's value into the draft. Quantity,
// price, and tax rate go through the draft's setters so the totals stay
// current.
func (m *CreateModel) syncField() {
	value := m.fields[m.fieldFocus].Value()

	switch m.fieldFocus {
	case createFieldToName:
		m.draft.To.Name = value
	case createFieldToAddress:
		m.draft.To.Address = value
	case createFieldToCity:
		m.draft.To.City = value
	case createFieldToPhone:
		m.draft.To.Phone = value
	case createFieldToEmail:
		m.draft.To.Email = value
	case createFieldDate:
		m.draft.Date = value
	case createFieldDueDate:
		m.draft.DueDate = value
	case createFieldTaxRate:
		m.draft.SetTaxRate(value)
	case createFieldNotes:
		m.draft.Notes = value
	default:
		row := itemRow(m.fieldFocus)
		switch (m.fieldFocus - createFixedCount) % itemFieldsPerRow {
		case 0:
			m.draft.SetItemDescription(row, value)
		case 1:
			m.draft.SetItemQuantity(row, value)
		case 2:
			m.draft.SetItemPrice(row, value)
		}
	}
}

func (m *CreateModel) submit() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		invoice, err := m.app.InvoiceService.Submit(ctx, m.draft)
		if err != nil {
			return invoiceCreatedMsg{err: err}
		}
		return invoiceCreatedMsg{invoice: invoice}
	}
}

func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoiceCreatedMsg:
		m.submitting = false
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return m, func() tea.Msg { return AuthExpiredMsg{} }
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenInvoices} }

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		m.err = nil

		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenInvoices} }

		case "tab", "down", "enter":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % len(m.fields)
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + len(m.fields)) % len(m.fields)
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+n":
			m.draft.AddItem()
			m.fields[m.fieldFocus].Blur()
			m.appendItemInputs(m.draft.Items[len(m.draft.Items)-1])
			// Jump to the new row's description
			m.fieldFocus = createFixedCount + (len(m.draft.Items)-1)*itemFieldsPerRow
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+x":
			row := itemRow(m.fieldFocus)
			if row >= 0 && len(m.draft.Items) > 1 {
				m.draft.RemoveItem(row)
				start := createFixedCount + row*itemFieldsPerRow
				m.fields = append(m.fields[:start], m.fields[start+itemFieldsPerRow:]...)
				if m.fieldFocus >= len(m.fields) {
					m.fieldFocus = len(m.fields) - 1
				}
				return m, m.fields[m.fieldFocus].Focus()
			}
			return m, nil

		case "ctrl+s":
			m.submitting = true
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	m.syncField()
	return m, cmd
}

func (m *CreateModel) View() string {
	var s string
	s += titleStyle.Render("New Invoice") + "\n\n"

	if m.submitting {
		return s + "  Submitting..."
	}

	focusedLabel := lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	label := func(i int, text string) string {
		if i == m.fieldFocus {
			return "> " + focusedLabel.Render(text)
		}
		return "  " + subtitleStyle.Render(text)
	}

	s += subtitleStyle.Render("  Bill To") + "\n"
	s += fmt.Sprintf("%s %s\n", label(createFieldToName, "Name:   "), m.fields[createFieldToName].View())
	s += fmt.Sprintf("%s %s\n", label(createFieldToAddress, "Address:"), m.fields[createFieldToAddress].View())
	s += fmt.Sprintf("%s %s\n", label(createFieldToCity, "City:   "), m.fields[createFieldToCity].View())
	s += fmt.Sprintf("%s %s\n", label(createFieldToPhone, "Phone:  "), m.fields[createFieldToPhone].View())
	s += fmt.Sprintf("%s %s\n", label(createFieldToEmail, "Email:  "), m.fields[createFieldToEmail].View())
	s += "\n"

	s += fmt.Sprintf("%s %s   %s %s   %s %s\n\n",
		label(createFieldDate, "Date:"), m.fields[createFieldDate].View(),
		label(createFieldDueDate, "Due:"), m.fields[createFieldDueDate].View(),
		label(createFieldTaxRate, "Tax %:"), m.fields[createFieldTaxRate].View(),
	)

	s += subtitleStyle.Render("  Items") + "\n"
	for row := range m.draft.Items {
		base := createFixedCount + row*itemFieldsPerRow
		s += fmt.Sprintf("%s %s  %s %s  %s %s  = %s\n",
			label(base, fmt.Sprintf("%d.", row+1)), m.fields[base].View(),
			label(base+1, "Qty:"), m.fields[base+1].View(),
			label(base+2, "Price:"), m.fields[base+2].View(),
			formatMoney(m.draft.Items[row].Total),
		)
	}
	s += "\n"

	s += fmt.Sprintf("%s %s\n\n", label(createFieldNotes, "Notes:"), m.fields[createFieldNotes].View())

	s += fmt.Sprintf("  Subtotal: %s   Tax: %s   ", formatMoney(m.draft.Subtotal), formatMoney(m.draft.TaxAmount))
	s += titleStyle.Render(fmt.Sprintf("Total: %s", formatMoney(m.draft.Total))) + "\n"

	if m.err != nil {
		s += "\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n"
	}

	s += "\n" + helpStyle.Render("  tab: next field  ctrl+n: add item  ctrl+x: remove item  ctrl+s: create  esc: cancel")

	return s
}
