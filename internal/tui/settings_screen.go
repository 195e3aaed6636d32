package tui

import (
	"fmt"
	"strconv"

	"github.com/andy/invoicedesk/internal/app"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type settingsMode int

const (
	settingsModeView settingsMode = iota
	settingsModeEdit
)

// settings form field indices
const (
	settingsFieldCompanyName = iota
	settingsFieldAddress
	settingsFieldCity
	settingsFieldPhone
	settingsFieldEmail
	settingsFieldOutputDir
	settingsFieldTaxRate
	settingsFieldCount
)

type settingsSavedMsg struct {
	err error
}

// SettingsModel manages the settings screen: the company profile used to
// seed the "bill from" party plus invoice defaults.
type SettingsModel struct {
	app        *app.App
	mode       settingsMode
	fields     []textinput.Model
	fieldFocus int
	err        error
	statusMsg  string
}

// NewSettingsModel creates a new settings screen
func NewSettingsModel(a *app.App) tea.Model {
	return &SettingsModel{
		app:  a,
		mode: settingsModeView,
	}
}

// IsCapturingInput returns true when the edit form is active
func (m *SettingsModel) IsCapturingInput() bool {
	return m.mode == settingsModeEdit
}

func (m *SettingsModel) Init() tea.Cmd {
	return nil
}

func (m *SettingsModel) initForm() {
	m.fields = make([]textinput.Model, settingsFieldCount)
	company := m.app.Config.Company
	invoice := m.app.Config.Invoice

	m.fields[settingsFieldCompanyName] = textinput.New()
	m.fields[settingsFieldCompanyName].Placeholder = "Your Company LLC"
	m.fields[settingsFieldCompanyName].CharLimit = 100
	m.fields[settingsFieldCompanyName].Width = 40
	m.fields[settingsFieldCompanyName].SetValue(company.Name)

	m.fields[settingsFieldAddress] = textinput.New()
	m.fields[settingsFieldAddress].Placeholder = "Street address"
	m.fields[settingsFieldAddress].CharLimit = 200
	m.fields[settingsFieldAddress].Width = 40
	m.fields[settingsFieldAddress].SetValue(company.Address)

	m.fields[settingsFieldCity] = textinput.New()
	m.fields[settingsFieldCity].Placeholder = "City, State ZIP"
	m.fields[settingsFieldCity].CharLimit = 100
	m.fields[settingsFieldCity].Width = 40
	m.fields[settingsFieldCity].SetValue(company.City)

	m.fields[settingsFieldPhone] = textinput.New()
	m.fields[settingsFieldPhone].Placeholder = "(555) 555-5555"
	m.fields[settingsFieldPhone].CharLimit = 30
	m.fields[settingsFieldPhone].Width = 24
	m.fields[settingsFieldPhone].SetValue(company.Phone)

	m.fields[settingsFieldEmail] = textinput.New()
	m.fields[settingsFieldEmail].Placeholder = "billing@example.com"
	m.fields[settingsFieldEmail].CharLimit = 100
	m.fields[settingsFieldEmail].Width = 40
	m.fields[settingsFieldEmail].SetValue(company.Email)

	m.fields[settingsFieldOutputDir] = textinput.New()
	m.fields[settingsFieldOutputDir].Placeholder = "/path/to/invoices"
	m.fields[settingsFieldOutputDir].CharLimit = 256
	m.fields[settingsFieldOutputDir].Width = 60
	m.fields[settingsFieldOutputDir].SetValue(invoice.OutputDir)

	m.fields[settingsFieldTaxRate] = textinput.New()
	m.fields[settingsFieldTaxRate].Placeholder = "10"
	m.fields[settingsFieldTaxRate].CharLimit = 6
	m.fields[settingsFieldTaxRate].Width = 10
	m.fields[settingsFieldTaxRate].SetValue(strconv.FormatFloat(invoice.DefaultTaxRate, 'f', -1, 64))

	m.fieldFocus = settingsFieldCompanyName
	m.fields[settingsFieldCompanyName].Focus()
}

func (m *SettingsModel) saveSettings() tea.Cmd {
	return func() tea.Msg {
		outputDir := m.fields[settingsFieldOutputDir].Value()
		taxRateStr := m.fields[settingsFieldTaxRate].Value()

		if outputDir == "" {
			return settingsSavedMsg{err: fmt.Errorf("output directory is required")}
		}

		taxRate, err := strconv.ParseFloat(taxRateStr, 64)
		if err != nil || taxRate < 0 || taxRate > 100 {
			return settingsSavedMsg{err: fmt.Errorf("tax rate must be between 0 and 100")}
		}

		m.app.Config.Company.Name = m.fields[settingsFieldCompanyName].Value()
		m.app.Config.Company.Address = m.fields[settingsFieldAddress].Value()
		m.app.Config.Company.City = m.fields[settingsFieldCity].Value()
		m.app.Config.Company.Phone = m.fields[settingsFieldPhone].Value()
		m.app.Config.Company.Email = m.fields[settingsFieldEmail].Value()
		m.app.Config.Invoice.OutputDir = outputDir
		m.app.Config.Invoice.DefaultTaxRate = taxRate

		if err := m.app.SaveConfig(); err != nil {
			return settingsSavedMsg{err: fmt.Errorf("failed to save config: %w", err)}
		}

		return settingsSavedMsg{}
	}
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.mode == settingsModeEdit {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch {
		case msg.String() == "enter":
			m.mode = settingsModeEdit
			m.statusMsg = ""
			m.initForm()
			return m, m.fields[m.fieldFocus].Focus()
		}
	}

	return m, nil
}

func (m *SettingsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = settingsModeView
		m.statusMsg = "Settings saved"
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.mode = settingsModeView
			m.err = nil
			return m, nil

		case "tab", "down":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus + 1) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "shift+tab", "up":
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus = (m.fieldFocus - 1 + settingsFieldCount) % settingsFieldCount
			return m, m.fields[m.fieldFocus].Focus()

		case "enter":
			if m.fieldFocus == settingsFieldCount-1 {
				return m, m.saveSettings()
			}
			m.fields[m.fieldFocus].Blur()
			m.fieldFocus++
			return m, m.fields[m.fieldFocus].Focus()

		case "ctrl+s":
			return m, m.saveSettings()
		}
	}

	// Update the focused text input
	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *SettingsModel) View() string {
	if m.mode == settingsModeEdit {
		return m.viewForm()
	}
	return m.viewSettings()
}

func (m *SettingsModel) viewSettings() string {
	var s string
	s += titleStyle.Render("Settings") + "\n\n"

	if m.statusMsg != "" {
		s += successStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	company := m.app.Config.Company
	invoice := m.app.Config.Invoice
	backend := m.app.Config.Backend

	labelStyle := lipgloss.NewStyle().Bold(true).Width(20)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)

	s += subtitleStyle.Render("  Company Profile") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Name:"), valueStyle.Render(company.Name))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Address:"), valueStyle.Render(company.Address))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("City:"), valueStyle.Render(company.City))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Phone:"), valueStyle.Render(company.Phone))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Email:"), valueStyle.Render(company.Email))

	s += "\n" + subtitleStyle.Render("  Invoice Defaults") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Output Directory:"), valueStyle.Render(invoice.OutputDir))
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Default Tax Rate:"), valueStyle.Render(fmt.Sprintf("%.2f%%", invoice.DefaultTaxRate)))

	s += "\n" + subtitleStyle.Render("  Backend") + "\n\n"
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("API URL:"), valueStyle.Render(backend.BaseURL))
	mode := "live"
	if backend.Demo {
		mode = "demo"
	}
	s += fmt.Sprintf("  %s %s\n", labelStyle.Render("Mode:"), valueStyle.Render(mode))

	s += "\n" + helpStyle.Render("  enter: edit settings")

	return s
}

func (m *SettingsModel) viewForm() string {
	var s string
	s += titleStyle.Render("Edit Settings") + "\n\n"

	labels := []string{
		"Company Name:", "Address:", "City:", "Phone:", "Email:",
		"Output Directory:", "Default Tax Rate (%):",
	}
	for i, label := range labels {
		indicator := "  "
		if i == m.fieldFocus {
			indicator = "> "
		}
		labelStyle := subtitleStyle
		if i == m.fieldFocus {
			labelStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
		}
		s += fmt.Sprintf("%s%s\n  %s\n\n", indicator, labelStyle.Render(label), m.fields[i].View())
	}

	if m.err != nil {
		s += errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	s += helpStyle.Render("  tab/shift+tab: navigate fields  ctrl+s: save  enter: next/save  esc: cancel")

	return s
}
