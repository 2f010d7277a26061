package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/gstbook/internal/company"
)

type companyState int

const (
	companyStateList companyState = iota
	companyStateCreate
)

type companyItem struct {
	c *company.Company
}

func (i companyItem) Title() string { return i.c.Name }

func (i companyItem) Description() string {
	if !i.c.TaxRegistered() {
		return "Unregistered (no GST)"
	}

	return fmt.Sprintf("GSTIN %s | State %s", i.c.GSTIN, i.c.StateCode)
}

func (i companyItem) FilterValue() string { return i.c.Name }

// CompanyModel lists companies, lets the user pick one and registers new ones.
type CompanyModel struct {
	CommonModel
	companyService *company.Service

	state companyState
	list  list.Model
	form  *huh.Form

	status string
}

func NewCompanyModel(svc *company.Service) CompanyModel {
	l := list.New([]list.Item{}, companyDelegate{}, 60, 16)
	l.Title = "Companies"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return CompanyModel{
		companyService: svc,
		list:           l,
	}
}

func (m CompanyModel) Title() string { return "Select Company" }

func (m CompanyModel) ShortHelp() string {
	if m.state == companyStateCreate {
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | Enter: select | n: new company | /: filter"
}

func (m CompanyModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m CompanyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCompaniesMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		items := make([]list.Item, len(msg.companies))
		for i, c := range msg.companies {
			items[i] = companyItem{c: c}
		}

		m.list.SetItems(items)

		if len(items) == 0 {
			m.status = "No companies yet. Press n to add one."
		}

		return m, nil

	case createCompanyMsg:
		m.state = companyStateList
		m.form = nil

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Added %s.", msg.company.Name)

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if m.state == companyStateCreate {
		return m.updateCreate(msg)
	}

	return m.updateList(msg)
}

func (m CompanyModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "n":
			return m.startCreate()
		case "enter":
			selected, ok := m.list.SelectedItem().(companyItem)
			if !ok {
				return m, nil
			}

			return m, func() tea.Msg { return CompanySelectedMsg{Company: selected.c} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m CompanyModel) startCreate() (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Company Name").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("gstin").
				Title("GSTIN (leave empty if unregistered)").
				Placeholder("27AAPFU0939F1ZV").
				Validate(func(s string) error {
					_, err := company.NormalizeGSTIN(s)
					return err
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.state = companyStateCreate

	return m, m.form.Init()
}

func (m CompanyModel) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = companyStateList
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.createCmd(m.form.GetString("name"), m.form.GetString("gstin"))
}

func (m CompanyModel) View() string {
	if m.state == companyStateCreate && m.form != nil {
		return lipgloss.NewStyle().Padding(1).Render("New Company\n\n" + m.form.View())
	}

	statusLine := ""
	if m.status != "" {
		statusLine = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
}

// Messages

type loadCompaniesMsg struct {
	companies []*company.Company
	err       error
}

func (m CompanyModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		companies, err := m.companyService.List(ctx)

		return loadCompaniesMsg{companies: companies, err: err}
	}
}

type createCompanyMsg struct {
	company *company.Company
	err     error
}

func (m CompanyModel) createCmd(name, gstin string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		c, err := m.companyService.Create(ctx, company.CreateParams{Name: name, GSTIN: gstin})

		return createCompanyMsg{company: c, err: err}
	}
}

type companyDelegate struct{}

func (d companyDelegate) Height() int                             { return 2 }
func (d companyDelegate) Spacing() int                            { return 0 }
func (d companyDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d companyDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(companyItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}
