package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/gstbook/internal/hsn"
)

// HSNModel looks up the HSN/SAC code learned for a description and teaches
// new ones.
type HSNModel struct {
	CommonModel
	hsnService *hsn.Service

	descInput  textinput.Model
	codeInput  textinput.Model
	focusIndex int

	suggestion string
	status     string
}

func NewHSNModel(svc *hsn.Service) HSNModel {
	di := textinput.New()
	di.Placeholder = "e.g. TMT steel bar 12mm"
	di.Prompt = "Description: "
	di.Width = 50
	di.Focus()

	ci := textinput.New()
	ci.Placeholder = "7214"
	ci.Prompt = "HSN/SAC:     "
	ci.CharLimit = 11
	ci.Width = 12

	return HSNModel{
		hsnService: svc,
		descInput:  di,
		codeInput:  ci,
	}
}

func (m HSNModel) Title() string { return "HSN/SAC Codes" }

func (m HSNModel) ShortHelp() string {
	return "Tab: switch field | Enter: look up / learn | Esc: back"
}

func (m HSNModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m HSNModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case hsnLookupMsg:
		m.suggestion = msg.code
		m.status = ""

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else if msg.code == "" {
			m.status = "No learned code matches. Enter one to teach it."
		} else {
			m.codeInput.SetValue(msg.code)
		}

		return m, nil

	case hsnLearnMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Learned %q → %s.", msg.mapping.RawPattern, msg.mapping.Code)
		m.suggestion = msg.mapping.Code

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "tab", "shift+tab":
			m.focusIndex = (m.focusIndex + 1) % 2
			return m, m.focus()
		case "enter":
			desc := strings.TrimSpace(m.descInput.Value())
			if m.focusIndex == 0 {
				return m, m.lookupCmd(desc)
			}

			return m, m.learnCmd(desc, m.codeInput.Value())
		}
	}

	var d, c tea.Cmd

	m.descInput, d = m.descInput.Update(msg)
	m.codeInput, c = m.codeInput.Update(msg)

	return m, tea.Batch(d, c)
}

func (m *HSNModel) focus() tea.Cmd {
	m.descInput.Blur()
	m.codeInput.Blur()

	if m.focusIndex == 0 {
		return m.descInput.Focus()
	}

	return m.codeInput.Focus()
}

func (m HSNModel) View() string {
	suggestion := "-"
	if m.suggestion != "" {
		suggestion = activeStyle(m.suggestion)
	}

	body := fmt.Sprintf("%s\n%s\n\nSuggested code: %s", m.descInput.View(), m.codeInput.View(), suggestion)

	if m.status != "" {
		body += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
	}

	return lipgloss.NewStyle().Padding(2).Render("HSN/SAC Lookup\n\n" + body)
}

// Messages

type hsnLookupMsg struct {
	code string
	err  error
}

func (m HSNModel) lookupCmd(desc string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		code, err := m.hsnService.Suggest(ctx, desc)

		return hsnLookupMsg{code: code, err: err}
	}
}

type hsnLearnMsg struct {
	mapping *hsn.Mapping
	err     error
}

func (m HSNModel) learnCmd(desc, code string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		mapping, err := m.hsnService.Learn(ctx, desc, code)

		return hsnLearnMsg{mapping: mapping, err: err}
	}
}
