package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PeriodSelectedMsg is emitted when the user has selected a valid date range.
// Start and End are zero values when All is true.
type PeriodSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

type pickerState int

const (
	pickerStateSelect pickerState = iota
	pickerStateCustom
)

// PeriodPicker lets the user choose a reporting period or type a custom range.
type PeriodPicker struct {
	state    pickerState
	selected Period

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewPeriodPicker(initial Period) PeriodPicker {
	si := textinput.New()
	si.Placeholder = "YYYY-MM-DD"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "From: "

	ei := textinput.New()
	ei.Placeholder = "YYYY-MM-DD"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "To:   "

	return PeriodPicker{
		state:      pickerStateSelect,
		selected:   initial,
		startInput: si,
		endInput:   ei,
	}
}

func (m PeriodPicker) Init() tea.Cmd {
	return nil
}

func (m PeriodPicker) Update(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.state == pickerStateSelect {
			return m.updateSelect(keyMsg)
		}

		if next, cmd, handled := m.updateCustom(keyMsg); handled {
			return next, cmd
		}
	}

	if m.state == pickerStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m PeriodPicker) updateSelect(msg tea.KeyMsg) (PeriodPicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > PeriodThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < PeriodCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case PeriodCustom:
			m.state = pickerStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		case PeriodAll:
			return m, func() tea.Msg { return PeriodSelectedMsg{All: true} }
		}

		start, end := PeriodRange(m.selected, time.Now())

		return m, func() tea.Msg { return PeriodSelectedMsg{Start: start, End: end} }
	}

	return m, nil
}

func (m PeriodPicker) updateCustom(msg tea.KeyMsg) (PeriodPicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		start, end, err := parseRange(m.startInput.Value(), m.endInput.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil

		return m, func() tea.Msg { return PeriodSelectedMsg{Start: start, End: end} }, true

	case "esc":
		m.state = pickerStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.DateOnly, strings.TrimSpace(from))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid start date (YYYY-MM-DD)")
	}

	end, err := time.Parse(time.DateOnly, strings.TrimSpace(to))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("end date is before start date")
	}

	start, end = NormalizeDateRange(start, end)

	return start, end, nil
}

func (m PeriodPicker) updateInputs(msg tea.Msg) (PeriodPicker, tea.Cmd) {
	var s, e tea.Cmd

	m.startInput, s = m.startInput.Update(msg)
	m.endInput, e = m.endInput.Update(msg)

	return m, tea.Batch(s, e)
}

func (m PeriodPicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == pickerStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.startInput.View(),
			m.endInput.View(),
			errStr,
		)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Select Period (%s):\n\n", FinancialYearLabel(time.Now()))

	for p := PeriodThisMonth; p <= PeriodCustom; p++ {
		cursor := " "
		if m.selected == p {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, p)
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	return b.String() + errStr
}

// IsSelecting reports whether the picker shows the period list rather than
// the custom range inputs.
func (m PeriodPicker) IsSelecting() bool {
	return m.state == pickerStateSelect
}

// Reset returns the picker to the period list.
func (m *PeriodPicker) Reset() {
	m.state = pickerStateSelect
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}
