package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/export"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

type exportState int

const (
	exportStatePeriod exportState = iota
	exportStatePath
	exportStateExporting
	exportStateResult
)

const exportTimeout = 2 * time.Minute

// ExportModel writes the transaction register of a period to a directory.
type ExportModel struct {
	CommonModel
	exportService *export.Service
	companyID     uuid.UUID

	state  exportState
	err    error
	picker PeriodPicker

	selection PeriodSelectedMsg

	form    *huh.Form
	spinner spinner.Model
	dir     string
	summary string
}

func NewExportModel(svc *export.Service, companyID uuid.UUID) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		companyID:     companyID,
		state:         exportStatePeriod,
		picker:        NewPeriodPicker(PeriodLastMonth),
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export Register" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sel, ok := msg.(PeriodSelectedMsg); ok {
		m.selection = sel
		m.form = buildPathForm()
		m.state = exportStatePath

		return m, m.form.Init()
	}

	switch m.state {
	case exportStatePeriod:
		return m.updatePeriod(msg)
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exportStatePeriod
		m.picker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.dir = strings.TrimSpace(m.form.GetString("path"))
	if m.dir == "" {
		m.dir = "./exports"
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd())
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.summary = result.body

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports"),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Writing register to %s...", m.spinner.View(), m.dir),
		)
	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			fmt.Sprintf("Written to %s", m.dir),
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	body string
	err  error
}

func (m ExportModel) runExportCmd() tea.Cmd {
	filter := transaction.ListFilter{CompanyID: &m.companyID}
	if !m.selection.All {
		start, end := m.selection.Start, m.selection.End
		filter.StartDate = &start
		filter.EndDate = &end
	}

	dir := m.dir

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		body, err := m.writeExport(ctx, filter, dir)

		return exportResultMsg{body: body, err: err}
	}
}

func (m ExportModel) writeExport(ctx context.Context, filter transaction.ListFilter, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "register.csv"))
	if err != nil {
		return "", fmt.Errorf("creating register file: %w", err)
	}
	defer f.Close()

	txs, err := m.exportService.Export(ctx, filter, f)
	if err != nil {
		return "", err
	}

	summary := m.exportService.Summary(txs)
	if err := os.WriteFile(filepath.Join(dir, "summary.txt"), []byte(summary), 0o644); err != nil {
		return "", fmt.Errorf("writing summary: %w", err)
	}

	return summary, nil
}
