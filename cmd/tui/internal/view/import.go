package view

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/gstbook/internal/company"
	"github.com/MrJamesThe3rd/gstbook/internal/importer"
	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStatePreview
	importStateResult
)

// ImportModel reads an item sheet into a draft document and hands it to the
// invoice editor. Nothing is saved until the editor saves it.
type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service
	company       *company.Company

	state      importState
	filePicker filepicker.Model

	doc       *lineitem.Document
	changes   lineitem.Changes
	anomalies []lineitem.Anomaly

	status string
	err    error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service, c *company.Company) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		txService:     txSvc,
		importService: impSvc,
		company:       c,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Line Items" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStatePreview {
		return "Enter: open in editor | Esc: pick another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m.handleEsc()
		case tea.KeyEnter:
			if m.state == importStatePreview {
				doc := m.doc
				return m, func() tea.Msg { return EditDocumentMsg{Doc: doc} }
			}
		}

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.doc = msg.doc
		m.changes = msg.changes
		m.anomalies = msg.anomalies
		m.state = importStatePreview

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.status = ""
		m.doc = nil

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select item sheet to import for %s:\n\n%s", m.company.Name, m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStatePreview:
		return m.viewPreview()
	case importStateResult:
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) + "\n\n(Esc to go back)",
		)
	}

	return ""
}

func (m ImportModel) viewPreview() string {
	t := m.doc.Totals

	body := fmt.Sprintf(
		"Lines: %d\nValues filled in: %d\n\nSub Total:     %s\nTax:           %s\nInvoice Total: %s",
		len(m.doc.Lines), len(m.changes),
		FormatMoney(t.SubTotal), FormatMoney(t.TaxAmount), FormatMoney(t.InvoiceTotal),
	)

	if len(m.anomalies) > 0 {
		warn := fmt.Sprintf("\n\n%d lines need attention before saving.", len(m.anomalies))
		body += lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(warn)
	}

	return lipgloss.NewStyle().Padding(2).Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("Import Preview") + "\n\n" + body +
			"\n\n(Enter to open in editor, Esc to pick another file)",
	)
}

// Messages

type importResultMsg struct {
	doc       *lineitem.Document
	changes   lineitem.Changes
	anomalies []lineitem.Anomaly
	err       error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	companyID := m.company.ID

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		doc, err := m.importService.Import(importer.FormatGeneric, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		enabled, err := m.txService.TaxEnabled(ctx, companyID)
		if err != nil {
			return importResultMsg{err: err}
		}

		doc.TaxEnabled = enabled
		changes, anomalies := m.txService.Preview(doc)

		return importResultMsg{doc: doc, changes: changes, anomalies: anomalies}
	}
}
