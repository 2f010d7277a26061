package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

var (
	typeFilters   = []transaction.Type{"", transaction.TypeSale, transaction.TypePurchase, transaction.TypeProforma, transaction.TypeReceipt, transaction.TypePayment, transaction.TypeJournal}
	statusFilters = []transaction.Status{"", transaction.StatusDraft, transaction.StatusIssued, transaction.StatusCancelled}
	periodFilters = []Period{PeriodAll, PeriodThisMonth, PeriodLastMonth, PeriodThisQuarter, PeriodFinancialYear}
)

// ListModel is the transaction register of the selected company.
type ListModel struct {
	CommonModel
	txService *transaction.Service
	companyID uuid.UUID

	table table.Model
	txs   []*transaction.Transaction

	typeIdx   int
	statusIdx int
	periodIdx int

	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service, companyID uuid.UUID) ListModel {
	columns := []table.Column{
		{Title: "Number", Width: 11},
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 9},
		{Title: "Status", Width: 10},
		{Title: "Party", Width: 28},
		{Title: "Tax", Width: 14},
		{Title: "Total", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	return ListModel{
		txService: txSvc,
		companyID: companyID,
		table:     t,
		loading:   true,
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return s
}

func (m ListModel) Title() string { return "Transaction Register" }

func (m ListModel) ShortHelp() string {
	return "Esc: back | Enter: open | i: issue | c: cancel | x: delete | t/s/p: filters | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case listActionMsg:
		m.status = msg.done
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "t":
			m.typeIdx = (m.typeIdx + 1) % len(typeFilters)
			return m, m.loadTxsCmd()
		case "s":
			m.statusIdx = (m.statusIdx + 1) % len(statusFilters)
			return m, m.loadTxsCmd()
		case "p":
			m.periodIdx = (m.periodIdx + 1) % len(periodFilters)
			return m, m.loadTxsCmd()
		case "enter":
			if tx := m.selected(); tx != nil && tx.Type.HasLines() {
				return m, func() tea.Msg { return EditTransactionMsg{ID: tx.ID} }
			}

			return m, nil
		case "i":
			return m, m.statusCmd(transaction.StatusIssued)
		case "c":
			return m, m.statusCmd(transaction.StatusCancelled)
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [s] Status: %s | [p] Period: %s",
		activeStyle(filterLabel(string(typeFilters[m.typeIdx]))),
		activeStyle(filterLabel(string(statusFilters[m.statusIdx]))),
		activeStyle(periodFilters[m.periodIdx].String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func filterLabel(s string) string {
	if s == "" {
		return "All"
	}

	return s
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m ListModel) filter() transaction.ListFilter {
	f := transaction.ListFilter{CompanyID: &m.companyID}

	if t := typeFilters[m.typeIdx]; t != "" {
		f.Type = &t
	}

	if s := statusFilters[m.statusIdx]; s != "" {
		f.Status = &s
	}

	if p := periodFilters[m.periodIdx]; p != PeriodAll {
		start, end := PeriodRange(p, time.Now())
		f.StartDate = &start
		f.EndDate = &end
	}

	return f
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		party := tx.PartyName
		if party == "" {
			party = "-"
		}

		rows = append(rows, table.Row{
			tx.Number,
			FormatDate(tx.Date),
			string(tx.Type),
			string(tx.Status),
			party,
			FormatAmount(tx.Totals.TaxAmount),
			FormatMoney(tx.Totals.InvoiceTotal),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter()

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, filter)

		return loadListMsg{txs: txs, err: err}
	}
}

type listActionMsg struct {
	done string
	err  error
}

func (m ListModel) statusCmd(status transaction.Status) tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.txService.UpdateStatus(ctx, tx.ID, status)

		return listActionMsg{done: fmt.Sprintf("%s marked %s.", tx.Number, status), err: err}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		err := m.txService.Delete(ctx, tx.ID)

		return listActionMsg{done: fmt.Sprintf("%s deleted.", tx.Number), err: err}
	}
}
