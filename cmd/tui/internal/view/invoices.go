package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/catalog"
	"github.com/MrJamesThe3rd/gstbook/internal/company"
	"github.com/MrJamesThe3rd/gstbook/internal/hsn"
	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

type editorState int

const (
	editorStateSetup editorState = iota
	editorStateLines
	editorStateCell
	editorStateCatalog
	editorStateLoading
)

// editColumn is a table column the user can edit. Numeric columns go
// through Document.Edit; text columns are written to the line directly.
type editColumn struct {
	title string
	field lineitem.Field
	text  string
}

const (
	textDescription = "description"
	textUnit        = "unit"
)

var editColumns = []editColumn{
	{title: "Item", text: textDescription},
	{title: "Qty", field: lineitem.FieldQuantity},
	{title: "Unit", text: textUnit},
	{title: "Price", field: lineitem.FieldPricePerUnit},
	{title: "Amount", field: lineitem.FieldAmount},
	{title: "Tax %", field: lineitem.FieldTaxRatePercent},
	{title: "Total", field: lineitem.FieldLineTotal},
}

func (c editColumn) appliesTo(l lineitem.Line) bool {
	if !l.IsService() {
		return true
	}

	return c.field != lineitem.FieldQuantity && c.field != lineitem.FieldPricePerUnit && c.text != textUnit
}

// InvoiceModel edits the line items of one transaction. Every edit runs
// through the reconciliation engine, so the table always shows converged values.
type InvoiceModel struct {
	CommonModel
	txService      *transaction.Service
	catalogService *catalog.Service
	hsnService     *hsn.Service
	company        *company.Company

	state editorState
	form  *huh.Form
	input textinput.Model
	table table.Model

	txID      uuid.UUID
	number    string
	txType    transaction.Type
	partyName string
	date      time.Time
	notes     string

	doc   *lineitem.Document
	items []*catalog.Item
	col   int

	status string
}

func NewInvoiceModel(
	txSvc *transaction.Service, catalogSvc *catalog.Service, hsnSvc *hsn.Service, c *company.Company,
) InvoiceModel {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Item", Width: 24},
		{Title: "Qty", Width: 7},
		{Title: "Unit", Width: 5},
		{Title: "Price", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Tax %", Width: 6},
		{Title: "Tax", Width: 10},
		{Title: "Total", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(tableStyles())

	ti := textinput.New()
	ti.Width = 30

	return InvoiceModel{
		txService:      txSvc,
		catalogService: catalogSvc,
		hsnService:     hsnSvc,
		company:        c,
		input:          ti,
		table:          t,
		txType:         transaction.TypeSale,
		date:           time.Now(),
		doc:            lineitem.NewDocument(c.TaxRegistered()),
	}
}

func (m InvoiceModel) Title() string { return "Invoice Editor" }

func (m InvoiceModel) ShortHelp() string {
	switch m.state {
	case editorStateLines:
		return "←/→: column | Enter: edit | a/s: add product/service | d: duplicate | x: remove | p: catalog | ctrl+s: save | Esc: back"
	case editorStateCell, editorStateCatalog:
		return "Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter/Tab: navigate form"
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.loadCatalogCmd()
}

// Start returns the editor ready to fill in a new transaction header.
func (m InvoiceModel) Start() (InvoiceModel, tea.Cmd) {
	m.state = editorStateSetup
	m.form = m.setupForm()

	return m, tea.Batch(m.form.Init(), m.loadCatalogCmd())
}

// Load opens a saved transaction.
func (m InvoiceModel) Load(id uuid.UUID) (InvoiceModel, tea.Cmd) {
	m.state = editorStateLoading
	return m, tea.Batch(m.loadTxCmd(id), m.loadCatalogCmd())
}

// Open starts a new sales invoice from an already reconciled document.
func (m InvoiceModel) Open(doc *lineitem.Document) (InvoiceModel, tea.Cmd) {
	m.doc = doc
	m.doc.SetTaxEnabled(m.company.TaxRegistered())
	m.txType = transaction.TypeSale
	m.state = editorStateLines
	m.status = fmt.Sprintf("Imported %d lines.", len(doc.Lines))
	m.refreshTable()

	return m, m.loadCatalogCmd()
}

func (m InvoiceModel) setupForm() *huh.Form {
	types := []transaction.Type{
		transaction.TypeSale, transaction.TypePurchase, transaction.TypeProforma,
		transaction.TypeReceipt, transaction.TypePayment, transaction.TypeJournal,
	}

	options := make([]huh.Option[transaction.Type], len(types))
	for i, t := range types {
		options[i] = huh.NewOption(string(t), t)
	}

	var selected transaction.Type

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[transaction.Type]().
				Key("type").
				Title("Type").
				Options(options...).
				Value(&selected),

			huh.NewInput().
				Key("party").
				Title("Party"),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder(time.DateOnly).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
					return err
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes"),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Validate(func(s string) error {
					v, err := lineitem.ParseNumber(s)
					if err != nil || !v.IsPositive() {
						return errors.New("enter a positive amount")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return selected.HasLines() }),
	).WithWidth(50).WithShowHelp(false)
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadCatalogMsg:
		if msg.err == nil {
			m.items = msg.items
		}

		return m, nil

	case loadTxMsg:
		if msg.err != nil {
			m.state = editorStateLines
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.applyTransaction(msg.tx)
		m.state = editorStateLines

		return m, nil

	case saveInvoiceMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)

			if m.state == editorStateSetup {
				m.form = m.setupForm()
				return m, m.form.Init()
			}

			return m, nil
		}

		m.applyTransaction(msg.tx)
		m.status = fmt.Sprintf("Saved %s (%s).", msg.tx.Number, FormatMoney(msg.tx.Totals.InvoiceTotal))

		if !msg.tx.Type.HasLines() {
			return m, Back
		}

		return m, nil

	case hsnSuggestMsg:
		if msg.code != "" {
			m.status = fmt.Sprintf("HSN/SAC suggestion for %q: %s", msg.description, msg.code)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 16)
		return m, nil
	}

	switch m.state {
	case editorStateSetup:
		return m.updateSetup(msg)
	case editorStateLines:
		return m.updateLines(msg)
	case editorStateCell:
		return m.updateCell(msg)
	case editorStateCatalog:
		return m.updateCatalog(msg)
	}

	return m, nil
}

func (m InvoiceModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if t, ok := m.form.Get("type").(transaction.Type); ok {
		m.txType = t
	}

	m.partyName = m.form.GetString("party")
	m.notes = m.form.GetString("notes")
	m.date = time.Now()

	if d, err := time.Parse(time.DateOnly, strings.TrimSpace(m.form.GetString("date"))); err == nil {
		m.date = d
	}

	if !m.txType.HasLines() {
		amount, _ := lineitem.ParseNumber(m.form.GetString("amount"))
		return m, m.saveFlatCmd(amount)
	}

	if len(m.doc.Lines) == 0 {
		m.doc.AddProduct()
	}

	m.state = editorStateLines
	m.refreshTable()

	return m, nil
}

func (m InvoiceModel) updateLines(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	row := m.table.Cursor()

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "left", "shift+tab":
		m.col = (m.col + len(editColumns) - 1) % len(editColumns)
		return m, nil
	case "right", "tab":
		m.col = (m.col + 1) % len(editColumns)
		return m, nil
	case "enter":
		return m.startCell(row)
	case "a":
		m.focusRow(m.doc.AddProduct())
		return m, nil
	case "s":
		m.focusRow(m.doc.AddService())
		return m, nil
	case "d":
		if i := m.doc.Duplicate(row); i >= 0 {
			m.focusRow(i)
		}

		return m, nil
	case "x":
		m.doc.Remove(row)
		m.focusRow(min(row, len(m.doc.Lines)-1))

		return m, nil
	case "p":
		return m.startCatalog()
	case "ctrl+s":
		return m, m.saveCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoiceModel) startCell(row int) (tea.Model, tea.Cmd) {
	if row < 0 || row >= len(m.doc.Lines) {
		return m, nil
	}

	col := editColumns[m.col]
	line := m.doc.Lines[row]

	if !col.appliesTo(line) {
		m.status = fmt.Sprintf("%s does not apply to service lines.", col.title)
		return m, nil
	}

	m.input.Prompt = col.title + ": "
	m.input.SetValue(cellValue(line, col))
	m.input.CursorEnd()
	m.state = editorStateCell

	return m, m.input.Focus()
}

func (m InvoiceModel) updateCell(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.input.Blur()
			m.state = editorStateLines

			return m, nil
		case tea.KeyEnter:
			m.input.Blur()
			m.state = editorStateLines

			return m.applyCell(m.table.Cursor(), m.input.Value())
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m InvoiceModel) applyCell(row int, raw string) (tea.Model, tea.Cmd) {
	if row < 0 || row >= len(m.doc.Lines) {
		return m, nil
	}

	col := editColumns[m.col]

	switch col.text {
	case textDescription:
		desc := strings.TrimSpace(raw)
		m.doc.Lines[row].Description = desc
		m.refreshTable()

		return m, m.suggestCmd(desc)
	case textUnit:
		m.doc.Lines[row].UnitType = strings.TrimSpace(raw)
		m.refreshTable()

		return m, nil
	}

	v, err := lineitem.ParseNumber(raw)
	if err != nil {
		m.status = fmt.Sprintf("%s: %q is not a number", col.title, raw)
		return m, nil
	}

	if col.field == lineitem.FieldTaxRatePercent && !lineitem.ValidRate(v) {
		m.status = fmt.Sprintf("%s must be between 0 and 100.", col.title)
		return m, nil
	}

	changes := m.doc.Edit(row, col.field, v)
	m.status = fmt.Sprintf("%s set, %d values recalculated.", col.title, len(changes))
	m.refreshTable()

	return m, nil
}

func (m InvoiceModel) startCatalog() (tea.Model, tea.Cmd) {
	if len(m.items) == 0 {
		m.status = "No catalog items for this company."
		return m, nil
	}

	options := make([]huh.Option[int], len(m.items))
	for i, item := range m.items {
		options[i] = huh.NewOption(fmt.Sprintf("%s (%s, %s)", item.Name, item.Kind, FormatMoney(item.SellingPrice)), i)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Key("item").
				Title("Catalog Item").
				Options(options...),
		),
	).WithWidth(60).WithShowHelp(false)
	m.state = editorStateCatalog

	return m, m.form.Init()
}

func (m InvoiceModel) updateCatalog(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = editorStateLines
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = editorStateLines

	idx, ok := m.form.Get("item").(int)
	if !ok || idx < 0 || idx >= len(m.items) {
		return m, nil
	}

	item := m.items[idx]

	row := m.table.Cursor()
	if row < 0 || row >= len(m.doc.Lines) {
		row = m.doc.AddProduct()
	}

	line := catalog.SeedLine(item)
	if line.Description == "" {
		line.Description = item.Name
	}

	m.doc.Seed(row, line)
	m.focusRow(row)

	if item.HSNCode != "" {
		m.status = fmt.Sprintf("%s added (HSN/SAC %s).", item.Name, item.HSNCode)
	}

	return m, nil
}

func (m InvoiceModel) View() string {
	switch m.state {
	case editorStateSetup:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("New Transaction for %s\n\n%s\n%s", m.company.Name, m.form.View(), m.status),
		)
	case editorStateLoading:
		return lipgloss.NewStyle().Padding(2).Render("Loading transaction...")
	case editorStateCatalog:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	number := m.number
	if number == "" {
		number = "(unsaved)"
	}

	tax := "GST off (company not registered)"
	if m.doc.TaxEnabled {
		tax = "GST on"
	}

	header := fmt.Sprintf("%s  %s  %s  |  %s  |  %s  |  %s",
		number, m.txType, FormatDate(m.date), partyOrDash(m.partyName), tax,
		activeStyle("column: "+editColumns[m.col].title))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	parts := []string{header, tableView, m.totalsView()}

	if anomalies := lineitem.Check(m.doc); len(anomalies) > 0 {
		msgs := make([]string, len(anomalies))
		for i, a := range anomalies {
			msgs[i] = a.Error()
		}

		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(strings.Join(msgs, "\n")))
	}

	if m.state == editorStateCell {
		parts = append(parts, m.input.View())
	}

	if m.status != "" {
		parts = append(parts, lipgloss.NewStyle().Faint(true).Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m InvoiceModel) totalsView() string {
	t := m.doc.Totals

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(fmt.Sprintf("Sub Total: %s   Tax: %s   Invoice Total: %s",
			FormatMoney(t.SubTotal), FormatMoney(t.TaxAmount), FormatMoney(t.InvoiceTotal)))
}

func partyOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}

	return s
}

func (m *InvoiceModel) applyTransaction(tx *transaction.Transaction) {
	m.txID = tx.ID
	m.number = tx.Number
	m.txType = tx.Type
	m.partyName = tx.PartyName
	m.date = tx.Date
	m.notes = tx.Notes

	m.doc = lineitem.NewDocument(tx.TaxEnabled)
	m.doc.Reset(tx.Lines)
	m.refreshTable()
}

func (m *InvoiceModel) focusRow(i int) {
	m.refreshTable()

	if i >= 0 {
		m.table.SetCursor(i)
	}
}

func (m *InvoiceModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.doc.Lines))

	for i, l := range m.doc.Lines {
		qty, unit, price := "-", "-", "-"
		if !l.IsService() {
			qty = l.Quantity.String()
			unit = l.UnitType
			price = FormatAmount(l.PricePerUnit)
		}

		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			m.itemName(l),
			qty,
			unit,
			price,
			FormatAmount(l.Amount),
			l.TaxRatePercent.String(),
			FormatAmount(l.LineTax),
			FormatAmount(l.LineTotal),
		})
	}

	m.table.SetRows(rows)
}

func (m InvoiceModel) itemName(l lineitem.Line) string {
	if l.Description != "" {
		return l.Description
	}

	ref := l.ProductRef
	if l.IsService() {
		ref = l.ServiceRef
	}

	for _, item := range m.items {
		if ref != "" && item.ID.String() == ref {
			return item.Name
		}
	}

	return "(" + string(l.ItemType) + ")"
}

func cellValue(l lineitem.Line, col editColumn) string {
	switch col.text {
	case textDescription:
		return l.Description
	case textUnit:
		return l.UnitType
	}

	var v decimal.Decimal

	switch col.field {
	case lineitem.FieldQuantity:
		v = l.Quantity
	case lineitem.FieldPricePerUnit:
		v = l.PricePerUnit
	case lineitem.FieldAmount:
		v = l.Amount
	case lineitem.FieldTaxRatePercent:
		v = l.TaxRatePercent
	case lineitem.FieldLineTotal:
		v = l.LineTotal
	}

	return v.String()
}

// Messages

type loadCatalogMsg struct {
	items []*catalog.Item
	err   error
}

func (m InvoiceModel) loadCatalogCmd() tea.Cmd {
	companyID := m.company.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.catalogService.List(ctx, catalog.ListFilter{CompanyID: companyID})

		return loadCatalogMsg{items: items, err: err}
	}
}

type loadTxMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m InvoiceModel) loadTxCmd(id uuid.UUID) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Get(ctx, id)

		return loadTxMsg{tx: tx, err: err}
	}
}

type hsnSuggestMsg struct {
	description string
	code        string
}

func (m InvoiceModel) suggestCmd(description string) tea.Cmd {
	if description == "" {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		code, _ := m.hsnService.Suggest(ctx, description)

		return hsnSuggestMsg{description: description, code: code}
	}
}

type saveInvoiceMsg struct {
	tx  *transaction.Transaction
	err error
}

func (m InvoiceModel) saveCmd() tea.Cmd {
	var (
		id      = m.txID
		lines   = append([]lineitem.Line(nil), m.doc.Lines...)
		intents = m.doc.Intents.Snapshot()
		party   = m.partyName
		date    = m.date
		notes   = m.notes
	)

	params := transaction.CreateParams{
		CompanyID: m.company.ID,
		Type:      m.txType,
		PartyName: party,
		Date:      date,
		Notes:     notes,
		Lines:     lines,
		Intents:   intents,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if id == uuid.Nil {
			tx, err := m.txService.Create(ctx, params)
			return saveInvoiceMsg{tx: tx, err: err}
		}

		tx, err := m.txService.Update(ctx, id, transaction.UpdateParams{
			PartyName: &party,
			Date:      &date,
			Notes:     &notes,
			Lines:     lines,
			Intents:   intents,
		})

		return saveInvoiceMsg{tx: tx, err: err}
	}
}

func (m InvoiceModel) saveFlatCmd(amount decimal.Decimal) tea.Cmd {
	params := transaction.CreateParams{
		CompanyID: m.company.ID,
		Type:      m.txType,
		PartyName: m.partyName,
		Date:      m.date,
		Notes:     m.notes,
		Amount:    amount,
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.txService.Create(ctx, params)

		return saveInvoiceMsg{tx: tx, err: err}
	}
}
