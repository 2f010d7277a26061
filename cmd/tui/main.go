package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/gstbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/gstbook/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/gstbook/internal/catalog/store"
	"github.com/MrJamesThe3rd/gstbook/internal/company"
	companyStore "github.com/MrJamesThe3rd/gstbook/internal/company/store"
	"github.com/MrJamesThe3rd/gstbook/internal/config"
	"github.com/MrJamesThe3rd/gstbook/internal/database"
	"github.com/MrJamesThe3rd/gstbook/internal/export"
	"github.com/MrJamesThe3rd/gstbook/internal/format"
	"github.com/MrJamesThe3rd/gstbook/internal/hsn"
	hsnStore "github.com/MrJamesThe3rd/gstbook/internal/hsn/store"
	"github.com/MrJamesThe3rd/gstbook/internal/importer"
	"github.com/MrJamesThe3rd/gstbook/internal/migration"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
	txStore "github.com/MrJamesThe3rd/gstbook/internal/transaction/store"
)

type model struct {
	companyService *company.Service
	catalogService *catalog.Service
	txService      *transaction.Service
	hsnService     *hsn.Service
	importService  *importer.Service
	exportService  *export.Service

	company     *company.Company
	currentView View

	companyView view.CompanyModel
	invoiceView view.InvoiceModel
	listView    view.ListModel
	importView  view.ImportModel
	exportView  view.ExportModel
	hsnView     view.HSNModel
}

type View int

const (
	ViewCompany View = iota
	ViewMenu
	ViewInvoice
	ViewList
	ViewImport
	ViewExport
	ViewHSN
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.ConnectionString(), database.Pool{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		ConnLifetime: cfg.DB.ConnLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := migration.Run(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	formatter := format.Default()
	if f, err := format.New(cfg.App.Locale); err == nil {
		formatter = f
	}

	view.SetFormatter(formatter)

	companySvc := company.NewService(companyStore.New(db))
	txSvc := transaction.NewService(txStore.New(db), companySvc, nil)

	return model{
		companyService: companySvc,
		catalogService: catalog.NewService(catalogStore.New(db)),
		txService:      txSvc,
		hsnService:     hsn.NewService(hsnStore.New(db)),
		importService:  importer.NewService(),
		exportService:  export.NewService(txSvc, formatter),
		currentView:    ViewCompany,
		companyView:    view.NewCompanyModel(companySvc),
	}
}

func (m model) Init() tea.Cmd {
	return m.companyView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}

	case view.CompanySelectedMsg:
		m.company = msg.Company
		m.currentView = ViewMenu

		return m, nil

	case view.EditTransactionMsg:
		m.invoiceView, cmd = m.newInvoiceView().Load(msg.ID)
		m.currentView = ViewInvoice

		return m, cmd

	case view.EditDocumentMsg:
		m.invoiceView, cmd = m.newInvoiceView().Open(msg.Doc)
		m.currentView = ViewInvoice

		return m, cmd

	case view.BackMsg:
		m.currentView = ViewMenu
		if m.company == nil {
			m.currentView = ViewCompany
		}

		return m, nil
	}

	var newModel tea.Model

	switch m.currentView {
	case ViewCompany:
		newModel, cmd = m.companyView.Update(msg)
		m.companyView = newModel.(view.CompanyModel)
	case ViewInvoice:
		newModel, cmd = m.invoiceView.Update(msg)
		m.invoiceView = newModel.(view.InvoiceModel)
	case ViewList:
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewImport:
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewHSN:
		newModel, cmd = m.hsnView.Update(msg)
		m.hsnView = newModel.(view.HSNModel)
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "c":
		m.currentView = ViewCompany
		m.companyView = view.NewCompanyModel(m.companyService)

		return m, m.companyView.Init()
	case "1":
		m.currentView = ViewInvoice
		m.invoiceView, cmd = m.newInvoiceView().Start()

		return m, cmd
	case "2":
		m.currentView = ViewList
		m.listView = view.NewListModel(m.txService, m.company.ID)

		return m, m.listView.Init()
	case "3":
		m.currentView = ViewImport
		m.importView = view.NewImportModel(m.txService, m.importService, m.company)

		return m, m.importView.Init()
	case "4":
		m.currentView = ViewExport
		m.exportView = view.NewExportModel(m.exportService, m.company.ID)

		return m, m.exportView.Init()
	case "5":
		m.currentView = ViewHSN
		m.hsnView = view.NewHSNModel(m.hsnService)

		return m, m.hsnView.Init()
	}

	return m, nil
}

func (m model) newInvoiceView() view.InvoiceModel {
	return view.NewInvoiceModel(m.txService, m.catalogService, m.hsnService, m.company)
}

func (m model) View() string {
	switch m.currentView {
	case ViewCompany:
		return m.companyView.View()
	case ViewMenu:
		return m.menuView()
	case ViewInvoice:
		return m.invoiceView.View()
	case ViewList:
		return m.listView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewHSN:
		return m.hsnView.View()
	}

	return "Unknown View"
}

func (m model) menuView() string {
	gst := "unregistered"
	if m.company.TaxRegistered() {
		gst = "GSTIN " + m.company.GSTIN
	}

	return lipgloss.NewStyle().Padding(2).Render(
		fmt.Sprintf("GSTBook | %s (%s)\n\n", m.company.Name, gst) +
			"1. New Transaction\n" +
			"2. Transaction Register\n" +
			"3. Import Line Items\n" +
			"4. Export Register\n" +
			"5. HSN/SAC Codes\n\n" +
			"c. Change Company\n" +
			"q. Quit",
	)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
