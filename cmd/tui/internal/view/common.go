package view

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/company"
	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

// CommonModel is embedded by views that size themselves to the terminal.
type CommonModel struct {
	Width  int
	Height int
}

// CompanySelectedMsg is emitted when the user picks the company to work on.
type CompanySelectedMsg struct {
	Company *company.Company
}

// EditTransactionMsg asks the editor to load a saved transaction.
type EditTransactionMsg struct {
	ID uuid.UUID
}

// EditDocumentMsg asks the editor to start a new sales invoice from an
// already reconciled document, as produced by an import.
type EditDocumentMsg struct {
	Doc *lineitem.Document
}
