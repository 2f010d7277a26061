package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/http/draft"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

type transactionResponse struct {
	ID         uuid.UUID          `json:"id"`
	CompanyID  uuid.UUID          `json:"company_id"`
	Type       transaction.Type   `json:"type"`
	Status     transaction.Status `json:"status"`
	Number     string             `json:"number"`
	PartyName  string             `json:"party_name"`
	Date       time.Time          `json:"date"`
	Notes      string             `json:"notes,omitempty"`
	TaxEnabled bool               `json:"tax_enabled"`
	Lines      []draft.Line       `json:"lines,omitempty"`
	Totals     draft.Totals       `json:"totals"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  *time.Time         `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:         tx.ID,
		CompanyID:  tx.CompanyID,
		Type:       tx.Type,
		Status:     tx.Status,
		Number:     tx.Number,
		PartyName:  tx.PartyName,
		Date:       tx.Date,
		Notes:      tx.Notes,
		TaxEnabled: tx.TaxEnabled,
		Totals:     draft.FromTotals(tx.Totals),
		CreatedAt:  tx.CreatedAt,
		UpdatedAt:  tx.UpdatedAt,
	}

	if len(tx.Lines) > 0 {
		resp.Lines = draft.FromLines(tx.Lines)
	}

	return resp
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
