package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/gstbook/internal/format"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

// Lister is the part of the transaction service the export needs.
type Lister interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Service exports transaction registers.
type Service struct {
	transactions Lister
	fmt          *format.Formatter
}

// NewService creates a new export Service.
func NewService(transactions Lister, f *format.Formatter) *Service {
	return &Service{
		transactions: transactions,
		fmt:          f,
	}
}

var registerHeader = []string{"Number", "Date", "Type", "Status", "Party", "Sub Total", "Tax", "Total"}

// Export writes a CSV register of the transactions matching filter to w and
// returns them. Amounts are written as plain decimals so spreadsheets can
// sum them.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter, w io.Writer) ([]*transaction.Transaction, error) {
	txs, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(registerHeader); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for _, tx := range txs {
		record := []string{
			tx.Number,
			format.Date(tx.Date),
			string(tx.Type),
			string(tx.Status),
			tx.PartyName,
			tx.Totals.SubTotal.StringFixed(2),
			tx.Totals.TaxAmount.StringFixed(2),
			tx.Totals.InvoiceTotal.StringFixed(2),
		}

		if err := cw.Write(record); err != nil {
			return nil, fmt.Errorf("writing transaction %s: %w", tx.Number, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flushing register: %w", err)
	}

	return txs, nil
}

// Summary renders one line per transaction, for pasting into an e-mail.
// Money coming in is prefixed with "+", money going out with "-".
func (s *Service) Summary(txs []*transaction.Transaction) string {
	var sb strings.Builder

	for _, tx := range txs {
		party := tx.PartyName
		if party == "" {
			party = "-"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s%s | %s\n",
			format.Date(tx.Date), tx.Number, party, sign(tx.Type), s.fmt.Money(tx.Totals.InvoiceTotal), tx.Type)
	}

	return sb.String()
}

func sign(t transaction.Type) string {
	switch t {
	case transaction.TypeSale, transaction.TypeReceipt:
		return "+"
	case transaction.TypePurchase, transaction.TypePayment:
		return "-"
	}

	return ""
}
