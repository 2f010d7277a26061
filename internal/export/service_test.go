package export_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/gstbook/internal/export"
	"github.com/MrJamesThe3rd/gstbook/internal/format"
	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

func totals(sub, tax string) lineitem.Totals {
	s := decimal.RequireFromString(sub)
	t := decimal.RequireFromString(tax)

	return lineitem.Totals{SubTotal: s, TaxAmount: t, InvoiceTotal: s.Add(t)}
}

func fixtures() []*transaction.Transaction {
	return []*transaction.Transaction{
		{
			Number:    "SI-000001",
			Type:      transaction.TypeSale,
			Status:    transaction.StatusIssued,
			PartyName: "Sharma, Traders",
			Date:      time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Totals:    totals("200000", "36000"),
		},
		{
			Number: "PY-000003",
			Type:   transaction.TypePayment,
			Status: transaction.StatusDraft,
			Date:   time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC),
			Totals: totals("1500.5", "0"),
		},
	}
}

func TestExportService_Export(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := export.NewService(transaction.NewService(repo, nil, nil), format.Default())

	filter := transaction.ListFilter{Type: new(transaction.TypeSale)}
	repo.EXPECT().ListTransactions(gomock.Any(), filter).Return(fixtures(), nil)

	var buf bytes.Buffer

	txs, err := svc.Export(context.Background(), filter, &buf)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	want := "Number,Date,Type,Status,Party,Sub Total,Tax,Total\n" +
		"SI-000001,2026-04-01,sale,issued,\"Sharma, Traders\",200000.00,36000.00,236000.00\n" +
		"PY-000003,2026-04-02,payment,draft,,1500.50,0.00,1500.50\n"
	assert.Equal(t, want, buf.String())
}

func TestExportService_Export_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := export.NewService(transaction.NewService(repo, nil, nil), format.Default())

	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, errors.New("db error"))

	var buf bytes.Buffer

	_, err := svc.Export(context.Background(), transaction.ListFilter{}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing transactions")
	assert.Empty(t, buf.String())
}

func TestExportService_Summary(t *testing.T) {
	svc := export.NewService(nil, format.Default())

	got := svc.Summary(fixtures())

	want := "* 2026-04-01 | SI-000001 | Sharma, Traders | +₹2,36,000.00 | sale\n" +
		"* 2026-04-02 | PY-000003 | - | -₹1,500.50 | payment\n"
	assert.Equal(t, want, got)
}
