package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/format"
)

const dbTimeout = 5 * time.Second

var formatter = format.Default()

// SetFormatter replaces the formatter used by every view.
func SetFormatter(f *format.Formatter) {
	formatter = f
}

// FormatMoney formats an amount with the currency symbol.
func FormatMoney(d decimal.Decimal) string {
	return formatter.Money(d)
}

// FormatAmount formats an amount with grouping and no symbol.
func FormatAmount(d decimal.Decimal) string {
	return formatter.Amount(d)
}

func FormatDate(t time.Time) string {
	return format.Date(t)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
