package lineitem

import (
	"github.com/shopspring/decimal"
)

// Totals are the document-level sums of all lines.
type Totals struct {
	SubTotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	InvoiceTotal decimal.Decimal
}

// Aggregate sums line amounts and taxes. With tax disabled the tax amount is zero.
func Aggregate(lines []Line, taxEnabled bool) Totals {
	var sub, tax decimal.Decimal

	for _, l := range lines {
		sub = sub.Add(l.Amount)

		if taxEnabled {
			tax = tax.Add(l.LineTax)
		}
	}

	sub = Round2(sub)
	tax = Round2(tax)

	return Totals{
		SubTotal:     sub,
		TaxAmount:    tax,
		InvoiceTotal: Round2(sub.Add(tax)),
	}
}

// update copies next into t field by field, writing only changed values.
func (t *Totals) update(next Totals) []Field {
	var written []Field

	for _, f := range []struct {
		field Field
		dst   *decimal.Decimal
		v     decimal.Decimal
	}{
		{FieldSubTotal, &t.SubTotal, next.SubTotal},
		{FieldTaxAmount, &t.TaxAmount, next.TaxAmount},
		{FieldInvoiceTotal, &t.InvoiceTotal, next.InvoiceTotal},
	} {
		if f.dst.Equal(f.v) {
			continue
		}

		*f.dst = f.v

		written = append(written, f.field)
	}

	return written
}
