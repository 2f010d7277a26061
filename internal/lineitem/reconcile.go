package lineitem

import (
	"github.com/shopspring/decimal"
)

// EffectiveRate returns the tax rate that applies to l: its stored rate when
// tax is enabled, otherwise zero. The stored rate is never modified.
func EffectiveRate(l Line, taxEnabled bool) decimal.Decimal {
	if !taxEnabled {
		return decimal.Zero
	}

	return l.TaxRatePercent
}

// derived holds the consistent values computed for one line.
type derived struct {
	amount decimal.Decimal
	tax    decimal.Decimal
	total  decimal.Decimal
	price  *decimal.Decimal
}

// Reconcile recomputes the derived fields of l for the given edit intent and
// writes back only the fields whose value changed. It returns the written
// fields in a stable order; an empty result means l was already consistent.
func Reconcile(l *Line, intent Field, taxEnabled bool) []Field {
	pct := EffectiveRate(*l, taxEnabled)

	var d derived
	if l.IsService() {
		d = reconcileService(*l, intent, pct)
	} else {
		d = reconcileProduct(*l, intent, pct)
	}

	var written []Field

	set := func(f Field, v decimal.Decimal) {
		dst := l.value(f)
		if dst.Equal(v) {
			return
		}

		*dst = v

		written = append(written, f)
	}

	set(FieldAmount, d.amount)

	if d.price != nil {
		set(FieldPricePerUnit, *d.price)
	}

	set(FieldLineTax, d.tax)
	set(FieldLineTotal, d.total)

	return written
}

func reconcileProduct(l Line, intent Field, pct decimal.Decimal) derived {
	switch intent {
	case FieldLineTotal:
		d := fromTotal(l.LineTotal, pct)
		d.price = priceFrom(d.amount, l.Quantity)

		return d
	case FieldAmount:
		d := fromAmount(l.Amount, pct)
		d.price = priceFrom(l.Amount, l.Quantity)

		return d
	default:
		return fromAmount(Round2(l.Quantity.Mul(l.PricePerUnit)), pct)
	}
}

func reconcileService(l Line, intent Field, pct decimal.Decimal) derived {
	if intent == FieldLineTotal {
		return fromTotal(l.LineTotal, pct)
	}

	return fromAmount(l.Amount, pct)
}

// fromTotal treats the line total as the input and splits it into base and tax.
func fromTotal(total, pct decimal.Decimal) derived {
	base := baseFromTotal(total, pct)

	return derived{
		amount: base,
		tax:    Round2(total.Sub(base)),
		total:  total,
	}
}

// fromAmount treats the base amount as the input and derives tax and total.
func fromAmount(base, pct decimal.Decimal) derived {
	tax := taxOn(base, pct)

	return derived{
		amount: base,
		tax:    tax,
		total:  Round2(base.Add(tax)),
	}
}

// priceFrom back-derives the unit price. A zero quantity leaves the price as-is.
func priceFrom(amount, quantity decimal.Decimal) *decimal.Decimal {
	if quantity.IsZero() {
		return nil
	}

	p := Round2(amount.Div(quantity))

	return &p
}
