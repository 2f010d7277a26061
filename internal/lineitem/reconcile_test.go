package lineitem_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, dec(want).StringFixed(2), got.StringFixed(2), field)
}

func product(q, p, rate string) lineitem.Line {
	l := lineitem.NewProductLine()
	l.Quantity = dec(q)
	l.PricePerUnit = dec(p)
	l.TaxRatePercent = dec(rate)

	return l
}

func service(amount, rate string) lineitem.Line {
	l := lineitem.NewServiceLine()
	l.Amount = dec(amount)
	l.TaxRatePercent = dec(rate)

	return l
}

func TestReconcile_Product(t *testing.T) {
	type testCase struct {
		name       string
		line       lineitem.Line
		prepare    func(l *lineitem.Line)
		intent     lineitem.Field
		taxEnabled bool
		wantAmount string
		wantPrice  string
		wantTax    string
		wantTotal  string
	}

	tests := []testCase{
		{
			name:       "DefaultIntent",
			line:       product("2", "100", "18"),
			taxEnabled: true,
			wantAmount: "200", wantPrice: "100", wantTax: "36", wantTotal: "236",
		},
		{
			name:       "QuantityIntent",
			line:       product("3", "33.335", "18"),
			intent:     lineitem.FieldQuantity,
			taxEnabled: true,
			wantAmount: "100.01", wantPrice: "33.335", wantTax: "18", wantTotal: "118.01",
		},
		{
			name:       "PriceIntent",
			line:       product("5", "19.99", "12"),
			intent:     lineitem.FieldPricePerUnit,
			taxEnabled: true,
			wantAmount: "99.95", wantPrice: "19.99", wantTax: "11.99", wantTotal: "111.94",
		},
		{
			name: "AmountIntentBackDerivesPrice",
			line: product("4", "0", "18"),
			prepare: func(l *lineitem.Line) {
				l.Amount = dec("1000")
			},
			intent:     lineitem.FieldAmount,
			taxEnabled: true,
			wantAmount: "1000", wantPrice: "250", wantTax: "180", wantTotal: "1180",
		},
		{
			name: "LineTotalIntentBackDerivesAmountAndPrice",
			line: product("2", "100", "18"),
			prepare: func(l *lineitem.Line) {
				l.LineTotal = dec("118")
			},
			intent:     lineitem.FieldLineTotal,
			taxEnabled: true,
			wantAmount: "100", wantPrice: "50", wantTax: "18", wantTotal: "118",
		},
		{
			name: "LineTotalIntentKeepsUserTotal",
			line: product("2", "0", "18"),
			prepare: func(l *lineitem.Line) {
				l.LineTotal = dec("100")
			},
			intent:     lineitem.FieldLineTotal,
			taxEnabled: true,
			wantAmount: "84.75", wantPrice: "42.38", wantTax: "15.25", wantTotal: "100",
		},
		{
			name: "ZeroQuantityLeavesPrice",
			line: product("0", "12.5", "18"),
			prepare: func(l *lineitem.Line) {
				l.Amount = dec("500")
			},
			intent:     lineitem.FieldAmount,
			taxEnabled: true,
			wantAmount: "500", wantPrice: "12.5", wantTax: "90", wantTotal: "590",
		},
		{
			name: "ZeroQuantityLineTotalLeavesPrice",
			line: product("0", "7", "18"),
			prepare: func(l *lineitem.Line) {
				l.LineTotal = dec("236")
			},
			intent:     lineitem.FieldLineTotal,
			taxEnabled: true,
			wantAmount: "200", wantPrice: "7", wantTax: "36", wantTotal: "236",
		},
		{
			name:       "TaxDisabledDefaultIntent",
			line:       product("2", "100", "18"),
			taxEnabled: false,
			wantAmount: "200", wantPrice: "100", wantTax: "0", wantTotal: "200",
		},
		{
			name: "TaxDisabledLineTotalIntent",
			line: product("2", "100", "18"),
			prepare: func(l *lineitem.Line) {
				l.LineTotal = dec("118")
			},
			intent:     lineitem.FieldLineTotal,
			taxEnabled: false,
			wantAmount: "118", wantPrice: "59", wantTax: "0", wantTotal: "118",
		},
		{
			name: "TaxDisabledAmountIntent",
			line: product("1", "0", "18"),
			prepare: func(l *lineitem.Line) {
				l.Amount = dec("640")
			},
			intent:     lineitem.FieldAmount,
			taxEnabled: false,
			wantAmount: "640", wantPrice: "640", wantTax: "0", wantTotal: "640",
		},
		{
			name: "NegativeAmountFromSmallTotalIsNotClamped",
			line: product("1", "0", "18"),
			prepare: func(l *lineitem.Line) {
				l.LineTotal = dec("-10")
			},
			intent:     lineitem.FieldLineTotal,
			taxEnabled: true,
			wantAmount: "-8.47", wantPrice: "-8.47", wantTax: "-1.53", wantTotal: "-10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.line
			if tt.prepare != nil {
				tt.prepare(&l)
			}

			lineitem.Reconcile(&l, tt.intent, tt.taxEnabled)

			assertMoney(t, tt.wantAmount, l.Amount, "amount")
			assertMoney(t, tt.wantPrice, l.PricePerUnit, "price_per_unit")
			assertMoney(t, tt.wantTax, l.LineTax, "line_tax")
			assertMoney(t, tt.wantTotal, l.LineTotal, "line_total")
		})
	}
}

func TestReconcile_Service(t *testing.T) {
	l := service("1000", "5")

	written := lineitem.Reconcile(&l, lineitem.FieldNone, true)
	assert.Equal(t, []lineitem.Field{lineitem.FieldLineTax, lineitem.FieldLineTotal}, written)
	assertMoney(t, "50", l.LineTax, "line_tax")
	assertMoney(t, "1050", l.LineTotal, "line_total")

	l.LineTotal = dec("1050.00")
	lineitem.Reconcile(&l, lineitem.FieldLineTotal, true)
	assertMoney(t, "1000", l.Amount, "amount")
	assertMoney(t, "50", l.LineTax, "line_tax")

	l.LineTotal = dec("2100")
	lineitem.Reconcile(&l, lineitem.FieldLineTotal, true)
	assertMoney(t, "2000", l.Amount, "amount")
	assertMoney(t, "100", l.LineTax, "line_tax")
}

func TestReconcile_ServiceIgnoresQuantityAndPrice(t *testing.T) {
	l := service("300", "18")
	l.Quantity = dec("10")
	l.PricePerUnit = dec("99")

	lineitem.Reconcile(&l, lineitem.FieldQuantity, true)

	assertMoney(t, "300", l.Amount, "amount")
	assertMoney(t, "54", l.LineTax, "line_tax")
	assertMoney(t, "354", l.LineTotal, "line_total")
}

func TestReconcile_StoredRateIsNotMutatedWhenTaxDisabled(t *testing.T) {
	l := product("1", "100", "18")

	lineitem.Reconcile(&l, lineitem.FieldNone, false)

	assertMoney(t, "18", l.TaxRatePercent, "tax_rate_percent")
	assert.True(t, l.LineTax.IsZero())
	assert.True(t, l.LineTotal.Equal(l.Amount))
}

func TestReconcile_WritesOnlyChangedFields(t *testing.T) {
	l := product("2", "100", "18")

	written := lineitem.Reconcile(&l, lineitem.FieldNone, true)
	require.Equal(t, []lineitem.Field{
		lineitem.FieldAmount, lineitem.FieldLineTax, lineitem.FieldLineTotal,
	}, written)

	l.PricePerUnit = dec("100.00")
	assert.Empty(t, lineitem.Reconcile(&l, lineitem.FieldPricePerUnit, true))

	l.TaxRatePercent = dec("5")
	assert.Equal(t, []lineitem.Field{lineitem.FieldLineTax, lineitem.FieldLineTotal},
		lineitem.Reconcile(&l, lineitem.FieldNone, true))
}

func TestReconcile_ConsistencyInvariant(t *testing.T) {
	intents := []lineitem.Field{
		lineitem.FieldNone, lineitem.FieldQuantity, lineitem.FieldPricePerUnit, lineitem.FieldAmount,
	}

	lines := []lineitem.Line{
		product("3", "19.99", "18"),
		product("7", "0.33", "28"),
		product("1.5", "1234.567", "12"),
		product("0", "10", "5"),
	}

	for _, intent := range intents {
		for _, taxEnabled := range []bool{true, false} {
			for _, base := range lines {
				l := base
				l.Amount = dec("77.77")

				lineitem.Reconcile(&l, intent, taxEnabled)

				rate := lineitem.EffectiveRate(l, taxEnabled)
				wantTax := lineitem.Round2(l.Amount.Mul(rate).Div(decimal.NewFromInt(100)))

				assert.True(t, wantTax.Equal(l.LineTax), "intent=%q tax=%v", intent, taxEnabled)
				assert.True(t, lineitem.Round2(l.Amount.Add(l.LineTax)).Equal(l.LineTotal),
					"intent=%q tax=%v", intent, taxEnabled)
			}
		}
	}
}
