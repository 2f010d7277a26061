package lineitem

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Anomaly is a value the engine produced or accepted but a form should reject.
type Anomaly struct {
	Line  int
	Field Field
	Value decimal.Decimal
}

func (a Anomaly) Error() string {
	return fmt.Sprintf("line %d: %s must not be negative (got %s)", a.Line+1, a.Field, a.Value.StringFixed(2))
}

// MaxTaxRatePercent is the highest rate a line may carry.
var MaxTaxRatePercent = decimal.NewFromInt(100)

// ValidRate reports whether pct lies in 0..MaxTaxRatePercent. Rates outside
// that range must be rejected before a document is recomputed.
func ValidRate(pct decimal.Decimal) bool {
	return !pct.IsNegative() && !pct.GreaterThan(MaxTaxRatePercent)
}

// Check reports negative values left on the document. A negative amount
// usually comes from a line total smaller than its own tax portion; the
// engine keeps it as-is and leaves the decision to the caller.
func Check(d *Document) []Anomaly {
	var out []Anomaly

	for i, l := range d.Lines {
		fields := []Field{FieldAmount, FieldLineTotal}
		if !l.IsService() {
			fields = []Field{FieldQuantity, FieldPricePerUnit, FieldAmount, FieldLineTotal}
		}

		for _, f := range fields {
			v := *l.value(f)
			if v.IsNegative() {
				out = append(out, Anomaly{Line: i, Field: f, Value: v})
			}
		}
	}

	return out
}
