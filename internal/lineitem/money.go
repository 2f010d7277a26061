package lineitem

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Round2 rounds d to two decimal places, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ParseAmount parses user-entered numeric text. Currency markers, spaces and
// thousands separators are ignored; anything unparsable is treated as zero.
// Format examples: "1,18,000.50" -> 118000.50, "₹ 250" -> 250, "" -> 0.
func ParseAmount(s string) decimal.Decimal {
	d, err := ParseNumber(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// ParseNumber is ParseAmount without the zero fallback. Blank input parses as zero.
func ParseNumber(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	for _, marker := range []string{"₹", "INR", "Rs.", "Rs"} {
		clean = strings.TrimPrefix(clean, marker)
	}

	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.TrimSuffix(clean, "%")

	if clean == "" {
		return decimal.Zero, nil
	}

	return decimal.NewFromString(clean)
}

// taxOn returns round2(base × pct / 100).
func taxOn(base, pct decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(pct).Div(hundred))
}

// baseFromTotal returns round2(total / (1 + pct/100)). A rate of -100 has no
// base and yields zero.
func baseFromTotal(total, pct decimal.Decimal) decimal.Decimal {
	divisor := one.Add(pct.Div(hundred))
	if divisor.IsZero() {
		return decimal.Zero
	}

	return Round2(total.Div(divisor))
}
