// Package format renders money and dates for people: the TUI, export
// summaries and CSV registers.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

const DefaultLocale = "en-IN"

// Formatter formats amounts for one locale. Indian locales group digits in
// lakhs and crores (12,34,567.00); everything else groups in thousands.
type Formatter struct {
	lakh   bool
	symbol string
}

func New(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	region, _ := tag.Region()
	base, _ := tag.Base()

	indian := region.String() == "IN" || base.String() == "hi"

	f := &Formatter{lakh: indian, symbol: "₹"}
	if !indian {
		f.symbol = "INR "
	}

	return f, nil
}

// Default returns the formatter for DefaultLocale.
func Default() *Formatter {
	return &Formatter{lakh: true, symbol: "₹"}
}

// Amount formats d with two decimals and digit grouping, without a currency symbol.
func (f *Formatter) Amount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	return sign + f.group(intPart) + "." + frac
}

// Money formats d as Amount with the currency symbol in front.
func (f *Formatter) Money(d decimal.Decimal) string {
	s := f.Amount(d)
	if strings.HasPrefix(s, "-") {
		return "-" + f.symbol + s[1:]
	}

	return f.symbol + s
}

func (f *Formatter) group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	size := 3
	if f.lakh {
		size = 2
	}

	var parts []string

	for len(head) > size {
		parts = append([]string{head[len(head)-size:]}, parts...)
		head = head[:len(head)-size]
	}

	parts = append([]string{head}, parts...)

	return strings.Join(append(parts, tail), ",")
}

// Date formats t as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format(time.DateOnly)
}
