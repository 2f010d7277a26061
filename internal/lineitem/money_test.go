package lineitem_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "1,18,000.50", want: "118000.50"},
		{in: "₹ 250", want: "250.00"},
		{in: "Rs. 99.9", want: "99.90"},
		{in: "-42", want: "-42.00"},
		{in: "18%", want: "18.00"},
		{in: "", want: "0.00"},
		{in: "   ", want: "0.00"},
		{in: "abc", want: "0.00"},
		{in: "12..5", want: "0.00"},
		{in: "NaN", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, lineitem.ParseAmount(tt.in).StringFixed(2))
		})
	}
}

func TestParseNumber(t *testing.T) {
	d, err := lineitem.ParseNumber("INR 1,200.5")
	assert.NoError(t, err)
	assert.Equal(t, "1200.50", d.StringFixed(2))

	_, err = lineitem.ParseNumber("twelve")
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "42.38", lineitem.Round2(dec("42.375")).String())
	assert.Equal(t, "-8.47", lineitem.Round2(dec("-8.4745")).String())
	assert.Equal(t, "0.01", lineitem.Round2(dec("0.005")).String())
	assert.Equal(t, "100", lineitem.Round2(dec("100.00")).String())
}
