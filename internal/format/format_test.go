package format_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/gstbook/internal/format"
)

func TestFormatter_Amount(t *testing.T) {
	tests := []struct {
		locale string
		in     string
		want   string
	}{
		{locale: "en-IN", in: "1234567.891", want: "12,34,567.89"},
		{locale: "en-IN", in: "100000", want: "1,00,000.00"},
		{locale: "en-IN", in: "999", want: "999.00"},
		{locale: "en-IN", in: "-4500.5", want: "-4,500.50"},
		{locale: "hi", in: "12345678", want: "1,23,45,678.00"},
		{locale: "en-US", in: "1234567.891", want: "1,234,567.89"},
		{locale: "en", in: "0", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.in, func(t *testing.T) {
			f, err := format.New(tt.locale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Amount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_Money(t *testing.T) {
	f := format.Default()

	assert.Equal(t, "₹2,36,000.00", f.Money(decimal.NewFromInt(236000)))
	assert.Equal(t, "-₹18.00", f.Money(decimal.NewFromInt(-18)))

	us, err := format.New("en-US")
	require.NoError(t, err)
	assert.Equal(t, "INR 1,000.00", us.Money(decimal.NewFromInt(1000)))
}

func TestNew_InvalidLocale(t *testing.T) {
	_, err := format.New("not a locale!")
	assert.Error(t, err)
}

func TestDate(t *testing.T) {
	assert.Equal(t, "2026-04-01", format.Date(time.Date(2026, 4, 1, 15, 0, 0, 0, time.UTC)))
}
