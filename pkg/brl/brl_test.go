package brl

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	cases := map[string]string{
		"1.234,56":     "1234.56",
		"R$ 1.234,56":  "1234.56",
		"22,9":         "22.9",
		"22.90":        "22.9",
		"1.234.567,01": "1234567.01",
		"  10 ":        "10",
		"":             "0",
		"abc":          "0",
		"R$":           "0",
	}
	for in, want := range cases {
		got := Parse(in)
		assert.True(t, decimal.RequireFromString(want).Equal(got), "Parse(%q) = %s, esperado %s", in, got, want)
	}
}

func TestParseStrict_ReportsInvalid(t *testing.T) {
	_, ok := ParseStrict("12,3x")
	assert.False(t, ok)

	d, ok := ParseStrict("0,50")
	assert.True(t, ok)
	assert.Equal(t, "0.5", d.String())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", Format(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "R$ 0,00", Format(decimal.Zero))
	assert.Equal(t, "R$ 999,10", Format(decimal.RequireFromString("999.1")))
	assert.Equal(t, "R$ 1.000.000,00", Format(decimal.NewFromInt(1000000)))
	assert.Equal(t, "R$ -12.345,68", Format(decimal.RequireFromString("-12345.678")))
}

func TestFormatNumber_NoDecimals(t *testing.T) {
	assert.Equal(t, "12.345", FormatNumber(decimal.NewFromInt(12345), 0))
}
