// Package brl convierte valores monetarios en formato brasileño (1.234,56) desde y hacia decimal.
package brl

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse interpreta "R$ 1.234,56", "1234,56", "1.234" o "22.90".
// Si hay coma, los puntos son separadores de miles y la coma es decimal.
// Sin coma, el texto se lee tal cual (punto decimal). Entradas inválidas devuelven cero.
func Parse(s string) decimal.Decimal {
	d, ok := ParseStrict(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

// ParseStrict igual que Parse pero informa si la entrada era válida.
func ParseStrict(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Format devuelve "R$ 1.234,56".
func Format(d decimal.Decimal) string {
	return "R$ " + FormatNumber(d, 2)
}

// FormatNumber formatea con separador de miles "." y decimal ",".
func FormatNumber(d decimal.Decimal, places int32) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(places)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteByte(',')
		b.WriteString(frac)
	}
	return b.String()
}
