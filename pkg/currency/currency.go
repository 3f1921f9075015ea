// Package currency handles the BRL amounts typed into forms and stored on
// records, including legacy documents that kept the masked text.
package currency

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	maxInputDigits = 14
	symbol         = "R$ "
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeAmount = errors.New("amount must not be negative")

	printer = message.NewPrinter(language.BrazilianPortuguese)
)

// FormatInput masks raw keystrokes as a BRL amount. Digits are read as cents,
// anything else is dropped, and input beyond 14 digits is ignored.
func FormatInput(raw string) string {
	digits := onlyDigits(raw)
	if len(digits) > maxInputDigits {
		digits = digits[:maxInputDigits]
	}
	if digits == "" {
		return ""
	}
	cents, err := decimal.NewFromString(digits)
	if err != nil {
		return ""
	}
	return symbol + groupBR(cents.Shift(-2).StringFixed(2))
}

// ParseInput accepts masked ("R$ 1.234,56"), pt-BR ("1234,56") and plain
// ("1234.56") notations. Blank input is zero.
func ParseInput(raw string) (float64, error) {
	d, err := ParseDecimal(raw)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func ParseDecimal(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}

	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	switch {
	case strings.Contains(clean, ","):
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	case strings.Contains(raw, "R$"), thousandsGrouped(clean):
		clean = strings.ReplaceAll(clean, ".", "")
	}

	if clean == "" || clean == "-" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// Format renders a stored amount for display, e.g. "R$ 1.234,50".
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return symbol + printer.Sprintf("%.2f", v)
}

// Sum adds amounts in decimal so long lists of cents do not drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// thousandsGrouped reports whether every dot in s is followed by exactly
// three digits, as in "1.500" or "1.234.567".
func thousandsGrouped(s string) bool {
	parts := strings.Split(strings.TrimPrefix(s, "-"), ".")
	if len(parts) < 2 || parts[0] == "" {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// groupBR turns "12345.67" into "12.345,67".
func groupBR(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}
