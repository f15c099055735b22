package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrEmptyAmount is returned for blank amount cells.
	ErrEmptyAmount = errors.New("empty amount")
	// ErrInvalidAmount is returned when no number remains after stripping decoration.
	ErrInvalidAmount = errors.New("invalid amount")
)

var currencyTokens = []string{"USD", "US$", "$", "€", "£"}

// ParseAmount parses a currency-formatted amount such as "$1,234.50" or "(12.00)".
// Parentheses, a leading minus sign and a trailing CR all mean negative.
// Anything other than currency symbols, separators and one number is rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	if u := strings.ToUpper(s); strings.HasSuffix(u, "CR") {
		negative = !negative
		s = s[:len(s)-2]
	}
	for _, tok := range currencyTokens {
		s = strings.ReplaceAll(s, tok, "")
	}
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)

	switch {
	case strings.HasPrefix(s, "-"):
		negative = !negative
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !plainNumber(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// plainNumber reports whether s is digits with at most one decimal point.
func plainNumber(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// Spend converts a debit-column value to the ledger convention (positive = spend).
func Spend(d decimal.Decimal) decimal.Decimal {
	return d.Abs()
}
