package model

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction is one canonical card transaction (a row in the merged ledger).
type Transaction struct {
	Date        civil.Date      // zero when RawDate could not be parsed
	RawDate     string          // date exactly as the source provided it
	Description string
	Amount      decimal.Decimal // positive = spend
	Category    string          // bank-provided, informational only
	Card        string
	Source      string // originating file name
	Label       string
}

// HasDate reports whether the source date was parsed into a calendar date.
func (t Transaction) HasDate() bool {
	return t.Date.IsValid()
}

// DateString returns the ISO date, or the raw source date when it did not parse.
func (t Transaction) DateString() string {
	if t.HasDate() {
		return t.Date.String()
	}
	return strings.TrimSpace(t.RawDate)
}

// Key identifies a record for duplicate detection.
// Two records with the same date, description, amount, card and source are the same record.
func (t Transaction) Key() string {
	return strings.Join([]string{
		t.DateString(),
		t.Description,
		t.Amount.String(),
		t.Card,
		t.Source,
	}, "\x1f")
}

// Labeled returns a copy of t carrying label.
func (t Transaction) Labeled(label string) Transaction {
	t.Label = label
	return t
}
