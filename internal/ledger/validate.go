package ledger

import (
	"fmt"
	"strings"

	"github.com/cardledger/cardledger/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	Index       int
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [record %d]: %s", e.Invariant, e.Index+1, e.Description)
}

// LabelChecker tests whether a label belongs to the closed vocabulary.
type LabelChecker interface {
	Exists(label string) bool
}

// Validate enforces 4 invariants on a labeled ledger.
func Validate(records []model.Transaction, labels LabelChecker) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int, len(records))

	for i, t := range records {
		// Invariant 1: Every record carries a date.
		if t.DateString() == "" {
			errs = append(errs, ValidationError{
				Invariant:   1,
				Index:       i,
				Description: "missing date",
			})
		}

		// Invariant 2: Label is in the vocabulary.
		if strings.TrimSpace(t.Label) == "" {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Index:       i,
				Description: "missing label",
			})
		} else if labels != nil && !labels.Exists(t.Label) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Index:       i,
				Description: fmt.Sprintf("unknown label %q", t.Label),
			})
		}

		// Invariant 3: No exact duplicates.
		k := t.Key()
		if first, dup := seen[k]; dup {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Index:       i,
				Description: fmt.Sprintf("duplicate of record %d", first+1),
			})
		} else {
			seen[k] = i
		}

		// Invariant 4: Ascending by date, undated last.
		if i > 0 && before(t, records[i-1]) {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Index:       i,
				Description: fmt.Sprintf("date %s sorts before previous %s", t.DateString(), records[i-1].DateString()),
			})
		}
	}
	return errs
}
