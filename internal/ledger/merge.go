// Package ledger merges per-source transactions into one ordered ledger and
// reads, writes and validates the ledger CSV.
package ledger

import (
	"errors"
	"sort"

	"github.com/cardledger/cardledger/internal/model"
)

// ErrNoData is returned when no source contributed a single record.
var ErrNoData = errors.New("no transactions loaded")

// Merge concatenates batches in order, drops exact duplicates keeping the
// first occurrence, and sorts by date. Ties keep input order; records whose
// date did not parse follow every dated record.
func Merge(batches ...[]model.Transaction) ([]model.Transaction, error) {
	var total int
	for _, b := range batches {
		total += len(b)
	}
	if total == 0 {
		return nil, ErrNoData
	}

	seen := make(map[string]bool, total)
	merged := make([]model.Transaction, 0, total)
	for _, b := range batches {
		for _, t := range b {
			k := t.Key()
			if seen[k] {
				continue
			}
			seen[k] = true
			merged = append(merged, t)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return before(merged[i], merged[j])
	})
	return merged, nil
}

// before orders dated records by date and places undated ones last.
func before(a, b model.Transaction) bool {
	switch {
	case a.HasDate() && b.HasDate():
		return a.Date.Before(b.Date)
	case a.HasDate():
		return true
	default:
		return false
	}
}

// Duplicates returns how many records Merge would drop from batches.
func Duplicates(batches ...[]model.Transaction) int {
	seen := make(map[string]bool)
	var n int
	for _, b := range batches {
		for _, t := range b {
			k := t.Key()
			if seen[k] {
				n++
				continue
			}
			seen[k] = true
		}
	}
	return n
}
