package importer

import (
	"github.com/cardledger/cardledger/internal/model"
	"github.com/cardledger/cardledger/internal/normalize"
)

// CapitalOneLoader loads Capital One card exports, which split charges and
// credits into separate Debit and Credit columns.
type CapitalOneLoader struct{}

const (
	capOneColDate     = "Transaction Date"
	capOneColDesc     = "Description"
	capOneColDebit    = "Debit"
	capOneColCategory = "Category"
	capOneCard        = "CapitalOne"
)

// Format returns the loader name.
func (l *CapitalOneLoader) Format() string { return "capitalone" }

// Load keeps only rows with a non-zero Debit; payments and refunds live in
// the Credit column and are not spend.
func (l *CapitalOneLoader) Load(t *Table, source string) (Batch, error) {
	if err := t.Require(capOneColDate, capOneColDesc, capOneColDebit); err != nil {
		return Batch{}, err
	}

	var b Batch
	for i, row := range t.Rows {
		rawDebit := t.Get(row, capOneColDebit)
		if rawDebit == "" {
			b.skip(t.Line(i), "credit row")
			continue
		}
		debit, err := normalize.ParseAmount(rawDebit)
		if err != nil {
			b.skip(t.Line(i), "debit: %v", err)
			continue
		}
		if debit.IsZero() {
			b.skip(t.Line(i), "zero debit")
			continue
		}

		rawDate := t.Get(row, capOneColDate)
		date, _ := normalize.ParseDate(rawDate)

		b.Records = append(b.Records, model.Transaction{
			Date:        date,
			RawDate:     rawDate,
			Description: t.Raw(row, capOneColDesc),
			Amount:      normalize.Spend(debit),
			Category:    t.Get(row, capOneColCategory),
			Card:        capOneCard,
			Source:      source,
		})
	}
	return b, nil
}
