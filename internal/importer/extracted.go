package importer

import (
	"github.com/cardledger/cardledger/internal/model"
	"github.com/cardledger/cardledger/internal/normalize"
)

// ExtractedLoader loads statement rows produced by the PDF extraction step.
// Those rows already use the canonical column names and sign convention.
type ExtractedLoader struct{}

const (
	extractedColDate     = "date"
	extractedColDesc     = "description"
	extractedColAmount   = "amount"
	extractedColCategory = "category"
	extractedColCard     = "card"
	extractedColSource   = "source"

	extractedDefaultCard = "Chase"
)

// Format returns the loader name.
func (l *ExtractedLoader) Format() string { return "extracted" }

// Load maps extracted rows onto transactions. The card and source columns
// fall back to the issuer name and file name when empty.
func (l *ExtractedLoader) Load(t *Table, source string) (Batch, error) {
	if err := t.Require(extractedColDate, extractedColDesc, extractedColAmount); err != nil {
		return Batch{}, err
	}

	var b Batch
	for i, row := range t.Rows {
		amount, err := normalize.ParseAmount(t.Get(row, extractedColAmount))
		if err != nil {
			b.skip(t.Line(i), "amount: %v", err)
			continue
		}

		rawDate := t.Get(row, extractedColDate)
		date, _ := normalize.ParseDate(rawDate)

		card := t.Get(row, extractedColCard)
		if card == "" {
			card = extractedDefaultCard
		}
		src := t.Get(row, extractedColSource)
		if src == "" {
			src = source
		}

		b.Records = append(b.Records, model.Transaction{
			Date:        date,
			RawDate:     rawDate,
			Description: t.Raw(row, extractedColDesc),
			Amount:      amount,
			Category:    t.Get(row, extractedColCategory),
			Card:        card,
			Source:      src,
		})
	}
	return b, nil
}
