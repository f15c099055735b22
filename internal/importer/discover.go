package importer

import (
	"github.com/cardledger/cardledger/internal/model"
	"github.com/cardledger/cardledger/internal/normalize"
)

// DiscoverLoader loads Discover card exports. Charges are positive in the
// single Amount column; payments and rebates are negative or carry a
// dedicated category.
type DiscoverLoader struct{}

const (
	discoverColDate     = "Trans. Date"
	discoverColDesc     = "Description"
	discoverColAmount   = "Amount"
	discoverColCategory = "Category"
	discoverCard        = "Discover"
)

var discoverCreditCategories = map[string]bool{
	"Payments and Credits":      true,
	"Awards and Rebate Credits": true,
}

// Format returns the loader name.
func (l *DiscoverLoader) Format() string { return "discover" }

// Load keeps rows with a positive amount outside the credit categories.
func (l *DiscoverLoader) Load(t *Table, source string) (Batch, error) {
	if err := t.Require(discoverColDate, discoverColDesc, discoverColAmount); err != nil {
		return Batch{}, err
	}

	var b Batch
	for i, row := range t.Rows {
		amount, err := normalize.ParseAmount(t.Get(row, discoverColAmount))
		if err != nil {
			b.skip(t.Line(i), "amount: %v", err)
			continue
		}
		if !amount.IsPositive() {
			b.skip(t.Line(i), "non-positive amount %s", amount)
			continue
		}
		category := t.Get(row, discoverColCategory)
		if discoverCreditCategories[category] {
			b.skip(t.Line(i), "credit category %q", category)
			continue
		}

		rawDate := t.Get(row, discoverColDate)
		date, _ := normalize.ParseDate(rawDate)

		b.Records = append(b.Records, model.Transaction{
			Date:        date,
			RawDate:     rawDate,
			Description: t.Raw(row, discoverColDesc),
			Amount:      amount,
			Category:    category,
			Card:        discoverCard,
			Source:      source,
		})
	}
	return b, nil
}
