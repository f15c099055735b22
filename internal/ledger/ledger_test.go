package ledger

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardledger/cardledger/internal/model"
)

func date(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(d civil.Date, desc, amount, card, source string) model.Transaction {
	return model.Transaction{
		Date:        d,
		RawDate:     d.String(),
		Description: desc,
		Amount:      dec(amount),
		Card:        card,
		Source:      source,
	}
}

// mockLabels implements LabelChecker for testing.
type mockLabels map[string]bool

func (m mockLabels) Exists(label string) bool {
	return m[label]
}

func TestMerge_DedupAndSort(t *testing.T) {
	a := []model.Transaction{
		txn(date(2025, 7, 3), "SHELL OIL", "12.00", "CapitalOne", "a.csv"),
		txn(date(2025, 7, 1), "DOORDASH", "15.32", "CapitalOne", "a.csv"),
	}
	b := []model.Transaction{
		txn(date(2025, 7, 1), "DOORDASH", "15.32", "CapitalOne", "a.csv"),
		txn(date(2025, 7, 2), "SHELL OIL", "35.00", "Discover", "b.csv"),
	}

	merged, err := Merge(a, b)
	require.NoError(t, err)
	require.Len(t, merged, 3)
	assert.Equal(t, "DOORDASH", merged[0].Description)
	assert.Equal(t, "35", merged[1].Amount.String())
	assert.Equal(t, "2025-07-03", merged[2].DateString())
	assert.Equal(t, 1, Duplicates(a, b))
}

func TestMerge_SameValueDifferentSourceKept(t *testing.T) {
	a := []model.Transaction{txn(date(2025, 7, 1), "NETFLIX", "15.49", "Chase", "jan.pdf")}
	b := []model.Transaction{txn(date(2025, 7, 1), "NETFLIX", "15.49", "Chase", "feb.pdf")}

	merged, err := Merge(a, b)
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}

func TestMerge_StableTiesAndUndatedLast(t *testing.T) {
	undated := model.Transaction{RawDate: "13/45/2025", Description: "MYSTERY", Amount: dec("1"), Source: "x"}
	in := []model.Transaction{
		undated,
		txn(date(2025, 7, 2), "SECOND", "2", "c", "x"),
		txn(date(2025, 7, 1), "FIRST-A", "1", "c", "x"),
		txn(date(2025, 7, 1), "FIRST-B", "1", "c", "x"),
	}

	merged, err := Merge(in)
	require.NoError(t, err)
	var got []string
	for _, r := range merged {
		got = append(got, r.Description)
	}
	assert.Equal(t, []string{"FIRST-A", "FIRST-B", "SECOND", "MYSTERY"}, got)
}

func TestMerge_NoData(t *testing.T) {
	_, err := Merge()
	assert.ErrorIs(t, err, ErrNoData)

	_, err = Merge(nil, []model.Transaction{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestMerge_EmptyBatchAllowed(t *testing.T) {
	merged, err := Merge(nil, []model.Transaction{txn(date(2025, 1, 1), "X", "1", "c", "s")})
	require.NoError(t, err)
	assert.Len(t, merged, 1)
}

func TestValidate_Clean(t *testing.T) {
	records := []model.Transaction{
		txn(date(2025, 7, 1), "DOORDASH", "15.32", "c", "s").Labeled("DoorDash"),
		txn(date(2025, 7, 2), "SHELL", "12.00", "c", "s").Labeled("Gas Station Indiscretion"),
		{RawDate: "bad", Description: "?", Amount: dec("1"), Label: "Uncategorized"},
	}
	errs := Validate(records, mockLabels{"DoorDash": true, "Gas Station Indiscretion": true, "Uncategorized": true})
	assert.Empty(t, errs)
}

func TestValidate_Violations(t *testing.T) {
	dup := txn(date(2025, 7, 2), "SHELL", "12.00", "c", "s").Labeled("Gas")
	records := []model.Transaction{
		{Description: "NO DATE", Amount: dec("1"), Label: "Gas"},
		txn(date(2025, 7, 3), "UNLABELED", "1", "c", "s"),
		dup,
		dup,
		txn(date(2025, 7, 1), "EARLY", "1", "c", "s").Labeled("Nope"),
	}

	errs := Validate(records, mockLabels{"Gas": true})

	byInvariant := make(map[int]int)
	for _, e := range errs {
		byInvariant[e.Invariant]++
	}
	assert.Equal(t, 1, byInvariant[1])
	assert.Equal(t, 2, byInvariant[2])
	assert.Equal(t, 1, byInvariant[3])
	// undated first, 07-02 after 07-03, 07-01 after 07-02
	assert.Equal(t, 3, byInvariant[4])

	assert.Contains(t, errs[0].Error(), "invariant 1 [record 1]")
}

func TestValidate_NilChecker(t *testing.T) {
	records := []model.Transaction{txn(date(2025, 7, 1), "X", "1", "c", "s").Labeled("Anything")}
	assert.Empty(t, Validate(records, nil))
}

func TestCSV_RoundTrip(t *testing.T) {
	records := []model.Transaction{
		{
			Date:        date(2025, 7, 1),
			RawDate:     "07/01/2025",
			Description: `KROGER #0412, "TARGET PLAZA"`,
			Amount:      dec("62.1"),
			Category:    "Supermarkets",
			Card:        "Discover",
			Source:      "Discover_2025.csv",
			Label:       "Grocery (Kroger)",
		},
		{
			RawDate:     "13/45/2025",
			Description: "AMAZON PRIME*2K4",
			Amount:      dec("14.99"),
			Card:        "Discover",
			Source:      "Discover_2025.csv",
			Label:       "Amazon Prime",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))
	assert.Contains(t, buf.String(), "2025-07-01,")
	assert.Contains(t, buf.String(), ",62.10,")

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, records[0].Date, got[0].Date)
	assert.Equal(t, records[0].Description, got[0].Description)
	assert.True(t, records[0].Amount.Equal(got[0].Amount))
	assert.Equal(t, "Grocery (Kroger)", got[0].Label)

	assert.False(t, got[1].HasDate())
	assert.Equal(t, "13/45/2025", got[1].DateString())
}

func TestCSV_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	records := []model.Transaction{txn(date(2025, 7, 1), "DOORDASH", "15.32", "Chase", "x.csv").Labeled("DoorDash")}
	require.NoError(t, Save(path, records))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "15.32", got[0].Amount.StringFixed(2))
}

func TestCSV_KeepsSubCentPrecision(t *testing.T) {
	records := []model.Transaction{
		txn(date(2025, 7, 1), "FX FEE", "12.345", "Chase", "x.pdf").Labeled("Fees"),
		txn(date(2025, 7, 2), "NETFLIX.COM", "15", "Chase", "x.pdf").Labeled("Netflix"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))
	assert.Contains(t, buf.String(), ",12.345,")
	assert.Contains(t, buf.String(), ",15.00,")

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for i := range records {
		assert.Equal(t, records[i].Key(), got[i].Key())
		assert.True(t, records[i].Amount.Equal(got[i].Amount))
	}
}

func TestReadCSV_Empty(t *testing.T) {
	got, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReadCSV_BadAmount(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(Header + "\n2025-07-01,X,abc,,c,s,L\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestUnmarshalRecord_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalRecord([]string{"a", "b"})
	assert.Error(t, err)
}
