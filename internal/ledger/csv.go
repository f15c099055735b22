package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/model"
	"github.com/cardledger/cardledger/internal/normalize"
)

// Header is the CSV header for the labeled ledger.
const Header = "date,description,amount,category,card,source,label"

const (
	numFields   = 7
	colDate     = 0
	colDesc     = 1
	colAmount   = 2
	colCategory = 3
	colCard     = 4
	colSource   = 5
	colLabel    = 6
)

// ReadCSV reads all records from a ledger CSV reader.
func ReadCSV(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ledger CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	// Skip header row.
	var records []model.Transaction
	for i, row := range rows[1:] {
		t, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, t)
	}
	return records, nil
}

// WriteCSV writes records to a ledger CSV writer (including header).
func WriteCSV(w io.Writer, records []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range records {
		if err := cw.Write(MarshalRecord(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// Load reads a ledger CSV file.
func Load(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// Save writes records to a ledger CSV file.
func Save(path string, records []model.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// MarshalRecord converts a Transaction to a CSV row.
func MarshalRecord(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colDate] = t.DateString()
	row[colDesc] = t.Description
	row[colAmount] = formatAmount(t.Amount)
	row[colCategory] = t.Category
	row[colCard] = t.Card
	row[colSource] = t.Source
	row[colLabel] = t.Label
	return row
}

// formatAmount writes cents with two places and keeps any finer precision.
func formatAmount(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}

// UnmarshalRecord converts a CSV row to a Transaction. A date that does not
// parse is kept as the raw value.
func UnmarshalRecord(row []string) (model.Transaction, error) {
	if len(row) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	amount, err := decimal.NewFromString(row[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", row[colAmount], err)
	}
	date, _ := normalize.ParseDate(row[colDate])

	return model.Transaction{
		Date:        date,
		RawDate:     row[colDate],
		Description: row[colDesc],
		Amount:      amount,
		Category:    row[colCategory],
		Card:        row[colCard],
		Source:      row[colSource],
		Label:       row[colLabel],
	}, nil
}
