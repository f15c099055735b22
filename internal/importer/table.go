package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrMissingColumn is returned when a loader's required column is absent.
var ErrMissingColumn = errors.New("missing column")

// Table is the raw content of one bank export: a header row and data rows.
type Table struct {
	Header []string
	Rows   [][]string
	// Lines holds the 1-based source row of each entry in Rows. The header
	// is row 1. When nil, rows are assumed contiguous after the header.
	Lines []int
	index map[string]int
}

// NewTable builds a Table from a header and rows. Header names are matched
// case-insensitively and with surrounding whitespace ignored.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows, index: make(map[string]int, len(header))}
	for i, h := range header {
		key := headerKey(h)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	return t
}

func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

// Has reports whether the table has the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.index[headerKey(col)]
	return ok
}

// Require returns ErrMissingColumn naming the first absent column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}
	return nil
}

// Get returns the trimmed value of col in row, or "" when absent or short.
func (t *Table) Get(row []string, col string) string {
	return strings.TrimSpace(t.Raw(row, col))
}

// Raw returns the value of col in row exactly as read.
func (t *Table) Raw(row []string, col string) string {
	i, ok := t.index[headerKey(col)]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Line returns the source row number of Rows[i].
func (t *Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// ReadFile reads a .csv or .xlsx bank export. For CSV input the returned
// Encoding names the decoder that succeeded.
func ReadFile(path string) (*Table, Encoding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		t, err := ReadXLSX(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
		}
		return t, EncodingNone, nil
	default:
		text, enc, err := Decode(data)
		if err != nil {
			return nil, "", fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
		}
		t, err := ReadCSV(strings.NewReader(text))
		if err != nil {
			return nil, enc, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
		}
		return t, enc, nil
	}
}

// ReadCSV parses decoded CSV text. Ragged rows are tolerated.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var records [][]string
	var lines []int
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return tableFromRecords(records, lines), nil
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	lines := make([]int, len(records))
	for i := range records {
		lines[i] = i + 1
	}
	return tableFromRecords(records, lines), nil
}

// tableFromRecords drops blank rows and keeps the source line of the rest.
func tableFromRecords(records [][]string, lines []int) *Table {
	if len(records) == 0 {
		return NewTable(nil, nil)
	}
	var rows [][]string
	var kept []int
	for i, rec := range records[1:] {
		if blankRow(rec) {
			continue
		}
		rows = append(rows, rec)
		kept = append(kept, lines[i+1])
	}
	t := NewTable(records[0], rows)
	t.Lines = kept
	return t
}

func blankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
