// Package export renders a labeled ledger and its summaries as an XLSX workbook.
package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cardledger/cardledger/internal/model"
	"github.com/cardledger/cardledger/internal/summary"
)

// Sheet names, in workbook order.
const (
	SheetLedger  = "Ledger"
	SheetByLabel = "By Label"
	SheetByCard  = "By Card"
	SheetMonthly = "Monthly"
	SheetTrips   = "Trips"
)

// numFmtMoney is the built-in "#,##0.00" format.
const numFmtMoney = 4

type sheetWriter struct {
	f    *excelize.File
	name string
	row  int
}

func (w *sheetWriter) write(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.name, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", w.name, w.row, err)
	}
	w.row++
	return nil
}

func (w *sheetWriter) header(bold int, values ...any) error {
	if err := w.write(values...); err != nil {
		return err
	}
	return w.f.SetRowStyle(w.name, w.row-1, w.row-1, bold)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// WriteWorkbook writes the ledger and report to path.
func WriteWorkbook(path string, records []model.Transaction, rep summary.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetLedger); err != nil {
		return fmt.Errorf("renaming first sheet: %w", err)
	}
	for _, name := range []string{SheetByLabel, SheetByCard, SheetMonthly, SheetTrips} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet %s: %w", name, err)
		}
	}

	steps := []struct {
		sheet    string
		moneyCol string
		fill     func(*sheetWriter) error
	}{
		{SheetLedger, "C", func(w *sheetWriter) error { return writeLedger(w, bold, records) }},
		{SheetByLabel, "B", func(w *sheetWriter) error { return writeGroups(w, bold, "Label", rep.ByLabel) }},
		{SheetByCard, "B", func(w *sheetWriter) error { return writeGroups(w, bold, "Card", rep.ByCard) }},
		{SheetMonthly, "B", func(w *sheetWriter) error { return writeGroups(w, bold, "Month", rep.Monthly) }},
		{SheetTrips, "D", func(w *sheetWriter) error { return writeTrips(w, bold, rep.Trips) }},
	}
	for _, s := range steps {
		w := &sheetWriter{f: f, name: s.sheet, row: 1}
		if err := f.SetColStyle(s.sheet, s.moneyCol, moneyStyle); err != nil {
			return fmt.Errorf("styling %s: %w", s.sheet, err)
		}
		if err := s.fill(w); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetLedger, "B", "B", 40); err != nil {
		return fmt.Errorf("sizing ledger: %w", err)
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeLedger(w *sheetWriter, bold int, records []model.Transaction) error {
	if err := w.header(bold, "Date", "Description", "Amount", "Category", "Card", "Source", "Label"); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.write(r.DateString(), r.Description, money(r.Amount), r.Category, r.Card, r.Source, r.Label); err != nil {
			return err
		}
	}
	return nil
}

func writeGroups(w *sheetWriter, bold int, keyTitle string, groups []summary.Group) error {
	if err := w.header(bold, keyTitle, "Total", "Count"); err != nil {
		return err
	}
	for _, g := range groups {
		if err := w.write(g.Key, money(g.Total), g.Count); err != nil {
			return err
		}
	}
	return nil
}

func writeTrips(w *sheetWriter, bold int, trips []summary.TripReport) error {
	if err := w.header(bold, "Trip", "Start", "End", "Total", "Count", "Excluded", "Excluded Total"); err != nil {
		return err
	}
	for _, t := range trips {
		if err := w.write(t.Trip.Name, t.Trip.Start.String(), t.Trip.End.String(),
			money(t.Total), t.Count, t.Excluded, money(t.ExcludedTotal)); err != nil {
			return err
		}
	}

	// Per-card totals for each trip, below the trip table.
	w.row++
	if err := w.header(bold, "Trip", "Card", "Count", "Total"); err != nil {
		return err
	}
	for _, t := range trips {
		for _, g := range t.ByCard {
			if err := w.write(t.Trip.Name, g.Key, g.Count, money(g.Total)); err != nil {
				return err
			}
		}
	}
	return nil
}
