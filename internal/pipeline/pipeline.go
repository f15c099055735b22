// Package pipeline runs one full ledger build: scan, load, merge, label,
// validate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cardledger/cardledger/internal/auditlog"
	"github.com/cardledger/cardledger/internal/export"
	"github.com/cardledger/cardledger/internal/importer"
	"github.com/cardledger/cardledger/internal/ledger"
	"github.com/cardledger/cardledger/internal/logger"
	"github.com/cardledger/cardledger/internal/model"
	"github.com/cardledger/cardledger/internal/rules"
	"github.com/cardledger/cardledger/internal/summary"
)

// Source pins a file to a loader format, bypassing pattern matching.
type Source struct {
	Path   string
	Format string
}

// Options configures a run. Engine is required.
type Options struct {
	InputDir string
	Patterns []importer.SourcePattern
	Sources  []Source // when set, InputDir is not scanned
	Registry *importer.Registry
	Engine   *rules.Engine
	RunID    string
}

// SourceReport describes what happened to one input file.
type SourceReport struct {
	Name        string
	Path        string
	Loader      string
	Encoding    importer.Encoding
	Records     int
	RowsSkipped []importer.SkippedRow
	Undated     int
	Skipped     bool
	Reason      string
}

// Result is the outcome of a successful run.
type Result struct {
	RunID      string
	Records    []model.Transaction
	Sources    []SourceReport
	Duplicates int
	Violations []ledger.ValidationError
}

// Run builds the labeled ledger. Per-file failures are recorded in the
// source reports and never abort the run; ledger.ErrNoData is returned when
// no file contributed a record.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Engine == nil {
		return nil, errors.New("pipeline: no rule engine")
	}
	reg := opts.Registry
	if reg == nil {
		reg = importer.DefaultRegistry()
	}
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = importer.DefaultPatterns
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	log := logger.FromContext(ctx).With().Str("run_id", runID).Logger()

	sources, err := resolveSources(opts, reg, patterns)
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: runID}
	var batches [][]model.Transaction
	for _, s := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rep, records := loadSource(log, s)
		res.Sources = append(res.Sources, rep)
		if len(records) > 0 {
			batches = append(batches, records)
		}
	}

	res.Duplicates = ledger.Duplicates(batches...)
	merged, err := ledger.Merge(batches...)
	if err != nil {
		log.Warn().Int("sources", len(sources)).Msg("no transactions loaded")
		return nil, fmt.Errorf("merging %d sources: %w", len(sources), err)
	}

	res.Records = opts.Engine.Label(merged)
	res.Violations = ledger.Validate(res.Records, opts.Engine)
	for _, v := range res.Violations {
		log.Warn().Int("invariant", v.Invariant).Int("record", v.Index+1).Msg(v.Description)
	}

	log.Info().
		Int("records", len(res.Records)).
		Int("duplicates", res.Duplicates).
		Int("sources", len(sources)).
		Msg("ledger built")
	return res, nil
}

type resolved struct {
	path   string
	loader importer.Loader
	err    error
}

func resolveSources(opts Options, reg *importer.Registry, patterns []importer.SourcePattern) ([]resolved, error) {
	if len(opts.Sources) > 0 {
		out := make([]resolved, 0, len(opts.Sources))
		for _, s := range opts.Sources {
			r := resolved{path: s.Path}
			if s.Format == "" {
				r.loader, r.err = reg.Match(s.Path, patterns)
			} else if r.loader = reg.Get(s.Format); r.loader == nil {
				r.err = fmt.Errorf("%w: %q", importer.ErrUnknownFormat, s.Format)
			}
			out = append(out, r)
		}
		return out, nil
	}

	files, err := importer.Scan(opts.InputDir)
	if err != nil {
		return nil, err
	}
	out := make([]resolved, 0, len(files))
	for _, f := range files {
		l, err := reg.Match(f.Name, patterns)
		out = append(out, resolved{path: f.Path, loader: l, err: err})
	}
	return out, nil
}

func loadSource(log zerolog.Logger, s resolved) (SourceReport, []model.Transaction) {
	rep := SourceReport{Name: filepath.Base(s.path), Path: s.path}
	flog := log.With().Str("source", rep.Name).Logger()

	skip := func(err error) (SourceReport, []model.Transaction) {
		rep.Skipped = true
		rep.Reason = err.Error()
		flog.Warn().Err(err).Msg("skipping source")
		return rep, nil
	}

	if s.err != nil {
		return skip(s.err)
	}
	rep.Loader = s.loader.Format()

	tbl, enc, err := importer.ReadFile(s.path)
	if err != nil {
		return skip(err)
	}
	rep.Encoding = enc

	batch, err := s.loader.Load(tbl, rep.Name)
	if err != nil {
		return skip(fmt.Errorf("%s loader: %w", rep.Loader, err))
	}
	rep.Records = len(batch.Records)
	rep.RowsSkipped = batch.Skipped
	rep.Undated = batch.UndatedCount()

	for _, sr := range batch.Skipped {
		flog.Debug().Int("row", sr.Row).Str("reason", sr.Reason).Msg("row skipped")
	}
	if rep.Undated > 0 {
		flog.Warn().Int("count", rep.Undated).Msg("unparseable dates kept as-is")
	}
	if rep.Records == 0 {
		flog.Warn().Msg("source contributed no transactions")
	}
	flog.Info().
		Str("loader", rep.Loader).
		Str("encoding", string(enc)).
		Int("records", rep.Records).
		Int("rows_skipped", len(batch.Skipped)).
		Msg("source loaded")
	return rep, batch.Records
}

// Audit returns the audit log entries describing the run.
func (r *Result) Audit(now time.Time) []auditlog.Entry {
	var entries []auditlog.Entry
	for _, s := range r.Sources {
		e := auditlog.Entry{Timestamp: now, RunID: r.RunID, Source: s.Name}
		if s.Skipped {
			e.Action = auditlog.ActionSkip
			e.Details = s.Reason
			entries = append(entries, e)
			continue
		}
		e.Action = auditlog.ActionLoad
		e.Details = fmt.Sprintf("loader=%s encoding=%s records=%d rows_skipped=%d",
			s.Loader, s.Encoding, s.Records, len(s.RowsSkipped))
		entries = append(entries, e)
		if s.Undated > 0 {
			entries = append(entries, auditlog.Entry{
				Timestamp: now, RunID: r.RunID, Source: s.Name,
				Action:  auditlog.ActionUndate,
				Details: fmt.Sprintf("count=%d", s.Undated),
			})
		}
	}
	details := fmt.Sprintf("records=%d duplicates=%d violations=%d", len(r.Records), r.Duplicates, len(r.Violations))
	entries = append(entries, auditlog.Entry{
		Timestamp: now,
		RunID:     r.RunID,
		Action:    auditlog.ActionMerge,
		Details:   details,
	})
	return entries
}

// Outputs names the files Write produces. Empty paths are skipped.
type Outputs struct {
	Ledger   string
	Workbook string
	AuditLog string
}

// Write saves the ledger CSV, the workbook and the audit log.
func (r *Result) Write(out Outputs, rep summary.Report, now time.Time) error {
	if out.Ledger != "" {
		if err := ledger.Save(out.Ledger, r.Records); err != nil {
			return err
		}
	}
	if out.Workbook != "" {
		if err := export.WriteWorkbook(out.Workbook, r.Records, rep); err != nil {
			return err
		}
	}
	if out.AuditLog != "" {
		if err := auditlog.Append(out.AuditLog, r.Audit(now)); err != nil {
			return err
		}
	}
	return nil
}
