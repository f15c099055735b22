package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cardledger/cardledger/internal/model"
)

// ErrInvalidTable is returned by NewEngine when a table cannot be compiled.
var ErrInvalidTable = errors.New("invalid rule table")

// Match describes how a description was classified.
type Match struct {
	Label    string
	Matched  bool
	Tier     int
	TierName string
	Rule     int
	Pattern  string
}

// Engine classifies descriptions against a compiled table. It is immutable
// after construction and safe for concurrent use.
type Engine struct {
	table        Table
	folded       [][][]string
	required     [][][]string
	defaultLabel string
	vocabulary   []string
	tierOf       map[string]string
}

// NewEngine validates table and prepares it for matching. Records that match
// no rule receive defaultLabel. The engine keeps its own copy of table.
func NewEngine(table Table, defaultLabel string) (*Engine, error) {
	if strings.TrimSpace(defaultLabel) == "" {
		return nil, fmt.Errorf("%w: default label is empty", ErrInvalidTable)
	}
	if len(table.Tiers) == 0 {
		return nil, fmt.Errorf("%w: no tiers", ErrInvalidTable)
	}

	table = table.Clone()
	e := &Engine{
		table:        table,
		folded:       make([][][]string, len(table.Tiers)),
		required:     make([][][]string, len(table.Tiers)),
		defaultLabel: defaultLabel,
		tierOf:       make(map[string]string),
	}
	seenTier := make(map[string]bool, len(table.Tiers))
	for ti, tier := range table.Tiers {
		if tier.Name == "" {
			return nil, fmt.Errorf("%w: tier %d has no name", ErrInvalidTable, ti+1)
		}
		if seenTier[tier.Name] {
			return nil, fmt.Errorf("%w: duplicate tier %q", ErrInvalidTable, tier.Name)
		}
		seenTier[tier.Name] = true

		e.folded[ti] = make([][]string, len(tier.Rules))
		e.required[ti] = make([][]string, len(tier.Rules))
		for ri, r := range tier.Rules {
			if err := validateRule(r); err != nil {
				return nil, fmt.Errorf("%w: tier %q rule %d: %v", ErrInvalidTable, tier.Name, ri+1, err)
			}
			pats := make([]string, len(r.Patterns))
			for pi, p := range r.Patterns {
				pats[pi] = fold(p)
			}
			e.folded[ti][ri] = pats
			req := make([]string, len(r.Require))
			for qi, q := range r.Require {
				req[qi] = fold(q)
			}
			e.required[ti][ri] = req

			for _, l := range r.Labels() {
				if _, ok := e.tierOf[l]; !ok {
					e.tierOf[l] = tier.Name
					e.vocabulary = append(e.vocabulary, l)
				}
			}
		}
	}
	if _, ok := e.tierOf[defaultLabel]; !ok {
		e.vocabulary = append(e.vocabulary, defaultLabel)
	}
	return e, nil
}

func validateRule(r Rule) error {
	if len(r.Patterns) == 0 {
		return errors.New("no patterns")
	}
	for _, p := range r.Patterns {
		if strings.TrimSpace(p) == "" {
			return errors.New("empty pattern")
		}
	}
	for _, q := range r.Require {
		if strings.TrimSpace(q) == "" {
			return errors.New("empty required substring")
		}
	}
	if r.Split == nil {
		if strings.TrimSpace(r.Label) == "" {
			return errors.New("missing label")
		}
		return nil
	}
	if r.Label != "" {
		return errors.New("split rule must not set label")
	}
	if strings.TrimSpace(r.Split.Below) == "" || strings.TrimSpace(r.Split.AtOrAbove) == "" {
		return errors.New("split rule needs both labels")
	}
	if r.Split.Threshold.IsNegative() {
		return fmt.Errorf("negative threshold %s", r.Split.Threshold)
	}
	return nil
}

func fold(s string) string {
	return strings.ToUpper(s)
}

// Classify returns the label for one transaction.
func (e *Engine) Classify(description string, amount decimal.Decimal) Match {
	if strings.TrimSpace(description) == "" {
		return Match{Label: e.defaultLabel}
	}
	desc := fold(description)
	for ti, tier := range e.table.Tiers {
		for ri, r := range tier.Rules {
			if !containsAll(desc, e.required[ti][ri]) {
				continue
			}
			for pi, p := range e.folded[ti][ri] {
				if !strings.Contains(desc, p) {
					continue
				}
				return Match{
					Label:    r.labelFor(amount),
					Matched:  true,
					Tier:     ti,
					TierName: tier.Name,
					Rule:     ri,
					Pattern:  r.Patterns[pi],
				}
			}
		}
	}
	return Match{Label: e.defaultLabel}
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// Label returns copies of records with labels assigned. Any existing label
// is replaced, so labeling is idempotent.
func (e *Engine) Label(records []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(records))
	for i, r := range records {
		out[i] = r.Labeled(e.Classify(r.Description, r.Amount).Label)
	}
	return out
}

// Table returns a copy of the compiled table.
func (e *Engine) Table() Table {
	return e.table.Clone()
}

// DefaultLabel returns the label used when no rule matches.
func (e *Engine) DefaultLabel() string {
	return e.defaultLabel
}

// Vocabulary returns every label the engine can assign, in table order with
// the default label last.
func (e *Engine) Vocabulary() []string {
	out := make([]string, len(e.vocabulary))
	copy(out, e.vocabulary)
	return out
}

// Exists reports whether label belongs to the vocabulary.
func (e *Engine) Exists(label string) bool {
	if label == e.defaultLabel {
		return true
	}
	_, ok := e.tierOf[label]
	return ok
}

// TierOf returns the name of the first tier that can assign label.
func (e *Engine) TierOf(label string) (string, bool) {
	name, ok := e.tierOf[label]
	return name, ok
}

// LabelsInTier returns the labels assignable by the named tier.
func (e *Engine) LabelsInTier(name string) []string {
	var result []string
	seen := make(map[string]bool)
	for _, tier := range e.table.Tiers {
		if tier.Name != name {
			continue
		}
		for _, r := range tier.Rules {
			for _, l := range r.Labels() {
				if !seen[l] {
					seen[l] = true
					result = append(result, l)
				}
			}
		}
	}
	return result
}
