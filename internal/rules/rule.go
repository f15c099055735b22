// Package rules assigns spending labels to transactions using an ordered
// table of substring rules grouped into priority tiers.
//
// Tiers are evaluated in order, rules within a tier in order, patterns within
// a rule in order. The first pattern found in the case-folded description
// decides the label; nothing after it is consulted. Rule order is therefore
// part of the data: a specific pattern must precede any broader pattern that
// would also match it. A rule may also list required substrings, all of which
// must be present for the rule to apply.
package rules

import (
	"github.com/shopspring/decimal"
)

// Kind distinguishes the two rule variants.
type Kind int

const (
	// KindSubstring assigns a fixed label when a pattern matches.
	KindSubstring Kind = iota
	// KindAmountSplit picks one of two labels by comparing the amount to a threshold.
	KindAmountSplit
)

func (k Kind) String() string {
	switch k {
	case KindSubstring:
		return "substring"
	case KindAmountSplit:
		return "amount-split"
	default:
		return "unknown"
	}
}

// Table is an ordered list of tiers.
type Table struct {
	Tiers []Tier `yaml:"tiers"`
}

// Tier is a named priority group of rules.
type Tier struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// Rule matches when any of its patterns is a substring of the description
// and every entry of Require is too. Plain rules carry Label; amount-split
// rules carry Split instead.
type Rule struct {
	Label    string       `yaml:"label,omitempty"`
	Patterns []string     `yaml:"patterns,flow"`
	Require  []string     `yaml:"require,omitempty,flow"`
	Split    *AmountSplit `yaml:"split,omitempty"`
}

// AmountSplit labels amounts below Threshold as Below and the rest as AtOrAbove.
type AmountSplit struct {
	Threshold decimal.Decimal `yaml:"threshold"`
	Below     string          `yaml:"below"`
	AtOrAbove string          `yaml:"at_or_above"`
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := Table{Tiers: make([]Tier, len(t.Tiers))}
	for i, tier := range t.Tiers {
		rules := make([]Rule, len(tier.Rules))
		for j, r := range tier.Rules {
			rules[j] = r.clone()
		}
		out.Tiers[i] = Tier{Name: tier.Name, Rules: rules}
	}
	return out
}

func (r Rule) clone() Rule {
	out := Rule{
		Label:    r.Label,
		Patterns: append([]string(nil), r.Patterns...),
		Require:  append([]string(nil), r.Require...),
	}
	if r.Split != nil {
		split := *r.Split
		out.Split = &split
	}
	return out
}

// Kind reports which variant r is.
func (r Rule) Kind() Kind {
	if r.Split != nil {
		return KindAmountSplit
	}
	return KindSubstring
}

// Labels returns every label r can assign.
func (r Rule) Labels() []string {
	if r.Split != nil {
		return []string{r.Split.Below, r.Split.AtOrAbove}
	}
	return []string{r.Label}
}

// labelFor returns the label r assigns to amount.
func (r Rule) labelFor(amount decimal.Decimal) string {
	if r.Split == nil {
		return r.Label
	}
	if amount.LessThan(r.Split.Threshold) {
		return r.Split.Below
	}
	return r.Split.AtOrAbove
}
