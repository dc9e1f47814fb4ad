package engine

import (
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortLabels orders display labels in place using English collation, so
// "bank" and "Bank" sit together. A Collator is not safe for concurrent use,
// hence one per call.
func SortLabels(labels []string) {
	collate.New(language.English).SortStrings(labels)
}

type labelSet struct {
	seen   map[string]struct{}
	labels []string
}

func newLabelSet() *labelSet {
	return &labelSet{seen: make(map[string]struct{})}
}

func (s *labelSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.labels = append(s.labels, v)
}

func (s *labelSet) sorted() []string {
	out := make([]string, len(s.labels))
	copy(out, s.labels)
	SortLabels(out)
	return out
}

// Options lists the distinct values for the filter dropdowns. Months come from
// every dated kind, modes from all four kinds (both contra legs) and groups
// from expenses.
func Options(c domain.Collections) domain.FilterOptions {
	months, modes, groups := newLabelSet(), newLabelSet(), newLabelSet()

	for _, e := range c.Expenses {
		months.add(e.Month)
		modes.add(e.Mode)
		groups.add(e.Group)
	}
	for _, r := range c.Receipts {
		months.add(r.Month)
		modes.add(r.Mode)
	}
	for _, t := range c.Contras {
		months.add(t.Month)
		modes.add(t.From)
		modes.add(t.To)
	}
	for _, ob := range c.Openings {
		modes.add(ob.Mode)
	}

	return domain.FilterOptions{
		Months: months.sorted(),
		Modes:  modes.sorted(),
		Groups: groups.sorted(),
	}
}
