package domain

import (
	"strings"
	"time"
)

// AllValues is the sentinel a client sends for an unrestricted selector.
const AllValues = "ALL"

// DefaultPageSize is the number of rows per table page.
const DefaultPageSize = 25

// ============================================================
// Filters & sorting
// ============================================================

// FilterState is the single active filter set shared by every view.
// Empty or "ALL" fields are unrestricted.
type FilterState struct {
	Period   string `json:"period"`
	Mode     string `json:"mode"`
	Category string `json:"category"`
	Query    string `json:"query"`
}

// Normalized trims the selectors and maps "" to ALL.
func (f FilterState) Normalized() FilterState {
	norm := func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return AllValues
		}
		return s
	}
	return FilterState{
		Period:   norm(f.Period),
		Mode:     norm(f.Mode),
		Category: norm(f.Category),
		Query:    strings.TrimSpace(f.Query),
	}
}

// Restricted reports whether a selector value narrows the result.
func Restricted(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != AllValues
}

// TransactionFilter drives the unified transaction view.
type TransactionFilter struct {
	Type  string `json:"type"`
	Query string `json:"query"`
}

// SortKey orders a view.
type SortKey string

const (
	SortDateDesc   SortKey = "date_desc"
	SortDateAsc    SortKey = "date_asc"
	SortAmountDesc SortKey = "amount_desc"
	SortAmountAsc  SortKey = "amount_asc"
)

// DefaultSort is the initial order of every table.
const DefaultSort = SortDateDesc

// ValidSortKey reports whether k is a recognized key.
func ValidSortKey(k string) bool {
	switch SortKey(k) {
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return true
	}
	return false
}

// ViewKind names a paginated table.
type ViewKind string

const (
	ViewExpense      ViewKind = "expense"
	ViewReceipt      ViewKind = "receipt"
	ViewContra       ViewKind = "contra"
	ViewTransactions ViewKind = "transactions"
)

// TableViews are the per-kind tables driven by the shared FilterState.
var TableViews = []ViewKind{ViewExpense, ViewReceipt, ViewContra}

// ValidTableView reports whether v is one of the per-kind tables.
func ValidTableView(v string) bool {
	for _, t := range TableViews {
		if string(t) == v {
			return true
		}
	}
	return false
}

// ViewState is the sort and page position of one table.
type ViewState struct {
	Sort SortKey `json:"sort"`
	Page int     `json:"page"`
}

// ============================================================
// Dashboard state
// ============================================================

// DashboardState is an immutable snapshot of everything the views derive from.
// Transitions build a new value; nothing mutates a published state.
type DashboardState struct {
	Dataset     Dataset                `json:"dataset"`
	Collections Collections            `json:"-"`
	Filter      FilterState            `json:"filter"`
	Views       map[ViewKind]ViewState `json:"views"`
	TxFilter    TransactionFilter      `json:"transactionFilter"`
	Generation  uint64                 `json:"generation"`
	ReloadID    string                 `json:"reloadId"`
	LoadedAt    time.Time              `json:"loadedAt"`
}

// NewViewStates returns every table at page 1 with the default sort.
func NewViewStates() map[ViewKind]ViewState {
	views := make(map[ViewKind]ViewState, len(TableViews)+1)
	for _, v := range TableViews {
		views[v] = ViewState{Sort: DefaultSort, Page: 1}
	}
	views[ViewTransactions] = ViewState{Sort: DefaultSort, Page: 1}
	return views
}

// View returns the state of v, falling back to defaults.
func (s *DashboardState) View(v ViewKind) ViewState {
	if vs, ok := s.Views[v]; ok {
		return vs
	}
	return ViewState{Sort: DefaultSort, Page: 1}
}

// Clone copies the state; collections are shared because they are never mutated.
func (s *DashboardState) Clone() *DashboardState {
	next := *s
	next.Views = make(map[ViewKind]ViewState, len(s.Views))
	for k, v := range s.Views {
		next.Views[k] = v
	}
	return &next
}

// ResetPages moves every table back to page 1.
func (s *DashboardState) ResetPages() {
	for k, v := range s.Views {
		v.Page = 1
		s.Views[k] = v
	}
}

// StateInfo is returned by GET /v1/dashboard/state.
type StateInfo struct {
	Dataset    Dataset                `json:"dataset"`
	Filter     FilterState            `json:"filter"`
	Views      map[ViewKind]ViewState `json:"views"`
	TxFilter   TransactionFilter      `json:"transactionFilter"`
	Generation uint64                 `json:"generation"`
	ReloadID   string                 `json:"reloadId"`
	LoadedAt   time.Time              `json:"loadedAt"`
	Counts     CollectionCounts       `json:"counts"`
}
