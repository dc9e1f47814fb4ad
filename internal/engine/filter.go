package engine

import (
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
)

// Filterable is implemented by the expense, receipt and contra records.
type Filterable interface {
	DateText() string
	MonthText() string
	MatchesMode(mode string) bool
	MatchesCategory(category string) bool
	SearchText() string
}

// Filter applies the active filter set to a record collection and returns a
// new slice. Rows without a date are always dropped; every other clause is
// skipped when its selector is unrestricted.
func Filter[T Filterable](records []T, state domain.FilterState) []T {
	f := state.Normalized()
	query := strings.ToLower(f.Query)

	out := make([]T, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.DateText()) == "" {
			continue
		}
		if domain.Restricted(f.Period) && strings.TrimSpace(r.MonthText()) != f.Period {
			continue
		}
		if domain.Restricted(f.Mode) && !r.MatchesMode(f.Mode) {
			continue
		}
		if domain.Restricted(f.Category) && !r.MatchesCategory(f.Category) {
			continue
		}
		if query != "" && !strings.Contains(r.SearchText(), query) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterExpenses filters expenses by period, mode, group and search text.
func FilterExpenses(records []domain.ExpenseRecord, state domain.FilterState) []domain.ExpenseRecord {
	return Filter(records, state)
}

// FilterReceipts filters receipts; the category selector does not apply.
func FilterReceipts(records []domain.ReceiptRecord, state domain.FilterState) []domain.ReceiptRecord {
	return Filter(records, state)
}

// FilterContras filters transfers; a mode matches either leg.
func FilterContras(records []domain.ContraRecord, state domain.FilterState) []domain.ContraRecord {
	return Filter(records, state)
}

// FilterTransactions applies the unified-view filter: exact type plus search text.
func FilterTransactions(txns []domain.UnifiedTransaction, f domain.TransactionFilter) []domain.UnifiedTransaction {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	typ := strings.TrimSpace(f.Type)

	out := make([]domain.UnifiedTransaction, 0, len(txns))
	for _, t := range txns {
		if domain.Restricted(typ) && string(t.Type) != typ {
			continue
		}
		if query != "" && !strings.Contains(t.SearchText(), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}
