package engine

import (
	"cmp"
	"slices"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"

	"github.com/shopspring/decimal"
)

// AmountRecord is a record whose amount is still raw text.
type AmountRecord interface {
	DateText() string
	AmountText() string
}

type sortEntry[T any] struct {
	rec    T
	date   int64
	amount decimal.Decimal
}

// Sort orders records by key. The result is a new slice; an unrecognized key
// returns a copy in input order.
func Sort[T AmountRecord](records []T, key domain.SortKey) []T {
	return sortBy(records, key,
		func(r T) string { return r.DateText() },
		func(r T) decimal.Decimal { return ToNumber(r.AmountText()) },
	)
}

// SortTransactions orders unified rows; their amount is already numeric.
func SortTransactions(txns []domain.UnifiedTransaction, key domain.SortKey) []domain.UnifiedTransaction {
	return sortBy(txns, key,
		func(t domain.UnifiedTransaction) string { return t.Date },
		func(t domain.UnifiedTransaction) decimal.Decimal { return t.Amount },
	)
}

func sortBy[T any](records []T, key domain.SortKey, dateOf func(T) string, amountOf func(T) decimal.Decimal) []T {
	out := make([]T, len(records))
	copy(out, records)

	var compare func(a, b sortEntry[T]) int
	switch key {
	case domain.SortDateDesc:
		compare = func(a, b sortEntry[T]) int { return cmp.Compare(b.date, a.date) }
	case domain.SortDateAsc:
		compare = func(a, b sortEntry[T]) int { return cmp.Compare(a.date, b.date) }
	case domain.SortAmountDesc:
		compare = func(a, b sortEntry[T]) int { return b.amount.Cmp(a.amount) }
	case domain.SortAmountAsc:
		compare = func(a, b sortEntry[T]) int { return a.amount.Cmp(b.amount) }
	default:
		return out
	}

	// Resolve keys once instead of per comparison.
	entries := make([]sortEntry[T], len(out))
	for i, r := range out {
		entries[i] = sortEntry[T]{rec: r, date: DateOrdinal(dateOf(r)), amount: amountOf(r)}
	}
	slices.SortStableFunc(entries, compare)

	for i, e := range entries {
		out[i] = e.rec
	}
	return out
}
