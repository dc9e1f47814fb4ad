package engine

import (
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"

	"github.com/shopspring/decimal"
)

// groupSum sums amounts by key. Keys keep first-appearance order; blank keys
// are skipped.
func groupSum[T any](records []T, keyOf func(T) string, amountOf func(T) decimal.Decimal) []domain.GroupTotal {
	index := make(map[string]int)
	var out []domain.GroupTotal
	for _, r := range records {
		key := strings.TrimSpace(keyOf(r))
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, domain.GroupTotal{Label: key, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(amountOf(r))
	}
	return out
}

// SumAmounts is the net signed total of a collection.
func SumAmounts[T AmountRecord](records []T) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(ToNumber(r.AmountText()))
	}
	return sum
}

func expenseAmount(e domain.ExpenseRecord) decimal.Decimal { return ToNumber(e.Amount) }

// PeriodTotals groups expenses by month. It is meant for the unfiltered
// collection so the trend spans every period. Labels are sorted.
func PeriodTotals(expenses []domain.ExpenseRecord) []domain.GroupTotal {
	totals := groupSum(expenses, func(e domain.ExpenseRecord) string { return e.Month }, expenseAmount)

	labels := make([]string, len(totals))
	byLabel := make(map[string]domain.GroupTotal, len(totals))
	for i, t := range totals {
		labels[i] = t.Label
		byLabel[t.Label] = t
	}
	SortLabels(labels)

	out := make([]domain.GroupTotal, len(labels))
	for i, l := range labels {
		out[i] = byLabel[l]
	}
	return out
}

// ModeTotals groups filtered expenses by payment mode.
func ModeTotals(expenses []domain.ExpenseRecord) []domain.GroupTotal {
	return groupSum(expenses, func(e domain.ExpenseRecord) string { return e.Mode }, expenseAmount)
}

// CategoryTotals groups filtered expenses by group.
func CategoryTotals(expenses []domain.ExpenseRecord) []domain.GroupTotal {
	return groupSum(expenses, func(e domain.ExpenseRecord) string { return e.Group }, expenseAmount)
}

// FlowTotals compares filtered expenses against filtered receipts.
func FlowTotals(expenses []domain.ExpenseRecord, receipts []domain.ReceiptRecord) domain.FlowTotals {
	return domain.FlowTotals{
		Expenses: SumAmounts(expenses),
		Receipts: SumAmounts(receipts),
	}
}

// Summarize computes the headline scalars. Net cashflow is receipts minus
// expenses; contra volume is reported separately since transfers are neutral.
func Summarize(expenses []domain.ExpenseRecord, receipts []domain.ReceiptRecord, contras []domain.ContraRecord) domain.Summary {
	exp := SumAmounts(expenses)
	rec := SumAmounts(receipts)
	return domain.Summary{
		TotalExpense:  exp,
		TotalReceipts: rec,
		NetCashflow:   rec.Sub(exp),
		TotalContra:   SumAmounts(contras),
	}
}

// SeriesOf converts grouped totals into a chart series.
func SeriesOf(name string, totals []domain.GroupTotal) domain.Series {
	s := domain.Series{
		Name:   name,
		Labels: make([]string, len(totals)),
		Values: make([]decimal.Decimal, len(totals)),
	}
	for i, t := range totals {
		s.Labels[i] = t.Label
		s.Values[i] = t.Total
	}
	return s
}

// FlowSeries is the two-bar receipts vs expenses comparison.
func FlowSeries(f domain.FlowTotals) domain.Series {
	return domain.Series{
		Name:   "flow",
		Labels: []string{"Receipts", "Expenses"},
		Values: []decimal.Decimal{f.Receipts, f.Expenses},
	}
}
