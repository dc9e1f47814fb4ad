package engine

import (
	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
)

// Column headers of the source sheets.
const (
	colDate      = "Date"
	colMonth     = "Month"
	colItem      = "Item"
	colSubGroup  = "SubGroup"
	colGroup     = "Group"
	colMode      = "Mode"
	colAmount    = "Amount"
	colNarration = "Narration"
	colFrom      = "From"
	colTo        = "To"
)

// openingBalanceColumns are tried in order; the first non-empty value wins.
var openingBalanceColumns = []string{"OpeningBalance", "OB", "Balance"}

// ExpensesFromRows maps sanitized rows to expense records.
func ExpensesFromRows(rows []domain.Row) []domain.ExpenseRecord {
	out := make([]domain.ExpenseRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ExpenseRecord{
			Date:      r.Get(colDate),
			Month:     r.Get(colMonth),
			Item:      r.Get(colItem),
			SubGroup:  r.Get(colSubGroup),
			Group:     r.Get(colGroup),
			Mode:      r.Get(colMode),
			Amount:    r.Get(colAmount),
			Narration: r.Get(colNarration),
			Row:       r,
		})
	}
	return out
}

// ReceiptsFromRows maps sanitized rows to receipt records.
func ReceiptsFromRows(rows []domain.Row) []domain.ReceiptRecord {
	out := make([]domain.ReceiptRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ReceiptRecord{
			Date:   r.Get(colDate),
			Month:  r.Get(colMonth),
			From:   r.Get(colFrom),
			Mode:   r.Get(colMode),
			Amount: r.Get(colAmount),
			Row:    r,
		})
	}
	return out
}

// ContrasFromRows maps sanitized rows to transfer records.
func ContrasFromRows(rows []domain.Row) []domain.ContraRecord {
	out := make([]domain.ContraRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.ContraRecord{
			Date:   r.Get(colDate),
			Month:  r.Get(colMonth),
			From:   r.Get(colFrom),
			To:     r.Get(colTo),
			Amount: r.Get(colAmount),
			Row:    r,
		})
	}
	return out
}

// OpeningsFromRows maps sanitized rows to opening balances, resolving the
// balance column by fallback.
func OpeningsFromRows(rows []domain.Row) []domain.OpeningBalanceRecord {
	out := make([]domain.OpeningBalanceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.OpeningBalanceRecord{
			Mode:    r.Get(colMode),
			Balance: OpeningBalanceOf(r),
			Row:     r,
		})
	}
	return out
}

// OpeningBalanceOf returns the first non-empty of OpeningBalance, OB, Balance.
func OpeningBalanceOf(r domain.Row) string {
	for _, col := range openingBalanceColumns {
		if v := r.Get(col); v != "" {
			return v
		}
	}
	return ""
}

// RawSources holds the tokenized rows of the four sources of one reload.
type RawSources struct {
	Expenses []domain.Row
	Receipts []domain.Row
	Contras  []domain.Row
	Openings []domain.Row
}

// BuildCollections sanitizes every source and builds the typed collections.
func BuildCollections(src RawSources) domain.Collections {
	return domain.Collections{
		Expenses: ExpensesFromRows(Sanitize(src.Expenses)),
		Receipts: ReceiptsFromRows(Sanitize(src.Receipts)),
		Contras:  ContrasFromRows(Sanitize(src.Contras)),
		Openings: OpeningsFromRows(Sanitize(src.Openings)),
	}
}
