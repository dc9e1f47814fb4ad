package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionType tags a row of the unified transaction view.
type TransactionType string

const (
	TxExpense   TransactionType = "EXPENSE"
	TxReceipt   TransactionType = "RECEIPT"
	TxContraOut TransactionType = "CONTRA_OUT"
	TxContraIn  TransactionType = "CONTRA_IN"
)

// ValidTransactionType reports whether t is one of the four unified types.
func ValidTransactionType(t string) bool {
	switch TransactionType(t) {
	case TxExpense, TxReceipt, TxContraOut, TxContraIn:
		return true
	}
	return false
}

// UnifiedTransaction is a read-only, flattened view row. Amount is already normalized.
type UnifiedTransaction struct {
	Date      string          `json:"date"`
	Month     string          `json:"month"`
	Type      TransactionType `json:"type"`
	Mode      string          `json:"mode"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Item      string          `json:"item"`
	Group     string          `json:"group"`
	SubGroup  string          `json:"subGroup"`
	Narration string          `json:"narration"`
	Amount    decimal.Decimal `json:"amount"`
}

func (t UnifiedTransaction) DateText() string { return t.Date }

// SearchText joins every field, amount included, for free-text search.
func (t UnifiedTransaction) SearchText() string {
	parts := []string{
		t.Date, t.Month, string(t.Type), t.Mode, t.From, t.To,
		t.Item, t.Group, t.SubGroup, t.Narration, t.Amount.String(),
	}
	return strings.ToLower(strings.Join(parts, " "))
}
