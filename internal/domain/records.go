// Package domain defines the dashboard's records, state and view models.
// It has no dependencies on transport or storage.
package domain

import "strings"

// ============================================================
// Raw rows (tokenizer output)
// ============================================================

// Field is one header/value pair of a CSV row.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Row keeps the fields of a CSV row in header order.
type Row []Field

// Get returns the value of the field with the given name, or "". When a
// header repeats, the rightmost column wins.
func (r Row) Get(name string) string {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Name == name {
			return r[i].Value
		}
	}
	return ""
}

// Values returns every field value in header order.
func (r Row) Values() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Value
	}
	return out
}

// SearchText is the lower-cased, space-joined concatenation of all values.
func (r Row) SearchText() string {
	return strings.ToLower(strings.Join(r.Values(), " "))
}

// ============================================================
// Typed records
// ============================================================

// RecordKind tags the four ingested record variants.
type RecordKind string

const (
	KindExpense        RecordKind = "expense"
	KindReceipt        RecordKind = "receipt"
	KindContra         RecordKind = "contra"
	KindOpeningBalance RecordKind = "opening_balance"
)

// ExpenseRecord is a spending row. Amount is kept as the raw sheet text.
type ExpenseRecord struct {
	Date      string `json:"date"`
	Month     string `json:"month"`
	Item      string `json:"item"`
	SubGroup  string `json:"subGroup"`
	Group     string `json:"group"`
	Mode      string `json:"mode"`
	Amount    string `json:"amount"`
	Narration string `json:"narration"`
	Row       Row    `json:"-"`
}

// ReceiptRecord is an incoming payment row.
type ReceiptRecord struct {
	Date   string `json:"date"`
	Month  string `json:"month"`
	From   string `json:"from"`
	Mode   string `json:"mode"`
	Amount string `json:"amount"`
	Row    Row    `json:"-"`
}

// ContraRecord moves funds from one mode to another.
type ContraRecord struct {
	Date   string `json:"date"`
	Month  string `json:"month"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Row    Row    `json:"-"`
}

// OpeningBalanceRecord seeds the balance of a mode.
type OpeningBalanceRecord struct {
	Mode    string `json:"mode"`
	Balance string `json:"balance"`
	Row     Row    `json:"-"`
}

func (r ExpenseRecord) Kind() RecordKind { return KindExpense }
func (r ReceiptRecord) Kind() RecordKind { return KindReceipt }
func (r ContraRecord) Kind() RecordKind  { return KindContra }

func (r ExpenseRecord) DateText() string  { return r.Date }
func (r ReceiptRecord) DateText() string  { return r.Date }
func (r ContraRecord) DateText() string   { return r.Date }
func (r ExpenseRecord) MonthText() string { return r.Month }
func (r ReceiptRecord) MonthText() string { return r.Month }
func (r ContraRecord) MonthText() string  { return r.Month }
func (r ExpenseRecord) AmountText() string { return r.Amount }
func (r ReceiptRecord) AmountText() string { return r.Amount }
func (r ContraRecord) AmountText() string  { return r.Amount }

// MatchesMode reports whether the record belongs to the given payment mode.
func (r ExpenseRecord) MatchesMode(mode string) bool { return strings.TrimSpace(r.Mode) == mode }
func (r ReceiptRecord) MatchesMode(mode string) bool { return strings.TrimSpace(r.Mode) == mode }

// MatchesMode is true when either leg of the transfer touches mode.
func (r ContraRecord) MatchesMode(mode string) bool {
	return strings.TrimSpace(r.From) == mode || strings.TrimSpace(r.To) == mode
}

// MatchesCategory only restricts expenses; other kinds have no category.
func (r ExpenseRecord) MatchesCategory(cat string) bool { return strings.TrimSpace(r.Group) == cat }
func (r ReceiptRecord) MatchesCategory(string) bool     { return true }
func (r ContraRecord) MatchesCategory(string) bool      { return true }

func (r ExpenseRecord) SearchText() string { return r.Row.SearchText() }
func (r ReceiptRecord) SearchText() string { return r.Row.SearchText() }
func (r ContraRecord) SearchText() string  { return r.Row.SearchText() }

// Collections holds the four record sets of one load cycle.
type Collections struct {
	Expenses []ExpenseRecord        `json:"expenses"`
	Receipts []ReceiptRecord        `json:"receipts"`
	Contras  []ContraRecord         `json:"contras"`
	Openings []OpeningBalanceRecord `json:"openings"`
}

// Counts reports the size of each collection.
func (c Collections) Counts() CollectionCounts {
	return CollectionCounts{
		Expenses: len(c.Expenses),
		Receipts: len(c.Receipts),
		Contras:  len(c.Contras),
		Openings: len(c.Openings),
	}
}

// CollectionCounts is the per-kind row count of a load.
type CollectionCounts struct {
	Expenses int `json:"expenses"`
	Receipts int `json:"receipts"`
	Contras  int `json:"contras"`
	Openings int `json:"openings"`
}
