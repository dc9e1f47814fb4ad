package domain

import "github.com/shopspring/decimal"

// ============================================================
// Balances
// ============================================================

// ModeBalance is the reconciled balance of one payment mode.
type ModeBalance struct {
	Mode           string          `json:"mode"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
}

// BalanceSheet is the list of mode balances, sorted by mode.
type BalanceSheet []ModeBalance

// Lookup returns the balance entry for mode.
func (b BalanceSheet) Lookup(mode string) (ModeBalance, bool) {
	for _, m := range b {
		if m.Mode == mode {
			return m, true
		}
	}
	return ModeBalance{}, false
}

// Total sums every mode balance.
func (b BalanceSheet) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, m := range b {
		sum = sum.Add(m.Balance)
	}
	return sum
}

// BalanceCard is a mode balance ready for display.
type BalanceCard struct {
	ModeBalance
	BalanceText        string `json:"balanceText"`
	OpeningBalanceText string `json:"openingBalanceText"`
}

// ============================================================
// Aggregates
// ============================================================

// GroupTotal is one labelled bucket of a grouped sum.
type GroupTotal struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

// Series is a chart-ready list of labels and values.
type Series struct {
	Name   string            `json:"name"`
	Labels []string          `json:"labels"`
	Values []decimal.Decimal `json:"values"`
}

// FlowTotals compares filtered expenses against filtered receipts.
type FlowTotals struct {
	Expenses decimal.Decimal `json:"expenses"`
	Receipts decimal.Decimal `json:"receipts"`
}

// Summary holds the headline scalars over the filtered collections.
type Summary struct {
	TotalExpense  decimal.Decimal `json:"totalExpense"`
	TotalReceipts decimal.Decimal `json:"totalReceipts"`
	NetCashflow   decimal.Decimal `json:"netCashflow"`
	TotalContra   decimal.Decimal `json:"totalContra"`
}

// SummaryView is Summary plus formatted strings.
type SummaryView struct {
	Dataset string  `json:"dataset"`
	Title   string  `json:"title"`
	Summary Summary `json:"summary"`

	TotalExpenseText  string `json:"totalExpenseText"`
	TotalReceiptsText string `json:"totalReceiptsText"`
	NetCashflowText   string `json:"netCashflowText"`
	TotalContraText   string `json:"totalContraText"`
}

// Charts bundles the four chart series.
type Charts struct {
	PeriodTrend    Series `json:"periodTrend"`
	ModeTotals     Series `json:"modeTotals"`
	CategoryTotals Series `json:"categoryTotals"`
	Flow           Series `json:"flow"`
}

// FilterOptions are the selectable values for the filter dropdowns.
type FilterOptions struct {
	Months []string `json:"months"`
	Modes  []string `json:"modes"`
	Groups []string `json:"groups"`
}

// ============================================================
// Tables
// ============================================================

// Page is one slice of a filtered, sorted collection.
type Page[T any] struct {
	Rows       []T `json:"rows"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalRows  int `json:"totalRows"`
}

// TableRow is a display row of any per-kind table.
type TableRow struct {
	Date       string          `json:"date"`
	Month      string          `json:"month"`
	Item       string          `json:"item,omitempty"`
	SubGroup   string          `json:"subGroup,omitempty"`
	Group      string          `json:"group,omitempty"`
	Mode       string          `json:"mode,omitempty"`
	From       string          `json:"from,omitempty"`
	To         string          `json:"to,omitempty"`
	Narration  string          `json:"narration,omitempty"`
	Type       TransactionType `json:"type,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	AmountText string          `json:"amountText"`
	// Refund marks a negative expense (bracketed or trailing-minus amount).
	Refund bool `json:"refund,omitempty"`
}

// TablePage is the response of a table endpoint.
type TablePage struct {
	View ViewKind       `json:"view"`
	Sort SortKey        `json:"sort"`
	Page Page[TableRow] `json:"page"`
}
