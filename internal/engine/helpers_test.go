package engine_test

import (
	"testing"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// row builds a domain.Row from name/value pairs.
func row(kv ...string) domain.Row {
	r := make(domain.Row, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		r = append(r, domain.Field{Name: kv[i], Value: kv[i+1]})
	}
	return r
}

func expense(date, month, group, mode, amount, item string) domain.ExpenseRecord {
	return engine.ExpensesFromRows([]domain.Row{row(
		"Date", date, "Month", month, "Item", item, "Group", group, "Mode", mode, "Amount", amount,
	)})[0]
}

func receipt(date, month, from, mode, amount string) domain.ReceiptRecord {
	return engine.ReceiptsFromRows([]domain.Row{row(
		"Date", date, "Month", month, "From", from, "Mode", mode, "Amount", amount,
	)})[0]
}

func contra(date, month, from, to, amount string) domain.ContraRecord {
	return engine.ContrasFromRows([]domain.Row{row(
		"Date", date, "Month", month, "From", from, "To", to, "Amount", amount,
	)})[0]
}

func opening(mode, ob string) domain.OpeningBalanceRecord {
	return engine.OpeningsFromRows([]domain.Row{row("Mode", mode, "OB", ob)})[0]
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

// fixture is a small, mixed dataset reused across tests.
func fixture() domain.Collections {
	return domain.Collections{
		Expenses: []domain.ExpenseRecord{
			expense("05/Jan/2024", "Jan-24", "Food", "Cash", "₹ 1,200", "Groceries"),
			expense("12/Jan/2024", "Jan-24", "Travel", "Bank", "800", "Train"),
			expense("03/Feb/2024", "Feb-24", "Food", "Card", "(200)", "Refund"),
			expense("", "Feb-24", "Food", "Cash", "50", "Undated"),
			expense("20/Feb/2024", "Feb-24", "Utilities", "Bank", "1,000.50", "Power"),
		},
		Receipts: []domain.ReceiptRecord{
			receipt("01/Jan/2024", "Jan-24", "Salary", "Bank", "10,000"),
			receipt("01/Feb/2024", "Feb-24", "Interest", "Bank", "25.75"),
		},
		Contras: []domain.ContraRecord{
			contra("06/Jan/2024", "Jan-24", "Bank", "Cash", "2,000"),
			contra("10/Feb/2024", "Feb-24", "Bank", "Card", "500"),
		},
		Openings: []domain.OpeningBalanceRecord{
			opening("Cash", "1000"),
			opening("Bank", "5,000"),
		},
	}
}
