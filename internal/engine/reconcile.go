package engine

import (
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"

	"github.com/shopspring/decimal"
)

type ledger struct {
	entries map[string]*domain.ModeBalance
}

func (l *ledger) entry(mode string) *domain.ModeBalance {
	e, ok := l.entries[mode]
	if !ok {
		e = &domain.ModeBalance{Mode: mode, Balance: decimal.Zero, OpeningBalance: decimal.Zero}
		l.entries[mode] = e
	}
	return e
}

func (l *ledger) add(mode string, amount decimal.Decimal) {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return
	}
	e := l.entry(mode)
	e.Balance = e.Balance.Add(amount)
}

// Reconcile computes the running balance of every payment mode:
//
//	balance = opening + receipts - expenses - contra out + contra in
//
// A repeated opening-balance row for the same mode replaces the earlier one.
// Rows without a mode are ignored. Modes seen only in flows start at zero.
func Reconcile(
	expenses []domain.ExpenseRecord,
	receipts []domain.ReceiptRecord,
	contras []domain.ContraRecord,
	openings []domain.OpeningBalanceRecord,
) domain.BalanceSheet {
	l := &ledger{entries: make(map[string]*domain.ModeBalance)}

	for _, ob := range openings {
		mode := strings.TrimSpace(ob.Mode)
		if mode == "" {
			continue
		}
		amt := ToNumber(ob.Balance)
		l.entries[mode] = &domain.ModeBalance{Mode: mode, Balance: amt, OpeningBalance: amt}
	}

	for _, r := range receipts {
		l.add(r.Mode, ToNumber(r.Amount))
	}
	for _, e := range expenses {
		l.add(e.Mode, ToNumber(e.Amount).Neg())
	}
	for _, c := range contras {
		amt := ToNumber(c.Amount)
		l.add(c.From, amt.Neg())
		l.add(c.To, amt)
	}

	modes := make([]string, 0, len(l.entries))
	for m := range l.entries {
		modes = append(modes, m)
	}
	SortLabels(modes)

	sheet := make(domain.BalanceSheet, 0, len(modes))
	for _, m := range modes {
		sheet = append(sheet, *l.entries[m])
	}
	return sheet
}
