package engine

import "github.com/boddenberg/expense-dashboard-bfa/internal/domain"

// BuildUnified flattens the collections into one transaction sequence:
// expenses, then receipts, then contras, each in input order. Every contra
// yields a CONTRA_OUT row for the source mode followed by a CONTRA_IN row for
// the destination.
func BuildUnified(c domain.Collections) []domain.UnifiedTransaction {
	out := make([]domain.UnifiedTransaction, 0, len(c.Expenses)+len(c.Receipts)+2*len(c.Contras))

	for _, e := range c.Expenses {
		out = append(out, domain.UnifiedTransaction{
			Date:      e.Date,
			Month:     e.Month,
			Type:      domain.TxExpense,
			Mode:      e.Mode,
			Item:      e.Item,
			Group:     e.Group,
			SubGroup:  e.SubGroup,
			Narration: e.Narration,
			Amount:    ToNumber(e.Amount),
		})
	}

	for _, r := range c.Receipts {
		out = append(out, domain.UnifiedTransaction{
			Date:   r.Date,
			Month:  r.Month,
			Type:   domain.TxReceipt,
			Mode:   r.Mode,
			From:   r.From,
			Amount: ToNumber(r.Amount),
		})
	}

	for _, t := range c.Contras {
		amt := ToNumber(t.Amount)
		base := domain.UnifiedTransaction{
			Date:   t.Date,
			Month:  t.Month,
			From:   t.From,
			To:     t.To,
			Amount: amt,
		}
		debit := base
		debit.Type = domain.TxContraOut
		debit.Mode = t.From
		credit := base
		credit.Type = domain.TxContraIn
		credit.Mode = t.To
		out = append(out, debit, credit)
	}

	return out
}
