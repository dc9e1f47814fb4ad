package service

import (
	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/engine"
)

// Chart series names.
const (
	seriesPeriodTrend = "period_trend"
	seriesModeTotals  = "mode_totals"
	seriesCategory    = "category_totals"
)

// filtered applies the shared filter to the three flow collections.
type filtered struct {
	expenses []domain.ExpenseRecord
	receipts []domain.ReceiptRecord
	contras  []domain.ContraRecord
}

func filterState(st *domain.DashboardState) filtered {
	c := st.Collections
	return filtered{
		expenses: engine.FilterExpenses(c.Expenses, st.Filter),
		receipts: engine.FilterReceipts(c.Receipts, st.Filter),
		contras:  engine.FilterContras(c.Contras, st.Filter),
	}
}

func formatterFor(ds domain.Dataset) engine.MoneyFormatter {
	return engine.MoneyFormatter{Symbol: ds.Currency, Locale: ds.Locale}
}

// tableRows filters and sorts one per-kind view and shapes its display rows.
func tableRows(st *domain.DashboardState, view domain.ViewKind, sort domain.SortKey) []domain.TableRow {
	money := formatterFor(st.Dataset)
	c := st.Collections

	switch view {
	case domain.ViewExpense:
		recs := engine.Sort(engine.FilterExpenses(c.Expenses, st.Filter), sort)
		rows := make([]domain.TableRow, len(recs))
		for i, e := range recs {
			amt := engine.ToNumber(e.Amount)
			rows[i] = domain.TableRow{
				Date: e.Date, Month: e.Month, Item: e.Item, SubGroup: e.SubGroup, Group: e.Group,
				Mode: e.Mode, Narration: e.Narration,
				Amount: amt, AmountText: money.Format(amt), Refund: amt.IsNegative(),
			}
		}
		return rows

	case domain.ViewReceipt:
		recs := engine.Sort(engine.FilterReceipts(c.Receipts, st.Filter), sort)
		rows := make([]domain.TableRow, len(recs))
		for i, r := range recs {
			amt := engine.ToNumber(r.Amount)
			rows[i] = domain.TableRow{
				Date: r.Date, Month: r.Month, From: r.From, Mode: r.Mode,
				Amount: amt, AmountText: money.Format(amt),
			}
		}
		return rows

	case domain.ViewContra:
		recs := engine.Sort(engine.FilterContras(c.Contras, st.Filter), sort)
		rows := make([]domain.TableRow, len(recs))
		for i, t := range recs {
			amt := engine.ToNumber(t.Amount)
			rows[i] = domain.TableRow{
				Date: t.Date, Month: t.Month, From: t.From, To: t.To,
				Amount: amt, AmountText: money.Format(amt),
			}
		}
		return rows
	}
	return nil
}

// transactionRows builds, filters and sorts the unified view.
func transactionRows(st *domain.DashboardState, sort domain.SortKey) []domain.TableRow {
	money := formatterFor(st.Dataset)
	txns := engine.SortTransactions(
		engine.FilterTransactions(engine.BuildUnified(st.Collections), st.TxFilter),
		sort,
	)

	rows := make([]domain.TableRow, len(txns))
	for i, t := range txns {
		rows[i] = domain.TableRow{
			Date: t.Date, Month: t.Month, Type: t.Type, Mode: t.Mode, From: t.From, To: t.To,
			Item: t.Item, Group: t.Group, SubGroup: t.SubGroup, Narration: t.Narration,
			Amount: t.Amount, AmountText: money.Format(t.Amount),
			Refund: t.Type == domain.TxExpense && t.Amount.IsNegative(),
		}
	}
	return rows
}

func summaryView(st *domain.DashboardState) *domain.SummaryView {
	f := filterState(st)
	s := engine.Summarize(f.expenses, f.receipts, f.contras)
	money := formatterFor(st.Dataset)

	return &domain.SummaryView{
		Dataset:           st.Dataset.Key,
		Title:             st.Dataset.Name + " (Currency: " + st.Dataset.Currency + ")",
		Summary:           s,
		TotalExpenseText:  money.Format(s.TotalExpense),
		TotalReceiptsText: money.Format(s.TotalReceipts),
		NetCashflowText:   money.Format(s.NetCashflow),
		TotalContraText:   money.Format(s.TotalContra),
	}
}

// balanceCards reconciles over the full collections; the filter does not
// narrow running balances.
func balanceCards(st *domain.DashboardState) []domain.BalanceCard {
	c := st.Collections
	sheet := engine.Reconcile(c.Expenses, c.Receipts, c.Contras, c.Openings)
	money := formatterFor(st.Dataset)

	cards := make([]domain.BalanceCard, len(sheet))
	for i, m := range sheet {
		cards[i] = domain.BalanceCard{
			ModeBalance:        m,
			BalanceText:        money.Format(m.Balance),
			OpeningBalanceText: money.Format(m.OpeningBalance),
		}
	}
	return cards
}

func chartsView(st *domain.DashboardState) *domain.Charts {
	f := filterState(st)
	return &domain.Charts{
		PeriodTrend:    engine.SeriesOf(seriesPeriodTrend, engine.PeriodTotals(st.Collections.Expenses)),
		ModeTotals:     engine.SeriesOf(seriesModeTotals, engine.ModeTotals(f.expenses)),
		CategoryTotals: engine.SeriesOf(seriesCategory, engine.CategoryTotals(f.expenses)),
		Flow:           engine.FlowSeries(engine.FlowTotals(f.expenses, f.receipts)),
	}
}

func stateInfo(st *domain.DashboardState) *domain.StateInfo {
	views := make(map[domain.ViewKind]domain.ViewState, len(st.Views))
	for k, v := range st.Views {
		views[k] = v
	}
	return &domain.StateInfo{
		Dataset:    st.Dataset,
		Filter:     st.Filter,
		Views:      views,
		TxFilter:   st.TxFilter,
		Generation: st.Generation,
		ReloadID:   st.ReloadID,
		LoadedAt:   st.LoadedAt,
		Counts:     st.Collections.Counts(),
	}
}
