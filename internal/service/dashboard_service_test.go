package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/cache"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/resilience"
	"github.com/boddenberg/expense-dashboard-bfa/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDashboard(t *testing.T, src *mockSource, pageSize int) (*service.DashboardService, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics()
	svc := service.NewDashboardService(src, testRegistry(), "india", pageSize, metrics, zap.NewNop())
	return svc, metrics
}

func loadedDashboard(t *testing.T, pageSize int) (*service.DashboardService, *mockSource) {
	t.Helper()
	src := newMockSource()
	svc, _ := newDashboard(t, src, pageSize)
	_, err := svc.Reload(context.Background(), "india")
	require.NoError(t, err)
	return svc, src
}

func assertAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

// ============================================================
// Reload
// ============================================================

func TestReload_Success(t *testing.T) {
	src := newMockSource()
	svc, metrics := newDashboard(t, src, 25)
	assert.False(t, svc.Loaded())

	info, err := svc.Reload(context.Background(), "india")
	require.NoError(t, err)

	assert.True(t, svc.Loaded())
	assert.Equal(t, "india", info.Dataset.Key)
	assert.Equal(t, uint64(1), info.Generation)
	assert.NotEmpty(t, info.ReloadID)
	assert.Equal(t, domain.CollectionCounts{Expenses: 3, Receipts: 1, Contras: 1, Openings: 2}, info.Counts)
	assert.Equal(t, domain.AllValues, info.Filter.Period)
	assert.Equal(t, []string{"india/expense", "india/receipts", "india/contra", "india/ob"}, src.callLog())
	assert.Equal(t, float64(1), metrics.GetDashboardSnapshot().ReloadsSucceeded)
}

func TestReload_EmptyKeyRefreshesCurrentDataset(t *testing.T) {
	svc, src := loadedDashboard(t, 25)
	_, err := svc.Reload(context.Background(), "uae")
	require.NoError(t, err)
	src.resetCalls()

	info, err := svc.Reload(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, "uae", info.Dataset.Key)
	assert.Equal(t, "uae/expense", src.callLog()[0])
}

func TestReload_UnknownDataset(t *testing.T) {
	src := newMockSource()
	svc, _ := newDashboard(t, src, 25)

	_, err := svc.Reload(context.Background(), "mars")

	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "dataset", verr.Field)
	assert.Empty(t, src.callLog())
}

func TestReload_FailureKeepsPreviousState(t *testing.T) {
	src := newMockSource()
	svc, metrics := newDashboard(t, src, 25)
	_, err := svc.Reload(context.Background(), "india")
	require.NoError(t, err)

	src.resetCalls()
	src.setErr("india/contra", &domain.ErrFetchFailed{Region: "india", Kind: "contra", Status: 500})

	_, err = svc.Reload(context.Background(), "india")
	var ff *domain.ErrFetchFailed
	require.ErrorAs(t, err, &ff)
	assert.Equal(t, 500, ff.Status)
	assert.Equal(t, []string{"india/expense", "india/receipts", "india/contra"}, src.callLog(), "remaining sources are not fetched")

	info, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.Generation)
	assert.Equal(t, 3, info.Counts.Expenses)

	snap := metrics.GetDashboardSnapshot()
	assert.Equal(t, float64(1), snap.ReloadsSucceeded)
	assert.Equal(t, float64(1), snap.ReloadsFailed)
}

func TestReload_MissingSourceFails(t *testing.T) {
	src := newMockSource()
	delete(src.data, "uae/ob")
	svc, _ := newDashboard(t, src, 25)

	_, err := svc.Reload(context.Background(), "uae")

	var nf *domain.ErrSourceNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "ob", nf.Kind)
	assert.False(t, svc.Loaded())
}

func TestReload_SupersededReloadIsDiscarded(t *testing.T) {
	src := newMockSource()
	gate := make(chan struct{})
	src.gates["india/expense"] = gate
	src.entered = make(chan string, 1)
	svc, metrics := newDashboard(t, src, 25)

	type result struct {
		info *domain.StateInfo
		err  error
	}
	first := make(chan result, 1)
	go func() {
		info, err := svc.Reload(context.Background(), "india")
		first <- result{info, err}
	}()

	<-src.entered
	info, err := svc.Reload(context.Background(), "uae")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), info.Generation)

	close(gate)
	res := <-first

	var stale *domain.ErrStaleReload
	require.ErrorAs(t, res.err, &stale)
	assert.Equal(t, uint64(1), stale.Generation)
	assert.Equal(t, uint64(2), stale.Latest)

	state, err := svc.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "uae", state.Dataset.Key)
	assert.Equal(t, float64(1), metrics.GetDashboardSnapshot().ReloadsStale)
}

func TestReload_SameDatasetKeepsFilterAndSort(t *testing.T) {
	svc, _ := loadedDashboard(t, 2)
	ctx := context.Background()

	_, err := svc.SetFilter(ctx, domain.FilterState{Mode: "Cash"})
	require.NoError(t, err)
	_, err = svc.Table(ctx, "expense", service.TableQuery{Sort: "amount_asc"})
	require.NoError(t, err)

	info, err := svc.Reload(ctx, "india")
	require.NoError(t, err)
	assert.Equal(t, "Cash", info.Filter.Mode)
	assert.Equal(t, domain.SortAmountAsc, info.Views[domain.ViewExpense].Sort)
	assert.Equal(t, 1, info.Views[domain.ViewExpense].Page)

	info, err = svc.Reload(ctx, "uae")
	require.NoError(t, err)
	assert.Equal(t, domain.AllValues, info.Filter.Mode, "switching datasets resets the filter")
	assert.Equal(t, domain.DefaultSort, info.Views[domain.ViewExpense].Sort)
}

func TestReload_BypassesProxyCache(t *testing.T) {
	up := &sheetUpstream{bodies: map[string]string{
		"https://sheets.example/india-expense.csv":  indiaExpenses,
		"https://sheets.example/india-receipts.csv": indiaReceipts,
		"https://sheets.example/india-contra.csv":   indiaContras,
		"https://sheets.example/india-ob.csv":       indiaOpenings,
	}}
	sources := mockSources{
		"india/expense":  "https://sheets.example/india-expense.csv",
		"india/receipts": "https://sheets.example/india-receipts.csv",
		"india/contra":   "https://sheets.example/india-contra.csv",
		"india/ob":       "https://sheets.example/india-ob.csv",
	}
	c := cache.New[string](time.Minute)
	t.Cleanup(c.Close)
	metrics := observability.NewMetrics()
	proxy := service.NewCSVProxy(up, sources, c, resilience.NewBulkhead(4), metrics, zap.NewNop())
	svc := service.NewDashboardService(proxy, testRegistry(), "india", 25, metrics, zap.NewNop())
	ctx := context.Background()

	// a client read through the proxy fills the body cache
	_, err := proxy.Fetch(ctx, "india", domain.SourceExpense)
	require.NoError(t, err)

	info, err := svc.Reload(ctx, "india")
	require.NoError(t, err)
	assert.Equal(t, 3, info.Counts.Expenses)

	up.set("https://sheets.example/india-expense.csv",
		indiaExpenses+"04/Feb/2024,Feb-24,Bus,Road,Travel,Cash,40,\n")

	info, err = svc.Reload(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 4, info.Counts.Expenses, "manual refresh must see the new upstream body")
}

// ============================================================
// Transitions
// ============================================================

func TestViews_NotLoaded(t *testing.T) {
	svc, _ := newDashboard(t, newMockSource(), 25)
	ctx := context.Background()

	var nl *domain.ErrNotLoaded
	_, err := svc.Summary(ctx)
	assert.ErrorAs(t, err, &nl)
	_, err = svc.Table(ctx, "expense", service.TableQuery{})
	assert.ErrorAs(t, err, &nl)
	_, err = svc.SetFilter(ctx, domain.FilterState{})
	assert.ErrorAs(t, err, &nl)
	_, err = svc.State(ctx)
	assert.ErrorAs(t, err, &nl)
}

func TestTable_ClampsAndStoresPage(t *testing.T) {
	svc, _ := loadedDashboard(t, 2)
	ctx := context.Background()

	page, err := svc.Table(ctx, "expense", service.TableQuery{Page: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Page)
	assert.Equal(t, 2, page.Page.TotalPages)
	assert.Equal(t, 3, page.Page.TotalRows)
	require.Len(t, page.Page.Rows, 1)
	assert.Equal(t, "Groceries", page.Page.Rows[0].Item, "date_desc puts the oldest row last")

	info, err := svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, info.Views[domain.ViewExpense].Page)

	page, err = svc.Table(ctx, "expense", service.TableQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page.Page, "zero page keeps the stored position")
}

func TestTable_SortChangeResetsPage(t *testing.T) {
	svc, _ := loadedDashboard(t, 2)
	ctx := context.Background()

	_, err := svc.Table(ctx, "expense", service.TableQuery{Page: 2})
	require.NoError(t, err)

	page, err := svc.Table(ctx, "expense", service.TableQuery{Page: 2, Sort: "amount_asc"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Page)
	assert.Equal(t, domain.SortAmountAsc, page.Sort)
	require.Len(t, page.Page.Rows, 2)
	assert.Equal(t, "Refund", page.Page.Rows[0].Item)
	assert.True(t, page.Page.Rows[0].Refund)
	assertAmount(t, "-200", page.Page.Rows[0].Amount)
	assert.Equal(t, "Train", page.Page.Rows[1].Item)
}

func TestTable_Validation(t *testing.T) {
	svc, _ := loadedDashboard(t, 25)
	ctx := context.Background()

	var nf *domain.ErrNotFound
	_, err := svc.Table(ctx, "payroll", service.TableQuery{})
	assert.ErrorAs(t, err, &nf)

	var verr *domain.ErrValidation
	_, err = svc.Table(ctx, "expense", service.TableQuery{Sort: "alphabetical"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "sort", verr.Field)

	_, err = svc.Table(ctx, "receipt", service.TableQuery{Page: -1})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "page", verr.Field)
}

func TestSetFilter_ResetsPagesAndNarrowsTables(t *testing.T) {
	svc, _ := loadedDashboard(t, 2)
	ctx := context.Background()

	_, err := svc.Table(ctx, "expense", service.TableQuery{Page: 2})
	require.NoError(t, err)

	info, err := svc.SetFilter(ctx, domain.FilterState{Mode: " Cash ", Period: ""})
	require.NoError(t, err)
	assert.Equal(t, "Cash", info.Filter.Mode)
	assert.Equal(t, domain.AllValues, info.Filter.Period)
	for v, vs := range info.Views {
		assert.Equal(t, 1, vs.Page, "view %s", v)
	}

	page, err := svc.Table(ctx, "expense", service.TableQuery{})
	require.NoError(t, err)
	require.Len(t, page.Page.Rows, 1)
	assert.Equal(t, "Groceries", page.Page.Rows[0].Item)
	assert.Equal(t, "Cash", page.Page.Rows[0].Mode)
}

func TestTransactions(t *testing.T) {
	svc, _ := loadedDashboard(t, 25)
	ctx := context.Background()

	page, err := svc.Transactions(ctx, service.TransactionQuery{})
	require.NoError(t, err)
	assert.Equal(t, 6, page.Page.TotalRows)

	page, err = svc.Transactions(ctx, service.TransactionQuery{Type: "CONTRA_OUT"})
	require.NoError(t, err)
	require.Len(t, page.Page.Rows, 1)
	assert.Equal(t, domain.TxContraOut, page.Page.Rows[0].Type)
	assert.Equal(t, "Bank", page.Page.Rows[0].Mode)

	page, err = svc.Transactions(ctx, service.TransactionQuery{Query: "SALARY"})
	require.NoError(t, err)
	require.Len(t, page.Page.Rows, 1)
	assert.Equal(t, domain.TxReceipt, page.Page.Rows[0].Type)

	_, err = svc.Transactions(ctx, service.TransactionQuery{Type: "TRANSFER"})
	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "type", verr.Field)
}

func TestTransactions_FilterChangeResetsPage(t *testing.T) {
	svc, _ := loadedDashboard(t, 2)
	ctx := context.Background()

	page, err := svc.Transactions(ctx, service.TransactionQuery{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page.Page)

	page, err = svc.Transactions(ctx, service.TransactionQuery{Type: "EXPENSE", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page.Page)
	assert.Equal(t, 3, page.Page.TotalRows)
}

// ============================================================
// Read-only views
// ============================================================

func TestSummary(t *testing.T) {
	svc, _ := loadedDashboard(t, 25)
	ctx := context.Background()

	sv, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "India Expenses (Currency: ₹)", sv.Title)
	assertAmount(t, "1800", sv.Summary.TotalExpense)
	assertAmount(t, "10000", sv.Summary.TotalReceipts)
	assertAmount(t, "8200", sv.Summary.NetCashflow)
	assertAmount(t, "2000", sv.Summary.TotalContra)
	assert.Contains(t, sv.TotalExpenseText, "₹ ")

	_, err = svc.SetFilter(ctx, domain.FilterState{Period: "Feb-24"})
	require.NoError(t, err)
	sv, err = svc.Summary(ctx)
	require.NoError(t, err)
	assertAmount(t, "-200", sv.Summary.TotalExpense)
	assertAmount(t, "0", sv.Summary.TotalReceipts)
}

func TestSummary_FormatsWithDatasetCurrency(t *testing.T) {
	svc, _ := loadedDashboard(t, 25)
	_, err := svc.Reload(context.Background(), "uae")
	require.NoError(t, err)

	sv, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "UAE Expenses (Currency: AED)", sv.Title)
	assert.Equal(t, "AED 50.00", sv.TotalExpenseText)
}

func TestBalances_IgnoreFilter(t *testing.T) {
	svc, _ := loadedDashboard(t, 25)
	ctx := context.Background()

	_, err := svc.SetFilter(ctx, domain.FilterState{Mode: "Card"})
	require.NoError(t, err)

	cards, err := svc.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 3)

	assert.Equal(t, "Bank", cards[0].Mode)
	assertAmount(t, "12200", cards[0].Balance)
	assertAmount(t, "5000", cards[0].OpeningBalance)
	assert.Equal(t, "Card", cards[1].Mode)
	assertAmount(t, "200", cards[1].Balance)
	assert.Equal(t, "Cash", cards[2].Mode)
	assertAmount(t, "1800", cards[2].Balance)
}

func TestCharts(t *testing.T) {
	svc, _ := loadedDashboard(t, 25)
	ctx := context.Background()

	charts, err := svc.Charts(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Feb-24", "Jan-24"}, charts.PeriodTrend.Labels)
	require.Len(t, charts.PeriodTrend.Values, 2)
	assertAmount(t, "-200", charts.PeriodTrend.Values[0])
	assertAmount(t, "2000", charts.PeriodTrend.Values[1])

	assert.Equal(t, []string{"Cash", "Bank", "Card"}, charts.ModeTotals.Labels)
	assert.Equal(t, []string{"Food", "Travel"}, charts.CategoryTotals.Labels)
	assertAmount(t, "1000", charts.CategoryTotals.Values[0])

	assert.Equal(t, []string{"Receipts", "Expenses"}, charts.Flow.Labels)
	assertAmount(t, "10000", charts.Flow.Values[0])
	assertAmount(t, "1800", charts.Flow.Values[1])

	_, err = svc.SetFilter(ctx, domain.FilterState{Category: "Travel"})
	require.NoError(t, err)
	charts, err = svc.Charts(ctx)
	require.NoError(t, err)
	assert.Len(t, charts.PeriodTrend.Labels, 2, "trend ignores the filter")
	assert.Equal(t, []string{"Bank"}, charts.ModeTotals.Labels)
}

func TestOptions(t *testing.T) {
	svc, _ := loadedDashboard(t, 25)

	opts, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Feb-24", "Jan-24"}, opts.Months)
	assert.Equal(t, []string{"Bank", "Card", "Cash"}, opts.Modes)
	assert.Equal(t, []string{"Food", "Travel"}, opts.Groups)
}

func TestDatasets(t *testing.T) {
	svc, _ := newDashboard(t, newMockSource(), 25)

	ds := svc.Datasets()
	require.Len(t, ds, 2)
	assert.Equal(t, "india", ds[0].Key)
	assert.Equal(t, "uae", ds[1].Key)
}
