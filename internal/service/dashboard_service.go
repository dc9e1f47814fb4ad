// Package service provides the business logic layer (use cases).
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/engine"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/csvparse"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/expense-dashboard-bfa/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var dashTracer = otel.Tracer("service/dashboard")

// TableQuery selects a page and sort of a per-kind table. Zero values keep
// the current position.
type TableQuery struct {
	Page int
	Sort string
}

// TransactionQuery drives the unified view. Type and Query replace the
// current unified filter; Page and Sort behave as in TableQuery.
type TransactionQuery struct {
	Type  string
	Query string
	Sort  string
	Page  int
}

// DashboardService owns the current DashboardState. Every transition builds a
// new state from a clone and swaps it in; published states are never mutated.
type DashboardService struct {
	source         port.CSVSource
	registry       port.DatasetRegistry
	defaultDataset string
	pageSize       int
	metrics        *observability.Metrics
	logger         *zap.Logger
	now            func() time.Time

	mu     sync.RWMutex
	state  *domain.DashboardState
	latest atomic.Uint64
}

// NewDashboardService creates the dashboard service with all dependencies injected.
func NewDashboardService(
	source port.CSVSource,
	registry port.DatasetRegistry,
	defaultDataset string,
	pageSize int,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *DashboardService {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &DashboardService{
		source:         source,
		registry:       registry,
		defaultDataset: defaultDataset,
		pageSize:       pageSize,
		metrics:        metrics,
		logger:         logger,
		now:            time.Now,
	}
}

// Datasets lists the selectable datasets.
func (s *DashboardService) Datasets() []domain.Dataset {
	return s.registry.Datasets()
}

// Loaded reports whether a reload has ever succeeded.
func (s *DashboardService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil
}

// ============================================================
// Reload
// ============================================================

// Reload fetches the four sources of datasetKey in sequence and replaces the
// collections in one step. An empty key refreshes the current dataset. Sources
// are fetched fresh, past any body cache.
//
// Each call takes a generation number. If another reload starts before this
// one commits, this one is discarded with ErrStaleReload. Any failure leaves
// the previous state in place.
func (s *DashboardService) Reload(ctx context.Context, datasetKey string) (*domain.StateInfo, error) {
	ctx, span := dashTracer.Start(ctx, "DashboardService.Reload")
	defer span.End()

	key := strings.TrimSpace(datasetKey)
	if key == "" {
		key = s.currentDatasetKey()
	}
	ds, ok := s.registry.Dataset(key)
	if !ok {
		return nil, &domain.ErrValidation{Field: "dataset", Message: fmt.Sprintf("unknown dataset %q", key)}
	}

	gen := s.latest.Add(1)
	start := time.Now()
	span.SetAttributes(attribute.String("dataset", ds.Key), attribute.Int64("generation", int64(gen)))

	log := s.logger.With(zap.String("dataset", ds.Key), zap.Uint64("generation", gen))

	var raw engine.RawSources
	for _, kind := range domain.SourceKinds {
		if err := s.checkLatest(gen); err != nil {
			s.metrics.IncrReload(observability.ReloadStale)
			log.Info("reload superseded before fetching", zap.String("kind", string(kind)))
			return nil, err
		}

		rows, err := s.loadSource(ctx, ds.Key, kind)
		if err != nil {
			s.metrics.IncrReload(observability.ReloadFailed)
			log.Warn("reload aborted, keeping previous data", zap.String("kind", string(kind)), zap.Error(err))
			return nil, fmt.Errorf("reload %s: %w", ds.Key, err)
		}

		switch kind {
		case domain.SourceExpense:
			raw.Expenses = rows
		case domain.SourceReceipts:
			raw.Receipts = rows
		case domain.SourceContra:
			raw.Contras = rows
		case domain.SourceOB:
			raw.Openings = rows
		}
	}

	collections := engine.BuildCollections(raw)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLatest(gen); err != nil {
		s.metrics.IncrReload(observability.ReloadStale)
		log.Info("reload superseded, discarding results")
		return nil, err
	}

	next := s.nextState(s.state, ds, collections, gen)
	s.state = next

	counts := collections.Counts()
	s.metrics.IncrReload(observability.ReloadSuccess)
	s.metrics.SetLoadedRows(counts)
	s.metrics.RecordRequestDuration("reload", time.Since(start))
	log.Info("dashboard reloaded",
		zap.String("reload_id", next.ReloadID),
		zap.Int("expenses", counts.Expenses),
		zap.Int("receipts", counts.Receipts),
		zap.Int("contras", counts.Contras),
		zap.Int("openings", counts.Openings),
		zap.Duration("took", time.Since(start)),
	)

	return stateInfo(next), nil
}

func (s *DashboardService) checkLatest(gen uint64) error {
	if latest := s.latest.Load(); latest != gen {
		return &domain.ErrStaleReload{Generation: gen, Latest: latest}
	}
	return nil
}

func (s *DashboardService) currentDatasetKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != nil {
		return s.state.Dataset.Key
	}
	return s.defaultDataset
}

func (s *DashboardService) loadSource(ctx context.Context, region string, kind domain.SourceKind) ([]domain.Row, error) {
	text, err := s.source.FetchFresh(ctx, region, kind)
	if err != nil {
		return nil, err
	}
	rows, err := csvparse.Parse(text)
	if err != nil {
		return nil, &domain.ErrFetchFailed{Region: region, Kind: string(kind), Err: err}
	}
	return rows, nil
}

// nextState builds the post-reload state. A refresh of the same dataset keeps
// filters and sorts; switching datasets starts from defaults. Pages always
// reset.
func (s *DashboardService) nextState(prev *domain.DashboardState, ds domain.Dataset, c domain.Collections, gen uint64) *domain.DashboardState {
	next := &domain.DashboardState{
		Dataset:     ds,
		Collections: c,
		Filter:      domain.FilterState{}.Normalized(),
		Views:       domain.NewViewStates(),
		TxFilter:    domain.TransactionFilter{Type: domain.AllValues},
		Generation:  gen,
		ReloadID:    uuid.NewString(),
		LoadedAt:    s.now().UTC(),
	}
	if prev != nil && prev.Dataset.Key == ds.Key {
		next.Filter = prev.Filter
		next.TxFilter = prev.TxFilter
		for k, v := range prev.Views {
			next.Views[k] = domain.ViewState{Sort: v.Sort, Page: 1}
		}
	}
	return next
}

// ============================================================
// State transitions
// ============================================================

func (s *DashboardService) snapshot() (*domain.DashboardState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, &domain.ErrNotLoaded{}
	}
	return s.state, nil
}

// update applies fn to a clone of the current state and publishes it.
func (s *DashboardService) update(fn func(next *domain.DashboardState) error) (*domain.DashboardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, &domain.ErrNotLoaded{}
	}
	next := s.state.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.state = next
	return next, nil
}

// State describes the current state without collections.
func (s *DashboardService) State(ctx context.Context) (*domain.StateInfo, error) {
	_, span := dashTracer.Start(ctx, "DashboardService.State")
	defer span.End()

	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return stateInfo(st), nil
}

// SetFilter replaces the shared filter and moves every table to page 1.
func (s *DashboardService) SetFilter(ctx context.Context, f domain.FilterState) (*domain.StateInfo, error) {
	_, span := dashTracer.Start(ctx, "DashboardService.SetFilter")
	defer span.End()

	next, err := s.update(func(next *domain.DashboardState) error {
		next.Filter = f.Normalized()
		next.ResetPages()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("filter updated",
		zap.String("period", next.Filter.Period),
		zap.String("mode", next.Filter.Mode),
		zap.String("category", next.Filter.Category),
	)
	return stateInfo(next), nil
}

func validSort(sort string) error {
	if sort != "" && !domain.ValidSortKey(sort) {
		return &domain.ErrValidation{Field: "sort", Message: fmt.Sprintf("unknown sort key %q", sort)}
	}
	return nil
}

func validPage(page int) error {
	if page < 0 {
		return &domain.ErrValidation{Field: "page", Message: "must not be negative"}
	}
	return nil
}

// moveView applies a sort and page request to vs. A sort change returns to
// page 1 regardless of the requested page.
func moveView(vs domain.ViewState, sort string, page int, reset bool) domain.ViewState {
	if page > 0 {
		vs.Page = page
	}
	if sort != "" && domain.SortKey(sort) != vs.Sort {
		vs.Sort = domain.SortKey(sort)
		reset = true
	}
	if reset {
		vs.Page = 1
	}
	return vs
}

// Table returns one page of a per-kind table. The requested page is clamped
// to the available pages and the clamped position is stored.
func (s *DashboardService) Table(ctx context.Context, view string, q TableQuery) (*domain.TablePage, error) {
	_, span := dashTracer.Start(ctx, "DashboardService.Table")
	defer span.End()
	span.SetAttributes(attribute.String("view", view))

	if !domain.ValidTableView(view) {
		return nil, &domain.ErrNotFound{Resource: "table", ID: view}
	}
	if err := validSort(q.Sort); err != nil {
		return nil, err
	}
	if err := validPage(q.Page); err != nil {
		return nil, err
	}

	v := domain.ViewKind(view)
	var out *domain.TablePage
	_, err := s.update(func(next *domain.DashboardState) error {
		vs := moveView(next.View(v), q.Sort, q.Page, false)
		page := engine.PageOf(tableRows(next, v, vs.Sort), vs.Page, s.pageSize)
		vs.Page = page.Page
		next.Views[v] = vs
		out = &domain.TablePage{View: v, Sort: vs.Sort, Page: page}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transactions returns one page of the unified view. Changing the type or
// search text returns to page 1.
func (s *DashboardService) Transactions(ctx context.Context, q TransactionQuery) (*domain.TablePage, error) {
	_, span := dashTracer.Start(ctx, "DashboardService.Transactions")
	defer span.End()

	typ := strings.TrimSpace(q.Type)
	if typ == "" {
		typ = domain.AllValues
	}
	if domain.Restricted(typ) && !domain.ValidTransactionType(typ) {
		return nil, &domain.ErrValidation{Field: "type", Message: fmt.Sprintf("unknown transaction type %q", typ)}
	}
	if err := validSort(q.Sort); err != nil {
		return nil, err
	}
	if err := validPage(q.Page); err != nil {
		return nil, err
	}
	tf := domain.TransactionFilter{Type: typ, Query: strings.TrimSpace(q.Query)}

	var out *domain.TablePage
	_, err := s.update(func(next *domain.DashboardState) error {
		changed := tf != next.TxFilter
		next.TxFilter = tf

		vs := moveView(next.View(domain.ViewTransactions), q.Sort, q.Page, changed)
		page := engine.PageOf(transactionRows(next, vs.Sort), vs.Page, s.pageSize)
		vs.Page = page.Page
		next.Views[domain.ViewTransactions] = vs
		out = &domain.TablePage{View: domain.ViewTransactions, Sort: vs.Sort, Page: page}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ============================================================
// Read-only views
// ============================================================

// Options lists the filter dropdown values of the loaded dataset.
func (s *DashboardService) Options(ctx context.Context) (*domain.FilterOptions, error) {
	_, span := dashTracer.Start(ctx, "DashboardService.Options")
	defer span.End()

	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	opts := engine.Options(st.Collections)
	return &opts, nil
}

// Summary returns the headline totals over the filtered collections.
func (s *DashboardService) Summary(ctx context.Context) (*domain.SummaryView, error) {
	_, span := dashTracer.Start(ctx, "DashboardService.Summary")
	defer span.End()

	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return summaryView(st), nil
}

// Balances returns the reconciled balance of every mode, sorted by mode.
func (s *DashboardService) Balances(ctx context.Context) ([]domain.BalanceCard, error) {
	_, span := dashTracer.Start(ctx, "DashboardService.Balances")
	defer span.End()

	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return balanceCards(st), nil
}

// Charts returns the four chart series.
func (s *DashboardService) Charts(ctx context.Context) (*domain.Charts, error) {
	_, span := dashTracer.Start(ctx, "DashboardService.Charts")
	defer span.End()

	st, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return chartsView(st), nil
}
