package service_test

import (
	"context"
	"sync"

	"github.com/boddenberg/expense-dashboard-bfa/internal/config"
	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
)

// --- Fixtures ---

const (
	indiaExpenses = "Date,Month,Item,SubGroup,Group,Mode,Amount,Narration\n" +
		"05/Jan/2024,Jan-24,Groceries,Veg,Food,Cash,\"₹ 1,200\",weekly\n" +
		"12/Jan/2024,Jan-24,Train,Rail,Travel,Bank,800,\n" +
		"03/Feb/2024,Feb-24,Refund,Veg,Food,Card,(200),returned\n" +
		",,,,,,,\n"
	indiaReceipts = "Date,Month,From,Mode,Amount\n" +
		"01/Jan/2024,Jan-24,Salary,Bank,\"10,000\"\n"
	indiaContras = "Date,Month,From,To,Amount\n" +
		"06/Jan/2024,Jan-24,Bank,Cash,\"2,000\"\n"
	indiaOpenings = "Mode,OpeningBalance\n" +
		"Cash,1000\n" +
		"Bank,\"5,000\"\n"

	uaeExpenses = "Date,Month,Item,SubGroup,Group,Mode,Amount,Narration\n" +
		"02/Mar/2024,Mar-24,Coffee,Cafe,Food,Cash,AED 50,\n"
	uaeReceipts = "Date,Month,From,Mode,Amount\n"
	uaeContras  = "Date,Month,From,To,Amount\n"
	uaeOpenings = "Mode,OB\nCash,AED 500\n"
)

func fixtureData() map[string]string {
	return map[string]string{
		"india/expense":  indiaExpenses,
		"india/receipts": indiaReceipts,
		"india/contra":   indiaContras,
		"india/ob":       indiaOpenings,
		"uae/expense":    uaeExpenses,
		"uae/receipts":   uaeReceipts,
		"uae/contra":     uaeContras,
		"uae/ob":         uaeOpenings,
	}
}

func testRegistry() *config.Registry {
	return config.NewRegistryWithLookup(config.DefaultDatasets(), func(string) (string, bool) { return "", false })
}

// --- Mocks ---

// mockSource serves CSV text per "region/kind". A gate for a key blocks the
// fetch until closed; entered is signalled when the fetch starts waiting.
type mockSource struct {
	mu      sync.Mutex
	data    map[string]string
	errs    map[string]error
	gates   map[string]chan struct{}
	entered chan string
	calls   []string
}

func newMockSource() *mockSource {
	return &mockSource{
		data:  fixtureData(),
		errs:  map[string]error{},
		gates: map[string]chan struct{}{},
	}
}

func (m *mockSource) Fetch(ctx context.Context, region string, kind domain.SourceKind) (string, error) {
	key := region + "/" + string(kind)

	m.mu.Lock()
	m.calls = append(m.calls, key)
	gate := m.gates[key]
	delete(m.gates, key)
	err := m.errs[key]
	text, ok := m.data[key]
	entered := m.entered
	m.mu.Unlock()

	if gate != nil {
		if entered != nil {
			entered <- key
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &domain.ErrSourceNotFound{Region: region, Kind: string(kind)}
	}
	return text, nil
}

func (m *mockSource) FetchFresh(ctx context.Context, region string, kind domain.SourceKind) (string, error) {
	return m.Fetch(ctx, region, kind)
}

func (m *mockSource) setErr(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[key] = err
}

func (m *mockSource) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *mockSource) resetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// mockUpstream counts downloads and optionally blocks on a gate.
type mockUpstream struct {
	mu    sync.Mutex
	body  string
	err   error
	gate  chan struct{}
	calls int
}

func (m *mockUpstream) Get(ctx context.Context, _ string) (string, error) {
	m.mu.Lock()
	m.calls++
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.body, m.err
}

func (m *mockUpstream) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockSources resolves "region/kind" keys from a map.
type mockSources map[string]string

func (m mockSources) SourceURL(region string, kind domain.SourceKind) (string, bool) {
	u, ok := m[region+"/"+string(kind)]
	return u, ok
}

func (m mockSources) Regions() []string {
	return []string{"india", "uae"}
}

// sheetUpstream serves bodies keyed by URL. Bodies may change between calls.
type sheetUpstream struct {
	mu     sync.Mutex
	bodies map[string]string
}

func (m *sheetUpstream) Get(_ context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.bodies[url]
	if !ok {
		return "", &domain.ErrUpstreamStatus{Service: "sheets", Status: 404}
	}
	return body, nil
}

func (m *sheetUpstream) set(url, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bodies[url] = body
}
