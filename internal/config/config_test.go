package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boddenberg/expense-dashboard-bfa/internal/config"
	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "PAGE_SIZE", "CSV_CACHE_TTL", "DEFAULT_DATASET", "PROXY_BASE_URL"} {
		t.Setenv(k, "")
	}

	cfg := config.Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 25, cfg.PageSize)
	assert.Equal(t, time.Minute, cfg.CSVCacheTTL)
	assert.Equal(t, "india", cfg.DefaultDataset)
	assert.Empty(t, cfg.ProxyBaseURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("CSV_CACHE_TTL", "30s")
	t.Setenv("WARM_ON_START", "true")
	t.Setenv("MAX_RETRIES", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.CSVCacheTTL)
	assert.True(t, cfg.WarmOnStart)
	assert.Equal(t, 2, cfg.MaxRetries)
}

func TestValidate(t *testing.T) {
	registry := config.NewRegistry(config.DefaultDatasets())

	cfg := config.Load()
	cfg.Port = 8080
	cfg.PageSize = 25
	cfg.MaxConcurrency = 4
	cfg.DefaultDataset = "india"
	require.NoError(t, cfg.Validate(registry))

	cfg.Port = 0
	cfg.PageSize = 0
	cfg.DefaultDataset = "mars"
	err := cfg.Validate(registry)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "PAGE_SIZE")
	assert.Contains(t, err.Error(), "mars")
}

func TestRegistry(t *testing.T) {
	env := map[string]string{
		"INDIA_EXPENSE_CSV": " https://sheets.example/india-expense.csv ",
		"UAE_OB_CSV":        "",
	}
	r := config.NewRegistryWithLookup(config.DefaultDatasets(), func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	india, ok := r.Dataset("india")
	require.True(t, ok)
	assert.Equal(t, "India Expenses", india.Name)
	assert.Equal(t, "₹", india.Currency)
	assert.Equal(t, "/api/csv/india/receipts", india.SourcePath(domain.SourceReceipts))

	assert.Equal(t, []string{"india", "uae"}, r.Regions())

	url, ok := r.SourceURL("india", domain.SourceExpense)
	assert.True(t, ok)
	assert.Equal(t, "https://sheets.example/india-expense.csv", url)

	_, ok = r.SourceURL("uae", domain.SourceOB)
	assert.False(t, ok, "blank variable is not configured")

	_, ok = r.SourceURL("india", domain.SourceKind("payroll"))
	assert.False(t, ok, "unknown kind")

	assert.Len(t, r.MissingSources(), 7)
}

func TestSourceEnvKey(t *testing.T) {
	assert.Equal(t, "UAE_RECEIPTS_CSV", config.SourceEnvKey("uae", domain.SourceReceipts))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOTENV_TEST_A=from-file\nDOTENV_TEST_B=from-file\n"), 0o600))

	t.Setenv("DOTENV_TEST_B", "from-env")
	os.Unsetenv("DOTENV_TEST_A")
	t.Cleanup(func() { os.Unsetenv("DOTENV_TEST_A") })

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("DOTENV_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("DOTENV_TEST_B"))

	assert.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env")))
}
