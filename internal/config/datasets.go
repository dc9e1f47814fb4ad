package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
)

// DefaultDatasets are the accounts the dashboard can switch between.
func DefaultDatasets() []domain.Dataset {
	return []domain.Dataset{
		newDataset("india", "India Expenses", "₹", "en-IN"),
		newDataset("uae", "UAE Expenses", "AED", "en"),
	}
}

func newDataset(key, name, currency, locale string) domain.Dataset {
	sources := make(map[domain.SourceKind]string, len(domain.SourceKinds))
	for _, k := range domain.SourceKinds {
		sources[k] = domain.ProxyPath(key, k)
	}
	return domain.Dataset{Key: key, Name: name, Currency: currency, Locale: locale, Sources: sources}
}

// Registry is the dataset registry. It also resolves upstream CSV URLs,
// which live only in the server environment.
type Registry struct {
	datasets []domain.Dataset
	byKey    map[string]domain.Dataset
	lookup   func(string) (string, bool)
}

// NewRegistry builds a registry that reads source URLs from the process
// environment at request time.
func NewRegistry(datasets []domain.Dataset) *Registry {
	return NewRegistryWithLookup(datasets, os.LookupEnv)
}

// NewRegistryWithLookup is NewRegistry with a custom variable lookup.
func NewRegistryWithLookup(datasets []domain.Dataset, lookup func(string) (string, bool)) *Registry {
	r := &Registry{
		datasets: datasets,
		byKey:    make(map[string]domain.Dataset, len(datasets)),
		lookup:   lookup,
	}
	for _, d := range datasets {
		r.byKey[d.Key] = d
	}
	return r
}

// Dataset returns the dataset registered under key.
func (r *Registry) Dataset(key string) (domain.Dataset, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// Datasets lists every dataset in registration order.
func (r *Registry) Datasets() []domain.Dataset {
	out := make([]domain.Dataset, len(r.datasets))
	copy(out, r.datasets)
	return out
}

// Regions lists the dataset keys.
func (r *Registry) Regions() []string {
	out := make([]string, len(r.datasets))
	for i, d := range r.datasets {
		out[i] = d.Key
	}
	return out
}

// SourceEnvKey is the variable holding the URL of a source, e.g. INDIA_EXPENSE_CSV.
func SourceEnvKey(region string, kind domain.SourceKind) string {
	return fmt.Sprintf("%s_%s_CSV", strings.ToUpper(region), strings.ToUpper(string(kind)))
}

// SourceURL resolves the upstream URL for a (region, kind) pair. Any region
// with a configured variable resolves, registered or not.
func (r *Registry) SourceURL(region string, kind domain.SourceKind) (string, bool) {
	if region == "" || !domain.ValidSourceKind(string(kind)) {
		return "", false
	}
	v, ok := r.lookup(SourceEnvKey(region, kind))
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// MissingSources lists the source variables that are not set, for startup warnings.
func (r *Registry) MissingSources() []string {
	var missing []string
	for _, d := range r.datasets {
		for _, k := range domain.SourceKinds {
			if _, ok := r.SourceURL(d.Key, k); !ok {
				missing = append(missing, SourceEnvKey(d.Key, k))
			}
		}
	}
	return missing
}
