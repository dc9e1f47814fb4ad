// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
)

// CSVSource returns the raw CSV text of one (region, kind) source.
// Implemented by the in-process proxy and by the remote proxy client.
// FetchFresh bypasses any body cache along the way.
type CSVSource interface {
	Fetch(ctx context.Context, region string, kind domain.SourceKind) (string, error)
	FetchFresh(ctx context.Context, region string, kind domain.SourceKind) (string, error)
}

// CSVUpstream downloads CSV text from a published sheet URL.
type CSVUpstream interface {
	Get(ctx context.Context, url string) (string, error)
}

// SourceResolver maps a (region, kind) pair to its server-held upstream URL.
type SourceResolver interface {
	SourceURL(region string, kind domain.SourceKind) (string, bool)
	Regions() []string
}

// DatasetRegistry lists the datasets a client may select.
type DatasetRegistry interface {
	Dataset(key string) (domain.Dataset, bool)
	Datasets() []domain.Dataset
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
