package service

import (
	"context"
	"errors"
	"time"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/cache"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/resilience"
	"github.com/boddenberg/expense-dashboard-bfa/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var proxyTracer = otel.Tracer("service/proxy")

const csvCacheName = "csv"

// CSVProxy serves the CSV text of configured sources without exposing their
// upstream URLs. Concurrent requests for one source share a single download.
type CSVProxy struct {
	upstream port.CSVUpstream
	sources  port.SourceResolver
	cache    port.Cache[string]
	bulkhead *resilience.Bulkhead
	group    singleflight.Group
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewCSVProxy creates the proxy service with all dependencies injected.
func NewCSVProxy(
	upstream port.CSVUpstream,
	sources port.SourceResolver,
	cache port.Cache[string],
	bulkhead *resilience.Bulkhead,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CSVProxy {
	return &CSVProxy{
		upstream: upstream,
		sources:  sources,
		cache:    cache,
		bulkhead: bulkhead,
		metrics:  metrics,
		logger:   logger,
	}
}

// Fetch returns the CSV text of (region, kind), from cache when fresh.
// It implements port.CSVSource.
func (p *CSVProxy) Fetch(ctx context.Context, region string, kind domain.SourceKind) (string, error) {
	return p.fetch(ctx, region, kind, false)
}

// FetchFresh bypasses the cache and replaces its entry on success.
func (p *CSVProxy) FetchFresh(ctx context.Context, region string, kind domain.SourceKind) (string, error) {
	return p.fetch(ctx, region, kind, true)
}

func (p *CSVProxy) fetch(ctx context.Context, region string, kind domain.SourceKind, fresh bool) (string, error) {
	ctx, span := proxyTracer.Start(ctx, "CSVProxy.Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("dataset.region", region),
		attribute.String("dataset.kind", string(kind)),
		attribute.Bool("cache.bypass", fresh),
	)

	url, ok := p.sources.SourceURL(region, kind)
	if !ok {
		return "", &domain.ErrSourceNotFound{Region: region, Kind: string(kind)}
	}

	key := cache.Key(region, string(kind))
	if !fresh {
		if body, ok := p.cache.Get(key); ok {
			p.metrics.IncrCacheHit(csvCacheName)
			return body, nil
		}
		p.metrics.IncrCacheMiss(csvCacheName)
	}

	start := time.Now()
	v, err, shared := p.group.Do(key, func() (any, error) {
		if err := p.bulkhead.Acquire(ctx); err != nil {
			return nil, err
		}
		defer p.bulkhead.Release()

		body, err := p.upstream.Get(ctx, url)
		if err != nil {
			return nil, err
		}
		p.cache.Set(key, body)
		return body, nil
	})
	p.metrics.RecordRequestDuration("csv_fetch", time.Since(start))

	if err != nil {
		p.metrics.IncrUpstreamError(string(kind))
		p.logger.Warn("csv fetch failed",
			zap.String("region", region),
			zap.String("kind", string(kind)),
			zap.Bool("shared", shared),
			zap.Error(err),
		)
		return "", mapFetchError(region, kind, err)
	}

	p.logger.Debug("csv fetched",
		zap.String("region", region),
		zap.String("kind", string(kind)),
		zap.Bool("shared", shared),
	)
	return v.(string), nil
}

func mapFetchError(region string, kind domain.SourceKind, err error) error {
	var open *domain.ErrCircuitOpen
	if errors.As(err, &open) {
		return open
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ErrTimeout{Operation: "fetch " + region + "/" + string(kind)}
	}
	ff := &domain.ErrFetchFailed{Region: region, Kind: string(kind), Err: err}
	var status *domain.ErrUpstreamStatus
	if errors.As(err, &status) {
		ff.Status = status.Status
	}
	return ff
}

// Warm downloads every configured source of the given regions concurrently,
// bounded by the bulkhead, so the first dashboard load is served from cache.
// Unconfigured sources are skipped.
func (p *CSVProxy) Warm(ctx context.Context, regions []string) error {
	ctx, span := proxyTracer.Start(ctx, "CSVProxy.Warm")
	defer span.End()

	g, ctx := errgroup.WithContext(ctx)
	for _, region := range regions {
		for _, kind := range domain.SourceKinds {
			if _, ok := p.sources.SourceURL(region, kind); !ok {
				continue
			}
			g.Go(func() error {
				_, err := p.FetchFresh(ctx, region, kind)
				return err
			})
		}
	}
	return g.Wait()
}
