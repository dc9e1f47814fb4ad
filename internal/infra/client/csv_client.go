package client

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const proxyService = "csv-proxy"

// CSVClient reads dataset sources through a remote proxy's
// GET /api/csv/{region}/{kind} route.
type CSVClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewCSVClient creates a new CSVClient.
func NewCSVClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *CSVClient {
	return &CSVClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cb:         cb,
		cfg:        cfg,
	}
}

// Fetch returns the CSV text of one source. A 404 from the proxy means the
// source is not configured and is reported as ErrSourceNotFound.
func (c *CSVClient) Fetch(ctx context.Context, region string, kind domain.SourceKind) (string, error) {
	ctx, span := tracer.Start(ctx, "CSVClient.Fetch")
	defer span.End()
	return c.fetch(ctx, span, region, kind, nil)
}

// FetchFresh is Fetch with "Cache-Control: no-cache", so the proxy skips its
// body cache.
func (c *CSVClient) FetchFresh(ctx context.Context, region string, kind domain.SourceKind) (string, error) {
	ctx, span := tracer.Start(ctx, "CSVClient.FetchFresh")
	defer span.End()
	return c.fetch(ctx, span, region, kind, http.Header{"Cache-Control": {"no-cache"}})
}

func (c *CSVClient) fetch(ctx context.Context, span trace.Span, region string, kind domain.SourceKind, header http.Header) (string, error) {
	span.SetAttributes(
		attribute.String("dataset.region", region),
		attribute.String("dataset.kind", string(kind)),
	)

	url := c.baseURL + domain.ProxyPath(region, kind)

	result, err := c.cb.Execute(func() (any, error) {
		var body string
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			var err error
			body, err = getTextWithHeaders(ctx, c.httpClient, url, proxyService, header)
			return err
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return body, nil
	})

	if err == nil {
		return result.(string), nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "proxy fetch failed")

	if resilience.IsOpen(err) {
		return "", &domain.ErrCircuitOpen{Service: proxyService}
	}
	var statusErr *domain.ErrUpstreamStatus
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusNotFound:
			return "", &domain.ErrSourceNotFound{Region: region, Kind: string(kind)}
		case http.StatusServiceUnavailable:
			return "", &domain.ErrCircuitOpen{Service: proxyService}
		}
		return "", &domain.ErrFetchFailed{Region: region, Kind: string(kind), Status: statusErr.Status, Err: err}
	}
	return "", &domain.ErrFetchFailed{Region: region, Kind: string(kind), Err: &domain.ErrExternalService{Service: proxyService, Err: err}}
}
