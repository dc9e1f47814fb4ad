package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const upstreamService = "csv-upstream"

// UpstreamClient downloads published sheet CSVs.
type UpstreamClient struct {
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewUpstreamClient creates a new UpstreamClient.
func NewUpstreamClient(httpClient *http.Client, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *UpstreamClient {
	return &UpstreamClient{
		httpClient: httpClient,
		cb:         cb,
		cfg:        cfg,
	}
}

// Get downloads rawURL with retry, circuit breaker, and tracing. Only the host
// is recorded on the span; the full URL is a server-held secret.
func (c *UpstreamClient) Get(ctx context.Context, rawURL string) (string, error) {
	ctx, span := tracer.Start(ctx, "UpstreamClient.Get")
	defer span.End()
	if u, err := url.Parse(rawURL); err == nil {
		span.SetAttributes(attribute.String("upstream.host", u.Host))
	}

	result, err := c.cb.Execute(func() (any, error) {
		var body string
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			var err error
			body, err = getText(ctx, c.httpClient, rawURL, upstreamService)
			return err
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return body, nil
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upstream fetch failed")
		if resilience.IsOpen(err) {
			return "", &domain.ErrCircuitOpen{Service: upstreamService}
		}
		return "", &domain.ErrExternalService{Service: upstreamService, Err: err}
	}

	return result.(string), nil
}
