// Package client holds the outbound HTTP adapters: the published-sheet
// downloader used by the proxy and the remote proxy client used by the
// dashboard when it runs apart from the proxy.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/resilience"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("infra/client")

// maxCSVBytes caps a single download.
const maxCSVBytes = 32 << 20

// ErrBodyTooLarge is returned when a CSV exceeds the download cap. The body is
// rejected rather than truncated.
var ErrBodyTooLarge = errors.New("csv body exceeds size limit")

// getText performs one GET and returns the body. 4xx answers (except 429)
// are marked permanent so the retry loop gives up on them at once.
func getText(ctx context.Context, hc *http.Client, rawURL, service string) (string, error) {
	return getTextWithHeaders(ctx, hc, rawURL, service, nil)
}

func getTextWithHeaders(ctx context.Context, hc *http.Client, rawURL, service string, header http.Header) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", resilience.Permanent(redactURL(err, service))
	}
	req.Header.Set("Accept", "text/csv")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := hc.Do(req)
	if err != nil {
		return "", redactURL(err, service)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := &domain.ErrUpstreamStatus{Service: service, Status: resp.StatusCode}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", resilience.Permanent(statusErr)
		}
		return "", statusErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCSVBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading %s body: %w", service, redactURL(err, service))
	}
	if len(body) > maxCSVBytes {
		return "", resilience.Permanent(fmt.Errorf("%s: %w (%d bytes)", service, ErrBodyTooLarge, maxCSVBytes))
	}
	return string(body), nil
}

// redactURL strips the request URL from transport errors. Source URLs are
// server-held and must not reach clients through error messages.
func redactURL(err error, service string) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s %s: %w", uerr.Op, service, uerr.Err)
	}
	return err
}
