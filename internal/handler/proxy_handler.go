package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// csvProxyHandler serves GET /api/csv/{region}/{kind}. The upstream URL never
// leaves the server. "Cache-Control: no-cache" forces a fresh download.
func csvProxyHandler(proxy *service.CSVProxy, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/csv/{region}/{kind}")
		defer span.End()

		region := chi.URLParam(r, "region")
		kind := chi.URLParam(r, "kind")
		span.SetAttributes(attribute.String("dataset.region", region), attribute.String("dataset.kind", kind))

		if !domain.ValidSourceKind(kind) {
			handleServiceError(w, &domain.ErrSourceNotFound{Region: region, Kind: kind}, logger)
			return
		}

		fetch := proxy.Fetch
		if strings.Contains(strings.ToLower(r.Header.Get("Cache-Control")), "no-cache") {
			fetch = proxy.FetchFresh
		}

		body, err := fetch(ctx, region, domain.SourceKind(kind))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		if _, err := io.WriteString(w, body); err != nil {
			logger.Debug("csv write aborted", zap.Error(err))
		}
	}
}
