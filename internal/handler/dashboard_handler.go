package handler

import (
	"net/http"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Datasets & reload
// ============================================================

func datasetsHandler(dash *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		datasets := dash.Datasets()
		writeJSON(w, http.StatusOK, domain.ListResponse[domain.Dataset]{
			Data:  datasets,
			Total: len(datasets),
		})
	}
}

func reloadHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/dashboard/reload")
		defer span.End()

		var req domain.ReloadRequest
		if err := decodeOptional(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		span.SetAttributes(attribute.String("dataset", req.Dataset))

		info, err := dash.Reload(ctx, req.Dataset)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// ============================================================
// State & filters
// ============================================================

func stateHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := dash.State(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

func setFilterHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/dashboard/filters")
		defer span.End()

		var f domain.FilterState
		if err := decodeOptional(r, &f); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		info, err := dash.SetFilter(ctx, f)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// ============================================================
// Views
// ============================================================

func optionsHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := dash.Options(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, opts)
	}
}

func summaryHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := dash.Summary(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func balancesHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := dash.Balances(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.ListResponse[domain.BalanceCard]{
			Data:  cards,
			Total: len(cards),
		})
	}
}

func chartsHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		charts, err := dash.Charts(r.Context())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, charts)
	}
}

func tableHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/tables/{view}")
		defer span.End()

		view := chi.URLParam(r, "view")
		span.SetAttributes(attribute.String("view", view))

		page, err := queryInt(r, "page")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		result, err := dash.Table(ctx, view, service.TableQuery{
			Page: page,
			Sort: r.URL.Query().Get("sort"),
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func transactionsHandler(dash *service.DashboardService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/transactions")
		defer span.End()

		page, err := queryInt(r, "page")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		q := r.URL.Query()
		result, err := dash.Transactions(ctx, service.TransactionQuery{
			Type:  q.Get("type"),
			Query: q.Get("q"),
			Sort:  q.Get("sort"),
			Page:  page,
		})
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
