package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/expense-dashboard-bfa/internal/domain"
	"github.com/boddenberg/expense-dashboard-bfa/internal/infra/observability"
	"github.com/boddenberg/expense-dashboard-bfa/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// A nil proxy leaves /api/csv unmounted, for deployments that read CSVs
// from a remote proxy.
func NewRouter(proxy *service.CSVProxy, dash *service.DashboardService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(dash))
	r.Get("/readyz", readyzHandler(dash))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- CSV proxy ---
	if proxy != nil {
		r.Get("/api/csv/{region}/{kind}", csvProxyHandler(proxy, logger))
	}

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(NoStore)

		r.Get("/datasets", datasetsHandler(dash))
		r.Get("/metrics/dashboard", dashboardMetricsHandler(metrics))

		r.Route("/dashboard", func(r chi.Router) {
			r.Post("/reload", reloadHandler(dash, logger))
			r.Get("/state", stateHandler(dash, logger))
			r.Put("/filters", setFilterHandler(dash, logger))
			r.Get("/options", optionsHandler(dash, logger))
			r.Get("/summary", summaryHandler(dash, logger))
			r.Get("/balances", balancesHandler(dash, logger))
			r.Get("/charts", chartsHandler(dash, logger))
			r.Get("/tables/{view}", tableHandler(dash, logger))
			r.Get("/transactions", transactionsHandler(dash, logger))
		})
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(dash *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "dashboard-api", Status: "healthy", LastChecked: now},
		}
		if dash != nil {
			status := "healthy"
			if !dash.Loaded() {
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{Name: "dashboard-data", Status: status, LastChecked: now})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

// readyzHandler reports ready once the dashboard holds data.
func readyzHandler(dash *service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dash != nil && !dash.Loaded() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func dashboardMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetDashboardSnapshot())
	}
}
