package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LastChecked string `json:"lastChecked"`
}

// DashboardMetrics is returned by GET /v1/metrics/dashboard.
type DashboardMetrics struct {
	ReloadsSucceeded float64 `json:"reloadsSucceeded"`
	ReloadsFailed    float64 `json:"reloadsFailed"`
	ReloadsStale     float64 `json:"reloadsStale"`
	UpstreamErrors   float64 `json:"upstreamErrors"`
	CacheHitRate     float64 `json:"cacheHitRate"`
	Period           string  `json:"period"`
}

// ============================================================
// Generic API Response wrappers
// ============================================================

// ListResponse wraps list results.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// ReloadRequest is the body of POST /v1/dashboard/reload.
type ReloadRequest struct {
	Dataset string `json:"dataset"`
}
