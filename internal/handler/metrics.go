package handler

import (
	"fmt"
	"net/http"

	"github.com/tickline/tickline/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "tickline_todos_created_total %d\n", snap.TodosCreated)
	writeMetric(w, "tickline_todos_updated_total %d\n", snap.TodosUpdated)
	writeMetric(w, "tickline_todos_deleted_total %d\n", snap.TodosDeleted)

	writeMetric(w, "tickline_user_signups_total %d\n", snap.UserSignups)
	writeMetric(w, "tickline_user_logins_total %d\n", snap.UserLogins)
	writeMetric(w, "tickline_user_logouts_total %d\n", snap.UserLogouts)

	writeMetric(w, "tickline_auth_attempts_total{outcome=\"success\"} %d\n", snap.AuthSuccesses)
	writeMetric(w, "tickline_auth_attempts_total{outcome=\"failure\"} %d\n", snap.AuthFailures)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
