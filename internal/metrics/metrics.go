// Package metrics holds the Prometheus collectors of the ledger server.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Import outcomes used as the "outcome" label of import metrics.
const (
	ImportCommitted = "committed"
	ImportRejected  = "rejected"
	ImportFailed    = "failed"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	rpcTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_rpc_requests_total",
		Help: "Total number of RPCs handled, by procedure and result code.",
	}, []string{"procedure", "code"})

	rpcDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_rpc_duration_seconds",
		Help:    "Histogram of RPC handler latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"procedure"})

	dbLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_db_latency_seconds",
		Help:    "Histogram of database operation latencies.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_imports_total",
		Help: "Bulk imports by outcome.",
	}, []string{"outcome"})

	importedRecordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_imported_records_total",
		Help: "Gift records created by committed bulk imports.",
	})

	importedFriendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_imported_new_friends_total",
		Help: "Friends created by committed bulk imports.",
	})
)

// Middleware records request counts and latencies labelled by chi route pattern.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRPC records one finished RPC.
func ObserveRPC(procedure, code string, start time.Time) {
	rpcTotal.WithLabelValues(procedure, code).Inc()
	rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
}

// ObserveDB starts timing a database operation; call the returned func when done.
func ObserveDB(operation string) func() {
	start := time.Now()
	return func() {
		dbLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// ObserveImport records the outcome of one bulk import. Record and friend
// counts only accumulate for committed imports.
func ObserveImport(outcome string, records, newFriends int) {
	importsTotal.WithLabelValues(outcome).Inc()
	if outcome == ImportCommitted {
		importedRecordsTotal.Add(float64(records))
		importedFriendsTotal.Add(float64(newFriends))
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := strings.TrimSpace(rctx.RoutePattern()); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
