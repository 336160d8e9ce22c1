package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	graphRequestCounter  *prometheus.CounterVec
	graphRequestDuration *prometheus.HistogramVec
	adAccountsTruncated  prometheus.Counter
	accountsReconciled   *prometheus.CounterVec
	httpStatusCounter    *prometheus.CounterVec
}

// New registers the integration metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	metrics := new(Metrics)

	metrics.graphRequestCounter = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "facebook_graph_request_count",
		Help: "The number of Graph API requests by endpoint and status code",
	}, []string{"endpoint", "status_code"})

	metrics.graphRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name: "facebook_graph_request_duration_seconds",
		Help: "The amount of time Graph API requests took",
	}, []string{"endpoint"})

	metrics.adAccountsTruncated = factory.NewCounter(prometheus.CounterOpts{
		Name: "facebook_adaccounts_truncated_total",
		Help: "The number of ad account listings that had more than one page",
	})

	metrics.accountsReconciled = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "facebook_accounts_reconciled_total",
		Help: "The number of accounts created or updated",
	}, []string{"action"})

	metrics.httpStatusCounter = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "facebook_layer_http_status_code_counter",
		Help: "The number of http status codes returned by the api",
	}, []string{"status_code"})

	return metrics
}

// ObserveGraphRequest records one outbound call; statusCode 0 means a transport failure
func (m *Metrics) ObserveGraphRequest(endpoint string, statusCode int, started time.Time) {
	if m == nil {
		return
	}
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.graphRequestCounter.WithLabelValues(endpoint, code).Inc()
	m.graphRequestDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

func (m *Metrics) AdAccountsTruncated() {
	if m == nil {
		return
	}
	m.adAccountsTruncated.Inc()
}

// AccountReconciled counts a reconcile outcome, action is "created" or "updated"
func (m *Metrics) AccountReconciled(action string) {
	if m == nil {
		return
	}
	m.accountsReconciled.WithLabelValues(action).Inc()
}

// RecordHTTPMetrics counts the status codes written by next
func (m *Metrics) RecordHTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp := &wrappedResponseWriter{w, http.StatusOK}

		next.ServeHTTP(resp, req)

		if m != nil {
			m.httpStatusCounter.With(prometheus.Labels{
				"status_code": strconv.Itoa(resp.statusCode)}).Inc()
		}
	})
}

type wrappedResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (ww *wrappedResponseWriter) WriteHeader(status int) {
	ww.statusCode = status
	ww.ResponseWriter.WriteHeader(status)
}
