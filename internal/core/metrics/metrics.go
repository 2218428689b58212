package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpReqTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "bloglist_http_requests_total", Help: "Count of HTTP requests"},
		[]string{"path", "method", "status"},
	)
	httpLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bloglist_http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"},
	)
	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "bloglist_logins_total", Help: "Login attempts by result"},
		[]string{"result"},
	)
	signups = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "bloglist_signups_total", Help: "Account creation attempts by result"},
		[]string{"result"},
	)
	postOps = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "bloglist_post_operations_total", Help: "Post mutations by operation and result"},
		[]string{"op", "result"},
	)
)

func ObserveHTTPRequest(path, method, status string, d time.Duration) {
	httpReqTotal.WithLabelValues(path, method, status).Inc()
	httpLatency.WithLabelValues(path, method).Observe(d.Seconds())
}

func ObserveLogin(err error)  { logins.WithLabelValues(result(err)).Inc() }
func ObserveSignup(err error) { signups.WithLabelValues(result(err)).Inc() }

// ObservePostOp op: create / update / delete
func ObservePostOp(op string, err error) { postOps.WithLabelValues(op, result(err)).Inc() }

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
