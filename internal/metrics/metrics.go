package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/baditaflorin/go_document_similarity/internal/core/domain"
)

const namespace = "docsim"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	pairsScoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_scored_total",
			Help:      "Document pairs scored, by similarity label",
		},
		[]string{"label"},
	)

	documentsRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_rejected_total",
			Help:      "Uploaded documents excluded before scoring",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(pairsScoredTotal)
	prometheus.MustRegister(documentsRejectedTotal)
}

// knownPaths bounds the path label to routes the server serves.
var knownPaths = map[string]struct{}{
	"/health":  {},
	"/score":   {},
	"/upload":  {},
	"/metrics": {},
}

// ObserveRequest records one HTTP request.
func ObserveRequest(method, path string, status int, d time.Duration) {
	path = normalizePath(path)
	code := strconv.Itoa(status)
	httpRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
}

// ObservePairs counts scored pairs by label.
func ObservePairs(pairs []domain.PairResult) {
	var high, low int
	for _, p := range pairs {
		if p.Label == domain.LabelHigh {
			high++
		} else {
			low++
		}
	}
	pairsScoredTotal.WithLabelValues(domain.LabelHigh.String()).Add(float64(high))
	pairsScoredTotal.WithLabelValues(domain.LabelLow.String()).Add(float64(low))
}

// ObserveRejected counts documents dropped before scoring.
func ObserveRejected(n int) {
	documentsRejectedTotal.Add(float64(n))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}

func normalizePath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return "unknown"
}
