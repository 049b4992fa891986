package obs

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outbound request metrics shared by every gateway call.
var (
	requestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "tripdesk_client_in_flight_requests",
		Help: "In-flight backend requests.",
	})

	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripdesk_client_requests_total",
			Help: "Total number of backend requests issued by the client.",
		},
		[]string{"resource", "method", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripdesk_client_request_duration_seconds",
			Help:    "Backend request latencies in seconds.",
			Buckets: prometheus.DefBuckets, // [0.005..10]
		},
		[]string{"resource", "method", "status"},
	)
)

// Init registers the client metrics in the default registry.
func Init() {
	prometheus.MustRegister(requestsInFlight, requestsTotal, requestDuration)
}

// Handler exposes the Prometheus scrape endpoint for embedding programs.
func Handler() http.Handler {
	return promhttp.Handler()
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// InstrumentTransport wraps an http.RoundTripper so every outbound request
// records count, latency and in-flight gauges, labelled by the first path
// segment (the backend resource).
func InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		resource := resourceLabel(r.URL.Path)
		method := r.Method

		requestsInFlight.Inc()
		start := time.Now()

		resp, err := next.RoundTrip(r)

		duration := time.Since(start).Seconds()
		status := "error"
		if err == nil {
			status = strconv.Itoa(resp.StatusCode)
		}

		requestDuration.WithLabelValues(resource, method, status).Observe(duration)
		requestsTotal.WithLabelValues(resource, method, status).Inc()
		requestsInFlight.Dec()

		return resp, err
	})
}

// resourceLabel keeps label cardinality bounded: ids and sub-actions in the
// path are collapsed into the leading segment.
func resourceLabel(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
