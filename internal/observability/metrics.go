package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matcher"

// Metrics owns a private registry so tests and multiple binaries never collide on the
// global default registerer. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fallbacks      *prometheus.CounterVec
	jobsRanked     *prometheus.CounterVec
	matchesWritten prometheus.Counter
	runDuration    prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalization_fallbacks_total",
			Help:      "Records that needed a normalization fallback, by kind.",
		}, []string{"kind"}),
		jobsRanked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_ranked_total",
			Help:      "Jobs processed by ranking runs, by outcome.",
		}, []string{"status"}),
		matchesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_written_total",
			Help:      "Match rows committed to the match store.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of ranking runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 14),
		}),
	}
	reg.MustRegister(
		m.fallbacks,
		m.jobsRanked,
		m.matchesWritten,
		m.runDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) AddFallbacks(counts map[string]int64) {
	if m == nil {
		return
	}
	for kind, n := range counts {
		if n > 0 {
			m.fallbacks.WithLabelValues(kind).Add(float64(n))
		}
	}
}

func (m *Metrics) JobRanked(status string) {
	if m == nil {
		return
	}
	m.jobsRanked.WithLabelValues(status).Inc()
}

func (m *Metrics) MatchesWritten(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.matchesWritten.Add(float64(n))
}

func (m *Metrics) ObserveRun(d time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
