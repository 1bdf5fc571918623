package restapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yuuki0xff/svgchart/chart"
)

const metricsNamespace = "svgchart"

type Metrics struct {
	Renders   *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	CacheHits prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics registers the render metrics and the Go runtime collectors on a
// fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "renders_total",
			Help:      "Render requests by chart kind, output format and result.",
		}, []string{"kind", "format", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent serving render requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"kind"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Render requests answered from the cache.",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.Renders,
		m.Duration,
		m.CacheHits,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(kind string, format chart.Format, elapsed time.Duration, hit bool, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Renders.WithLabelValues(kind, string(format), result).Inc()
	m.Duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if hit {
		m.CacheHits.Inc()
	}
}
