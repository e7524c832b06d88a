package pagepress

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eringen/pagepress/content"
)

// Metrics holds the Prometheus collectors for one App. It also observes store
// rebuilds.
type Metrics struct {
	registry       *prometheus.Registry
	rebuilds       *prometheus.CounterVec
	rebuildSeconds prometheus.Histogram
	indexedItems   prometheus.Gauge
	requests       *prometheus.HistogramVec
}

// NewMetrics creates collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pagepress",
			Name:      "rebuilds_total",
			Help:      "Index rebuilds by outcome.",
		}, []string{"outcome"}),
		rebuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pagepress",
			Name:      "rebuild_duration_seconds",
			Help:      "Time spent scanning the content source.",
			Buckets:   prometheus.DefBuckets,
		}),
		indexedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pagepress",
			Name:      "indexed_items",
			Help:      "Published items in the last successful build.",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pagepress",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.rebuilds,
		m.rebuildSeconds,
		m.indexedItems,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRebuild implements content.Observer.
func (m *Metrics) ObserveRebuild(items int, took time.Duration, err error) {
	m.rebuildSeconds.Observe(took.Seconds())
	if err != nil {
		m.rebuilds.WithLabelValues("failure").Inc()
		return
	}
	m.rebuilds.WithLabelValues("success").Inc()
	m.indexedItems.Set(float64(items))
}

// Middleware records request latency labelled by route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				var he *echo.HTTPError
				switch {
				case errors.As(err, &he):
					status = he.Code
				case content.IsNotFound(err):
					status = http.StatusNotFound
				default:
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
