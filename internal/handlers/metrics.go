package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/brainfuel/backend/internal/models"
	"github.com/brainfuel/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace    = "brainfuel"
	metricsQueryTimeout = 2 * time.Second
)

var startTime = time.Now()

// MetricsHandler owns a Prometheus registry with runtime, HTTP and
// showcase collectors.
type MetricsHandler struct {
	registry *prometheus.Registry
	handler  http.Handler
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetricsHandler(gw *models.Gateway) *MetricsHandler {
	h := &MetricsHandler{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method", "route"},
		),
	}

	h.registry.MustRegister(
		h.requests,
		h.duration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "uptime_seconds",
			Help:      "Time since server start in seconds.",
		}, func() float64 { return time.Since(startTime).Seconds() }),
		newShowcaseCollector(gw),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	h.handler = promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
	return h
}

// Metrics serves the registry in the Prometheus exposition format.
// GET /metrics
func (h *MetricsHandler) Metrics(c *gin.Context) {
	h.handler.ServeHTTP(c.Writer, c.Request)
}

// Instrument records request counts and latencies by matched route.
func (h *MetricsHandler) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		if route == "/metrics" {
			return
		}
		method := c.Request.Method
		h.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		h.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// showcaseCollector reads pool statistics and table counts on every scrape.
type showcaseCollector struct {
	gw *models.Gateway

	openConns  *prometheus.Desc
	inUseConns *prometheus.Desc
	waitCount  *prometheus.Desc
	users      *prometheus.Desc
	categories *prometheus.Desc
	projects   *prometheus.Desc
	supports   *prometheus.Desc
	views      *prometheus.Desc
}

func newShowcaseCollector(gw *models.Gateway) *showcaseCollector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "", name), help, nil, nil)
	}
	return &showcaseCollector{
		gw:         gw,
		openConns:  desc("db_open_connections", "Number of open DB connections."),
		inUseConns: desc("db_in_use_connections", "Number of in-use DB connections."),
		waitCount:  desc("db_wait_count_total", "Number of waits for a DB connection."),
		users:      desc("users_total", "Number of registered users."),
		categories: desc("categories_total", "Number of categories."),
		projects:   desc("projects_total", "Number of projects."),
		supports:   desc("supports_total", "Number of project supports."),
		views:      desc("project_views_total", "Sum of project views."),
	}
}

func (s *showcaseCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		s.openConns, s.inUseConns, s.waitCount,
		s.users, s.categories, s.projects, s.supports, s.views,
	} {
		ch <- d
	}
}

func (s *showcaseCollector) Collect(ch chan<- prometheus.Metric) {
	gauge := func(d *prometheus.Desc, v float64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v)
	}

	db, err := s.gw.DB()
	if err != nil {
		logger.Warn().Err(err).Msg("metrics: database unavailable")
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		stats := sqlDB.Stats()
		gauge(s.openConns, float64(stats.OpenConnections))
		gauge(s.inUseConns, float64(stats.InUse))
		gauge(s.waitCount, float64(stats.WaitCount))
	}

	ctx, cancel := context.WithTimeout(context.Background(), metricsQueryTimeout)
	defer cancel()

	var counts struct {
		Users      int64
		Categories int64
		Projects   int64
		Supports   int64
		Views      int64
	}
	_, err = s.gw.QueryOne(ctx, &counts, `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM projects) AS projects,
			(SELECT COUNT(*) FROM project_support) AS supports,
			(SELECT COALESCE(SUM(views), 0) FROM projects) AS views`)
	if err != nil {
		logger.Warn().Err(err).Msg("metrics: count query failed")
		return
	}
	gauge(s.users, float64(counts.Users))
	gauge(s.categories, float64(counts.Categories))
	gauge(s.projects, float64(counts.Projects))
	gauge(s.supports, float64(counts.Supports))
	gauge(s.views, float64(counts.Views))
}
