// Package metrics provides Prometheus metrics for the portfolio server.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Terminal metrics
	terminalSessionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portfolio_terminal_sessions_active",
			Help: "Number of live terminal sessions",
		},
		[]string{"frontend"},
	)

	terminalOpensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_terminal_opens_total",
			Help: "Total number of times a terminal was opened",
		},
		[]string{"frontend"},
	)

	terminalCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_terminal_commands_total",
			Help: "Total terminal commands executed",
		},
		[]string{"command", "outcome"},
	)

	// SSE metrics
	sseConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	sseEventsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_sse_events_dropped_total",
			Help: "Terminal events dropped for slow SSE subscribers",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request count and duration by route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

var (
	commandsMu    sync.RWMutex
	knownCommands = map[string]bool{}
)

// RegisterCommands sets the command names that get their own label value.
// Anything else is recorded as "other" to keep label cardinality bounded.
func RegisterCommands(names []string) {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	commandsMu.Lock()
	knownCommands = known
	commandsMu.Unlock()
}

// RecordCommand counts one executed terminal command.
func RecordCommand(command, outcome string) {
	commandsMu.RLock()
	known := knownCommands[command]
	commandsMu.RUnlock()
	if !known {
		command = "other"
	}
	terminalCommandsTotal.WithLabelValues(command, outcome).Inc()
}

// TerminalOpened counts an open from the given front-end.
func TerminalOpened(frontend string) {
	terminalOpensTotal.WithLabelValues(frontend).Inc()
}

// SetTerminalSessions sets the number of live sessions for a front-end.
func SetTerminalSessions(frontend string, n int) {
	terminalSessionsActive.WithLabelValues(frontend).Set(float64(n))
}

// SSEConnected adjusts the SSE connection gauge by delta.
func SSEConnected(delta int) {
	sseConnectionsActive.Add(float64(delta))
}

// SSEEventDropped counts an event a slow subscriber missed.
func SSEEventDropped() {
	sseEventsDropped.Inc()
}
