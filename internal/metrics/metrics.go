// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/CameronXie/digital-diner/internal/domain"
)

const namespace = "diner"

// Metrics holds the service collectors, registered on one registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	ordersCreated  prometheus.Counter
	orderLines     prometheus.Histogram
	orderValue     prometheus.Counter
	statusUpdates  *prometheus.CounterVec
	authOutcomes   *prometheus.CounterVec
	authzDecisions *prometheus.CounterVec
}

// New registers all collectors, plus the Go runtime and process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, route pattern and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route pattern",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total orders placed",
		}),
		orderLines: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_lines",
			Help:      "Number of lines per placed order",
			Buckets:   []float64{1, 2, 3, 5, 8, 13},
		}),
		orderValue: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_value_total",
			Help:      "Sum of placed order totals",
		}),
		statusUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "order_status_updates_total",
				Help:      "Order status changes by target status",
			},
			[]string{"status"},
		),
		authOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Signup and login attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		authzDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authz_decisions_total",
				Help:      "Authorization decisions on protected routes",
			},
			[]string{"decision"},
		),
	}
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// OrderCreated records a placed order.
func (m *Metrics) OrderCreated(lines int, total decimal.Decimal) {
	m.ordersCreated.Inc()
	m.orderLines.Observe(float64(lines))
	m.orderValue.Add(total.InexactFloat64())
}

// OrderStatusUpdated records a status change.
func (m *Metrics) OrderStatusUpdated(status domain.OrderStatus) {
	m.statusUpdates.WithLabelValues(string(status)).Inc()
}

// AuthAttempt records a signup or login outcome such as "success" or "invalid_credentials".
func (m *Metrics) AuthAttempt(operation, outcome string) {
	m.authOutcomes.WithLabelValues(operation, outcome).Inc()
}

// AuthzDecision records whether a protected request was allowed.
func (m *Metrics) AuthzDecision(allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	m.authzDecisions.WithLabelValues(decision).Inc()
}
