package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(service string) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Subsystem: service,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"handler", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fulfillment",
		Subsystem: service,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"handler"})

	prometheus.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// DomainMetrics counts workflow outcomes, as opposed to HTTP traffic:
// order mutations by kind, blocked inventory removals, emitted low-stock
// alerts.
type DomainMetrics struct {
	OrderOperations *prometheus.CounterVec
	RemovalsBlocked prometheus.Counter
	LowStockAlerts  prometheus.Counter
}

func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	orderOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Subsystem: "orders",
		Name:      "operations_total",
		Help:      "Total order mutations by outcome.",
	}, []string{"op"})
	removalsBlocked := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Subsystem: "inventory",
		Name:      "removals_blocked_total",
		Help:      "Inventory deletions refused because of pending orders.",
	})
	lowStockAlerts := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fulfillment",
		Subsystem: "inventory",
		Name:      "low_stock_alerts_total",
		Help:      "Low-stock notifications emitted.",
	})

	reg.MustRegister(orderOperations, removalsBlocked, lowStockAlerts)
	return &DomainMetrics{
		OrderOperations: orderOperations,
		RemovalsBlocked: removalsBlocked,
		LowStockAlerts:  lowStockAlerts,
	}
}
