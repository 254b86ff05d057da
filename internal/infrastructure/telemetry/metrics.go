package telemetry

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "billed"

// BillMetrics collects bill retrieval metrics. It implements the retrieval
// observer expected by the bills controller.
type BillMetrics struct {
	registry      *prometheus.Registry
	retrievals    *prometheus.CounterVec
	billsListed   prometheus.Counter
	invalidFields prometheus.Counter
	lastCount     prometheus.Gauge
	httpRequests  *prometheus.CounterVec
}

// NewBillMetrics creates the collectors on a fresh registry, along with the
// Go runtime and process collectors.
func NewBillMetrics() *BillMetrics {
	reg := prometheus.NewRegistry()
	m := &BillMetrics{
		registry: reg,
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "retrievals_total",
			Help:      "Bill retrievals by outcome.",
		}, []string{"outcome", "status_code"}),
		billsListed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bills_listed_total",
			Help:      "Bills returned by successful retrievals.",
		}),
		invalidFields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bill_fields_unformatted_total",
			Help:      "Bill date or status fields left raw because they could not be formatted.",
		}),
		lastCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_retrieval_bills",
			Help:      "Number of bills in the last successful retrieval.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.retrievals, m.billsListed, m.invalidFields, m.lastCount, m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRetrieval records the outcome of one bill retrieval
func (m *BillMetrics) ObserveRetrieval(count, invalidFields int, err error) {
	if err != nil {
		code := "unknown"
		var te *bill.TransportError
		if errors.As(err, &te) {
			code = strconv.Itoa(te.StatusCode)
		}
		m.retrievals.WithLabelValues("error", code).Inc()
		return
	}
	m.retrievals.WithLabelValues("success", "").Inc()
	m.billsListed.Add(float64(count))
	m.invalidFields.Add(float64(invalidFields))
	m.lastCount.Set(float64(count))
}

// ObserveRequest counts one served HTTP request
func (m *BillMetrics) ObserveRequest(method, route string, status int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Registry returns the registry the collectors are registered on
func (m *BillMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler exposing the metrics
func (m *BillMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
