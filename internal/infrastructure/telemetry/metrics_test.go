package telemetry_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billed/backend/internal/domain/bill"
	"github.com/billed/backend/internal/infrastructure/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillMetrics_ObserveRetrieval(t *testing.T) {
	m := telemetry.NewBillMetrics()

	m.ObserveRetrieval(4, 1, nil)
	m.ObserveRetrieval(2, 0, nil)
	m.ObserveRetrieval(0, 0, bill.NewTransportError(http.StatusNotFound, nil))
	m.ObserveRetrieval(0, 0, errors.New("boom"))

	count, err := testutil.GatherAndCount(m.Registry(), "billed_retrievals_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "success, 404 and unknown series")

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 6.0, values["billed_bills_listed_total"])
	assert.Equal(t, 1.0, values["billed_bill_fields_unformatted_total"])
	assert.Equal(t, 2.0, values["billed_last_retrieval_bills"])
	assert.Equal(t, 4.0, values["billed_retrievals_total"])
}

func TestBillMetrics_Handler(t *testing.T) {
	m := telemetry.NewBillMetrics()
	m.ObserveRequest(http.MethodGet, "/api/v1/bills", http.StatusOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `billed_http_requests_total{method="GET",route="/api/v1/bills",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
