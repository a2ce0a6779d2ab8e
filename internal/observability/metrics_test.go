package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.ActivitiesReported.WithLabelValues("Critical").Inc()
	a.CriticalUnresolved.Set(2)

	assert.InDelta(t, 1, testutil.ToFloat64(a.ActivitiesReported.WithLabelValues("Critical")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(a.CriticalUnresolved), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.ActivitiesReported.WithLabelValues("Critical")), 0)
}

func TestNewMetrics_RegistersOnce(t *testing.T) {
	m := NewMetrics()

	m.GeocodeRequests.WithLabelValues("mock", "success").Inc()

	assert.Equal(t, 1, testutil.CollectAndCount(m.GeocodeRequests))
	assert.Panics(t, func() { NewMetrics() })
}
