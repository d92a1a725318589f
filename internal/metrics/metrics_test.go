package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/skull8888888/dagrs/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoOpRecorderDiscardsObservations(t *testing.T) {
	rec := metrics.NoOp()
	assert.NotPanics(t, func() {
		rec.ObserveTask("succeeded", time.Millisecond)
	})
}

func TestPrometheusRecorderIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	rec.ObserveTask("succeeded", 10*time.Millisecond)
	rec.ObserveTask("failed", 5*time.Millisecond)
	rec.ObserveTask("succeeded", 20*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	var succeededCount float64
	for _, mf := range families {
		if mf.GetName() != "dagrs_tasks_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelValue(m, "status") == "succeeded" {
				succeededCount = m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, float64(2), succeededCount)
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
