// Package metrics wraps github.com/prometheus/client_golang behind a small
// Recorder capability the Engine calls the same way it calls its logger:
// injected, optional, and never used for control flow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder observes task terminal outcomes and their duration. A nil
// *Recorder is not valid — use NoOp() when metrics aren't wanted.
type Recorder interface {
	ObserveTask(status string, duration time.Duration)
}

// PrometheusRecorder is the concrete Recorder backed by prometheus counters
// and a histogram, registered against a caller-supplied registry so a host
// process can expose it alongside its own metrics.
type PrometheusRecorder struct {
	tasksTotal   *prometheus.CounterVec
	taskDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder creates a Recorder and registers its collectors on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	r := &PrometheusRecorder{
		tasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dagrs_tasks_total",
			Help: "Total number of tasks that reached a terminal status.",
		}, []string{"status"}),
		taskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dagrs_task_duration_seconds",
			Help:    "Wall-clock duration of a task's action invocation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
	}
	reg.MustRegister(r.tasksTotal, r.taskDuration)
	return r
}

// ObserveTask implements Recorder.
func (r *PrometheusRecorder) ObserveTask(status string, duration time.Duration) {
	r.tasksTotal.WithLabelValues(status).Inc()
	r.taskDuration.WithLabelValues(status).Observe(duration.Seconds())
}

type noopRecorder struct{}

func (noopRecorder) ObserveTask(string, time.Duration) {}

// NoOp returns a Recorder that discards everything, used when the caller
// doesn't want metrics wired up.
func NoOp() Recorder { return noopRecorder{} }
