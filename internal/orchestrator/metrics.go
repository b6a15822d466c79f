package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	stepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lakeforge",
			Subsystem: "orchestrator",
			Name:      "steps_total",
			Help:      "Total number of step executions by terminal status",
		},
		[]string{"step", "status"},
	)

	stepAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lakeforge",
			Subsystem: "orchestrator",
			Name:      "step_attempts_total",
			Help:      "Total number of step invocation attempts, including retries",
		},
		[]string{"step"},
	)

	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lakeforge",
			Subsystem: "orchestrator",
			Name:      "step_duration_seconds",
			Help:      "Wall-clock duration of step executions in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~3.5min
		},
		[]string{"step"},
	)

	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lakeforge",
			Subsystem: "orchestrator",
			Name:      "runs_total",
			Help:      "Total number of orchestration runs by outcome",
		},
		[]string{"outcome"},
	)
)

// RegisterMetrics registers the orchestrator metrics with the given
// registerer. Callers that do not expose metrics simply never call this;
// the collectors still record, they are just not scraped.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(stepsTotal, stepAttempts, stepDuration, runsTotal)
}

func observeRecord(record *Record) {
	stepsTotal.WithLabelValues(record.Step, string(record.Status)).Inc()
	if record.Attempts > 0 {
		stepAttempts.WithLabelValues(record.Step).Add(float64(record.Attempts))
	}
	if record.Duration > 0 {
		stepDuration.WithLabelValues(record.Step).Observe(record.Duration.Seconds())
	}
}
