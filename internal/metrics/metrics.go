package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	CycleCount    prometheus.Counter
	JobsEnqueued  prometheus.Counter
	SendSuccesses prometheus.Counter
	SendFailures  prometheus.Counter
	OptOuts       prometheus.Counter
	CycleDuration prometheus.Histogram
	PendingJobs   prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		CycleCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridge_mailer_cycle_count",
			Help: "Total number of queue polling cycles",
		}),
		JobsEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridge_mailer_jobs_enqueued",
			Help: "Total number of email jobs enqueued",
		}),
		SendSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridge_mailer_send_successes",
			Help: "Total number of successfully delivered emails",
		}),
		SendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridge_mailer_send_failures",
			Help: "Total number of failed email deliveries",
		}),
		OptOuts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bridge_mailer_opt_outs",
			Help: "Total number of unsubscribe requests processed",
		}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bridge_mailer_cycle_duration_seconds",
			Help:    "Time spent processing one queue polling cycle",
			Buckets: prometheus.DefBuckets,
		}),
		PendingJobs: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "bridge_mailer_pending_jobs",
			Help: "Number of jobs claimed in the most recent cycle",
		}),
	}
}
