package kernel

import "github.com/prometheus/client_golang/prometheus"

// metrics bundles the Prometheus collectors a Kernel keeps updated as it
// runs, following the same small-gauges-and-counters convention the
// teacher repo's internal/metrics package uses for its OperationMetrics
// type (this kernel has no per-call duration worth histogramming — a
// context switch is microseconds on real hardware — so plain Gauge/Counter
// collectors are used directly instead of the full Duration/Count/Errors
// trio).
type metrics struct {
	threads          prometheus.Gauge
	contextSwitches  prometheus.Counter
	ticks            prometheus.Counter
	fifoLostData     prometheus.Counter
	semaphoreWaiters prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		threads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "g8rtos",
			Name:      "threads",
			Help:      "Number of alive threads currently registered with the kernel.",
		}),
		contextSwitches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "g8rtos",
			Name:      "context_switches_total",
			Help:      "Total number of context switches performed by the scheduler.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "g8rtos",
			Name:      "ticks_total",
			Help:      "Total number of system ticks processed.",
		}),
		fifoLostData: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "g8rtos",
			Name:      "fifo_lost_data_total",
			Help:      "Total number of FIFO writes that overwrote a nonzero slot.",
		}),
		semaphoreWaiters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "g8rtos",
			Name:      "semaphore_waiters",
			Help:      "Waiter count on the semaphore most recently touched by Wait/Signal.",
		}),
	}
}

// MetricsCollectors returns every collector this kernel updates, for a
// caller to register with their own prometheus.Registerer.
func (k *Kernel) MetricsCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		k.metrics.threads,
		k.metrics.contextSwitches,
		k.metrics.ticks,
		k.metrics.fifoLostData,
		k.metrics.semaphoreWaiters,
	}
}
