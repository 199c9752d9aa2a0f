package reminder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scheduler's Prometheus collectors
type Metrics struct {
	Dispatched       prometheus.Counter
	DispatchFailures prometheus.Counter
	CalendarExports  *prometheus.CounterVec
	DueReminders     prometheus.Gauge
	TickDuration     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Dispatched: f.NewCounter(prometheus.CounterOpts{
			Name: "transfer_reminder_notifications_dispatched_total",
			Help: "Reminder notifications handed to the notifier",
		}),
		DispatchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "transfer_reminder_dispatch_failures_total",
			Help: "Reminder notifications the notifier rejected",
		}),
		CalendarExports: f.NewCounterVec(prometheus.CounterOpts{
			Name: "transfer_reminder_calendar_exports_total",
			Help: "Calendar exports by outcome",
		}, []string{"outcome"}),
		DueReminders: f.NewGauge(prometheus.GaugeOpts{
			Name: "transfer_reminders_due",
			Help: "Reminders due today or earlier at the last tick",
		}),
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "transfer_reminder_tick_duration_seconds",
			Help:    "Duration of reminder scheduler ticks",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
