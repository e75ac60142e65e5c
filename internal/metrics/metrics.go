// Package metrics exposes Prometheus counters for reminders and forecasts.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "diabetes_care"

type Metrics struct {
	RemindersFired        prometheus.Counter
	RemindersDeduplicated prometheus.Counter
	NotifyFailures        *prometheus.CounterVec
	Forecasts             *prometheus.CounterVec
	EntriesLogged         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RemindersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "fired_total",
			Help:      "Reminder notifications dispatched.",
		}),
		RemindersDeduplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "deduplicated_total",
			Help:      "Reminder slots skipped because a marker already existed.",
		}),
		NotifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "failures_total",
			Help:      "Notification deliveries that returned an error.",
		}, []string{"source"}),
		Forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forecast",
			Name:      "computed_total",
			Help:      "Forecasts computed, by risk level.",
		}, []string{"risk"}),
		EntriesLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entries",
			Name:      "logged_total",
			Help:      "Health records appended, by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.RemindersFired,
		m.RemindersDeduplicated,
		m.NotifyFailures,
		m.Forecasts,
		m.EntriesLogged,
	)
	return m
}

// NewNop returns metrics registered on a private registry
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Handler serves g in the Prometheus exposition format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
