package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefloor/internal/events"
)

type Metrics struct {
	Registry *prometheus.Registry
	Events   *prometheus.CounterVec
	Sessions prometheus.Gauge
	Signups  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefloor",
			Name:      "events_total",
			Help:      "Tracking events recorded, by event type.",
		}, []string{"kind"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefloor",
			Name:      "sessions_active",
			Help:      "Visitor sessions currently held in memory.",
		}),
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefloor",
			Name:      "signups_total",
			Help:      "Signup forms accepted.",
		}),
	}
	m.Registry.MustRegister(
		m.Events,
		m.Sessions,
		m.Signups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveEvent is a recorder sink.
func (m *Metrics) ObserveEvent(ev events.Event) {
	m.Events.WithLabelValues(string(ev.Kind)).Inc()
	if ev.Kind == events.SignUp && ev.Data != nil {
		m.Signups.Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
