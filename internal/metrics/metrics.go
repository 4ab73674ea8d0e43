package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the simulation collectors. A nil *Metrics records nothing.
type Metrics struct {
	Ticks          prometheus.Counter
	Intentions     *prometheus.CounterVec
	Saves          *prometheus.CounterVec
	SaveLatency    prometheus.Histogram
	ActiveSessions prometheus.Gauge
	Notifications  *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "virtualco_ticks_total",
			Help: "Simulation ticks processed",
		}),
		Intentions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "virtualco_intentions_total",
			Help: "Generated intentions by kind and whether they changed state",
		}, []string{"kind", "applied"}),
		Saves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "virtualco_saves_total",
			Help: "Simulation saves by trigger and result",
		}, []string{"trigger", "result"}),
		SaveLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "virtualco_save_duration_seconds",
			Help:    "Time spent persisting a simulation",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "virtualco_sessions_active",
			Help: "Live simulation sessions",
		}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "virtualco_notifications_total",
			Help: "Notifications delivered by kind",
		}, []string{"kind"}),
	}
}

func (m *Metrics) Tick() {
	if m == nil {
		return
	}
	m.Ticks.Inc()
}

func (m *Metrics) Intention(kind string, applied bool) {
	if m == nil {
		return
	}
	m.Intentions.WithLabelValues(kind, strconv.FormatBool(applied)).Inc()
}

func (m *Metrics) Save(trigger string, took time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Saves.WithLabelValues(trigger, result).Inc()
	m.SaveLatency.Observe(took.Seconds())
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
}

func (m *Metrics) Notified(kind string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(kind).Inc()
}
