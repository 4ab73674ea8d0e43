package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"virtualco/internal/metrics"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Tick()
	m.Tick()
	m.Intention("review", false)
	m.Save("auto", time.Millisecond, nil)
	m.Save("auto", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Intentions.WithLabelValues("review", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Saves.WithLabelValues("auto", "error")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	m.Tick()
	m.Intention("pr", true)
	m.Save("manual", 0, nil)
	m.SessionOpened()
	m.SessionClosed()
	m.Notified("milestones")
}
