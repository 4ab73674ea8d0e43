// Package notify delivers user-facing alerts raised by a running simulation.
package notify

import (
	"time"

	"github.com/sirupsen/logrus"

	"virtualco/internal/config"
)

type Kind string

const (
	KindAgentMessage   Kind = "agent_message"
	KindTaskUpdate     Kind = "task_update"
	KindMilestone      Kind = "milestone"
	KindFinancialAlert Kind = "financial_alert"
)

type Notification struct {
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"session_id"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	At        time.Time `json:"at"`
}

type Sink interface {
	Notify(n Notification)
}

// Enabled reports whether the user's toggles allow kind.
func Enabled(t config.Notifications, kind Kind) bool {
	switch kind {
	case KindAgentMessage:
		return t.AgentMessages
	case KindTaskUpdate:
		return t.TaskUpdates
	case KindMilestone:
		return t.Milestones
	case KindFinancialAlert:
		return t.FinancialAlerts
	}
	return false
}

// Multi fans a notification out to every sink.
type Multi []Sink

func (m Multi) Notify(n Notification) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// LogSink writes notifications to a logger.
type LogSink struct {
	Log logrus.FieldLogger
}

func (s LogSink) Notify(n Notification) {
	s.Log.WithFields(logrus.Fields{
		"kind":    n.Kind,
		"session": n.SessionID,
		"owner":   n.OwnerID,
	}).Info(n.Title)
}

// Func adapts a function to Sink.
type Func func(Notification)

func (f Func) Notify(n Notification) { f(n) }
