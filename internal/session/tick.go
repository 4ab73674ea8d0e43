package session

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"virtualco/internal/domain"
	"virtualco/internal/engine"
	"virtualco/internal/notify"
)

// tick performs one activity and advances the calendar by a day. A
// deferred tick sequences the acting agent through thinking first.
func (s *Session) tick(deferred bool) {
	s.metrics.Tick()
	if in := s.eng.Generate(); in != nil {
		event := false
		if d, ok := in.(engine.MakeDecision); ok {
			event = d.Event
		}
		if event || !deferred {
			s.apply(in, !deferred)
		} else {
			agent := in.Actor()
			if err := s.store.SetAgentStatus(agent, domain.AgentThinking); err != nil {
				s.log.WithError(err).Warn("set agent thinking")
			}
			s.after(s.scaled(ThinkDelay), func() {
				if err := s.store.SetAgentStatus(agent, domain.AgentActive); err != nil {
					s.log.WithError(err).Warn("set agent active")
				}
				s.apply(in, false)
			})
		}
	}
	if err := s.store.AdvanceDays(1); err != nil {
		s.log.WithError(err).Error("advance calendar")
		return
	}
	s.onNewDay()
}

func (s *Session) apply(in engine.Intention, inlineMerge bool) {
	out, err := s.eng.Apply(in)
	s.metrics.Intention(string(out.Kind), out.Applied)
	if err != nil {
		return
	}
	s.announce(out)
	if pr := out.MergePR; pr != "" {
		merge := func() {
			if err := s.eng.Merge(pr); err != nil {
				s.log.WithField("pr", pr).WithError(err).Error("merge pull request")
			}
		}
		if inlineMerge {
			merge()
		} else {
			s.after(s.scaled(MergeDelay), merge)
		}
	}
	if _, err := s.eng.RollProgress(); err != nil {
		s.log.WithError(err).Error("roll progress")
	}
	s.log.WithFields(logrus.Fields{"kind": out.Kind, "agent": out.Agent, "applied": out.Applied}).Debug("activity")
}

// onNewDay runs the calendar-driven procedures for the current date.
func (s *Session) onNewDay() {
	rec, filed, err := s.eng.MonthlyReport()
	if err != nil {
		s.log.WithError(err).Error("monthly report")
	}
	if filed && rec.Runway < engine.RunwayAlertBelow {
		s.notify(notify.KindFinancialAlert, "Runway alert",
			fmt.Sprintf("%s closed with %d months of runway left", rec.Month, rec.Runway))
	}
	if !s.running {
		return
	}
	if s.eng.SprintDue() {
		s.sprint()
	}
	if day := s.store.SimulationDay(); s.snapshotEvery > 0 && day > 0 && day%s.snapshotEvery == 0 {
		s.snaps.Capture(fmt.Sprintf("Day %d", day), day, s.store.Data())
	}
}

func (s *Session) sprint() {
	out, err := s.eng.SprintKickoff()
	if err != nil {
		s.log.WithError(err).Error("sprint kickoff")
		return
	}
	s.announce(out)
	s.notify(notify.KindMilestone, "Sprint planning", "The team is meeting to review progress and set new goals")
	if s.settings.Simulation.PauseOnMilestone {
		s.stopClock()
	}
	s.after(s.scaled(RemarkDelay), func() {
		out, err := s.eng.SprintRemark()
		if err != nil {
			s.log.WithError(err).Error("sprint remark")
			return
		}
		s.announce(out)
	})
}

func (s *Session) announce(out engine.Outcome) {
	for _, m := range out.Messages {
		name := m.AgentID
		if a, err := s.store.Agent(m.AgentID); err == nil {
			name = a.Name
		}
		s.notify(notify.KindAgentMessage, name, m.Content)
	}
	if out.Completed && out.Task != nil {
		s.notify(notify.KindTaskUpdate, "Task completed", out.Task.Title)
	}
}

// notify delivers an alert when its toggle is on. Toggles never gate state.
func (s *Session) notify(kind notify.Kind, title, body string) {
	if s.sink == nil || !notify.Enabled(s.settings.Notifications, kind) {
		return
	}
	s.sink.Notify(notify.Notification{
		Kind:      kind,
		SessionID: s.id,
		OwnerID:   s.owner,
		Title:     title,
		Body:      body,
		At:        s.clock.Now(),
	})
	s.metrics.Notified(string(kind))
}
