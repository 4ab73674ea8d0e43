package session

import (
	"context"
	"fmt"
	"time"

	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/export"
	"virtualco/internal/notify"
	"virtualco/internal/store"
)

// State is a read model of the session.
type State struct {
	ID            string          `json:"id"`
	OwnerID       string          `json:"ownerId,omitempty"`
	SimulationID  string          `json:"simulationId,omitempty"`
	Project       domain.Project  `json:"project"`
	Running       bool            `json:"running"`
	Speed         float64         `json:"speed"`
	Interval      time.Duration   `json:"intervalNs"`
	SimulationDay int             `json:"simulationDay"`
	Snapshots     int             `json:"snapshots"`
	LastSaved     *time.Time      `json:"lastSaved,omitempty"`
	Settings      config.Settings `json:"settings"`
	Data          domain.Data     `json:"data"`
}

// Start runs the clock and posts the kickoff message. Starting a running
// session is a no-op.
func (s *Session) Start(ctx context.Context) error {
	return s.do(ctx, func() error {
		if s.running {
			return nil
		}
		s.startClock()
		out, err := s.eng.Kickoff(s.project.Name)
		if err != nil {
			return err
		}
		s.announce(out)
		s.log.Info("clock started")
		return nil
	})
}

// Stop pauses the clock. Deferred events already scheduled still run.
func (s *Session) Stop(ctx context.Context) error {
	return s.do(ctx, func() error {
		if s.running {
			s.stopClock()
			s.log.Info("clock stopped")
		}
		return nil
	})
}

// Reset stops the clock, drops deferred events and restores the initial
// roster, metrics and calendar. Every collection, OKRs and the market
// included, is left empty; Found is not re-run. Snapshots are kept.
func (s *Session) Reset(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.stopClock()
		s.cancelPending()
		s.store.ResetAll()
		s.speed = s.settings.Simulation.DefaultSpeed
		s.log.Info("simulation reset")
		return nil
	})
}

// Tick performs one activity synchronously, merging approvals inline.
func (s *Session) Tick(ctx context.Context) error {
	return s.do(ctx, func() error {
		s.tick(false)
		return nil
	})
}

// SkipDays fast-forwards n days.
func (s *Session) SkipDays(ctx context.Context, n int) error {
	return s.do(ctx, func() error {
		outs, err := s.eng.SkipDays(n)
		for _, out := range outs {
			s.metrics.Intention(string(out.Kind), out.Applied)
			s.announce(out)
		}
		if err != nil {
			return err
		}
		s.notify(notify.KindMilestone, fmt.Sprintf("Fast-forwarded %d days", n), fmt.Sprintf("Simulated %d days of work", n))
		s.onNewDay()
		return nil
	})
}

// SetSpeed changes the speed multiplier, retiming a running clock.
func (s *Session) SetSpeed(ctx context.Context, speed float64) error {
	if err := config.CheckSpeed(speed); err != nil {
		return fmt.Errorf("speed %w: %w", err, store.ErrInvalid)
	}
	return s.do(ctx, func() error {
		s.speed = speed
		if s.running {
			s.stopClock()
			s.startClock()
		}
		return nil
	})
}

// UpdateSettings swaps the settings used by the generator, clock,
// notifications and auto-save.
func (s *Session) UpdateSettings(ctx context.Context, st config.Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	err := s.do(ctx, func() error {
		s.settings = st
		s.eng.Options = generateOptions(s.project, st)
		if s.running {
			s.stopClock()
			s.startClock()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.scheduleAutoSave(st)
}

func (s *Session) Settings(ctx context.Context) (config.Settings, error) {
	var st config.Settings
	err := s.do(ctx, func() error {
		st = s.settings
		return nil
	})
	return st, err
}

func (s *Session) State(ctx context.Context) (State, error) {
	var st State
	err := s.do(ctx, func() error {
		st = State{
			ID:            s.id,
			OwnerID:       s.owner,
			SimulationID:  s.simID,
			Project:       s.project,
			Running:       s.running,
			Speed:         s.speed,
			Interval:      s.interval(),
			SimulationDay: s.store.SimulationDay(),
			Snapshots:     s.snaps.Len(),
			Settings:      s.settings,
			Data:          s.store.Data(),
		}
		if !s.lastSaved.IsZero() {
			t := s.lastSaved
			st.LastSaved = &t
		}
		return nil
	})
	return st, err
}

// Capture snapshots the live store.
func (s *Session) Capture(ctx context.Context, label string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.do(ctx, func() error {
		if label == "" {
			label = fmt.Sprintf("Day %d", s.store.SimulationDay())
		}
		snap = s.snaps.Capture(label, s.store.SimulationDay(), s.store.Data())
		return nil
	})
	return snap, err
}

// Restore replaces the live store with a snapshot. It fails with ErrRunning
// while the clock runs.
func (s *Session) Restore(ctx context.Context, id string) error {
	return s.do(ctx, func() error {
		if s.running {
			return ErrRunning
		}
		data, err := s.snaps.Restore(id)
		if err != nil {
			return err
		}
		s.cancelPending()
		s.store.Replace(data)
		s.log.WithField("snapshot", id).Info("snapshot restored")
		return nil
	})
}

// Branch forks a new snapshot from an existing one. The live store is untouched.
func (s *Session) Branch(ctx context.Context, fromID, label string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := s.do(ctx, func() error {
		var err error
		snap, err = s.snaps.Branch(fromID, label)
		return err
	})
	return snap, err
}

func (s *Session) Snapshots(ctx context.Context) ([]domain.Snapshot, error) {
	var list []domain.Snapshot
	err := s.do(ctx, func() error {
		list = s.snaps.List()
		return nil
	})
	return list, err
}

// Simulation returns the persistable blob of the live store.
func (s *Session) Simulation(ctx context.Context) (domain.Simulation, error) {
	var sim domain.Simulation
	err := s.do(ctx, func() error {
		sim = s.simulation()
		return nil
	})
	return sim, err
}

func (s *Session) simulation() domain.Simulation {
	return domain.Simulation{
		ID:        s.simID,
		OwnerID:   s.owner,
		Project:   s.project,
		Data:      s.store.Data(),
		UpdatedAt: s.clock.Now(),
	}
}

// Load replaces the live store with a saved or imported simulation. The
// data is checked first; on any violation the live store is untouched.
func (s *Session) Load(ctx context.Context, sim domain.Simulation) error {
	var err error
	if sim.Project.Name == "" {
		err = export.ValidateData(sim.Data)
	} else {
		err = export.ValidateSimulation(sim)
	}
	if err != nil {
		return fmt.Errorf("load simulation: %w", err)
	}
	return s.do(ctx, func() error {
		if s.running {
			return ErrRunning
		}
		s.cancelPending()
		s.store.Replace(sim.Data)
		if sim.ID != "" {
			s.simID = sim.ID
		}
		if sim.Project.Name != "" {
			s.project = sim.Project
			s.eng.Options = generateOptions(s.project, s.settings)
		}
		s.log.WithField("simulation", sim.ID).Info("simulation loaded")
		return nil
	})
}
