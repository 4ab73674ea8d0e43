package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"virtualco/internal/config"
)

const autoSaveTimeout = 30 * time.Second

// scheduleAutoSave (re)creates the wall-clock auto-save job for st. The
// job only exists when auto-save is on and the session has an owner and
// a saver.
func (s *Session) scheduleAutoSave(st config.Settings) error {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	enabled := st.Simulation.AutoSave && s.saver != nil && s.owner != ""
	every := st.AutoSaveEvery()
	if s.autoSave != nil {
		if enabled && every == s.saveEvery {
			return nil
		}
		if err := s.sched.RemoveJob(s.autoSave.ID()); err != nil {
			return fmt.Errorf("remove auto-save job: %w", err)
		}
		s.autoSave = nil
	}
	if !enabled {
		return nil
	}
	job, err := s.sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(s.runAutoSave),
		gocron.WithName("auto-save "+s.id),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule auto-save: %w", err)
	}
	s.autoSave = job
	s.saveEvery = every
	return nil
}

func (s *Session) runAutoSave() {
	ctx, cancel := context.WithTimeout(s.ctx, autoSaveTimeout)
	defer cancel()
	if _, err := s.save(ctx, "auto"); err != nil {
		s.log.WithError(err).Warn("auto-save failed")
	}
}

// Save persists the live store through the session's saver and returns
// the simulation id. A failed save leaves the session untouched.
func (s *Session) Save(ctx context.Context) (string, error) {
	return s.save(ctx, "manual")
}

func (s *Session) save(ctx context.Context, trigger string) (string, error) {
	if s.saver == nil || s.owner == "" {
		return "", ErrNoSaver
	}
	sim, err := s.Simulation(ctx)
	if err != nil {
		return "", err
	}
	started := s.clock.Now()
	id, err := s.saver.SaveSimulation(ctx, s.owner, sim)
	s.metrics.Save(trigger, s.clock.Since(started), err)
	if err != nil {
		return "", err
	}
	saved := s.clock.Now()
	if err := s.do(ctx, func() error {
		s.simID = id
		s.lastSaved = saved
		return nil
	}); err != nil {
		return id, err
	}
	s.log.WithField("simulation", id).WithField("trigger", trigger).Info("simulation saved")
	return id, nil
}
