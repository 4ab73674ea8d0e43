// Package persist stores simulations and settings per owner in a kv.Store.
// Every operation requires an owner; none of them touch a live session.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/events"
	"virtualco/internal/kv"
)

// MaxMessages is how many of the most recent messages a saved copy keeps.
const MaxMessages = 50

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("simulation not found")
)

// Auditor records persistence events. events.Writer satisfies it.
type Auditor interface {
	Record(ctx context.Context, evtType, ownerID, entityKind, entityID string, payload map[string]any) error
}

type Service struct {
	KV    kv.Store
	Audit Auditor
	Now   func() time.Time
	NewID func() string
	Log   logrus.FieldLogger

	settings *cache.Cache
}

func New(store kv.Store, audit Auditor, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		KV:       store,
		Audit:    audit,
		Now:      time.Now,
		NewID:    uuid.NewString,
		Log:      log,
		settings: cache.New(10*time.Minute, 15*time.Minute),
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func owner(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrUnauthorized
	}
	return id, nil
}

func simulationPrefix(ownerID string) string { return "simulation:" + ownerID + ":" }

func simulationKey(ownerID, id string) string { return simulationPrefix(ownerID) + id }

func settingsKey(ownerID string) string { return "settings:" + ownerID }

func (s *Service) audit(ctx context.Context, evtType, ownerID, kind, id string, payload map[string]any) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, evtType, ownerID, kind, id, payload); err != nil {
		s.Log.WithFields(logrus.Fields{"owner": ownerID, "type": evtType}).WithError(err).Warn("audit event")
	}
}

// SaveSimulation stores sim for ownerID and returns its id. A missing id
// is assigned; the stored copy keeps only the last MaxMessages messages.
func (s *Service) SaveSimulation(ctx context.Context, ownerID string, sim domain.Simulation) (string, error) {
	ownerID, err := owner(ownerID)
	if err != nil {
		return "", err
	}
	if sim.ID == "" {
		sim.ID = s.newID()
	}
	if strings.Contains(sim.ID, ":") {
		return "", fmt.Errorf("invalid simulation id %q", sim.ID)
	}
	sim.OwnerID = ownerID
	sim.UpdatedAt = s.now()
	sim.Data = sim.Data.Clone()
	if n := len(sim.Data.Messages); n > MaxMessages {
		sim.Data.Messages = sim.Data.Messages[n-MaxMessages:]
	}
	blob, err := json.Marshal(sim)
	if err != nil {
		return "", fmt.Errorf("encode simulation: %w", err)
	}
	if err := s.KV.Set(ctx, simulationKey(ownerID, sim.ID), blob); err != nil {
		s.Log.WithFields(logrus.Fields{"owner": ownerID, "simulation": sim.ID}).WithError(err).Error("save simulation")
		return "", fmt.Errorf("save simulation: %w", err)
	}
	s.audit(ctx, events.SimulationSaved, ownerID, "simulation", sim.ID, map[string]any{
		"projectName": sim.Project.Name,
		"day":         sim.Data.CurrentDate.Format("2006-01-02"),
	})
	return sim.ID, nil
}

// ListSimulations returns the owner's saved simulations, most recently
// updated first.
func (s *Service) ListSimulations(ctx context.Context, ownerID string) ([]domain.SimulationSummary, error) {
	ownerID, err := owner(ownerID)
	if err != nil {
		return nil, err
	}
	entries, err := s.KV.List(ctx, simulationPrefix(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	out := make([]domain.SimulationSummary, 0, len(entries))
	for _, e := range entries {
		var sim domain.Simulation
		if err := json.Unmarshal(e.Value, &sim); err != nil {
			s.Log.WithField("key", e.Key).WithError(err).Warn("skipping unreadable simulation")
			continue
		}
		out = append(out, domain.SimulationSummary{
			ID:          sim.ID,
			ProjectName: sim.Project.Name,
			Domain:      sim.Project.Domain,
			Progress:    sim.Data.ProductProgress,
			UpdatedAt:   sim.UpdatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *Service) LoadSimulation(ctx context.Context, ownerID, id string) (domain.Simulation, error) {
	ownerID, err := owner(ownerID)
	if err != nil {
		return domain.Simulation{}, err
	}
	blob, err := s.KV.Get(ctx, simulationKey(ownerID, id))
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Simulation{}, ErrNotFound
	}
	if err != nil {
		return domain.Simulation{}, fmt.Errorf("load simulation: %w", err)
	}
	var sim domain.Simulation
	if err := json.Unmarshal(blob, &sim); err != nil {
		return domain.Simulation{}, fmt.Errorf("decode simulation %s: %w", id, err)
	}
	s.audit(ctx, events.SimulationLoaded, ownerID, "simulation", id, nil)
	return sim, nil
}

func (s *Service) DeleteSimulation(ctx context.Context, ownerID, id string) error {
	ownerID, err := owner(ownerID)
	if err != nil {
		return err
	}
	err = s.KV.Delete(ctx, simulationKey(ownerID, id))
	if errors.Is(err, kv.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete simulation: %w", err)
	}
	s.audit(ctx, events.SimulationDeleted, ownerID, "simulation", id, nil)
	return nil
}

func (s *Service) SaveSettings(ctx context.Context, ownerID string, st config.Settings) error {
	ownerID, err := owner(ownerID)
	if err != nil {
		return err
	}
	if err := st.Validate(); err != nil {
		return err
	}
	blob, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.KV.Set(ctx, settingsKey(ownerID), blob); err != nil {
		s.settings.Delete(ownerID)
		return fmt.Errorf("save settings: %w", err)
	}
	s.settings.SetDefault(ownerID, st)
	s.audit(ctx, events.SettingsSaved, ownerID, "settings", "", nil)
	return nil
}

// LoadSettings returns the owner's settings, or false when none were saved.
// Stored settings are overlaid on the defaults.
func (s *Service) LoadSettings(ctx context.Context, ownerID string) (config.Settings, bool, error) {
	ownerID, err := owner(ownerID)
	if err != nil {
		return config.Settings{}, false, err
	}
	if v, ok := s.settings.Get(ownerID); ok {
		return v.(config.Settings), true, nil
	}
	blob, err := s.KV.Get(ctx, settingsKey(ownerID))
	if errors.Is(err, kv.ErrNotFound) {
		return config.Settings{}, false, nil
	}
	if err != nil {
		return config.Settings{}, false, fmt.Errorf("load settings: %w", err)
	}
	st := config.Default()
	if err := json.Unmarshal(blob, &st); err != nil {
		return config.Settings{}, false, fmt.Errorf("decode settings: %w", err)
	}
	if err := st.Validate(); err != nil {
		return config.Settings{}, false, err
	}
	s.settings.SetDefault(ownerID, st)
	return st, true, nil
}

// SettingsOrDefault is LoadSettings falling back to the defaults.
func (s *Service) SettingsOrDefault(ctx context.Context, ownerID string) (config.Settings, error) {
	st, ok, err := s.LoadSettings(ctx, ownerID)
	if err != nil {
		return config.Settings{}, err
	}
	if !ok {
		return config.Default(), nil
	}
	return st, nil
}
