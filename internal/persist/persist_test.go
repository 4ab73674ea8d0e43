package persist_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/kv"
	"virtualco/internal/persist"
)

type auditLog struct{ types []string }

func (a *auditLog) Record(_ context.Context, evtType, _, _, _ string, _ map[string]any) error {
	a.types = append(a.types, evtType)
	return nil
}

type failingKV struct{ kv.Store }

func (failingKV) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func newService(store kv.Store) (*persist.Service, *auditLog) {
	logger, _ := test.NewNullLogger()
	audit := &auditLog{}
	s := persist.New(store, audit, logger)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	n := 0
	s.NewID = func() string { n++; return fmt.Sprintf("sim-%d", n) }
	return s, audit
}

func simulation(name string, messages int) domain.Simulation {
	var d domain.Data
	d.CurrentDate = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	d.ProductProgress = 12.5
	for i := 0; i < messages; i++ {
		d.Messages = append(d.Messages, domain.Message{ID: fmt.Sprintf("m%d", i), AgentID: "ceo", Content: "hi", Type: domain.MessageChat})
	}
	return domain.Simulation{Project: domain.Project{Name: name, Domain: "saas", Duration: 6}, Data: d}
}

func TestOperationsRequireOwner(t *testing.T) {
	s, _ := newService(kv.NewMemory())
	ctx := context.Background()
	_, err := s.SaveSimulation(ctx, " ", simulation("Acme", 1))
	require.ErrorIs(t, err, persist.ErrUnauthorized)
	_, err = s.ListSimulations(ctx, "")
	require.ErrorIs(t, err, persist.ErrUnauthorized)
	_, err = s.LoadSimulation(ctx, "", "x")
	require.ErrorIs(t, err, persist.ErrUnauthorized)
	require.ErrorIs(t, s.DeleteSimulation(ctx, "", "x"), persist.ErrUnauthorized)
	require.ErrorIs(t, s.SaveSettings(ctx, "", config.Default()), persist.ErrUnauthorized)
	_, _, err = s.LoadSettings(ctx, "")
	require.ErrorIs(t, err, persist.ErrUnauthorized)
}

func TestSaveTrimsMessagesAndRoundTrips(t *testing.T) {
	s, audit := newService(kv.NewMemory())
	ctx := context.Background()
	in := simulation("Acme", 80)
	id, err := s.SaveSimulation(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, "sim-1", id)
	assert.Len(t, in.Data.Messages, 80)

	got, err := s.LoadSimulation(ctx, "u1", id)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.OwnerID)
	require.Len(t, got.Data.Messages, persist.MaxMessages)
	assert.Equal(t, "m30", got.Data.Messages[0].ID)
	assert.Equal(t, "m79", got.Data.Messages[49].ID)
	assert.Equal(t, in.Data.CurrentDate, got.Data.CurrentDate)

	got.Data.ProductProgress = 50
	again, err := s.SaveSimulation(ctx, "u1", got)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, []string{"simulation.saved", "simulation.loaded", "simulation.saved"}, audit.types)
}

func TestOwnersAreIsolated(t *testing.T) {
	s, _ := newService(kv.NewMemory())
	ctx := context.Background()
	id, err := s.SaveSimulation(ctx, "u1", simulation("Acme", 0))
	require.NoError(t, err)

	_, err = s.LoadSimulation(ctx, "u2", id)
	require.ErrorIs(t, err, persist.ErrNotFound)
	require.ErrorIs(t, s.DeleteSimulation(ctx, "u2", id), persist.ErrNotFound)
	list, err := s.ListSimulations(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListNewestFirstAndDelete(t *testing.T) {
	s, _ := newService(kv.NewMemory())
	ctx := context.Background()
	a, err := s.SaveSimulation(ctx, "u1", simulation("Alpha", 0))
	require.NoError(t, err)
	b, err := s.SaveSimulation(ctx, "u1", simulation("Beta", 0))
	require.NoError(t, err)

	list, err := s.ListSimulations(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b, list[0].ID)
	assert.Equal(t, "Beta", list[0].ProjectName)
	assert.Equal(t, 12.5, list[0].Progress)
	assert.Equal(t, "saas", list[0].Domain)

	require.NoError(t, s.DeleteSimulation(ctx, "u1", a))
	require.ErrorIs(t, s.DeleteSimulation(ctx, "u1", a), persist.ErrNotFound)
	list, err = s.ListSimulations(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveFailureIsReported(t *testing.T) {
	s, audit := newService(failingKV{kv.NewMemory()})
	_, err := s.SaveSimulation(context.Background(), "u1", simulation("Acme", 0))
	require.Error(t, err)
	assert.Empty(t, audit.types)
}

func TestSettings(t *testing.T) {
	store := kv.NewMemory()
	s, _ := newService(store)
	ctx := context.Background()

	_, ok, err := s.LoadSettings(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
	def, err := s.SettingsOrDefault(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), def)

	st := config.Default()
	st.Agents.ActivityFrequency = config.FrequencyHigh
	st.UI.CompactMode = true
	require.NoError(t, s.SaveSettings(ctx, "u1", st))

	got, ok, err := s.LoadSettings(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, got)

	fresh, _ := newService(store)
	got, ok, err = fresh.LoadSettings(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, got)

	bad := config.Default()
	bad.Simulation.DefaultSpeed = 0
	require.Error(t, s.SaveSettings(ctx, "u1", bad))
}

func TestPartialSettingsOverlayDefaults(t *testing.T) {
	store := kv.NewMemory()
	require.NoError(t, store.Set(context.Background(), "settings:u1", []byte(`{"ui":{"compactMode":true}}`)))
	s, _ := newService(store)
	got, ok, err := s.LoadSettings(context.Background(), "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.UI.CompactMode)
	assert.Equal(t, config.FrequencyMedium, got.Agents.ActivityFrequency)
}
