package snapshot_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualco/internal/catalog"
	"virtualco/internal/domain"
	"virtualco/internal/engine"
	"virtualco/internal/snapshot"
	"virtualco/internal/store"
)

func busyStore(t *testing.T, steps int) (*store.Store, engine.Engine) {
	t.Helper()
	s := store.New(catalog.Default().Roster(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	e := engine.New(s, engine.NewRand(99), engine.GenerateOptions{Domain: "saas", RandomEvents: true})
	require.NoError(t, e.Found(domain.Project{Name: "Acme", Domain: "saas", Duration: 6}))
	for i := 0; i < steps; i++ {
		_, err := e.Step()
		require.NoError(t, err)
		require.NoError(t, s.AdvanceDays(1))
	}
	return s, e
}

func newManager() *snapshot.Manager {
	m := snapshot.New()
	n := 0
	m.NewID = func() string { n++; return fmt.Sprintf("snap-%d", n) }
	m.Now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return m
}

func TestCaptureRestoreRoundTrip(t *testing.T) {
	s, e := busyStore(t, 200)
	m := newManager()
	snap := m.Capture("mid", s.SimulationDay(), s.Data())
	want := s.Data()

	for i := 0; i < 100; i++ {
		_, err := e.Step()
		require.NoError(t, err)
	}
	require.NotEqual(t, want, s.Data())

	data, err := m.Restore(snap.ID)
	require.NoError(t, err)
	s.Replace(data)
	assert.Equal(t, want, s.Data())
	assert.Len(t, s.Market().Competitors, 5)
	require.NoError(t, s.Check())
}

func TestSnapshotsAreIsolatedFromLiveStore(t *testing.T) {
	s, e := busyStore(t, 50)
	m := newManager()
	snap := m.Capture("a", s.SimulationDay(), s.Data())

	for i := 0; i < 50; i++ {
		_, err := e.Step()
		require.NoError(t, err)
	}
	got, err := m.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Data, got.Data)

	got.Data.Agents[0].Name = "mutated"
	got.Data.Market.Competitors[0].Name = "mutated"
	again, _ := m.Get(snap.ID)
	assert.Equal(t, "Alex Chen", again.Data.Agents[0].Name)
	assert.Equal(t, "TechCore Inc", again.Data.Market.Competitors[0].Name)
}

func TestBranchCopiesSourceData(t *testing.T) {
	s, _ := busyStore(t, 30)
	m := newManager()
	src := m.Capture("day 30", s.SimulationDay(), s.Data())
	live := s.Data()

	b, err := m.Branch(src.ID, "what if")
	require.NoError(t, err)
	assert.True(t, b.IsBranch)
	assert.Equal(t, src.ID, b.ParentID)
	assert.Equal(t, src.Data, b.Data)
	assert.Equal(t, src.SimulationDay, b.SimulationDay)
	assert.NotEqual(t, src.ID, b.ID)
	assert.Equal(t, live, s.Data())

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, []string{src.ID, b.ID}, []string{list[0].ID, list[1].ID})
}

func TestUnknownSnapshot(t *testing.T) {
	m := newManager()
	_, err := m.Restore("nope")
	require.ErrorIs(t, err, snapshot.ErrNotFound)
	_, err = m.Branch("nope", "x")
	require.ErrorIs(t, err, snapshot.ErrNotFound)
}
