package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/export"
	"virtualco/internal/notify"
	"virtualco/internal/session"
	"virtualco/internal/snapshot"
	"virtualco/internal/store"
)

// fixed always picks the first candidate and fails every probability roll.
type fixed struct{}

func (fixed) Float64() float64 { return 0.99 }
func (fixed) IntN(int) int     { return 0 }

type sink struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (s *sink) Notify(n notify.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
}

func (s *sink) kinds() map[notify.Kind]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[notify.Kind]int{}
	for _, n := range s.got {
		out[n.Kind]++
	}
	return out
}

type saver struct {
	mu    sync.Mutex
	calls []domain.Simulation
	err   error
}

func (s *saver) SaveSimulation(_ context.Context, owner string, sim domain.Simulation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.calls = append(s.calls, sim)
	return "sim-1", nil
}

func (s *saver) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *saver) first() domain.Simulation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[0]
}

func quietSettings() config.Settings {
	st := config.Default()
	st.Agents.EnableRandomEvents = false
	st.Agents.SmartResponses = false
	st.Simulation.AutoSave = false
	return st
}

func newSession(t *testing.T, opts session.Options) (*session.Session, clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	logger, _ := test.NewNullLogger()
	if opts.Project == (domain.Project{}) {
		opts.Project = domain.Project{Name: "Acme", Domain: "saas", Duration: 12}
	}
	if opts.Rand == nil && opts.Seed == 0 {
		opts.Seed = 42
	}
	opts.Clock = clock
	opts.Log = logger
	n := 0
	var mu sync.Mutex
	opts.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
	s, err := session.New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, clock
}

func state(t *testing.T, s *session.Session) session.State {
	t.Helper()
	st, err := s.State(context.Background())
	require.NoError(t, err)
	return st
}

func TestNewFoundsProject(t *testing.T) {
	s, _ := newSession(t, session.Options{Settings: quietSettings()})
	st := state(t, s)
	assert.False(t, st.Running)
	assert.Equal(t, session.StartDate, st.Data.CurrentDate)
	assert.Len(t, st.Data.Agents, 7)
	assert.Len(t, st.Data.OKRs, 2)
	require.Len(t, st.Data.Timeline, 1)
	assert.Equal(t, "Acme Founded", st.Data.Timeline[0].Title)

	snaps, err := s.Snapshots(context.Background())
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, session.StartLabel, snaps[0].Label)
	assert.Equal(t, 0, snaps[0].SimulationDay)
}

func TestNewRejectsInvalidProject(t *testing.T) {
	_, err := session.New(session.Options{Project: domain.Project{Name: "", Domain: "saas", Duration: 3}})
	require.Error(t, err)
}

func TestTicksKeepInvariants(t *testing.T) {
	s, _ := newSession(t, session.Options{Seed: 7})
	ctx := context.Background()
	for i := 0; i < 400; i++ {
		require.NoError(t, s.Tick(ctx))
	}
	st := state(t, s)
	assert.Equal(t, 400, st.SimulationDay)
	require.NoError(t, store.Check(st.Data))
	assert.NotEmpty(t, st.Data.Messages)
}

func TestMonthlyReportOncePerMonth(t *testing.T) {
	s, _ := newSession(t, session.Options{Settings: quietSettings(), Rand: fixed{}})
	ctx := context.Background()
	for i := 0; i < 31; i++ {
		require.NoError(t, s.Tick(ctx))
	}
	st := state(t, s)
	require.Len(t, st.Data.FinancialRecords, 1)
	rec := st.Data.FinancialRecords[0]
	assert.Equal(t, "2025-02", rec.Month)
	assert.Less(t, rec.Profit, int64(0))
	assert.GreaterOrEqual(t, rec.Runway, int64(6))

	for i := 0; i < 9; i++ {
		require.NoError(t, s.Tick(ctx))
	}
	assert.Len(t, state(t, s).Data.FinancialRecords, 1)
}

func TestFinancialAlertRespectsToggle(t *testing.T) {
	st := quietSettings()
	st.Notifications.AgentMessages = false
	alerts := &sink{}
	s, _ := newSession(t, session.Options{Settings: st, Rand: fixed{}, Notifier: alerts})
	ctx := context.Background()
	for i := 0; i < 31; i++ {
		require.NoError(t, s.Tick(ctx))
	}
	kinds := alerts.kinds()
	assert.Equal(t, 1, kinds[notify.KindFinancialAlert])
	assert.Zero(t, kinds[notify.KindAgentMessage])
	assert.Len(t, state(t, s).Data.Messages, 31)

	st.Notifications.AgentMessages = true
	require.NoError(t, s.UpdateSettings(ctx, st))
	require.NoError(t, s.Tick(ctx))
	assert.Equal(t, 1, alerts.kinds()[notify.KindAgentMessage])
}

func TestDeferredActivityRunsAfterThinking(t *testing.T) {
	s, clock := newSession(t, session.Options{Settings: quietSettings(), Rand: fixed{}})
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.Len(t, state(t, s).Data.Messages, 1)

	clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool {
		ceo := state(t, s).Data.Agents[0]
		return ceo.Status == domain.AgentThinking
	}, 2*time.Second, 5*time.Millisecond)
	assert.Len(t, state(t, s).Data.Messages, 1)

	clock.Advance(session.ThinkDelay)
	require.Eventually(t, func() bool {
		return len(state(t, s).Data.Messages) == 2
	}, 2*time.Second, 5*time.Millisecond)
	st := state(t, s)
	assert.Equal(t, domain.AgentActive, st.Data.Agents[0].Status)
	assert.Equal(t, 1, st.SimulationDay)
}

func TestResetDropsDeferredEvents(t *testing.T) {
	s, clock := newSession(t, session.Options{Settings: quietSettings(), Rand: fixed{}})
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	clock.Advance(3 * time.Second)
	require.Eventually(t, func() bool {
		return state(t, s).Data.Agents[0].Status == domain.AgentThinking
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, s.Reset(ctx))
	clock.Advance(5 * time.Second)
	assert.Never(t, func() bool {
		return len(state(t, s).Data.Messages) > 0
	}, 200*time.Millisecond, 10*time.Millisecond)

	st := state(t, s)
	assert.False(t, st.Running)
	assert.Equal(t, session.StartDate, st.Data.CurrentDate)
	for _, a := range st.Data.Agents {
		assert.Equal(t, domain.AgentActive, a.Status)
		assert.Zero(t, a.TasksCompleted)
	}
	assert.Empty(t, st.Data.OKRs)
	assert.Empty(t, st.Data.Timeline)
	assert.Equal(t, domain.Metrics{}, st.Data.Metrics)
	assert.Empty(t, st.Data.Market.Competitors)
	assert.Equal(t, 1, st.Snapshots)

	require.NoError(t, s.SkipDays(ctx, 40))
	st = state(t, s)
	assert.Equal(t, 40, st.SimulationDay)
	assert.Empty(t, st.Data.OKRs)
}

func TestStopHaltsTicks(t *testing.T) {
	s, clock := newSession(t, session.Options{Settings: quietSettings(), Rand: fixed{}})
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Stop(ctx))
	for i := 0; i < 5; i++ {
		clock.Advance(3 * time.Second)
	}
	assert.Never(t, func() bool {
		return state(t, s).SimulationDay > 0
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestSprintMeetingPausesOnMilestone(t *testing.T) {
	st := quietSettings()
	st.Simulation.PauseOnMilestone = true
	alerts := &sink{}
	s, clock := newSession(t, session.Options{
		Settings: st,
		Rand:     fixed{},
		Notifier: alerts,
		Start:    time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC),
	})
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Tick(ctx))

	got := state(t, s)
	assert.False(t, got.Running)
	for _, a := range got.Data.Agents {
		assert.Equal(t, domain.AgentMeeting, a.Status)
	}
	last := got.Data.Messages[len(got.Data.Messages)-1]
	assert.Equal(t, domain.MessageMeeting, last.Type)
	assert.Equal(t, 1, alerts.kinds()[notify.KindMilestone])

	clock.Advance(session.RemarkDelay)
	require.Eventually(t, func() bool {
		for _, a := range state(t, s).Data.Agents {
			if a.Status != domain.AgentActive {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
	msgs := state(t, s).Data.Messages
	assert.Equal(t, domain.MessageMeeting, msgs[len(msgs)-1].Type)
	assert.Len(t, msgs, len(got.Data.Messages)+1)
}

func TestRestoreRequiresStoppedClock(t *testing.T) {
	s, _ := newSession(t, session.Options{})
	ctx := context.Background()
	snaps, err := s.Snapshots(ctx)
	require.NoError(t, err)
	start := snaps[0]

	require.NoError(t, s.Start(ctx))
	require.ErrorIs(t, s.Restore(ctx, start.ID), session.ErrRunning)

	require.NoError(t, s.Stop(ctx))
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Tick(ctx))
	}
	require.NoError(t, s.Restore(ctx, start.ID))
	assert.Equal(t, start.Data, state(t, s).Data)

	require.ErrorIs(t, s.Restore(ctx, "missing"), snapshot.ErrNotFound)
}

func TestCaptureAndBranchLeaveLiveStore(t *testing.T) {
	s, _ := newSession(t, session.Options{})
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Tick(ctx))
	}
	snap, err := s.Capture(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Day 10", snap.Label)
	live := state(t, s).Data

	b, err := s.Branch(ctx, snap.ID, "what if")
	require.NoError(t, err)
	assert.True(t, b.IsBranch)
	assert.Equal(t, snap.ID, b.ParentID)
	assert.Equal(t, snap.Data, b.Data)
	assert.Equal(t, live, state(t, s).Data)
}

func TestPeriodicSnapshots(t *testing.T) {
	s, _ := newSession(t, session.Options{Settings: quietSettings(), Rand: fixed{}, SnapshotEvery: 5})
	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Tick(ctx))
	}
	snaps, err := s.Snapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "Day 5", snaps[1].Label)
	assert.Equal(t, "Day 10", snaps[2].Label)
}

func TestSkipDays(t *testing.T) {
	s, _ := newSession(t, session.Options{Seed: 3})
	ctx := context.Background()
	require.NoError(t, s.SkipDays(ctx, 45))
	st := state(t, s)
	assert.Equal(t, 45, st.SimulationDay)
	assert.Equal(t, "Fast-forwarded 45 days", st.Data.Timeline[len(st.Data.Timeline)-1].Title)
	assert.Len(t, st.Data.FinancialRecords, 0)
	require.NoError(t, store.Check(st.Data))

	require.Error(t, s.SkipDays(ctx, 0))
}

func TestLoadRejectsInconsistentData(t *testing.T) {
	s, _ := newSession(t, session.Options{})
	ctx := context.Background()
	before := state(t, s).Data

	bad := before.Clone()
	bad.Metrics.TasksCompleted = 3
	require.Error(t, s.Load(ctx, domain.Simulation{Data: bad}))
	assert.Equal(t, before, state(t, s).Data)

	good := before.Clone()
	good.ProductProgress = 40
	require.NoError(t, s.Load(ctx, domain.Simulation{ID: "saved", Data: good}))
	st := state(t, s)
	assert.Equal(t, 40.0, st.Data.ProductProgress)
	assert.Equal(t, "saved", st.SimulationID)
}

func TestLoadRejectsCorruptCollections(t *testing.T) {
	s, _ := newSession(t, session.Options{})
	ctx := context.Background()
	before := state(t, s).Data
	project := domain.Project{Name: "Acme", Domain: "saas", Duration: 12}

	cases := map[string]func(d *domain.Data){
		"empty roster": func(d *domain.Data) { d.Agents = nil },
		"bogus agent status": func(d *domain.Data) { d.Agents[0].Status = "napping" },
		"bogus message type": func(d *domain.Data) {
			d.Messages = append(d.Messages, domain.Message{ID: "m1", AgentID: d.Agents[0].ID, Type: "gossip"})
		},
		"duplicate month": func(d *domain.Data) {
			d.FinancialRecords = []domain.FinancialRecord{{Month: "2025-01"}, {Month: "2025-01"}}
		},
		"unknown reviewer": func(d *domain.Data) {
			d.PullRequests = []domain.PullRequest{{ID: "p1", Author: d.Agents[0].ID, Status: domain.PROpen, Reviewers: []string{"ghost"}}}
		},
		"bogus competitor trend": func(d *domain.Data) {
			d.Market.Competitors = []domain.Competitor{{ID: "c1", Name: "Rival", Trend: "sideways"}}
		},
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			bad := before.Clone()
			corrupt(&bad)
			err := s.Load(ctx, domain.Simulation{ID: "corrupt", Project: project, Data: bad})
			require.ErrorIs(t, err, export.ErrInvalidPayload)
			st := state(t, s)
			assert.Equal(t, before, st.Data)
			assert.Empty(t, st.SimulationID)
		})
	}

	err := s.Load(ctx, domain.Simulation{Project: domain.Project{Name: "Acme", Duration: -1}, Data: before.Clone()})
	require.ErrorIs(t, err, export.ErrInvalidPayload)
}

func TestSaveWithoutOwner(t *testing.T) {
	s, _ := newSession(t, session.Options{Saver: &saver{}})
	_, err := s.Save(context.Background())
	require.ErrorIs(t, err, session.ErrNoSaver)
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	sv := &saver{err: errors.New("disk full")}
	s, _ := newSession(t, session.Options{OwnerID: "u1", Saver: sv, Settings: quietSettings()})
	ctx := context.Background()
	before := state(t, s)
	_, err := s.Save(ctx)
	require.Error(t, err)
	after := state(t, s)
	assert.Equal(t, before.Data, after.Data)
	assert.Empty(t, after.SimulationID)
	assert.Nil(t, after.LastSaved)
	require.NoError(t, s.Tick(ctx))
}

func TestAutoSaveOnWallClock(t *testing.T) {
	st := quietSettings()
	st.Simulation.AutoSave = true
	st.Simulation.AutoSaveInterval = 1
	sv := &saver{}
	s, clock := newSession(t, session.Options{OwnerID: "u1", Saver: sv, Settings: st})

	require.Eventually(t, func() bool {
		clock.Advance(time.Minute)
		return sv.count() > 0
	}, 5*time.Second, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		return state(t, s).SimulationID == "sim-1"
	}, 2*time.Second, 5*time.Millisecond)
	first := sv.first()
	assert.Equal(t, "u1", first.OwnerID)
	assert.Equal(t, "Acme", first.Project.Name)
}

func TestSetSpeedRetimesClock(t *testing.T) {
	s, _ := newSession(t, session.Options{Settings: quietSettings()})
	ctx := context.Background()
	require.NoError(t, s.SetSpeed(ctx, 4))
	st := state(t, s)
	assert.Equal(t, 4.0, st.Speed)
	assert.Equal(t, 750*time.Millisecond, st.Interval)
	require.Error(t, s.SetSpeed(ctx, 0))

	require.NoError(t, s.Start(ctx))
	require.ErrorIs(t, s.SetSpeed(ctx, 1e12), store.ErrInvalid)
	st = state(t, s)
	assert.True(t, st.Running)
	assert.Equal(t, 4.0, st.Speed)
	require.NoError(t, s.SetSpeed(ctx, config.MaxSpeed))
	assert.Equal(t, 300*time.Millisecond, state(t, s).Interval)

	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, 1.0, state(t, s).Speed)
}

func TestClosedSession(t *testing.T) {
	s, _ := newSession(t, session.Options{})
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.ErrorIs(t, s.Tick(context.Background()), session.ErrClosed)
}

func TestRegistryReplacesOwnerSession(t *testing.T) {
	logger, _ := test.NewNullLogger()
	r := session.NewRegistry(logger)
	a, _ := newSession(t, session.Options{OwnerID: "u1"})
	b, _ := newSession(t, session.Options{OwnerID: "u1"})
	r.Put(a)
	r.Put(b)
	got, ok := r.Get("u1")
	require.True(t, ok)
	assert.Same(t, b, got)
	require.ErrorIs(t, a.Tick(context.Background()), session.ErrClosed)

	assert.True(t, r.Delete("u1"))
	assert.False(t, r.Delete("u1"))
	assert.Equal(t, 0, r.Len())
}
