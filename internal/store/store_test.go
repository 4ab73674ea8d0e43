package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtualco/internal/catalog"
	"virtualco/internal/domain"
	"virtualco/internal/store"
)

var start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(catalog.Default().Roster(), start)
}

func addTask(t *testing.T, s *store.Store, id, assignee string) {
	t.Helper()
	require.NoError(t, s.UpsertTask(domain.Task{
		ID: id, Title: "task " + id, AssignedTo: assignee, CreatedBy: "ceo",
		Priority: domain.PriorityHigh, Type: domain.TaskFeature,
	}))
}

func TestTaskStatusTransitions(t *testing.T) {
	s := newStore(t)
	addTask(t, s, "t1", "developer")

	_, err := s.SetTaskStatus("t1", domain.TaskReview)
	require.ErrorIs(t, err, store.ErrInvalidTransition)

	for _, st := range []domain.TaskStatus{domain.TaskInProgress, domain.TaskReview, domain.TaskDone} {
		task, err := s.SetTaskStatus("t1", st)
		require.NoError(t, err)
		assert.Equal(t, st, task.Status)
	}
	for _, st := range []domain.TaskStatus{domain.TaskBacklog, domain.TaskInProgress, domain.TaskReview, domain.TaskDone} {
		_, err := s.SetTaskStatus("t1", st)
		assert.ErrorIs(t, err, store.ErrInvalidTransition, "done -> %s", st)
	}
	require.NoError(t, s.Check())
}

func TestCompletionCreditsAssigneeOnce(t *testing.T) {
	s := newStore(t)
	addTask(t, s, "t1", "qa")
	addTask(t, s, "t2", "qa")

	_, err := s.SetTaskStatus("t1", domain.TaskDone)
	require.NoError(t, err)
	_, err = s.SetTaskStatus("t1", domain.TaskDone)
	require.Error(t, err)

	qa, err := s.Agent("qa")
	require.NoError(t, err)
	assert.Equal(t, 1, qa.TasksCompleted)
	assert.Equal(t, 1, s.Metrics().TasksCompleted)
	require.NoError(t, s.Check())
}

func TestUpsertTaskCannotBypassStatus(t *testing.T) {
	s := newStore(t)
	err := s.UpsertTask(domain.Task{ID: "t1", Title: "x", AssignedTo: "qa", CreatedBy: "qa", Status: domain.TaskDone, Priority: domain.PriorityLow, Type: domain.TaskBug})
	require.ErrorIs(t, err, store.ErrInvalidTransition)

	addTask(t, s, "t1", "qa")
	task, err := s.Task("t1")
	require.NoError(t, err)
	task.Status = domain.TaskReview
	require.ErrorIs(t, s.UpsertTask(task), store.ErrInvalidTransition)

	task.Status = ""
	task.Title = "renamed"
	require.NoError(t, s.UpsertTask(task))
	got, _ := s.Task("t1")
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, domain.TaskBacklog, got.Status)

	require.ErrorIs(t, s.UpsertTask(domain.Task{ID: "t2", Title: "x", AssignedTo: "ghost", CreatedBy: "qa", Priority: domain.PriorityLow, Type: domain.TaskBug}), store.ErrNotFound)
}

func TestPullRequestTerminalStates(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"p1", "p2"} {
		require.NoError(t, s.AppendPullRequest(domain.PullRequest{ID: id, Title: id, Author: "developer", Reviewers: []string{"qa", "ceo"}}))
	}
	_, err := s.SetPullRequestStatus("p1", domain.PRMerged)
	require.ErrorIs(t, err, store.ErrInvalidTransition)

	_, err = s.SetPullRequestStatus("p1", domain.PRApproved)
	require.NoError(t, err)
	_, err = s.SetPullRequestStatus("p1", domain.PRMerged)
	require.NoError(t, err)
	_, err = s.SetPullRequestStatus("p2", domain.PRRejected)
	require.NoError(t, err)

	for _, id := range []string{"p1", "p2"} {
		for _, st := range []domain.PRStatus{domain.PROpen, domain.PRApproved, domain.PRMerged, domain.PRRejected} {
			_, err := s.SetPullRequestStatus(id, st)
			assert.ErrorIs(t, err, store.ErrInvalidTransition)
		}
	}
	m := s.Metrics()
	assert.Equal(t, 2, m.PRsOpened)
	assert.Equal(t, 1, m.PRsMerged)
	require.ErrorIs(t, s.AppendPullRequest(domain.PullRequest{ID: "p1", Author: "developer"}), store.ErrDuplicate)
}

func TestOKRProgressIsMonotonicAndClamped(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AppendOKR(domain.OKR{ID: "1", Objective: "o", Owner: "ceo"}))
	require.NoError(t, s.SetOKRProgress("1", 40))
	require.ErrorIs(t, s.SetOKRProgress("1", 10), store.ErrInvalidTransition)
	require.NoError(t, s.SetOKRProgress("1", 140))
	assert.Equal(t, 100.0, s.OKRs()[0].Progress)
}

func TestBumpMetricsClampsCoverage(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.BumpMetrics(store.MetricsDelta{TestCoverage: 70, Users: 3}))
	require.NoError(t, s.BumpMetrics(store.MetricsDelta{TestCoverage: 70}))
	assert.Equal(t, 100.0, s.Metrics().TestCoverage)
	assert.Equal(t, 3, s.Metrics().Users)
	require.ErrorIs(t, s.BumpMetrics(store.MetricsDelta{Users: -1}), store.ErrInvalid)
}

func TestFinancialRecordsUniquePerMonth(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AppendFinancialRecord(domain.FinancialRecord{Month: "2025-02"}))
	require.ErrorIs(t, s.AppendFinancialRecord(domain.FinancialRecord{Month: "2025-02"}), store.ErrDuplicate)
	assert.True(t, s.HasFinancialRecord("2025-02"))
}

func TestResetRestoresInitialState(t *testing.T) {
	s := newStore(t)
	addTask(t, s, "t1", "developer")
	_, err := s.SetTaskStatus("t1", domain.TaskDone)
	require.NoError(t, err)
	require.NoError(t, s.SetAgentStatus("ceo", domain.AgentMeeting))
	require.NoError(t, s.AdvanceDays(40))
	require.NoError(t, s.BumpMetrics(store.MetricsDelta{Users: 10}))
	gen := s.Generation()

	s.ResetAll()

	assert.Equal(t, gen+1, s.Generation())
	assert.Equal(t, start, s.CurrentDate())
	assert.Equal(t, domain.Metrics{}, s.Metrics())
	assert.Equal(t, catalog.Default().Roster(), s.Agents())
	d := s.Data()
	assert.Empty(t, d.Tasks)
	assert.Empty(t, d.Messages)
	assert.Empty(t, d.PullRequests)
	assert.Empty(t, d.Timeline)
	assert.Empty(t, d.Market.Competitors)
	assert.Empty(t, d.Market.Events)
	assert.Zero(t, s.SimulationDay())
}

func TestDataIsDetached(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.AppendPullRequest(domain.PullRequest{ID: "p1", Author: "developer", Reviewers: []string{"qa"}}))
	d := s.Data()
	d.PullRequests[0].Reviewers[0] = "mutated"
	d.Agents[0].Name = "mutated"
	pr, err := s.PullRequest("p1")
	require.NoError(t, err)
	assert.Equal(t, "qa", pr.Reviewers[0])
	assert.Equal(t, "Alex Chen", s.Agents()[0].Name)
}

func TestSeedMarket(t *testing.T) {
	s := newStore(t)
	m := catalog.Default().Market("fintech", start)
	require.NoError(t, s.SeedMarket(m))
	m.Competitors[0].Name = "mutated"

	got := s.Market()
	assert.Equal(t, catalog.InitialMarketShare, got.Share)
	assert.Equal(t, "TechCore Inc", got.Competitors[0].Name)
	got.Events[0].Title = "mutated"
	assert.Equal(t, "Industry Growth Accelerating", s.Data().Market.Events[0].Title)

	bad := catalog.Default().Market("fintech", start)
	bad.Competitors[1].ID = bad.Competitors[0].ID
	require.ErrorIs(t, s.SeedMarket(bad), store.ErrInvalid)

	bad = catalog.Default().Market("fintech", start)
	bad.Events[0].Severity = 11
	require.ErrorIs(t, s.SeedMarket(bad), store.ErrInvalid)

	bad = catalog.Default().Market("fintech", start)
	bad.Competitors[2].Trend = "sideways"
	require.ErrorIs(t, s.SeedMarket(bad), store.ErrInvalid)

	assert.Equal(t, "TechCore Inc", s.Market().Competitors[0].Name)
	require.NoError(t, store.CheckMarket(domain.Market{}))
}

func TestMarketIsDetached(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.SeedMarket(catalog.Default().Market("saas", start)))
	d := s.Data()
	clone := d.Clone()
	clone.Market.Competitors[0].Strength = 1
	clone.Market.Events[0].Severity = 1
	assert.Equal(t, 75, d.Market.Competitors[0].Strength)
	assert.Equal(t, 8, d.Market.Events[0].Severity)

	s.Replace(clone)
	assert.Equal(t, 1, s.Market().Competitors[0].Strength)
	clone.Market.Competitors[0].Strength = 2
	assert.Equal(t, 1, s.Market().Competitors[0].Strength)
}
