package store

import (
	"fmt"
	"math"
	"slices"
	"time"

	"virtualco/internal/domain"
)

// MetricsDelta carries increments for the freely bumped metrics. Counters
// tied to entity lifecycles (tasks completed, PRs opened and merged, doc
// pages) are owned by the corresponding primitives.
type MetricsDelta struct {
	Features     int
	Bugs         int
	Users        int
	Revenue      int
	TestCoverage float64
}

func (s *Store) AppendMessage(m domain.Message) error {
	if m.ID == "" {
		return fmt.Errorf("message id required: %w", ErrInvalid)
	}
	if !m.Type.Valid() {
		return fmt.Errorf("message type %q: %w", m.Type, ErrInvalid)
	}
	if s.agentIndex(m.AgentID) < 0 {
		return fmt.Errorf("message author %s: %w", m.AgentID, ErrNotFound)
	}
	s.data.Messages = append(s.data.Messages, m)
	return nil
}

// UpsertTask inserts a new task or updates the descriptive fields of an
// existing one. Status changes go through SetTaskStatus.
func (s *Store) UpsertTask(t domain.Task) error {
	if t.ID == "" || t.Title == "" {
		return fmt.Errorf("task id and title required: %w", ErrInvalid)
	}
	if !t.Priority.Valid() || !t.Type.Valid() {
		return fmt.Errorf("task %s priority %q type %q: %w", t.ID, t.Priority, t.Type, ErrInvalid)
	}
	if s.agentIndex(t.AssignedTo) < 0 {
		return fmt.Errorf("task assignee %s: %w", t.AssignedTo, ErrNotFound)
	}
	if s.agentIndex(t.CreatedBy) < 0 {
		return fmt.Errorf("task creator %s: %w", t.CreatedBy, ErrNotFound)
	}
	i := s.taskIndex(t.ID)
	if i < 0 {
		if t.Status == "" {
			t.Status = domain.TaskBacklog
		}
		if t.Status != domain.TaskBacklog {
			return fmt.Errorf("new task must start at %s, got %s: %w", domain.TaskBacklog, t.Status, ErrInvalidTransition)
		}
		s.data.Tasks = append(s.data.Tasks, t)
		return nil
	}
	cur := s.data.Tasks[i]
	if t.Status != "" && t.Status != cur.Status {
		return fmt.Errorf("task %s status must change through SetTaskStatus: %w", t.ID, ErrInvalidTransition)
	}
	if cur.Status == domain.TaskDone && t.AssignedTo != cur.AssignedTo {
		return fmt.Errorf("task %s is done, cannot reassign: %w", t.ID, ErrInvalidTransition)
	}
	t.Status = cur.Status
	s.data.Tasks[i] = t
	return nil
}

func ensureTaskTransition(oldStatus, newStatus domain.TaskStatus) error {
	switch oldStatus {
	case domain.TaskBacklog:
		if newStatus == domain.TaskInProgress || newStatus == domain.TaskDone {
			return nil
		}
	case domain.TaskInProgress:
		if newStatus == domain.TaskReview {
			return nil
		}
	case domain.TaskReview:
		if newStatus == domain.TaskDone {
			return nil
		}
	}
	return fmt.Errorf("invalid task status transition %s -> %s: %w", oldStatus, newStatus, ErrInvalidTransition)
}

// SetTaskStatus moves a task forward. Reaching done credits the assignee
// and the global counter exactly once.
func (s *Store) SetTaskStatus(id string, status domain.TaskStatus) (domain.Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	t := s.data.Tasks[i]
	if err := ensureTaskTransition(t.Status, status); err != nil {
		return t, err
	}
	if status == domain.TaskDone {
		ai := s.agentIndex(t.AssignedTo)
		if ai < 0 {
			return t, fmt.Errorf("task assignee %s: %w", t.AssignedTo, ErrNotFound)
		}
		s.data.Agents[ai].TasksCompleted++
		s.data.Metrics.TasksCompleted++
	}
	t.Status = status
	s.data.Tasks[i] = t
	return t, nil
}

// AppendPullRequest records a newly opened PR and counts it.
func (s *Store) AppendPullRequest(pr domain.PullRequest) error {
	if pr.ID == "" {
		return fmt.Errorf("pull request id required: %w", ErrInvalid)
	}
	if s.prIndex(pr.ID) >= 0 {
		return fmt.Errorf("pull request %s: %w", pr.ID, ErrDuplicate)
	}
	if pr.Status == "" {
		pr.Status = domain.PROpen
	}
	if pr.Status != domain.PROpen {
		return fmt.Errorf("new pull request must be %s, got %s: %w", domain.PROpen, pr.Status, ErrInvalidTransition)
	}
	if s.agentIndex(pr.Author) < 0 {
		return fmt.Errorf("pull request author %s: %w", pr.Author, ErrNotFound)
	}
	pr.Reviewers = append([]string(nil), pr.Reviewers...)
	s.data.PullRequests = append(s.data.PullRequests, pr)
	s.data.Metrics.PRsOpened++
	return nil
}

func ensurePullRequestTransition(oldStatus, newStatus domain.PRStatus) error {
	switch oldStatus {
	case domain.PROpen:
		if newStatus == domain.PRApproved || newStatus == domain.PRRejected {
			return nil
		}
	case domain.PRApproved:
		if newStatus == domain.PRMerged {
			return nil
		}
	}
	return fmt.Errorf("invalid pull request transition %s -> %s: %w", oldStatus, newStatus, ErrInvalidTransition)
}

// SetPullRequestStatus applies open->approved->merged or open->rejected.
// Merging counts toward prsMerged.
func (s *Store) SetPullRequestStatus(id string, status domain.PRStatus) (domain.PullRequest, error) {
	i := s.prIndex(id)
	if i < 0 {
		return domain.PullRequest{}, fmt.Errorf("pull request %s: %w", id, ErrNotFound)
	}
	pr := s.data.PullRequests[i]
	if err := ensurePullRequestTransition(pr.Status, status); err != nil {
		return pr, err
	}
	pr.Status = status
	s.data.PullRequests[i] = pr
	if status == domain.PRMerged {
		s.data.Metrics.PRsMerged++
	}
	return pr, nil
}

// BumpMetrics adds delta. Negative components are refused; test coverage
// is clamped to 100.
func (s *Store) BumpMetrics(d MetricsDelta) error {
	if d.Features < 0 || d.Bugs < 0 || d.Users < 0 || d.Revenue < 0 || d.TestCoverage < 0 {
		return fmt.Errorf("metrics only increase: %w", ErrInvalid)
	}
	m := &s.data.Metrics
	m.Features += d.Features
	m.Bugs += d.Bugs
	m.Users += d.Users
	m.Revenue += d.Revenue
	m.TestCoverage = math.Min(100, m.TestCoverage+d.TestCoverage)
	return nil
}

// SetProductProgress raises overall progress, clamped to 100.
func (s *Store) SetProductProgress(p float64) error {
	if p < s.data.ProductProgress {
		return fmt.Errorf("product progress %.2f -> %.2f: %w", s.data.ProductProgress, p, ErrInvalidTransition)
	}
	s.data.ProductProgress = math.Min(100, p)
	return nil
}

func (s *Store) AppendOKR(o domain.OKR) error {
	if o.ID == "" {
		return fmt.Errorf("okr id required: %w", ErrInvalid)
	}
	if s.okrIndex(o.ID) >= 0 {
		return fmt.Errorf("okr %s: %w", o.ID, ErrDuplicate)
	}
	if o.Progress < 0 || o.Progress > 100 {
		return fmt.Errorf("okr %s progress %.2f: %w", o.ID, o.Progress, ErrInvalid)
	}
	o.KeyResults = append([]string(nil), o.KeyResults...)
	s.data.OKRs = append(s.data.OKRs, o)
	return nil
}

// SetOKRProgress raises an OKR's progress, clamped to 100. Lowering it is refused.
func (s *Store) SetOKRProgress(id string, p float64) error {
	i := s.okrIndex(id)
	if i < 0 {
		return fmt.Errorf("okr %s: %w", id, ErrNotFound)
	}
	cur := s.data.OKRs[i].Progress
	if p < cur {
		return fmt.Errorf("okr %s progress %.2f -> %.2f: %w", id, cur, p, ErrInvalidTransition)
	}
	s.data.OKRs[i].Progress = math.Min(100, p)
	return nil
}

// AppendDocumentation publishes a document and counts its page.
func (s *Store) AppendDocumentation(d domain.Documentation) error {
	if d.ID == "" || !d.Type.Valid() {
		return fmt.Errorf("documentation id %q type %q: %w", d.ID, d.Type, ErrInvalid)
	}
	if s.agentIndex(d.Author) < 0 {
		return fmt.Errorf("documentation author %s: %w", d.Author, ErrNotFound)
	}
	s.data.Documentation = append(s.data.Documentation, d)
	s.data.Metrics.DocsPages++
	return nil
}

func (s *Store) AppendTimelineEvent(e domain.TimelineEvent) error {
	if e.ID == "" || !e.Type.Valid() || !e.Impact.Valid() {
		return fmt.Errorf("timeline event id %q type %q impact %q: %w", e.ID, e.Type, e.Impact, ErrInvalid)
	}
	s.data.Timeline = append(s.data.Timeline, e)
	return nil
}

// AppendFinancialRecord stores the report for a month. Months are unique.
func (s *Store) AppendFinancialRecord(r domain.FinancialRecord) error {
	if r.Month == "" {
		return fmt.Errorf("financial record month required: %w", ErrInvalid)
	}
	if s.HasFinancialRecord(r.Month) {
		return fmt.Errorf("financial record %s: %w", r.Month, ErrDuplicate)
	}
	s.data.FinancialRecords = append(s.data.FinancialRecords, r)
	return nil
}

// SeedMarket installs the opening market landscape.
func (s *Store) SeedMarket(m domain.Market) error {
	if err := CheckMarket(m); err != nil {
		return err
	}
	m.Competitors = slices.Clone(m.Competitors)
	m.Events = slices.Clone(m.Events)
	s.data.Market = m
	return nil
}

func (s *Store) SetAgentStatus(id string, status domain.AgentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("agent status %q: %w", status, ErrInvalid)
	}
	i := s.agentIndex(id)
	if i < 0 {
		return fmt.Errorf("agent %s: %w", id, ErrNotFound)
	}
	s.data.Agents[i].Status = status
	return nil
}

func (s *Store) SetAllAgentStatus(status domain.AgentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("agent status %q: %w", status, ErrInvalid)
	}
	for i := range s.data.Agents {
		s.data.Agents[i].Status = status
	}
	return nil
}

// AdvanceDays moves the calendar forward by n days.
func (s *Store) AdvanceDays(n int) error {
	if n < 0 {
		return fmt.Errorf("advance %d days: %w", n, ErrInvalid)
	}
	s.data.CurrentDate = s.data.CurrentDate.AddDate(0, 0, n)
	return nil
}

// SetCurrentDate moves the calendar to t, which may not be in the past.
func (s *Store) SetCurrentDate(t time.Time) error {
	if t.Before(s.data.CurrentDate) {
		return fmt.Errorf("calendar %s -> %s: %w", s.data.CurrentDate.Format(time.DateOnly), t.Format(time.DateOnly), ErrInvalidTransition)
	}
	s.data.CurrentDate = t
	return nil
}

// ResetAll restores the founding roster, zero metrics, the start date and
// empty collections.
func (s *Store) ResetAll() {
	s.data = s.initial()
	s.generation++
}

// Replace swaps in d wholesale, as for a snapshot restore or an import.
// The caller is responsible for d's validity.
func (s *Store) Replace(d domain.Data) {
	s.data = d.Clone()
	s.generation++
}
