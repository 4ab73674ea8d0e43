// Package store holds the live entity collections of a simulation and the
// primitives that mutate them. A Store is not safe for concurrent use; the
// owning session serializes all access.
package store

import (
	"errors"
	"fmt"
	"time"

	"virtualco/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrDuplicate         = errors.New("duplicate")
	ErrInvalid           = errors.New("invalid value")
)

type Store struct {
	roster     []domain.Agent
	start      time.Time
	data       domain.Data
	generation uint64
}

// New returns a store seeded with roster at calendar date start.
func New(roster []domain.Agent, start time.Time) *Store {
	s := &Store{
		roster: append([]domain.Agent(nil), roster...),
		start:  start,
	}
	s.data = s.initial()
	return s
}

func (s *Store) initial() domain.Data {
	return domain.Data{
		CurrentDate:      s.start,
		Agents:           append([]domain.Agent(nil), s.roster...),
		Messages:         []domain.Message{},
		Tasks:            []domain.Task{},
		PullRequests:     []domain.PullRequest{},
		OKRs:             []domain.OKR{},
		Documentation:    []domain.Documentation{},
		FinancialRecords: []domain.FinancialRecord{},
		Timeline:         []domain.TimelineEvent{},
		Market: domain.Market{
			Competitors: []domain.Competitor{},
			Events:      []domain.MarketEvent{},
		},
	}
}

// Generation changes whenever the store contents are replaced wholesale.
func (s *Store) Generation() uint64 { return s.generation }

// Data returns a deep copy of the current contents.
func (s *Store) Data() domain.Data { return s.data.Clone() }

func (s *Store) StartDate() time.Time { return s.start }

func (s *Store) CurrentDate() time.Time { return s.data.CurrentDate }

// SimulationDay is the number of whole days since the start date.
func (s *Store) SimulationDay() int {
	return int(s.data.CurrentDate.Sub(s.start).Hours() / 24)
}

func (s *Store) Metrics() domain.Metrics { return s.data.Metrics }

func (s *Store) ProductProgress() float64 { return s.data.ProductProgress }

func (s *Store) Agents() []domain.Agent {
	return append([]domain.Agent(nil), s.data.Agents...)
}

func (s *Store) Agent(id string) (domain.Agent, error) {
	i := s.agentIndex(id)
	if i < 0 {
		return domain.Agent{}, fmt.Errorf("agent %s: %w", id, ErrNotFound)
	}
	return s.data.Agents[i], nil
}

// AgentByRole returns the first agent holding role.
func (s *Store) AgentByRole(role domain.Role) (domain.Agent, error) {
	for _, a := range s.data.Agents {
		if a.Role == role {
			return a, nil
		}
	}
	return domain.Agent{}, fmt.Errorf("role %s: %w", role, ErrNotFound)
}

func (s *Store) Tasks() []domain.Task {
	return append([]domain.Task(nil), s.data.Tasks...)
}

func (s *Store) Task(id string) (domain.Task, error) {
	i := s.taskIndex(id)
	if i < 0 {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return s.data.Tasks[i], nil
}

func (s *Store) PullRequests() []domain.PullRequest {
	return s.data.Clone().PullRequests
}

func (s *Store) PullRequest(id string) (domain.PullRequest, error) {
	i := s.prIndex(id)
	if i < 0 {
		return domain.PullRequest{}, fmt.Errorf("pull request %s: %w", id, ErrNotFound)
	}
	pr := s.data.PullRequests[i]
	pr.Reviewers = append([]string(nil), pr.Reviewers...)
	return pr, nil
}

func (s *Store) OKRs() []domain.OKR { return s.data.Clone().OKRs }

// Market returns the competitive landscape.
func (s *Store) Market() domain.Market { return s.data.Clone().Market }

func (s *Store) Messages() []domain.Message {
	return append([]domain.Message(nil), s.data.Messages...)
}

func (s *Store) Documentation() []domain.Documentation {
	return append([]domain.Documentation(nil), s.data.Documentation...)
}

func (s *Store) FinancialRecords() []domain.FinancialRecord {
	return append([]domain.FinancialRecord(nil), s.data.FinancialRecords...)
}

func (s *Store) HasFinancialRecord(month string) bool {
	for _, r := range s.data.FinancialRecords {
		if r.Month == month {
			return true
		}
	}
	return false
}

func (s *Store) Timeline() []domain.TimelineEvent {
	return append([]domain.TimelineEvent(nil), s.data.Timeline...)
}

func (s *Store) agentIndex(id string) int {
	for i, a := range s.data.Agents {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) taskIndex(id string) int {
	for i, t := range s.data.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) prIndex(id string) int {
	for i, pr := range s.data.PullRequests {
		if pr.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) okrIndex(id string) int {
	for i, o := range s.data.OKRs {
		if o.ID == id {
			return i
		}
	}
	return -1
}
