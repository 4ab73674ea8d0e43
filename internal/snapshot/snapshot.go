// Package snapshot keeps immutable point-in-time copies of a simulation's
// entity data for time travel and branching.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"virtualco/internal/domain"
)

var ErrNotFound = errors.New("snapshot not found")

// Manager stores snapshots in capture order. It is not safe for concurrent
// use; the owning session serializes access.
type Manager struct {
	Now   func() time.Time
	NewID func() string
	items []domain.Snapshot
}

func New() *Manager {
	return &Manager{Now: time.Now, NewID: uuid.NewString}
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) newID() string {
	if m.NewID != nil {
		return m.NewID()
	}
	return uuid.NewString()
}

// Capture stores a deep copy of data taken on simulation day.
func (m *Manager) Capture(label string, day int, data domain.Data) domain.Snapshot {
	return m.CaptureWithID(m.newID(), label, day, data)
}

// CaptureWithID is Capture with a caller-chosen id.
func (m *Manager) CaptureWithID(id, label string, day int, data domain.Data) domain.Snapshot {
	s := domain.Snapshot{
		ID:            id,
		TakenAt:       m.now(),
		Label:         label,
		SimulationDay: day,
		Data:          data.Clone(),
	}
	m.items = append(m.items, s)
	return clone(s)
}

// Get returns a copy of the snapshot with id.
func (m *Manager) Get(id string) (domain.Snapshot, error) {
	for _, s := range m.items {
		if s.ID == id {
			return clone(s), nil
		}
	}
	return domain.Snapshot{}, fmt.Errorf("%s: %w", id, ErrNotFound)
}

// Restore returns a fresh copy of the snapshot's data for the caller to
// install as the live store.
func (m *Manager) Restore(id string) (domain.Data, error) {
	s, err := m.Get(id)
	if err != nil {
		return domain.Data{}, err
	}
	return s.Data, nil
}

// Branch records a new snapshot holding a copy of the source snapshot's
// data, tagged with the source as parent.
func (m *Manager) Branch(fromID, label string) (domain.Snapshot, error) {
	src, err := m.Get(fromID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	b := domain.Snapshot{
		ID:            m.newID(),
		TakenAt:       m.now(),
		Label:         label,
		SimulationDay: src.SimulationDay,
		Data:          src.Data,
		IsBranch:      true,
		ParentID:      src.ID,
	}
	m.items = append(m.items, b)
	return clone(b), nil
}

// List returns every snapshot in capture order.
func (m *Manager) List() []domain.Snapshot {
	out := make([]domain.Snapshot, len(m.items))
	for i, s := range m.items {
		out[i] = clone(s)
	}
	return out
}

func (m *Manager) Len() int { return len(m.items) }

// Clear drops every snapshot.
func (m *Manager) Clear() { m.items = nil }

func clone(s domain.Snapshot) domain.Snapshot {
	s.Data = s.Data.Clone()
	return s
}
