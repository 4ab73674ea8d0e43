package server

import (
	"time"

	"virtualco/internal/domain"
)

// Request payloads

type SignupRequest struct {
	Email    string `json:"email" format:"email"`
	Password string `json:"password" minLength:"8"`
	Name     string `json:"name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateAPIKeyRequest struct {
	Name string `json:"name,omitempty"`
}

type CreateSessionRequest struct {
	Project domain.Project `json:"project,omitempty"`
	// SimulationID opens the session from a saved simulation instead.
	SimulationID string `json:"simulationId,omitempty"`
	Seed         uint64 `json:"seed,omitempty"`
}

type SkipRequest struct {
	Days int `json:"days" minimum:"1" maximum:"3650"`
}

type SpeedRequest struct {
	Speed float64 `json:"speed" exclusiveMinimum:"0" maximum:"10"`
}

type SnapshotRequest struct {
	Label string `json:"label,omitempty"`
}

// Response payloads

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type APIKeyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Key       string `json:"key,omitempty"`
	CreatedAt string `json:"created_at" format:"date-time"`
}

type SaveResponse struct {
	ID string `json:"id"`
}

type SnapshotSummary struct {
	ID            string `json:"id"`
	TakenAt       string `json:"takenAt" format:"date-time"`
	Label         string `json:"label"`
	SimulationDay int    `json:"simulationDay"`
	IsBranch      bool   `json:"isBranch,omitempty"`
	ParentID      string `json:"parentId,omitempty"`
}

type paginatedEvents struct {
	Items []EventResponse `json:"items"`
}

type EventResponse struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}

func userResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func snapshotSummary(s domain.Snapshot) SnapshotSummary {
	return SnapshotSummary{
		ID:            s.ID,
		TakenAt:       s.TakenAt.UTC().Format(time.RFC3339),
		Label:         s.Label,
		SimulationDay: s.SimulationDay,
		IsBranch:      s.IsBranch,
		ParentID:      s.ParentID,
	}
}

func mapSnapshots(items []domain.Snapshot) []SnapshotSummary {
	out := make([]SnapshotSummary, 0, len(items))
	for _, s := range items {
		out = append(out, snapshotSummary(s))
	}
	return out
}

func eventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		TS:         e.TS,
		Type:       e.Type,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		Payload:    e.Payload,
	}
}
