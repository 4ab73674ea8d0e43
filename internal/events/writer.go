package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	SimulationSaved   = "simulation.saved"
	SimulationLoaded  = "simulation.loaded"
	SimulationDeleted = "simulation.deleted"
	SettingsSaved     = "settings.saved"
	UserCreated       = "user.created"
	APIKeyCreated     = "api_key.created"
)

type Writer struct {
	DB  *sql.DB
	Now func() time.Time
}

type EventPayload map[string]any

// Append records an audit event in tx, or directly on DB when tx is nil.
func (w Writer) Append(ctx context.Context, tx *sql.Tx, evtType, ownerID, entityKind, entityID string, payload EventPayload) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	const q = `INSERT INTO events(ts,type,owner_id,entity_kind,entity_id,payload_json) VALUES (?,?,?,?,?,?)`
	args := []any{ts, evtType, nullable(ownerID), entityKind, nullable(entityID), string(data)}
	if tx != nil {
		_, err = tx.ExecContext(ctx, q, args...)
	} else {
		_, err = w.DB.ExecContext(ctx, q, args...)
	}
	return err
}

// Record is Append outside a transaction.
func (w Writer) Record(ctx context.Context, evtType, ownerID, entityKind, entityID string, payload map[string]any) error {
	return w.Append(ctx, nil, evtType, ownerID, entityKind, entityID, payload)
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
