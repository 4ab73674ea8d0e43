package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/session"
)

type stateOutput struct {
	Body session.State `json:"body"`
}

// liveSession returns the caller's open session.
func liveSession(ctx context.Context, cfg Config) (*session.Session, huma.StatusError) {
	owner, authErr := ownerFromContext(ctx)
	if authErr != nil {
		return nil, authErr
	}
	s, ok := cfg.Sessions.Get(owner)
	if !ok {
		return nil, newAPIError(http.StatusNotFound, "no_session", "no live session; create one first", nil)
	}
	return s, nil
}

func stateOf(ctx context.Context, s *session.Session) (*stateOutput, error) {
	st, err := s.State(ctx)
	if err != nil {
		return nil, handleError(err)
	}
	return &stateOutput{Body: st}, nil
}

// control registers a body-less POST that runs a session method and returns
// the resulting state.
func control(api huma.API, cfg Config, id, path, summary string, op func(*session.Session, context.Context) error) {
	huma.Register(api, huma.Operation{
		OperationID: id,
		Method:      http.MethodPost,
		Path:        path,
		Summary:     summary,
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, _ *struct{}) (*stateOutput, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		if err := op(s, ctx); err != nil {
			return nil, handleError(err)
		}
		return stateOf(ctx, s)
	})
}

func registerSession(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-session",
		Method:        http.MethodPost,
		Path:          "/session",
		Summary:       "Open a live session, replacing any existing one",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		Body CreateSessionRequest `json:"body"`
	}) (*stateOutput, error) {
		owner, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		st, err := cfg.Persist.SettingsOrDefault(ctx, owner)
		if err != nil {
			return nil, handleError(err)
		}
		var saved *domain.Simulation
		project := input.Body.Project
		if input.Body.SimulationID != "" {
			sim, err := cfg.Persist.LoadSimulation(ctx, owner, input.Body.SimulationID)
			if err != nil {
				return nil, handleError(err)
			}
			saved, project = &sim, sim.Project
		}
		if err := config.ValidateProject(project); err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		s, err := cfg.NewSession(owner, project, st, input.Body.Seed)
		if err != nil {
			return nil, handleError(err)
		}
		if saved != nil {
			if err := s.Load(ctx, *saved); err != nil {
				_ = s.Close()
				return nil, handleError(err)
			}
		}
		cfg.Sessions.Put(s)
		cfg.Log.WithField("owner", owner).WithField("session", s.ID()).Info("session opened")
		return stateOf(ctx, s)
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/session",
		Summary:     "Live session state",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, _ *struct{}) (*stateOutput, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		return stateOf(ctx, s)
	})

	huma.Register(api, huma.Operation{
		OperationID:   "close-session",
		Method:        http.MethodDelete,
		Path:          "/session",
		Summary:       "Close the live session without saving",
		DefaultStatus: http.StatusNoContent,
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		owner, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if !cfg.Sessions.Delete(owner) {
			return nil, newAPIError(http.StatusNotFound, "no_session", "no live session", nil)
		}
		return &struct{}{}, nil
	})

	control(api, cfg, "start-session", "/session/start", "Start the clock", (*session.Session).Start)
	control(api, cfg, "stop-session", "/session/stop", "Stop the clock", (*session.Session).Stop)
	control(api, cfg, "reset-session", "/session/reset", "Stop and clear all entities", (*session.Session).Reset)
	control(api, cfg, "tick-session", "/session/tick", "Run one tick", (*session.Session).Tick)

	huma.Register(api, huma.Operation{
		OperationID: "skip-days",
		Method:      http.MethodPost,
		Path:        "/session/skip",
		Summary:     "Fast-forward a number of days",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		Body SkipRequest `json:"body"`
	}) (*stateOutput, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		if err := s.SkipDays(ctx, input.Body.Days); err != nil {
			return nil, handleError(err)
		}
		return stateOf(ctx, s)
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-speed",
		Method:      http.MethodPut,
		Path:        "/session/speed",
		Summary:     "Change the tick speed multiplier",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		Body SpeedRequest `json:"body"`
	}) (*stateOutput, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		if err := s.SetSpeed(ctx, input.Body.Speed); err != nil {
			return nil, handleError(err)
		}
		return stateOf(ctx, s)
	})

	huma.Register(api, huma.Operation{
		OperationID: "save-session",
		Method:      http.MethodPost,
		Path:        "/session/save",
		Summary:     "Persist the live session",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body SaveResponse `json:"body"`
	}, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		id, err := s.Save(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SaveResponse `json:"body"`
		}{Body: SaveResponse{ID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "load-session",
		Method:      http.MethodPost,
		Path:        "/session/load/{simulation_id}",
		Summary:     "Replace the live session's state with a saved simulation",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, input *struct {
		SimulationID string `path:"simulation_id"`
	}) (*stateOutput, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		sim, err := cfg.Persist.LoadSimulation(ctx, s.OwnerID(), input.SimulationID)
		if err != nil {
			return nil, handleError(err)
		}
		if err := s.Load(ctx, sim); err != nil {
			return nil, handleError(err)
		}
		return stateOf(ctx, s)
	})
}

func registerSnapshots(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID: "list-snapshots",
		Method:      http.MethodGet,
		Path:        "/session/snapshots",
		Summary:     "List snapshots in capture order",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []SnapshotSummary `json:"body"`
	}, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		items, err := s.Snapshots(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []SnapshotSummary `json:"body"`
		}{Body: mapSnapshots(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "capture-snapshot",
		Method:        http.MethodPost,
		Path:          "/session/snapshots",
		Summary:       "Capture a snapshot of the live state",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		Body *SnapshotRequest `json:"body,omitempty"`
	}) (*struct {
		Body SnapshotSummary `json:"body"`
	}, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		var label string
		if input.Body != nil {
			label = input.Body.Label
		}
		snap, err := s.Capture(ctx, label)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SnapshotSummary `json:"body"`
		}{Body: snapshotSummary(snap)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "restore-snapshot",
		Method:      http.MethodPost,
		Path:        "/session/snapshots/{snapshot_id}/restore",
		Summary:     "Restore a snapshot; the clock must be stopped",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, input *struct {
		SnapshotID string `path:"snapshot_id"`
	}) (*stateOutput, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		if err := s.Restore(ctx, input.SnapshotID); err != nil {
			return nil, handleError(err)
		}
		return stateOf(ctx, s)
	})

	huma.Register(api, huma.Operation{
		OperationID:   "branch-snapshot",
		Method:        http.MethodPost,
		Path:          "/session/snapshots/{snapshot_id}/branch",
		Summary:       "Create a branch snapshot from an existing one",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		SnapshotID string           `path:"snapshot_id"`
		Body       *SnapshotRequest `json:"body,omitempty"`
	}) (*struct {
		Body SnapshotSummary `json:"body"`
	}, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		var label string
		if input.Body != nil {
			label = input.Body.Label
		}
		snap, err := s.Branch(ctx, input.SnapshotID, label)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SnapshotSummary `json:"body"`
		}{Body: snapshotSummary(snap)}, nil
	})
}
