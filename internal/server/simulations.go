package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/export"
)

func registerSimulations(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID: "save-simulation",
		Method:      http.MethodPost,
		Path:        "/simulations",
		Summary:     "Save a simulation; an unknown or empty id creates a new record",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
		},
	}, func(ctx context.Context, input *struct {
		RawBody []byte `contentType:"application/json"`
	}) (*struct {
		Body SaveResponse `json:"body"`
	}, error) {
		owner, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if len(input.RawBody) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		var sim domain.Simulation
		if err := json.Unmarshal(input.RawBody, &sim); err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "invalid simulation json", map[string]any{"error": err.Error()})
		}
		if err := export.ValidateSimulation(sim); err != nil {
			return nil, handleError(err)
		}
		id, err := cfg.Persist.SaveSimulation(ctx, owner, sim)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body SaveResponse `json:"body"`
		}{Body: SaveResponse{ID: id}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-simulations",
		Method:      http.MethodGet,
		Path:        "/simulations",
		Summary:     "List saved simulations, newest first",
		Errors: []int{
			http.StatusUnauthorized,
		},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.SimulationSummary `json:"body"`
	}, error) {
		owner, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := cfg.Persist.ListSimulations(ctx, owner)
		if err != nil {
			return nil, handleError(err)
		}
		if items == nil {
			items = []domain.SimulationSummary{}
		}
		return &struct {
			Body []domain.SimulationSummary `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-simulation",
		Method:      http.MethodGet,
		Path:        "/simulations/{simulation_id}",
		Summary:     "Load a saved simulation",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		SimulationID string `path:"simulation_id"`
	}) (*struct {
		Body domain.Simulation `json:"body"`
	}, error) {
		owner, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		sim, err := cfg.Persist.LoadSimulation(ctx, owner, input.SimulationID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Simulation `json:"body"`
		}{Body: sim}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-simulation",
		Method:        http.MethodDelete,
		Path:          "/simulations/{simulation_id}",
		Summary:       "Delete a saved simulation",
		DefaultStatus: http.StatusNoContent,
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		SimulationID string `path:"simulation_id"`
	}) (*struct{}, error) {
		owner, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := cfg.Persist.DeleteSimulation(ctx, owner, input.SimulationID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerSettings(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/settings",
		Summary:     "Stored settings, or the defaults when none were saved",
		Errors: []int{
			http.StatusUnauthorized,
		},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body config.Settings `json:"body"`
	}, error) {
		owner, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		st, err := cfg.Persist.SettingsOrDefault(ctx, owner)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body config.Settings `json:"body"`
		}{Body: st}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPut,
		Path:        "/settings",
		Summary:     "Update settings; omitted fields keep their current value",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
		},
	}, func(ctx context.Context, input *struct {
		RawBody []byte `contentType:"application/json"`
	}) (*struct {
		Body config.Settings `json:"body"`
	}, error) {
		owner, authErr := ownerFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		st, err := cfg.Persist.SettingsOrDefault(ctx, owner)
		if err != nil {
			return nil, handleError(err)
		}
		if len(input.RawBody) > 0 {
			if err := json.Unmarshal(input.RawBody, &st); err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", "invalid settings json", map[string]any{"error": err.Error()})
			}
		}
		if err := st.Validate(); err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		if err := cfg.Persist.SaveSettings(ctx, owner, st); err != nil {
			return nil, handleError(err)
		}
		if s, ok := cfg.Sessions.Get(owner); ok {
			if err := s.UpdateSettings(ctx, st); err != nil {
				return nil, handleError(err)
			}
		}
		return &struct {
			Body config.Settings `json:"body"`
		}{Body: st}, nil
	})
}
