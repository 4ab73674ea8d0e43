package server

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"unicode"

	"github.com/danielgtaylor/huma/v2"

	"virtualco/internal/export"
	"virtualco/internal/store"
)

type fileOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func registerTransfer(api huma.API, cfg Config) {
	huma.Register(api, huma.Operation{
		OperationID: "export-session",
		Method:      http.MethodGet,
		Path:        "/session/export",
		Summary:     "Export the live session as a versioned JSON bundle",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, _ *struct{}) (*fileOutput, error) {
		b, apiErr := bundle(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		raw, err := export.Marshal(b)
		if err != nil {
			return nil, handleError(err)
		}
		return &fileOutput{
			ContentType:        "application/json",
			ContentDisposition: `attachment; filename="` + exportName(b) + `.json"`,
			Body:               raw,
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "export-session-xlsx",
		Method:      http.MethodGet,
		Path:        "/session/export.xlsx",
		Summary:     "Export tasks, financials and a summary as a spreadsheet",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, _ *struct{}) (*fileOutput, error) {
		b, apiErr := bundle(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, b); err != nil {
			return nil, handleError(err)
		}
		return &fileOutput{
			ContentType:        "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			ContentDisposition: `attachment; filename="` + exportName(b) + `.xlsx"`,
			Body:               buf.Bytes(),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "import-session",
		Method:      http.MethodPost,
		Path:        "/session/import",
		Summary:     "Replace the live session's state with an exported bundle",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusUnauthorized,
			http.StatusNotFound,
			http.StatusConflict,
		},
	}, func(ctx context.Context, input *struct {
		RawBody []byte `contentType:"application/json"`
	}) (*stateOutput, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		if len(input.RawBody) == 0 {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "body required", nil)
		}
		b, err := export.Unmarshal(input.RawBody)
		if err != nil {
			return nil, handleError(err)
		}
		if err := s.Load(ctx, b.Simulation()); err != nil {
			return nil, handleError(err)
		}
		cfg.Log.WithField("session", s.ID()).Info("bundle imported")
		return stateOf(ctx, s)
	})

	huma.Register(api, huma.Operation{
		OperationID: "render-doc",
		Method:      http.MethodGet,
		Path:        "/session/docs/{doc_id}",
		Summary:     "Render a documentation page as HTML",
		Errors: []int{
			http.StatusUnauthorized,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		DocID string `path:"doc_id"`
	}) (*fileOutput, error) {
		s, apiErr := liveSession(ctx, cfg)
		if apiErr != nil {
			return nil, apiErr
		}
		sim, err := s.Simulation(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		for _, doc := range sim.Data.Documentation {
			if doc.ID != input.DocID {
				continue
			}
			page, err := export.RenderDoc(doc)
			if err != nil {
				return nil, handleError(err)
			}
			return &fileOutput{ContentType: "text/html; charset=utf-8", Body: []byte(page)}, nil
		}
		return nil, handleError(store.ErrNotFound)
	})
}

func bundle(ctx context.Context, cfg Config) (export.Bundle, huma.StatusError) {
	s, apiErr := liveSession(ctx, cfg)
	if apiErr != nil {
		return export.Bundle{}, apiErr
	}
	sim, err := s.Simulation(ctx)
	if err != nil {
		return export.Bundle{}, handleError(err)
	}
	return export.FromSimulation(sim, cfg.now()), nil
}

func exportName(b export.Bundle) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, strings.TrimSpace(b.ProjectConfig.Name))
	if name == "" {
		name = "simulation"
	}
	return name + "-" + b.ExportDate.Format("2006-01-02")
}
