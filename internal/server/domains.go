package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"virtualco/internal/catalog"
)

type DomainResponse struct {
	Key        string               `json:"key"`
	Name       string               `json:"name"`
	Focus      string               `json:"focus"`
	Challenges []string             `json:"challenges"`
	Labels     catalog.MetricLabels `json:"labels"`
}

func registerDomains(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-domains",
		Method:      http.MethodGet,
		Path:        "/domains",
		Summary:     "Business domains with tailored content",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []DomainResponse `json:"body"`
	}, error) {
		cat := catalog.Default()
		out := make([]DomainResponse, 0, len(cat.Domains()))
		for _, key := range cat.Domains() {
			d := cat.Domain(key)
			out = append(out, DomainResponse{
				Key:        key,
				Name:       d.Name,
				Focus:      d.Focus,
				Challenges: d.Challenges,
				Labels:     cat.MetricLabels(key),
			})
		}
		return &struct {
			Body []DomainResponse `json:"body"`
		}{Body: out}, nil
	})
}
