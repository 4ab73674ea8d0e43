package export_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"virtualco/internal/catalog"
	"virtualco/internal/domain"
	"virtualco/internal/engine"
	"virtualco/internal/export"
	"virtualco/internal/store"
)

var project = domain.Project{Name: "Acme", Domain: "fintech", Duration: 12}

func busyBundle(t *testing.T) export.Bundle {
	t.Helper()
	s := store.New(catalog.Default().Roster(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	e := engine.New(s, engine.NewRand(11), engine.GenerateOptions{Domain: project.Domain, RandomEvents: true, SmartResponses: true})
	require.NoError(t, e.Found(project))
	for i := 0; i < 120; i++ {
		_, err := e.Step()
		require.NoError(t, err)
		require.NoError(t, s.AdvanceDays(1))
		_, _, err = e.MonthlyReport()
		require.NoError(t, err)
	}
	sim := domain.Simulation{Project: project, Data: s.Data()}
	return export.FromSimulation(sim, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func TestRoundTrip(t *testing.T) {
	b := busyBundle(t)
	raw, err := export.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"version": "1.0"`)
	assert.Contains(t, string(raw), `"projectConfig"`)
	assert.Contains(t, string(raw), `"agents"`)
	assert.Contains(t, string(raw), `"marketShare": 5`)
	assert.Contains(t, string(raw), `"totalMarketSize": 50000000`)

	got, err := export.Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.Equal(t, project, got.Simulation().Project)
	require.Len(t, got.Market.Competitors, 5)
	assert.Equal(t, b.Market, got.Market)
}

func TestUnmarshalFailsClosed(t *testing.T) {
	cases := map[string]struct {
		field  string
		mutate func(b *export.Bundle)
	}{
		"version":        {"version", func(b *export.Bundle) { b.Version = "2.0" }},
		"project name":   {"projectConfig", func(b *export.Bundle) { b.ProjectConfig.Name = "" }},
		"no agents":      {"agents", func(b *export.Bundle) { b.Agents = nil }},
		"duplicate id":   {"agents[1].id", func(b *export.Bundle) { b.Agents[1].ID = b.Agents[0].ID }},
		"agent status":   {"agents[0].status", func(b *export.Bundle) { b.Agents[0].Status = "asleep" }},
		"message author": {"messages[0].agentId", func(b *export.Bundle) { b.Messages[0].AgentID = "ghost" }},
		"task status":    {"tasks[0].status", func(b *export.Bundle) { b.Tasks[0].Status = "blocked" }},
		"task assignee":  {"tasks[0].assignedTo", func(b *export.Bundle) { b.Tasks[0].AssignedTo = "ghost" }},
		"pr status":      {"pullRequests[0].status", func(b *export.Bundle) { b.PullRequests[0].Status = "closed" }},
		"okr progress":   {"okrs[0].progress", func(b *export.Bundle) { b.OKRs[0].Progress = 140 }},
		"coverage":       {"metrics.testCoverage", func(b *export.Bundle) { b.Metrics.TestCoverage = -1 }},
		"merged":         {"metrics.prsMerged", func(b *export.Bundle) { b.Metrics.PRsMerged = b.Metrics.PRsOpened + 1 }},
		"month format":   {"financialRecords[0].month", func(b *export.Bundle) { b.FinancialRecords[0].Month = "March" }},
		"month repeated": {"financialRecords[1].month", func(b *export.Bundle) { b.FinancialRecords[1].Month = b.FinancialRecords[0].Month }},
		"timeline":       {"timeline[0].impact", func(b *export.Bundle) { b.Timeline[0].Impact = "huge" }},
		"counters":       {"metrics", func(b *export.Bundle) { b.Metrics.TasksCompleted++ }},
		"reviewer":       {"pullRequests[0].reviewers[0]", func(b *export.Bundle) { b.PullRequests[0].Reviewers = []string{"ghost"} }},
		"market share":   {"market.marketShare", func(b *export.Bundle) { b.Market.Share = 101 }},
		"competitor id":  {"market.competitors[1].id", func(b *export.Bundle) { b.Market.Competitors[1].ID = b.Market.Competitors[0].ID }},
		"competitor":     {"market.competitors[0].trend", func(b *export.Bundle) { b.Market.Competitors[0].Trend = "sideways" }},
		"market event":   {"market.events[0].impact", func(b *export.Bundle) { b.Market.Events[0].Impact = "meh" }},
		"severity":       {"market.events[1].severity", func(b *export.Bundle) { b.Market.Events[1].Severity = 11 }},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			b := busyBundle(t)
			require.NotEmpty(t, b.Tasks)
			require.NotEmpty(t, b.PullRequests)
			require.GreaterOrEqual(t, len(b.FinancialRecords), 2)
			tc.mutate(&b)
			raw, err := export.Marshal(b)
			require.NoError(t, err)

			got, err := export.Unmarshal(raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, export.ErrInvalidPayload))
			var ve *export.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, export.Bundle{}, got)
		})
	}
}

func TestValidateDataAcceptsMissingMarket(t *testing.T) {
	b := busyBundle(t)
	b.Market = domain.Market{}
	require.NoError(t, export.ValidateData(b.Data))
	require.NoError(t, export.ValidateSimulation(b.Simulation()))

	sim := b.Simulation()
	sim.Project.Duration = 0
	var ve *export.ValidationError
	require.ErrorAs(t, export.ValidateSimulation(sim), &ve)
	assert.Equal(t, "project", ve.Field)
}

func TestUnmarshalRejectsMalformedJSON(t *testing.T) {
	_, err := export.Unmarshal([]byte(`{"version": "1.0", "agents": [`))
	require.ErrorIs(t, err, export.ErrInvalidPayload)
}

func TestWriteXLSX(t *testing.T) {
	b := busyBundle(t)
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, b))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Tasks", "Financials", "Market"}, f.GetSheetList())

	rows, err := f.GetRows("Tasks")
	require.NoError(t, err)
	require.Len(t, rows, len(b.Tasks)+1)
	assert.Equal(t, "Assigned To", rows[0][3])

	rows, err = f.GetRows("Financials")
	require.NoError(t, err)
	assert.Len(t, rows, len(b.FinancialRecords)+1)

	rows, err = f.GetRows("Market")
	require.NoError(t, err)
	require.Len(t, rows, len(b.Market.Competitors)+1)
	assert.Equal(t, "InnovateLabs", rows[2][0])
	assert.Equal(t, "AI-powered analytics", rows[2][4])

	sum := export.Summarize(b.Data)
	assert.Equal(t, 7, sum.TeamSize)
	assert.Equal(t, b.Metrics.TasksCompleted, sum.CompletedTasks)
}

func TestRenderDoc(t *testing.T) {
	doc := domain.Documentation{
		Title:   "API <v1>",
		Type:    domain.DocAPI,
		Content: catalog.Default().DocTemplate(domain.DocAPI),
		Version: engine.DocVersion,
	}
	out, err := export.RenderDoc(doc)
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>API Documentation</h1>")
	assert.Contains(t, out, "<title>API &lt;v1&gt;</title>")
	assert.True(t, strings.Contains(out, "<li>GET /api/users - List all users</li>"))
}
