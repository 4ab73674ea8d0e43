// Package export converts a simulation to and from its portable JSON
// form, and renders it as a spreadsheet or HTML documentation.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"virtualco/internal/config"
	"virtualco/internal/domain"
	"virtualco/internal/store"
)

const Version = "1.0"

var ErrInvalidPayload = errors.New("invalid import payload")

// ValidationError names the first offending field of a rejected payload.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidPayload, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidPayload, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidPayload }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Bundle is the exported file: header fields plus the entity data.
type Bundle struct {
	Version       string         `json:"version"`
	ExportDate    time.Time      `json:"exportDate"`
	ProjectConfig domain.Project `json:"projectConfig"`
	domain.Data
}

func FromSimulation(sim domain.Simulation, now time.Time) Bundle {
	return Bundle{
		Version:       Version,
		ExportDate:    now.UTC(),
		ProjectConfig: sim.Project,
		Data:          sim.Data.Clone(),
	}
}

func (b Bundle) Simulation() domain.Simulation {
	return domain.Simulation{Project: b.ProjectConfig, Data: b.Data.Clone()}
}

func Marshal(b Bundle) ([]byte, error) {
	if b.Version == "" {
		b.Version = Version
	}
	return json.MarshalIndent(b, "", "  ")
}

// Unmarshal decodes and fully validates raw. It never returns a partially
// valid bundle.
func Unmarshal(raw []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return Bundle{}, &ValidationError{Reason: err.Error()}
	}
	if err := Validate(b); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func Validate(b Bundle) error {
	if b.Version != Version {
		return invalid("version", "unsupported version %q", b.Version)
	}
	if err := config.ValidateProject(b.ProjectConfig); err != nil {
		return invalid("projectConfig", "%v", err)
	}
	return ValidateData(b.Data)
}

// ValidateSimulation checks a stored simulation document before it is
// saved or loaded.
func ValidateSimulation(sim domain.Simulation) error {
	if err := config.ValidateProject(sim.Project); err != nil {
		return invalid("project", "%v", err)
	}
	return ValidateData(sim.Data)
}

// ValidateData checks every entity collection: known enums, unique ids,
// references to rostered agents and the cross-collection invariants.
func ValidateData(d domain.Data) error {
	if d.CurrentDate.IsZero() {
		return invalid("currentDate", "required")
	}
	if !inPercent(d.ProductProgress) {
		return invalid("productProgress", "must be within 0..100, got %v", d.ProductProgress)
	}
	if !inPercent(d.Metrics.TestCoverage) {
		return invalid("metrics.testCoverage", "must be within 0..100, got %v", d.Metrics.TestCoverage)
	}
	if d.Metrics.PRsMerged > d.Metrics.PRsOpened {
		return invalid("metrics.prsMerged", "exceeds prsOpened")
	}
	if len(d.Agents) == 0 {
		return invalid("agents", "at least one agent required")
	}
	agents := map[string]bool{}
	for i, a := range d.Agents {
		field := fmt.Sprintf("agents[%d]", i)
		if a.ID == "" || agents[a.ID] {
			return invalid(field+".id", "missing or duplicate id %q", a.ID)
		}
		agents[a.ID] = true
		if a.Role == "" {
			return invalid(field+".role", "required")
		}
		if !a.Status.Valid() {
			return invalid(field+".status", "unknown status %q", a.Status)
		}
		if a.TasksCompleted < 0 {
			return invalid(field+".tasksCompleted", "negative")
		}
	}
	for i, m := range d.Messages {
		field := fmt.Sprintf("messages[%d]", i)
		if !agents[m.AgentID] {
			return invalid(field+".agentId", "unknown agent %q", m.AgentID)
		}
		if !m.Type.Valid() {
			return invalid(field+".type", "unknown type %q", m.Type)
		}
	}
	if err := validateTasks(d.Tasks, agents); err != nil {
		return err
	}
	if err := validatePullRequests(d.PullRequests, agents); err != nil {
		return err
	}
	for i, o := range d.OKRs {
		if !inPercent(o.Progress) {
			return invalid(fmt.Sprintf("okrs[%d].progress", i), "must be within 0..100, got %v", o.Progress)
		}
	}
	for i, doc := range d.Documentation {
		if !doc.Type.Valid() {
			return invalid(fmt.Sprintf("documentation[%d].type", i), "unknown type %q", doc.Type)
		}
	}
	months := map[string]bool{}
	for i, r := range d.FinancialRecords {
		field := fmt.Sprintf("financialRecords[%d].month", i)
		if _, err := time.Parse("2006-01", r.Month); err != nil {
			return invalid(field, "want YYYY-MM, got %q", r.Month)
		}
		if months[r.Month] {
			return invalid(field, "duplicate month %s", r.Month)
		}
		months[r.Month] = true
	}
	for i, ev := range d.Timeline {
		field := fmt.Sprintf("timeline[%d]", i)
		if !ev.Type.Valid() {
			return invalid(field+".type", "unknown type %q", ev.Type)
		}
		if !ev.Impact.Valid() {
			return invalid(field+".impact", "unknown impact %q", ev.Impact)
		}
	}
	if err := validateMarket(d.Market); err != nil {
		return err
	}
	if err := store.Check(d); err != nil {
		return invalid("metrics", "%v", err)
	}
	return nil
}

func validateMarket(m domain.Market) error {
	if !inPercent(m.Share) {
		return invalid("market.marketShare", "must be within 0..100, got %v", m.Share)
	}
	if m.TotalSize < 0 {
		return invalid("market.totalMarketSize", "negative")
	}
	seen := map[string]bool{}
	for i, c := range m.Competitors {
		field := fmt.Sprintf("market.competitors[%d]", i)
		if c.ID == "" || seen[c.ID] {
			return invalid(field+".id", "missing or duplicate id %q", c.ID)
		}
		seen[c.ID] = true
		if !inPercent(c.MarketShare) {
			return invalid(field+".marketShare", "must be within 0..100, got %v", c.MarketShare)
		}
		if c.Strength < 0 || c.Strength > 100 {
			return invalid(field+".strength", "must be within 0..100, got %d", c.Strength)
		}
		if !c.Trend.Valid() {
			return invalid(field+".trend", "unknown trend %q", c.Trend)
		}
	}
	for i, ev := range m.Events {
		field := fmt.Sprintf("market.events[%d]", i)
		if !ev.Type.Valid() {
			return invalid(field+".type", "unknown type %q", ev.Type)
		}
		if !ev.Impact.Valid() {
			return invalid(field+".impact", "unknown impact %q", ev.Impact)
		}
		if ev.Severity < 1 || ev.Severity > 10 {
			return invalid(field+".severity", "must be within 1..10, got %d", ev.Severity)
		}
	}
	return store.CheckMarket(m)
}

func validateTasks(tasks []domain.Task, agents map[string]bool) error {
	seen := map[string]bool{}
	for i, t := range tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		if t.ID == "" || seen[t.ID] {
			return invalid(field+".id", "missing or duplicate id %q", t.ID)
		}
		seen[t.ID] = true
		if !t.Status.Valid() {
			return invalid(field+".status", "unknown status %q", t.Status)
		}
		if !t.Priority.Valid() {
			return invalid(field+".priority", "unknown priority %q", t.Priority)
		}
		if !t.Type.Valid() {
			return invalid(field+".type", "unknown type %q", t.Type)
		}
		if !agents[t.AssignedTo] {
			return invalid(field+".assignedTo", "unknown agent %q", t.AssignedTo)
		}
		if !agents[t.CreatedBy] {
			return invalid(field+".createdBy", "unknown agent %q", t.CreatedBy)
		}
	}
	return nil
}

func validatePullRequests(prs []domain.PullRequest, agents map[string]bool) error {
	seen := map[string]bool{}
	for i, pr := range prs {
		field := fmt.Sprintf("pullRequests[%d]", i)
		if pr.ID == "" || seen[pr.ID] {
			return invalid(field+".id", "missing or duplicate id %q", pr.ID)
		}
		seen[pr.ID] = true
		if !pr.Status.Valid() {
			return invalid(field+".status", "unknown status %q", pr.Status)
		}
		if !agents[pr.Author] {
			return invalid(field+".author", "unknown agent %q", pr.Author)
		}
		for j, r := range pr.Reviewers {
			if !agents[r] {
				return invalid(fmt.Sprintf("%s.reviewers[%d]", field, j), "unknown agent %q", r)
			}
		}
	}
	return nil
}

func inPercent(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 100
}
