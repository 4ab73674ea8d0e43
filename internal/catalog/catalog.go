// Package catalog holds the static content the simulation draws from:
// per-role activity tables, domain knowledge, random events and templates.
package catalog

import (
	"virtualco/internal/domain"
)

// DefaultDomain is used whenever a domain has no table of its own.
const DefaultDomain = "saas"

// RandomEventChance is the per-tick probability of a domain event.
const RandomEventChance = 0.1

type Kind string

const (
	KindMessage       Kind = "message"
	KindTask          Kind = "task"
	KindComplete      Kind = "complete"
	KindBug           Kind = "bug"
	KindPR            Kind = "pr"
	KindReview        Kind = "review"
	KindDecision      Kind = "decision"
	KindDocumentation Kind = "documentation"
	KindFinancial     Kind = "financial"
)

// Activity is one candidate entry of a content table. Only the fields
// relevant to Kind are set.
type Activity struct {
	Kind        Kind
	Content     string
	Title       string
	Description string
	Priority    domain.Priority
	TaskType    domain.TaskType
	DocType     domain.DocType
}

// Rand is the random source used for picks.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Catalog is a read-only view over the content tables.
type Catalog struct {
	roles     map[domain.Role][]Activity
	knowledge map[string]map[domain.Role]roleKnowledge
	events    map[string][]string
	domains   map[string]DomainInfo
	labels    map[string]MetricLabels
	okrs      map[string][]domain.OKR
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		roles:     roleActivities,
		knowledge: domainKnowledge,
		events:    domainEvents,
		domains:   domainTemplates,
		labels:    metricLabels,
		okrs:      domainOKRs,
	}
}

// Activities returns the activity table for role. An unknown role has no table.
func (c Catalog) Activities(role domain.Role) []Activity {
	return c.roles[role]
}

// Lookup returns the domain-specific candidates of kind for role. Only
// message and task entries exist. A missing domain falls back to the
// default table; a missing role yields no candidates.
func (c Catalog) Lookup(domainName string, role domain.Role, kind Kind) []Activity {
	roles, ok := c.knowledge[domainName]
	if !ok {
		roles = c.knowledge[DefaultDomain]
	}
	k, ok := roles[role]
	if !ok {
		return nil
	}
	switch kind {
	case KindMessage:
		return k.messages
	case KindTask:
		return k.tasks
	}
	return nil
}

// RandomEvents lists the events that may interrupt a tick in domainName.
func (c Catalog) RandomEvents(domainName string) []string {
	if ev, ok := c.events[domainName]; ok {
		return ev
	}
	return c.events[DefaultDomain]
}

// PickRandomEvent fires with RandomEventChance and returns one event text.
func (c Catalog) PickRandomEvent(domainName string, rng Rand) (string, bool) {
	events := c.RandomEvents(domainName)
	if len(events) == 0 || rng.Float64() >= RandomEventChance {
		return "", false
	}
	return events[rng.IntN(len(events))], true
}

func (c Catalog) Domain(domainName string) DomainInfo {
	if d, ok := c.domains[domainName]; ok {
		return d
	}
	return c.domains[DefaultDomain]
}

// Domains lists the known domain keys.
func (c Catalog) Domains() []string {
	out := make([]string, 0, len(c.domains))
	for _, k := range domainOrder {
		if _, ok := c.domains[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func (c Catalog) MetricLabels(domainName string) MetricLabels {
	if l, ok := c.labels[domainName]; ok {
		return l
	}
	return c.labels[DefaultDomain]
}

// OKRs returns fresh copies of the seed objectives for domainName.
func (c Catalog) OKRs(domainName string) []domain.OKR {
	seed, ok := c.okrs[domainName]
	if !ok {
		seed = defaultOKRs
	}
	out := make([]domain.OKR, len(seed))
	for i, o := range seed {
		o.KeyResults = append([]string(nil), o.KeyResults...)
		out[i] = o
	}
	return out
}

// Roster returns the founding team, every agent active with no completed tasks.
func (c Catalog) Roster() []domain.Agent {
	out := make([]domain.Agent, len(roster))
	copy(out, roster)
	return out
}

func (c Catalog) Bugs() []string           { return bugReports }
func (c Catalog) PRTitles() []string       { return prTitles }
func (c Catalog) MeetingRemarks() []string { return meetingRemarks }

// DocTemplate returns the body used for generated documents of type t.
func (c Catalog) DocTemplate(t domain.DocType) string {
	if body, ok := docTemplates[t]; ok {
		return body
	}
	return "Documentation content..."
}
