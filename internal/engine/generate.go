package engine

import (
	"virtualco/internal/catalog"
	"virtualco/internal/domain"
)

// SmartResponseChance is how often a message or task is replaced with
// domain-specific content when smart responses are on.
const SmartResponseChance = 0.5

// GenerateOptions are the agent behaviour switches read from settings.
type GenerateOptions struct {
	Domain         string
	RandomEvents   bool
	SmartResponses bool
}

// Roster is the read side the generator needs.
type Roster interface {
	Agents() []domain.Agent
}

// Generate picks one agent and one activity and returns what it should do.
// It returns nil when there is nothing to do (empty roster, or a role with
// no activity table). It reads state but never mutates it.
func Generate(r Roster, c catalog.Catalog, rng Rand, opts GenerateOptions) Intention {
	agents := r.Agents()
	if len(agents) == 0 {
		return nil
	}
	agent := pick(rng, agents)

	if opts.RandomEvents {
		if ev, ok := c.PickRandomEvent(opts.Domain, rng); ok {
			ceo := agents[0].ID
			for _, a := range agents {
				if a.Role == domain.RoleCEO {
					ceo = a.ID
					break
				}
			}
			return MakeDecision{Agent: ceo, Content: ev, Event: true}
		}
	}

	table := c.Activities(agent.Role)
	if len(table) == 0 {
		return nil
	}
	activity := pick(rng, table)

	if opts.SmartResponses && (activity.Kind == catalog.KindMessage || activity.Kind == catalog.KindTask) {
		if cands := c.Lookup(opts.Domain, agent.Role, activity.Kind); len(cands) > 0 && rng.Float64() < SmartResponseChance {
			activity = pick(rng, cands)
		}
	}
	return fromActivity(agent.ID, activity)
}
