package store

import (
	"fmt"
	"math"

	"virtualco/internal/domain"
)

// Check verifies the cross-collection invariants of d.
func Check(d domain.Data) error {
	done := 0
	for _, t := range d.Tasks {
		if t.Status == domain.TaskDone {
			done++
		}
	}
	perAgent := 0
	for _, a := range d.Agents {
		perAgent += a.TasksCompleted
	}
	if d.Metrics.TasksCompleted != perAgent || perAgent != done {
		return fmt.Errorf("tasks completed: metric %d, agents %d, done tasks %d: %w", d.Metrics.TasksCompleted, perAgent, done, ErrInvalid)
	}
	if d.Metrics.PRsMerged > d.Metrics.PRsOpened {
		return fmt.Errorf("prs merged %d exceeds opened %d: %w", d.Metrics.PRsMerged, d.Metrics.PRsOpened, ErrInvalid)
	}
	if d.Metrics.TestCoverage < 0 || d.Metrics.TestCoverage > 100 {
		return fmt.Errorf("test coverage %.2f: %w", d.Metrics.TestCoverage, ErrInvalid)
	}
	if d.ProductProgress < 0 || d.ProductProgress > 100 {
		return fmt.Errorf("product progress %.2f: %w", d.ProductProgress, ErrInvalid)
	}
	for _, o := range d.OKRs {
		if o.Progress < 0 || o.Progress > 100 {
			return fmt.Errorf("okr %s progress %.2f: %w", o.ID, o.Progress, ErrInvalid)
		}
	}
	return nil
}

// CheckMarket verifies shares are percentages, competitor ids are unique
// and every enum is known. The zero Market is valid.
func CheckMarket(m domain.Market) error {
	if !percent(m.Share) || m.TotalSize < 0 {
		return fmt.Errorf("market share %.2f of %d: %w", m.Share, m.TotalSize, ErrInvalid)
	}
	seen := map[string]bool{}
	for _, c := range m.Competitors {
		if c.ID == "" || seen[c.ID] {
			return fmt.Errorf("competitor id %q missing or duplicate: %w", c.ID, ErrInvalid)
		}
		seen[c.ID] = true
		if !percent(c.MarketShare) || c.Strength < 0 || c.Strength > 100 || !c.Trend.Valid() {
			return fmt.Errorf("competitor %s share %.2f strength %d trend %q: %w", c.ID, c.MarketShare, c.Strength, c.Trend, ErrInvalid)
		}
	}
	for _, e := range m.Events {
		if !e.Type.Valid() || !e.Impact.Valid() || e.Severity < 1 || e.Severity > 10 {
			return fmt.Errorf("market event %s type %q impact %q severity %d: %w", e.ID, e.Type, e.Impact, e.Severity, ErrInvalid)
		}
	}
	return nil
}

func percent(v float64) bool { return !math.IsNaN(v) && v >= 0 && v <= 100 }

// Check verifies the invariants of the live contents.
func (s *Store) Check() error { return Check(s.data) }
