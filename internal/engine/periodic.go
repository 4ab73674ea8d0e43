package engine

import (
	"fmt"
	"math"

	"virtualco/internal/domain"
	"virtualco/internal/store"
)

const (
	// ProgressChance gates each progress roll.
	ProgressChance = 0.3
	FeatureChance  = 0.15

	BaseExpenses     = 85000
	ExpenseSpread    = 15000
	RunwayFloor      = 6
	RunwayCeiling    = 24
	RunwayAlertBelow = 12

	SprintEveryDays = 14
)

const sprintKickoff = "📅 Sprint Planning Meeting - Let's review our progress and set new goals!"

// RollProgress occasionally nudges product progress, headline metrics and
// every OKR upward. It reports whether the roll fired.
func (e Engine) RollProgress() (bool, error) {
	if e.Rand.Float64() >= ProgressChance {
		return false, nil
	}
	if err := e.Store.SetProductProgress(e.Store.ProductProgress() + e.Rand.Float64()*3); err != nil {
		return false, err
	}
	var d store.MetricsDelta
	if e.Rand.Float64() >= 1-FeatureChance {
		d.Features = 1
	}
	d.Users = int(e.Rand.Float64() * 25)
	d.Revenue = int(e.Rand.Float64() * 250)
	d.TestCoverage = e.Rand.Float64() * 2
	if err := e.Store.BumpMetrics(d); err != nil {
		return false, err
	}
	for _, o := range e.Store.OKRs() {
		if err := e.Store.SetOKRProgress(o.ID, o.Progress+e.Rand.Float64()*5); err != nil {
			return false, err
		}
	}
	return true, nil
}

// MonthKey formats the financial record key of the current calendar month.
func (e Engine) MonthKey() string {
	return e.Store.CurrentDate().Format("2006-01")
}

// Runway derives months of runway from monthly profit.
func Runway(profit int64) int64 {
	if profit >= 0 {
		return RunwayCeiling
	}
	return int64(math.Floor(math.Max(RunwayFloor, 18-math.Abs(float64(profit))/10000)))
}

// MonthlyReport files the financial record for the current month when the
// calendar sits on its first day and none exists yet.
func (e Engine) MonthlyReport() (domain.FinancialRecord, bool, error) {
	if e.Store.CurrentDate().Day() != 1 || e.Store.HasFinancialRecord(e.MonthKey()) {
		return domain.FinancialRecord{}, false, nil
	}
	revenue := int64(e.Store.Metrics().Revenue)
	expenses := int64(math.Floor(BaseExpenses + e.Rand.Float64()*ExpenseSpread))
	profit := revenue - expenses
	burn := profit
	if burn < 0 {
		burn = -burn
	}
	r := domain.FinancialRecord{
		Month:    e.MonthKey(),
		Revenue:  revenue,
		Expenses: expenses,
		Profit:   profit,
		Runway:   Runway(profit),
		ARR:      revenue * 12,
		MRR:      revenue,
		BurnRate: burn,
	}
	if err := e.Store.AppendFinancialRecord(r); err != nil {
		return domain.FinancialRecord{}, false, err
	}
	return r, true, nil
}

// SprintDue reports whether today is a sprint planning day.
func (e Engine) SprintDue() bool {
	return e.Store.CurrentDate().YearDay()%SprintEveryDays == 0
}

func (e Engine) ceo() string {
	if a, err := e.Store.AgentByRole(domain.RoleCEO); err == nil {
		return a.ID
	}
	if agents := e.Store.Agents(); len(agents) > 0 {
		return agents[0].ID
	}
	return ""
}

// SprintKickoff gathers every agent into the meeting.
func (e Engine) SprintKickoff() (Outcome, error) {
	out := Outcome{Kind: "meeting", Agent: e.ceo()}
	if err := e.Store.SetAllAgentStatus(domain.AgentMeeting); err != nil {
		return out, err
	}
	return out, e.post(&out, out.Agent, sprintKickoff, domain.MessageMeeting)
}

// SprintRemark closes the meeting with one remark and sends everyone back to work.
func (e Engine) SprintRemark() (Outcome, error) {
	agents := e.Store.Agents()
	if len(agents) == 0 {
		return Outcome{}, nil
	}
	agent := pick(e.Rand, agents)
	out := Outcome{Kind: "meeting", Agent: agent.ID}
	if err := e.post(&out, agent.ID, pick(e.Rand, e.Catalog.MeetingRemarks()), domain.MessageMeeting); err != nil {
		return out, err
	}
	return out, e.Store.SetAllAgentStatus(domain.AgentActive)
}

// Found seeds a fresh store for project: domain OKRs, the opening market
// and the founding event.
func (e Engine) Found(p domain.Project) error {
	if err := e.Store.SeedMarket(e.Catalog.Market(p.Domain, e.Store.CurrentDate())); err != nil {
		return err
	}
	for _, o := range e.Catalog.OKRs(p.Domain) {
		if err := e.Store.AppendOKR(o); err != nil {
			return err
		}
	}
	_, err := e.Timeline(p.Name+" Founded",
		fmt.Sprintf("Started %s project with %d month timeline", p.Domain, p.Duration),
		domain.TimelineMilestone, domain.ImpactHigh)
	return err
}

// Kickoff posts the CEO's start-of-run announcement.
func (e Engine) Kickoff(projectName string) (Outcome, error) {
	if projectName == "" {
		projectName = "something amazing"
	}
	out := Outcome{Kind: "decision", Agent: e.ceo()}
	return out, e.post(&out, out.Agent, "🚀 Alright team, let's build "+projectName+"! Sprint starts now.", domain.MessageDecision)
}

// Timeline appends an event dated today.
func (e Engine) Timeline(title, desc string, t domain.TimelineType, impact domain.Impact) (domain.TimelineEvent, error) {
	ev := domain.TimelineEvent{
		ID:          e.newID(),
		Date:        e.Store.CurrentDate(),
		Title:       title,
		Description: desc,
		Type:        t,
		Impact:      impact,
	}
	return ev, e.Store.AppendTimelineEvent(ev)
}

// Step generates and applies one activity, merging any approved PR
// inline, then rolls progress. It is the synchronous form of a tick's
// activity used by skips and headless runs.
func (e Engine) Step() (Outcome, error) {
	var out Outcome
	if in := e.Generate(); in != nil {
		var err error
		if out, err = e.Apply(in); err != nil {
			return out, err
		}
		if out.MergePR != "" {
			if err := e.Merge(out.MergePR); err != nil {
				return out, err
			}
		}
	}
	_, err := e.RollProgress()
	return out, err
}

// SkipDays approximates n days of work with n/2 steps, then jumps the
// calendar by n and records the skip on the timeline.
func (e Engine) SkipDays(n int) ([]Outcome, error) {
	if n <= 0 {
		return nil, fmt.Errorf("skip %d days: %w", n, store.ErrInvalid)
	}
	var outs []Outcome
	for i := 0; i < n/2; i++ {
		out, err := e.Step()
		if err != nil {
			return outs, err
		}
		outs = append(outs, out)
	}
	if err := e.Store.AdvanceDays(n); err != nil {
		return outs, err
	}
	_, err := e.Timeline(fmt.Sprintf("Fast-forwarded %d days", n), fmt.Sprintf("Simulated %d days of work", n),
		domain.TimelineMilestone, domain.ImpactMedium)
	return outs, err
}
