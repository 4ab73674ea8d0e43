// Package engine turns generated intentions into store mutations and runs
// the date-driven company procedures.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"virtualco/internal/catalog"
	"virtualco/internal/domain"
	"virtualco/internal/store"
)

const (
	// ApproveChance is the probability a review approves the PR.
	ApproveChance = 0.7
	// MergeChance is the probability an approval schedules a merge.
	MergeChance = 0.5
	DocVersion  = "1.0.0"
)

// ErrUnknownIntention is returned for an intention type Apply cannot dispatch.
var ErrUnknownIntention = errors.New("unknown intention")

type Engine struct {
	Store   *store.Store
	Catalog catalog.Catalog
	Rand    Rand
	NewID   func() string
	Options GenerateOptions
	Log     logrus.FieldLogger
}

func New(s *store.Store, rng Rand, opts GenerateOptions) Engine {
	return Engine{
		Store:   s,
		Catalog: catalog.Default(),
		Rand:    rng,
		NewID:   uuid.NewString,
		Options: opts,
		Log:     logrus.StandardLogger(),
	}
}

func (e Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

// Outcome reports what Apply did.
type Outcome struct {
	Kind     catalog.Kind
	Agent    string
	Applied  bool
	Event    bool
	Messages []domain.Message
	Task     *domain.Task
	// Completed is set when Task reached done.
	Completed bool
	// MergePR names an approved PR whose merge should follow shortly.
	MergePR string
}

// Generate runs the generator against the engine's store.
func (e Engine) Generate() Intention {
	return Generate(e.Store, e.Catalog, e.Rand, e.Options)
}

// Apply performs in against the store. Activities that need a non-empty
// collection and find none are no-ops, reported with Applied false.
func (e Engine) Apply(in Intention) (Outcome, error) {
	if in == nil {
		return Outcome{}, fmt.Errorf("nil intention: %w", ErrUnknownIntention)
	}
	out := Outcome{Kind: in.Kind(), Agent: in.Actor()}
	if _, err := e.Store.Agent(in.Actor()); err != nil {
		return out, err
	}
	var err error
	switch v := in.(type) {
	case SendMessage:
		err = e.post(&out, v.Agent, v.Content, domain.MessageChat)
	case CreateTask:
		err = e.createTask(&out, v)
	case CompleteTask:
		err = e.completeTask(&out, v)
	case ReportBug:
		err = e.reportBug(&out, v)
	case OpenPullRequest:
		err = e.openPullRequest(&out, v)
	case ReviewPullRequest:
		err = e.reviewPullRequest(&out, v)
	case MakeDecision:
		out.Event = v.Event
		err = e.post(&out, v.Agent, v.Content, domain.MessageDecision)
	case WriteDocumentation:
		err = e.writeDocumentation(&out, v)
	case FinancialUpdate:
		err = e.post(&out, v.Agent, v.Content, domain.MessageFinancial)
	default:
		return out, fmt.Errorf("%T: %w", in, ErrUnknownIntention)
	}
	if err != nil {
		e.Log.WithFields(logrus.Fields{"kind": out.Kind, "agent": out.Agent}).WithError(err).Error("apply intention")
		return out, err
	}
	return out, nil
}

func (e Engine) post(out *Outcome, agent, content string, t domain.MessageType) error {
	m := domain.Message{
		ID:        e.newID(),
		AgentID:   agent,
		Content:   content,
		Timestamp: e.Store.CurrentDate(),
		Type:      t,
	}
	if err := e.Store.AppendMessage(m); err != nil {
		return err
	}
	out.Applied = true
	out.Messages = append(out.Messages, m)
	return nil
}

func (e Engine) createTask(out *Outcome, in CreateTask) error {
	agents := e.Store.Agents()
	t := domain.Task{
		ID:          e.newID(),
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  pick(e.Rand, agents).ID,
		CreatedBy:   in.Agent,
		Status:      domain.TaskBacklog,
		Priority:    in.Priority,
		Type:        in.Type,
	}
	if err := e.Store.UpsertTask(t); err != nil {
		return err
	}
	out.Task = &t
	return e.post(out, in.Agent, "Created new task: "+t.Title, domain.MessageTask)
}

// completeTask finishes one of the agent's own tasks that may legally move
// to done. In-progress tasks are left to the operator.
func (e Engine) completeTask(out *Outcome, in CompleteTask) error {
	var open []domain.Task
	for _, t := range e.Store.Tasks() {
		if t.AssignedTo != in.Agent {
			continue
		}
		if t.Status == domain.TaskBacklog || t.Status == domain.TaskReview {
			open = append(open, t)
		}
	}
	if len(open) == 0 {
		return nil
	}
	t, err := e.Store.SetTaskStatus(pick(e.Rand, open).ID, domain.TaskDone)
	if err != nil {
		return err
	}
	out.Task = &t
	out.Completed = true
	return e.post(out, in.Agent, "✅ Completed: "+t.Title, domain.MessageTask)
}

func (e Engine) reportBug(out *Outcome, in ReportBug) error {
	dev, err := e.Store.AgentByRole(domain.RoleDeveloper)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	bug := pick(e.Rand, e.Catalog.Bugs())
	t := domain.Task{
		ID:          e.newID(),
		Title:       "Bug: " + bug,
		Description: "Needs immediate attention",
		AssignedTo:  dev.ID,
		CreatedBy:   in.Agent,
		Status:      domain.TaskBacklog,
		Priority:    domain.PriorityHigh,
		Type:        domain.TaskBug,
	}
	if err := e.Store.UpsertTask(t); err != nil {
		return err
	}
	if err := e.Store.BumpMetrics(store.MetricsDelta{Bugs: 1}); err != nil {
		return err
	}
	out.Task = &t
	return e.post(out, in.Agent, "🐛 Found bug: "+bug, domain.MessageBug)
}

func (e Engine) reviewers() []string {
	var ids []string
	for _, role := range []domain.Role{domain.RoleQA, domain.RoleCEO} {
		if a, err := e.Store.AgentByRole(role); err == nil {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

func (e Engine) openPullRequest(out *Outcome, in OpenPullRequest) error {
	pr := domain.PullRequest{
		ID:          e.newID(),
		Title:       pick(e.Rand, e.Catalog.PRTitles()),
		Description: "Ready for review",
		Author:      in.Agent,
		Status:      domain.PROpen,
		Reviewers:   e.reviewers(),
		CreatedAt:   e.Store.CurrentDate(),
	}
	if err := e.Store.AppendPullRequest(pr); err != nil {
		return err
	}
	return e.post(out, in.Agent, "📝 Opened PR: "+pr.Title, domain.MessagePR)
}

func (e Engine) reviewPullRequest(out *Outcome, in ReviewPullRequest) error {
	var open []domain.PullRequest
	for _, pr := range e.Store.PullRequests() {
		if pr.Status == domain.PROpen {
			open = append(open, pr)
		}
	}
	if len(open) == 0 {
		return nil
	}
	pr := pick(e.Rand, open)
	if e.Rand.Float64() >= ApproveChance {
		return e.post(out, in.Agent, "💬 Commented on PR: "+pr.Title, domain.MessagePR)
	}
	if _, err := e.Store.SetPullRequestStatus(pr.ID, domain.PRApproved); err != nil {
		return err
	}
	if e.Rand.Float64() < MergeChance {
		out.MergePR = pr.ID
	}
	return e.post(out, in.Agent, "✅ Approved PR: "+pr.Title, domain.MessagePR)
}

// Merge completes a previously approved PR.
func (e Engine) Merge(prID string) error {
	_, err := e.Store.SetPullRequestStatus(prID, domain.PRMerged)
	return err
}

func (e Engine) writeDocumentation(out *Outcome, in WriteDocumentation) error {
	title := in.Title
	if title == "" {
		title = string(in.DocType) + " Documentation"
	}
	d := domain.Documentation{
		ID:          e.newID(),
		Title:       title,
		Type:        in.DocType,
		Content:     e.Catalog.DocTemplate(in.DocType),
		Author:      in.Agent,
		LastUpdated: e.Store.CurrentDate(),
		Version:     DocVersion,
	}
	if err := e.Store.AppendDocumentation(d); err != nil {
		return err
	}
	return e.post(out, in.Agent, "📄 Published: "+d.Title, domain.MessageDocumentation)
}
