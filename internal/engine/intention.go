package engine

import (
	"virtualco/internal/catalog"
	"virtualco/internal/domain"
)

// Intention describes one activity an agent is about to perform. The set
// of implementations is closed.
type Intention interface {
	Kind() catalog.Kind
	Actor() string
	isIntention()
}

type SendMessage struct {
	Agent   string
	Content string
}

type CreateTask struct {
	Agent       string
	Title       string
	Description string
	Priority    domain.Priority
	Type        domain.TaskType
}

// CompleteTask finishes one of the agent's own open tasks, chosen at apply time.
type CompleteTask struct {
	Agent string
}

type ReportBug struct {
	Agent string
}

type OpenPullRequest struct {
	Agent string
}

// ReviewPullRequest reviews one open PR, chosen at apply time.
type ReviewPullRequest struct {
	Agent string
}

// MakeDecision posts a decision. Event marks a domain random event.
type MakeDecision struct {
	Agent   string
	Content string
	Event   bool
}

type WriteDocumentation struct {
	Agent   string
	DocType domain.DocType
	Title   string
}

type FinancialUpdate struct {
	Agent   string
	Content string
}

func (SendMessage) Kind() catalog.Kind        { return catalog.KindMessage }
func (CreateTask) Kind() catalog.Kind         { return catalog.KindTask }
func (CompleteTask) Kind() catalog.Kind       { return catalog.KindComplete }
func (ReportBug) Kind() catalog.Kind          { return catalog.KindBug }
func (OpenPullRequest) Kind() catalog.Kind    { return catalog.KindPR }
func (ReviewPullRequest) Kind() catalog.Kind  { return catalog.KindReview }
func (MakeDecision) Kind() catalog.Kind       { return catalog.KindDecision }
func (WriteDocumentation) Kind() catalog.Kind { return catalog.KindDocumentation }
func (FinancialUpdate) Kind() catalog.Kind    { return catalog.KindFinancial }

func (i SendMessage) Actor() string        { return i.Agent }
func (i CreateTask) Actor() string         { return i.Agent }
func (i CompleteTask) Actor() string       { return i.Agent }
func (i ReportBug) Actor() string          { return i.Agent }
func (i OpenPullRequest) Actor() string    { return i.Agent }
func (i ReviewPullRequest) Actor() string  { return i.Agent }
func (i MakeDecision) Actor() string       { return i.Agent }
func (i WriteDocumentation) Actor() string { return i.Agent }
func (i FinancialUpdate) Actor() string    { return i.Agent }

func (SendMessage) isIntention()        {}
func (CreateTask) isIntention()         {}
func (CompleteTask) isIntention()       {}
func (ReportBug) isIntention()          {}
func (OpenPullRequest) isIntention()    {}
func (ReviewPullRequest) isIntention()  {}
func (MakeDecision) isIntention()       {}
func (WriteDocumentation) isIntention() {}
func (FinancialUpdate) isIntention()    {}

// fromActivity converts a catalog entry into the intention for agent.
func fromActivity(agent string, a catalog.Activity) Intention {
	switch a.Kind {
	case catalog.KindMessage:
		return SendMessage{Agent: agent, Content: a.Content}
	case catalog.KindTask:
		return CreateTask{Agent: agent, Title: a.Title, Description: a.Description, Priority: a.Priority, Type: a.TaskType}
	case catalog.KindComplete:
		return CompleteTask{Agent: agent}
	case catalog.KindBug:
		return ReportBug{Agent: agent}
	case catalog.KindPR:
		return OpenPullRequest{Agent: agent}
	case catalog.KindReview:
		return ReviewPullRequest{Agent: agent}
	case catalog.KindDecision:
		return MakeDecision{Agent: agent, Content: a.Content}
	case catalog.KindDocumentation:
		return WriteDocumentation{Agent: agent, DocType: a.DocType, Title: a.Title}
	case catalog.KindFinancial:
		return FinancialUpdate{Agent: agent, Content: a.Content}
	}
	return nil
}
