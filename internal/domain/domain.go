package domain

import (
	"slices"
	"time"
)

type Role string

const (
	RoleCEO       Role = "ceo"
	RoleDeveloper Role = "developer"
	RoleDesigner  Role = "designer"
	RoleMarketer  Role = "marketer"
	RoleQA        Role = "qa"
	RoleDocs      Role = "docs"
	RoleCFO       Role = "cfo"
)

type AgentStatus string

const (
	AgentActive   AgentStatus = "active"
	AgentIdle     AgentStatus = "idle"
	AgentThinking AgentStatus = "thinking"
	AgentMeeting  AgentStatus = "meeting"
)

func (s AgentStatus) Valid() bool {
	switch s {
	case AgentActive, AgentIdle, AgentThinking, AgentMeeting:
		return true
	}
	return false
}

type MessageType string

const (
	MessageChat          MessageType = "message"
	MessageTask          MessageType = "task"
	MessageDecision      MessageType = "decision"
	MessageBug           MessageType = "bug"
	MessagePR            MessageType = "pr"
	MessageMeeting       MessageType = "meeting"
	MessageDocumentation MessageType = "documentation"
	MessageFinancial     MessageType = "financial"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageChat, MessageTask, MessageDecision, MessageBug, MessagePR, MessageMeeting, MessageDocumentation, MessageFinancial:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskBacklog    TaskStatus = "backlog"
	TaskInProgress TaskStatus = "in-progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskBacklog, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type TaskType string

const (
	TaskFeature       TaskType = "feature"
	TaskBug           TaskType = "bug"
	TaskDesign        TaskType = "design"
	TaskMarketing     TaskType = "marketing"
	TaskPlanning      TaskType = "planning"
	TaskDocumentation TaskType = "documentation"
	TaskFinancial     TaskType = "financial"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskFeature, TaskBug, TaskDesign, TaskMarketing, TaskPlanning, TaskDocumentation, TaskFinancial:
		return true
	}
	return false
}

type PRStatus string

const (
	PROpen     PRStatus = "open"
	PRApproved PRStatus = "approved"
	PRMerged   PRStatus = "merged"
	PRRejected PRStatus = "rejected"
)

func (s PRStatus) Valid() bool {
	switch s {
	case PROpen, PRApproved, PRMerged, PRRejected:
		return true
	}
	return false
}

// Terminal reports whether no further status change is allowed.
func (s PRStatus) Terminal() bool {
	return s == PRMerged || s == PRRejected
}

type DocType string

const (
	DocAPI        DocType = "api"
	DocUserGuide  DocType = "user-guide"
	DocTechnical  DocType = "technical"
	DocOnboarding DocType = "onboarding"
)

func (t DocType) Valid() bool {
	switch t {
	case DocAPI, DocUserGuide, DocTechnical, DocOnboarding:
		return true
	}
	return false
}

type TimelineType string

const (
	TimelineMilestone TimelineType = "milestone"
	TimelineFeature   TimelineType = "feature"
	TimelineHire      TimelineType = "hire"
	TimelineFunding   TimelineType = "funding"
	TimelineLaunch    TimelineType = "launch"
)

func (t TimelineType) Valid() bool {
	switch t {
	case TimelineMilestone, TimelineFeature, TimelineHire, TimelineFunding, TimelineLaunch:
		return true
	}
	return false
}

type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

func (i Impact) Valid() bool {
	return i == ImpactHigh || i == ImpactMedium || i == ImpactLow
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

func (t Trend) Valid() bool {
	return t == TrendUp || t == TrendDown || t == TrendStable
}

type MarketEventType string

const (
	MarketTrend       MarketEventType = "trend"
	MarketCompetitor  MarketEventType = "competitor"
	MarketCrisis      MarketEventType = "crisis"
	MarketOpportunity MarketEventType = "opportunity"
)

func (t MarketEventType) Valid() bool {
	switch t {
	case MarketTrend, MarketCompetitor, MarketCrisis, MarketOpportunity:
		return true
	}
	return false
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

func (s Sentiment) Valid() bool {
	return s == SentimentPositive || s == SentimentNegative || s == SentimentNeutral
}

type Agent struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Role           Role        `json:"role"`
	Title          string      `json:"title"`
	Avatar         string      `json:"avatar"`
	Personality    string      `json:"personality"`
	Status         AgentStatus `json:"status" enum:"active,idle,thinking,meeting"`
	TasksCompleted int         `json:"tasksCompleted"`
}

type Message struct {
	ID        string      `json:"id"`
	AgentID   string      `json:"agentId"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp" format:"date-time"`
	Type      MessageType `json:"type" enum:"message,task,decision,bug,pr,meeting,documentation,financial"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssignedTo  string     `json:"assignedTo"`
	CreatedBy   string     `json:"createdBy"`
	Status      TaskStatus `json:"status" enum:"backlog,in-progress,review,done"`
	Priority    Priority   `json:"priority" enum:"low,medium,high"`
	Type        TaskType   `json:"type" enum:"feature,bug,design,marketing,planning,documentation,financial"`
}

type PullRequest struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author"`
	Status      PRStatus  `json:"status" enum:"open,approved,merged,rejected"`
	Reviewers   []string  `json:"reviewers"`
	CreatedAt   time.Time `json:"createdAt" format:"date-time"`
}

type OKR struct {
	ID         string   `json:"id"`
	Objective  string   `json:"objective"`
	KeyResults []string `json:"keyResults"`
	Progress   float64  `json:"progress"`
	Owner      string   `json:"owner"`
}

type Documentation struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        DocType   `json:"type" enum:"api,user-guide,technical,onboarding"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	LastUpdated time.Time `json:"lastUpdated" format:"date-time"`
	Version     string    `json:"version"`
}

// FinancialRecord is keyed by Month in YYYY-MM form.
type FinancialRecord struct {
	Month    string `json:"month"`
	Revenue  int64  `json:"revenue"`
	Expenses int64  `json:"expenses"`
	Profit   int64  `json:"profit"`
	Runway   int64  `json:"runway"`
	ARR      int64  `json:"arr"`
	MRR      int64  `json:"mrr"`
	BurnRate int64  `json:"burnRate"`
}

type TimelineEvent struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date" format:"date-time"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        TimelineType `json:"type" enum:"milestone,feature,hire,funding,launch"`
	Impact      Impact       `json:"impact" enum:"high,medium,low"`
}

type Metrics struct {
	TasksCompleted int     `json:"tasksCompleted"`
	Features       int     `json:"features"`
	Bugs           int     `json:"bugs"`
	PRsOpened      int     `json:"prsOpened"`
	PRsMerged      int     `json:"prsMerged"`
	Users          int     `json:"users"`
	Revenue        int     `json:"revenue"`
	TestCoverage   float64 `json:"testCoverage"`
	DocsPages      int     `json:"docsPages"`
}

type Competitor struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	MarketShare  float64 `json:"marketShare"`
	Strength     int     `json:"strength"`
	Trend        Trend   `json:"trend" enum:"up,down,stable"`
	RecentLaunch string  `json:"recentLaunch,omitempty"`
}

type MarketEvent struct {
	ID          string          `json:"id"`
	Type        MarketEventType `json:"type" enum:"trend,competitor,crisis,opportunity"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Impact      Sentiment       `json:"impact" enum:"positive,negative,neutral"`
	// Severity runs from 1 to 10.
	Severity int       `json:"severity"`
	Date     time.Time `json:"date" format:"date-time"`
}

// Market is the competitive landscape around the company. Share is a
// percentage of TotalSize, in dollars.
type Market struct {
	Share       float64       `json:"marketShare"`
	TotalSize   int64         `json:"totalMarketSize"`
	Competitors []Competitor  `json:"competitors"`
	Events      []MarketEvent `json:"events"`
}

// Data is the full set of entity collections owned by a session.
type Data struct {
	CurrentDate      time.Time         `json:"currentDate" format:"date-time"`
	ProductProgress  float64           `json:"productProgress"`
	Metrics          Metrics           `json:"metrics"`
	Agents           []Agent           `json:"agents"`
	Messages         []Message         `json:"messages"`
	Tasks            []Task            `json:"tasks"`
	PullRequests     []PullRequest     `json:"pullRequests"`
	OKRs             []OKR             `json:"okrs"`
	Documentation    []Documentation   `json:"documentation"`
	FinancialRecords []FinancialRecord `json:"financialRecords"`
	Timeline         []TimelineEvent   `json:"timeline"`
	Market           Market            `json:"market"`
}

// Clone returns a copy that shares no slices with d.
func (d Data) Clone() Data {
	out := d
	out.Agents = slices.Clone(d.Agents)
	out.Messages = slices.Clone(d.Messages)
	out.Tasks = slices.Clone(d.Tasks)
	out.Documentation = slices.Clone(d.Documentation)
	out.FinancialRecords = slices.Clone(d.FinancialRecords)
	out.Timeline = slices.Clone(d.Timeline)
	out.PullRequests = slices.Clone(d.PullRequests)
	for i := range out.PullRequests {
		out.PullRequests[i].Reviewers = slices.Clone(out.PullRequests[i].Reviewers)
	}
	out.Market.Competitors = slices.Clone(d.Market.Competitors)
	out.Market.Events = slices.Clone(d.Market.Events)
	out.OKRs = slices.Clone(d.OKRs)
	for i := range out.OKRs {
		out.OKRs[i].KeyResults = slices.Clone(out.OKRs[i].KeyResults)
	}
	return out
}

type Snapshot struct {
	ID            string    `json:"id"`
	TakenAt       time.Time `json:"takenAt" format:"date-time"`
	Label         string    `json:"label"`
	SimulationDay int       `json:"simulationDay"`
	Data          Data      `json:"data"`
	IsBranch      bool      `json:"isBranch,omitempty"`
	ParentID      string    `json:"parentId,omitempty"`
}

// Project describes the simulated company.
type Project struct {
	Name        string `json:"projectName"`
	Domain      string `json:"domain"`
	Duration    int    `json:"duration"`
	Description string `json:"description,omitempty"`
}

// Simulation is the persisted blob for a saved session.
type Simulation struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"userId,omitempty"`
	Project   Project   `json:"project"`
	Data      Data      `json:"data"`
	UpdatedAt time.Time `json:"updatedAt" format:"date-time"`
}

type SimulationSummary struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"projectName"`
	Domain      string    `json:"domain"`
	Progress    float64   `json:"progress"`
	UpdatedAt   time.Time `json:"updatedAt" format:"date-time"`
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"created_at" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	OwnerID    string `json:"owner_id,omitempty"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	Payload    string `json:"payload_json"`
}

type APIKey struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	KeyHash   string `json:"key_hash"`
	CreatedAt string `json:"created_at" format:"date-time"`
}
