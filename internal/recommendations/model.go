package recommendations

import (
	"time"

	"support-backend/internal/manuals"
	"support-backend/internal/sentiment"
)

// Priority ranks how soon a recommendation should be acted on.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Category groups recommendations by intent.
type Category string

const (
	CategoryImmediate   Category = "immediate"
	CategoryFollowUp    Category = "follow-up"
	CategoryEscalation  Category = "escalation"
	CategoryInformation Category = "information"
	CategoryResolution  Category = "resolution"
)

// StepType classifies the work a step involves.
type StepType string

const (
	StepCommunication StepType = "communication"
	StepInvestigation StepType = "investigation"
	StepEscalation    StepType = "escalation"
	StepDocumentation StepType = "documentation"
	StepResolution    StepType = "resolution"
)

// Step is one ordered unit of work in a recommendation.
type Step struct {
	ID                string   `json:"id"`
	Order             int      `json:"order"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Type              StepType `json:"type"`
	IsRequired        bool     `json:"isRequired"`
	EstimatedDuration string   `json:"estimatedDuration"`
	Resources         []string `json:"resources,omitempty"`
}

// Recommendation is a steppable action plan for one ticket.
type Recommendation struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Priority         Priority  `json:"priority"`
	Category         Category  `json:"category"`
	Steps            []Step    `json:"steps"`
	EstimatedTime    string    `json:"estimatedTime"`
	RequiredSkills   []string  `json:"requiredSkills"`
	SuccessMetrics   []string  `json:"successMetrics"`
	Reasoning        string    `json:"reasoning"`
	Confidence       float64   `json:"confidence"`
	ManualReferences []string  `json:"manualReferences"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Ticket is the helpdesk ticket a recommendation is generated for.
type Ticket struct {
	ID          string   `json:"id"`
	Subject     string   `json:"subject"`
	Description string   `json:"description"`
	Priority    string   `json:"priority,omitempty"`
	Status      string   `json:"status,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Context is everything known about a ticket when planning actions.
// A nil ManualGuidance means no guidance was supplied; the engine then
// searches a manual itself.
type Context struct {
	Ticket            Ticket                 `json:"ticket"`
	SentimentAnalysis sentiment.Analysis     `json:"sentimentAnalysis"`
	ManualGuidance    []manuals.SearchResult `json:"manualGuidance,omitempty"`
	CustomerHistory   string                 `json:"customerHistory,omitempty"`
	ManualID          string                 `json:"manualId,omitempty"`
}

// ExecuteResult reports the outcome of executing one step.
type ExecuteResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	NextStep *Step  `json:"nextStep,omitempty"`
}

// Feedback is an agent's rating of a recommendation.
type Feedback struct {
	Effectiveness        int    `json:"effectiveness"`
	TimeToComplete       *int   `json:"timeToComplete,omitempty"`
	CustomerSatisfaction *int   `json:"customerSatisfaction,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

// generatedPlan is the generation schema for one recommendation.
type generatedPlan struct {
	Title            string          `json:"title" description:"Short action plan title"`
	Description      string          `json:"description" description:"What the plan achieves"`
	Priority         Priority        `json:"priority" enum:"low,medium,high,urgent"`
	Category         Category        `json:"category" enum:"immediate,follow-up,escalation,information,resolution"`
	Steps            []generatedStep `json:"steps" description:"Ordered steps for the agent"`
	EstimatedTime    string          `json:"estimatedTime" description:"Total estimated time, e.g. 30 minutes"`
	RequiredSkills   []string        `json:"requiredSkills"`
	SuccessMetrics   []string        `json:"successMetrics"`
	Reasoning        string          `json:"reasoning" description:"Why this plan fits the ticket"`
	Confidence       float64         `json:"confidence" description:"Confidence from 0 to 1"`
	ManualReferences []string        `json:"manualReferences" description:"Titles of manual sections the plan relies on"`
}

type generatedStep struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Type              StepType `json:"type" enum:"communication,investigation,escalation,documentation,resolution"`
	IsRequired        bool     `json:"isRequired"`
	EstimatedDuration string   `json:"estimatedDuration"`
	Resources         []string `json:"resources"`
}
