package manuals

import (
	"time"

	"support-backend/internal/sentiment"
)

// Priority ranks how important a section is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status is the processing outcome of a manual.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Section is one extracted unit of a manual.
type Section struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Keywords    []string  `json:"keywords"`
	Priority    Priority  `json:"priority"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Manual is an uploaded document split into sections.
type Manual struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Sections    []Section `json:"sections"`
	UploadedAt  time.Time `json:"uploadedAt"`
	ProcessedAt time.Time `json:"processedAt"`
	Status      Status    `json:"status"`
	SourceKey   string    `json:"sourceKey,omitempty"`
}

// TicketContext narrows a search to the ticket being worked.
type TicketContext struct {
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Sentiment   sentiment.Sentiment `json:"sentiment"`
	Urgency     sentiment.Urgency   `json:"urgency"`
}

// SearchQuery is a free-text query with optional ticket context.
type SearchQuery struct {
	Query         string         `json:"query"`
	TicketContext *TicketContext `json:"ticketContext,omitempty"`
}

// SearchResult is one ranked section.
type SearchResult struct {
	Section         Section  `json:"section"`
	RelevanceScore  float64  `json:"relevanceScore"`
	MatchedKeywords []string `json:"matchedKeywords"`
}

// extractedSection is the generation schema for one chunk.
type extractedSection struct {
	Title    string   `json:"title" description:"Short descriptive title for this section"`
	Content  string   `json:"content" description:"The procedural content of the section, cleaned up"`
	Category string   `json:"category" description:"Category label such as Troubleshooting, Billing, Account or Escalation"`
	Keywords []string `json:"keywords" description:"Search keywords for this section"`
	Priority Priority `json:"priority" enum:"low,medium,high" description:"How important this procedure is for support agents"`
}
