package sentiment

import "support-backend/internal/llm"

// Sentiment is the overall polarity of a ticket.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// Urgency is how quickly a ticket needs attention.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
	UrgencyUrgent Urgency = "urgent"
)

// Analysis is the sentiment judgment for one ticket. It doubles as the
// generation schema, so field tags describe the expected values.
type Analysis struct {
	Sentiment  Sentiment `json:"sentiment" enum:"positive,neutral,negative" description:"Overall customer sentiment"`
	Score      float64   `json:"score" description:"Sentiment score from 0 (very negative) to 1 (very positive)"`
	Confidence float64   `json:"confidence" description:"Confidence in the classification from 0 to 1"`
	Emotions   []string  `json:"emotions" description:"Detected emotions, most prominent first"`
	Urgency    Urgency   `json:"urgency" enum:"low,medium,high,urgent" description:"How urgently the ticket needs attention"`
	KeyPhrases []string  `json:"keyPhrases" description:"Phrases from the ticket that drove the judgment"`
}

// Ticket is the minimal ticket shape analyzed in batches.
type Ticket struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Result tags an analysis with where it came from.
type Result struct {
	Analysis Analysis
	Source   llm.Source
}
