package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"support-backend/internal/llm"
	"support-backend/internal/manuals"
	"support-backend/internal/queue"
	"support-backend/internal/sentiment"
)

const planJSON = `{
  "title": "Restore account access",
  "description": "Walk the customer through recovery",
  "priority": "high",
  "category": "resolution",
  "steps": [
    {"title": "Apologize", "description": "Acknowledge the lockout", "type": "communication", "isRequired": true, "estimatedDuration": "2 minutes", "resources": []},
    {"title": "Verify identity", "description": "Confirm account ownership", "type": "investigation", "isRequired": true, "estimatedDuration": "5 minutes", "resources": ["Identity checklist"]},
    {"title": "Reset credentials", "description": "Send reset link", "type": "resolution", "isRequired": true, "estimatedDuration": "5 minutes", "resources": []}
  ],
  "estimatedTime": "15 minutes",
  "requiredSkills": ["Account support"],
  "successMetrics": ["Customer logs in"],
  "reasoning": "Lockouts are resolved by verified reset",
  "confidence": 0.85,
  "manualReferences": ["Password Reset"]
}`

var errScripted = errors.New("scripted failure")

// planGenerator answers every object request with planJSON unless the prompt
// contains one of the failing markers.
type planGenerator struct {
	mu      sync.Mutex
	failOn  []string
	prompts []string
}

func (g *planGenerator) GenerateObject(ctx context.Context, req llm.ObjectRequest) (json.RawMessage, error) {
	_ = ctx
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, req.Prompt)
	for _, marker := range g.failOn {
		if strings.Contains(req.Prompt, marker) {
			return nil, errScripted
		}
	}
	return json.RawMessage(planJSON), nil
}

func (g *planGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", errScripted
}

type fakeSearcher struct {
	manuals  []manuals.Manual
	results  []manuals.SearchResult
	err      error
	searched []string
	queries  []manuals.SearchQuery
}

func (f *fakeSearcher) GetAllManuals(ctx context.Context) ([]manuals.Manual, error) {
	_ = ctx
	return f.manuals, nil
}

func (f *fakeSearcher) SearchManual(ctx context.Context, manualID string, q manuals.SearchQuery) ([]manuals.SearchResult, llm.Source, error) {
	_ = ctx
	f.searched = append(f.searched, manualID)
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, "", f.err
	}
	return f.results, llm.SourceGenerated, nil
}

type recordingQueue struct {
	mu   sync.Mutex
	sent []queue.FeedbackMessage
	err  error
}

func (q *recordingQueue) Send(ctx context.Context, msg queue.FeedbackMessage) error {
	_ = ctx
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sent = append(q.sent, msg)
	return q.err
}

var fixedNow = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(gen llm.Generator, searcher ManualSearcher, q queue.Client) *Engine {
	e := NewEngine(gen, searcher, NewMemoryStore(), q)
	e.Now = func() time.Time { return fixedNow }
	return e
}

func ticketContext(s sentiment.Sentiment, u sentiment.Urgency) Context {
	return Context{
		Ticket: Ticket{ID: "T-100", Subject: "Locked out", Description: "I cannot log in"},
		SentimentAnalysis: sentiment.Analysis{
			Sentiment:  s,
			Score:      0.3,
			Confidence: 0.9,
			Emotions:   []string{"frustrated"},
			Urgency:    u,
			KeyPhrases: []string{"locked out"},
		},
	}
}
