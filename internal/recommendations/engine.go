package recommendations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"support-backend/internal/llm"
	"support-backend/internal/manuals"
	"support-backend/internal/queue"
	"support-backend/internal/sentiment"
	"support-backend/internal/shared/metrics"
	"support-backend/internal/shared/telemetry"
)

var planSchema = llm.Schema[generatedPlan]{
	Name:        "action_recommendation",
	Description: "A structured, steppable action plan for a support ticket",
}

// ManualSearcher is the slice of the manual processor the engine needs.
type ManualSearcher interface {
	GetAllManuals(ctx context.Context) ([]manuals.Manual, error)
	SearchManual(ctx context.Context, manualID string, q manuals.SearchQuery) ([]manuals.SearchResult, llm.Source, error)
}

// Engine generates action plans and tracks them per ticket. Feedback is
// published to Queue when set, otherwise written to Feedback directly.
type Engine struct {
	LLM      llm.Generator
	Manuals  ManualSearcher
	Store    Store
	Queue    queue.Client
	Feedback FeedbackRepo
	Now      func() time.Time
}

// NewEngine constructs an Engine. searcher and q may be nil.
func NewEngine(gen llm.Generator, searcher ManualSearcher, store Store, q queue.Client) *Engine {
	return &Engine{
		LLM:     gen,
		Manuals: searcher,
		Store:   store,
		Queue:   q,
		Now:     time.Now,
	}
}

type variant struct {
	name     string
	prompt   string
	category Category
}

// GenerateRecommendations produces a primary and an alternative plan, plus an
// escalation plan for unhappy customers with high urgency. Variants that fail
// are dropped, so the result may be empty. Only a failure of the whole flow
// (manual search, panic) substitutes a fixed plan. The result replaces
// whatever was stored for the ticket.
func (e *Engine) GenerateRecommendations(ctx context.Context, rc Context) ([]Recommendation, llm.Source, error) {
	if strings.TrimSpace(rc.Ticket.ID) == "" {
		return nil, "", fmt.Errorf("%w: ticket id is required", ErrInvalidInput)
	}

	source := llm.SourceGenerated
	recs, err := e.generate(ctx, rc)
	if err != nil {
		telemetry.Warn("recommendation.fallback", map[string]any{
			"ticket_id": rc.Ticket.ID,
			"error":     err.Error(),
		})
		metrics.IncFallback("recommendation")
		recs = []Recommendation{fallbackRecommendation(rc, e.now())}
		source = llm.SourceFallback
	}
	if recs == nil {
		recs = []Recommendation{}
	}

	if err := e.Store.Replace(context.WithoutCancel(ctx), rc.Ticket.ID, recs); err != nil {
		return nil, "", fmt.Errorf("store recommendations for %s: %w", rc.Ticket.ID, err)
	}
	telemetry.Info("recommendation.generated", map[string]any{
		"ticket_id": rc.Ticket.ID,
		"count":     len(recs),
		"source":    string(source),
	})
	return recs, source, nil
}

func (e *Engine) generate(ctx context.Context, rc Context) (recs []Recommendation, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			recs = nil
			err = fmt.Errorf("panic during generation: %v", rec)
		}
	}()

	guidance := rc.ManualGuidance
	if guidance == nil {
		guidance, err = e.searchGuidance(ctx, rc)
		if err != nil {
			return nil, fmt.Errorf("search manual: %w", err)
		}
	}

	prompt := buildPlanPrompt(rc, guidance)
	variants := []variant{
		{name: "primary", prompt: prompt, category: CategoryImmediate},
		{name: "alternative", prompt: prompt + alternativeInstruction, category: CategoryResolution},
	}
	if needsEscalation(rc.SentimentAnalysis) {
		variants = append(variants, variant{name: "escalation", prompt: buildEscalationPrompt(rc), category: CategoryEscalation})
	}

	for _, v := range variants {
		plan, genErr := llm.Generate(ctx, e.LLM, planSchema, v.prompt)
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		if genErr != nil {
			telemetry.Warn("recommendation.variant_failed", map[string]any{
				"ticket_id": rc.Ticket.ID,
				"variant":   v.name,
				"error":     genErr.Error(),
			})
			continue
		}
		recs = append(recs, toRecommendation(plan, rc.Ticket.ID, v, e.now()))
	}
	return recs, nil
}

// searchGuidance searches the requested manual, or the first manual when
// none is named.
func (e *Engine) searchGuidance(ctx context.Context, rc Context) ([]manuals.SearchResult, error) {
	if e.Manuals == nil {
		return nil, nil
	}
	manualID := strings.TrimSpace(rc.ManualID)
	if manualID == "" {
		all, err := e.Manuals.GetAllManuals(ctx)
		if err != nil {
			return nil, err
		}
		if len(all) == 0 {
			return nil, nil
		}
		manualID = all[0].ID
	}

	a := rc.SentimentAnalysis
	results, _, err := e.Manuals.SearchManual(ctx, manualID, manuals.SearchQuery{
		Query: fmt.Sprintf("%s %s %s", rc.Ticket.Subject, a.Sentiment, a.Urgency),
		TicketContext: &manuals.TicketContext{
			Subject:     rc.Ticket.Subject,
			Description: rc.Ticket.Description,
			Sentiment:   a.Sentiment,
			Urgency:     a.Urgency,
		},
	})
	return results, err
}

func needsEscalation(a sentiment.Analysis) bool {
	return a.Sentiment == sentiment.Negative &&
		(a.Urgency == sentiment.UrgencyHigh || a.Urgency == sentiment.UrgencyUrgent)
}

func toRecommendation(p generatedPlan, ticketID string, v variant, now time.Time) Recommendation {
	steps := make([]Step, 0, len(p.Steps))
	for _, s := range p.Steps {
		step := Step{
			Title:             strings.TrimSpace(s.Title),
			Description:       strings.TrimSpace(s.Description),
			Type:              s.Type,
			IsRequired:        s.IsRequired,
			EstimatedDuration: s.EstimatedDuration,
		}
		if len(s.Resources) > 0 {
			step.Resources = s.Resources
		}
		switch step.Type {
		case StepCommunication, StepInvestigation, StepEscalation, StepDocumentation, StepResolution:
		default:
			step.Type = StepCommunication
		}
		steps = append(steps, step)
	}
	numberSteps(steps)

	r := Recommendation{
		ID:               recommendationID(ticketID, v.name, now),
		Title:            strings.TrimSpace(p.Title),
		Description:      strings.TrimSpace(p.Description),
		Priority:         p.Priority,
		Category:         p.Category,
		Steps:            steps,
		EstimatedTime:    p.EstimatedTime,
		RequiredSkills:   nonNil(p.RequiredSkills),
		SuccessMetrics:   nonNil(p.SuccessMetrics),
		Reasoning:        p.Reasoning,
		Confidence:       min(max(p.Confidence, 0), 1),
		ManualReferences: nonNil(p.ManualReferences),
		CreatedAt:        now,
	}
	if r.Title == "" {
		r.Title = fmt.Sprintf("%s action plan", strings.ToUpper(v.name[:1])+v.name[1:])
	}
	switch r.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
	default:
		r.Priority = PriorityMedium
	}
	switch r.Category {
	case CategoryImmediate, CategoryFollowUp, CategoryEscalation, CategoryInformation, CategoryResolution:
	default:
		r.Category = v.category
	}
	return r
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Recommendations returns the plans stored for a ticket.
func (e *Engine) Recommendations(ctx context.Context, ticketID string) ([]Recommendation, error) {
	return e.Store.Get(ctx, ticketID)
}

// ExecuteAction looks up a step and returns the step positioned after it.
// Lookups that miss report Success false; only storage failures are errors.
func (e *Engine) ExecuteAction(ctx context.Context, ticketID, recommendationID, stepID string) (ExecuteResult, error) {
	recs, err := e.Store.Get(ctx, ticketID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ExecuteResult{Success: false, Message: "Ticket not found"}, nil
		}
		return ExecuteResult{}, fmt.Errorf("load recommendations for %s: %w", ticketID, err)
	}

	var rec *Recommendation
	for i := range recs {
		if recs[i].ID == recommendationID {
			rec = &recs[i]
			break
		}
	}
	if rec == nil {
		return ExecuteResult{Success: false, Message: "Recommendation not found"}, nil
	}

	idx := -1
	for i := range rec.Steps {
		if rec.Steps[i].ID == stepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ExecuteResult{Success: false, Message: "Step not found"}, nil
	}

	res := ExecuteResult{
		Success: true,
		Message: fmt.Sprintf("Step %q executed", rec.Steps[idx].Title),
	}
	if idx+1 < len(rec.Steps) {
		next := rec.Steps[idx+1]
		res.NextStep = &next
	}
	telemetry.Info("recommendation.step_executed", map[string]any{
		"ticket_id":         ticketID,
		"recommendation_id": recommendationID,
		"step_id":           stepID,
		"has_next":          res.NextStep != nil,
	})
	return res, nil
}

// UpdateRecommendationFeedback logs feedback and hands it to the queue or the
// feedback repo. Delivery failures are logged; it always reports success.
func (e *Engine) UpdateRecommendationFeedback(ctx context.Context, ticketID, recommendationID string, fb Feedback) bool {
	telemetry.Info("recommendation.feedback", map[string]any{
		"ticket_id":             ticketID,
		"recommendation_id":     recommendationID,
		"effectiveness":         fb.Effectiveness,
		"time_to_complete":      fb.TimeToComplete,
		"customer_satisfaction": fb.CustomerSatisfaction,
		"notes":                 fb.Notes,
	})

	if e.Queue == nil {
		if e.Feedback != nil {
			rec := FeedbackRecord{TicketID: ticketID, RecommendationID: recommendationID, Feedback: fb, SubmittedAt: e.now()}
			if err := e.Feedback.Record(context.WithoutCancel(ctx), rec); err != nil {
				telemetry.Warn("recommendation.feedback_record_failed", map[string]any{
					"ticket_id": ticketID,
					"error":     err.Error(),
				})
			}
		}
		return true
	}
	msg := queue.FeedbackMessage{
		TicketID:             ticketID,
		RecommendationID:     recommendationID,
		Effectiveness:        fb.Effectiveness,
		TimeToComplete:       fb.TimeToComplete,
		CustomerSatisfaction: fb.CustomerSatisfaction,
		Notes:                fb.Notes,
		SubmittedAt:          e.now().Format(time.RFC3339),
		Version:              queue.MessageVersion,
	}
	if err := e.Queue.Send(context.WithoutCancel(ctx), msg); err != nil {
		telemetry.Warn("recommendation.feedback_publish_failed", map[string]any{
			"ticket_id": ticketID,
			"error":     err.Error(),
		})
	}
	return true
}

// FeedbackHistory returns the feedback recorded for a ticket, oldest first.
func (e *Engine) FeedbackHistory(ctx context.Context, ticketID string) ([]FeedbackRecord, error) {
	if e.Feedback == nil {
		return []FeedbackRecord{}, nil
	}
	return e.Feedback.ListByTicket(ctx, ticketID)
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now().UTC()
	}
	return time.Now().UTC()
}
