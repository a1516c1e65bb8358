package sentiment

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"support-backend/internal/llm"
	"support-backend/internal/shared/metrics"
	"support-backend/internal/shared/telemetry"
	"support-backend/internal/shared/util"
)

const defaultBatchSize = 5

var analysisSchema = llm.Schema[Analysis]{
	Name:        "sentiment_analysis",
	Description: "Sentiment, urgency and key phrases for a support ticket",
}

// Analyzer classifies ticket sentiment.
type Analyzer struct {
	LLM        llm.Generator
	BatchSize  int
	BatchDelay time.Duration
}

// NewAnalyzer constructs an Analyzer with the default batch size.
func NewAnalyzer(gen llm.Generator, batchDelay time.Duration) *Analyzer {
	return &Analyzer{
		LLM:        gen,
		BatchSize:  defaultBatchSize,
		BatchDelay: batchDelay,
	}
}

// AnalyzeTicket classifies one ticket. Generation failures fall back to the
// keyword heuristic, so the call always yields an analysis.
func (a *Analyzer) AnalyzeTicket(ctx context.Context, subject, description, customerHistory string) Result {
	analysis, err := llm.Generate(ctx, a.LLM, analysisSchema, buildSentimentPrompt(subject, description, customerHistory))
	if err != nil {
		telemetry.Warn("sentiment.fallback", map[string]any{"error": err.Error()})
		metrics.IncFallback("sentiment")
		return Result{Analysis: FallbackAnalysis(subject, description), Source: llm.SourceFallback}
	}
	return Result{Analysis: normalize(analysis), Source: llm.SourceGenerated}
}

// AnalyzeBatch analyzes tickets in fixed-size batches. Tickets within a batch
// run concurrently; the delay separates batches. The only error is ctx
// cancellation during a delay, in which case partial results are returned.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, tickets []Ticket) (map[string]Analysis, error) {
	results := make(map[string]Analysis, len(tickets))
	var mu sync.Mutex

	size := a.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}

	for start := 0; start < len(tickets); start += size {
		if start > 0 {
			if err := util.Sleep(ctx, a.BatchDelay); err != nil {
				return results, err
			}
		}
		end := min(start+size, len(tickets))

		var g errgroup.Group
		for _, ticket := range tickets[start:end] {
			g.Go(func() error {
				res := a.AnalyzeTicket(ctx, ticket.Subject, ticket.Description, "")
				mu.Lock()
				results[ticket.ID] = res.Analysis
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	telemetry.Info("sentiment.batch_complete", map[string]any{"tickets": len(tickets), "results": len(results)})
	return results, nil
}

func normalize(a Analysis) Analysis {
	a.Score = clamp01(a.Score)
	a.Confidence = clamp01(a.Confidence)
	switch a.Sentiment {
	case Positive, Neutral, Negative:
	default:
		a.Sentiment = sentimentFromScore(a.Score)
	}
	switch a.Urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyUrgent:
	default:
		a.Urgency = UrgencyMedium
	}
	if a.Emotions == nil {
		a.Emotions = []string{}
	}
	if a.KeyPhrases == nil {
		a.KeyPhrases = []string{}
	}
	return a
}

func sentimentFromScore(score float64) Sentiment {
	switch {
	case score >= 0.6:
		return Positive
	case score <= 0.4:
		return Negative
	default:
		return Neutral
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
