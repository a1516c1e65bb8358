package workerproc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"support-backend/internal/queue"
	"support-backend/internal/recommendations"
	"support-backend/internal/shared/metrics"
	"support-backend/internal/shared/telemetry"
)

const (
	defaultConcurrency = 4
	receiveBackoff     = 2 * time.Second
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

// ErrInvalidMessage indicates a decoded message that can never be processed.
type ErrInvalidMessage struct {
	Meta   MessageMeta
	Reason string
}

func (e ErrInvalidMessage) Error() string { return "invalid feedback message: " + e.Reason }

// ErrProcess indicates recording failed after successful parsing.
type ErrProcess struct {
	TicketID string
	Err      error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "record feedback"
	}
	return "record feedback: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.FeedbackMessage, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.FeedbackMessage{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.FeedbackMessage{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	switch {
	case msg.Version > queue.MessageVersion:
		return msg, meta, ErrInvalidMessage{Meta: meta, Reason: fmt.Sprintf("unsupported version %d", msg.Version)}
	case strings.TrimSpace(msg.TicketID) == "" || strings.TrimSpace(msg.RecommendationID) == "":
		return msg, meta, ErrInvalidMessage{Meta: meta, Reason: "missing ticket or recommendation id"}
	case msg.Effectiveness < 1 || msg.Effectiveness > 5:
		return msg, meta, ErrInvalidMessage{Meta: meta, Reason: "effectiveness out of range"}
	}
	return msg, meta, nil
}

// HandleMessage stores one parsed feedback message.
func HandleMessage(ctx context.Context, repo recommendations.FeedbackRepo, msg queue.FeedbackMessage, now time.Time) error {
	if repo == nil {
		return errors.New("feedback repo not configured")
	}
	submitted, err := time.Parse(time.RFC3339, msg.SubmittedAt)
	if err != nil {
		submitted = now
	}
	rec := recommendations.FeedbackRecord{
		TicketID:         msg.TicketID,
		RecommendationID: msg.RecommendationID,
		Feedback: recommendations.Feedback{
			Effectiveness:        msg.Effectiveness,
			TimeToComplete:       msg.TimeToComplete,
			CustomerSatisfaction: msg.CustomerSatisfaction,
			Notes:                msg.Notes,
		},
		SubmittedAt: submitted.UTC(),
	}
	if err := repo.Record(ctx, rec); err != nil {
		return ErrProcess{TicketID: msg.TicketID, Err: err}
	}
	metrics.ObserveFeedback(msg.Effectiveness)
	return nil
}

// Worker drains the feedback queue into a FeedbackRepo.
type Worker struct {
	Queue       queue.Receiver
	Repo        recommendations.FeedbackRepo
	Concurrency int
	Now         func() time.Time
}

// Run polls until ctx is cancelled, then waits for in-flight messages.
// Unparseable messages are acked and dropped; recording failures are left
// on the queue for redelivery.
func (w *Worker) Run(ctx context.Context) error {
	if w.Queue == nil || w.Repo == nil {
		return errors.New("feedback worker requires a queue and a repo")
	}
	concurrency := w.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	telemetry.Info("worker.feedback.started", map[string]any{"concurrency": concurrency})

poll:
	for ctx.Err() == nil {
		deliveries, err := w.Queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			telemetry.Error("worker.feedback.receive_failed", map[string]any{"error": err.Error()})
			select {
			case <-ctx.Done():
				break poll
			case <-time.After(receiveBackoff):
			}
			continue
		}

		for _, d := range deliveries {
			select {
			case <-ctx.Done():
				break poll
			case sem <- struct{}{}:
			}
			wg.Add(1)
			go func(d queue.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()
				w.handle(context.WithoutCancel(ctx), d)
			}(d)
		}
	}

	wg.Wait()
	telemetry.Info("worker.feedback.stopped", nil)
	return nil
}

func (w *Worker) handle(ctx context.Context, d queue.Delivery) {
	fields := map[string]any{"message_id": d.ID, "receive_count": d.ReceiveCount}

	msg, meta, err := ParseMessage(d.Body)
	if err != nil {
		fields["body_len"] = meta.BodyLen
		if meta.BodySHA != "" {
			fields["body_sha256"] = meta.BodySHA
		}
		fields["error"] = err.Error()
		telemetry.Error("worker.feedback.unprocessable", fields)
		if w.ack(ctx, d, fields) {
			metrics.IncFeedbackJob("dropped")
		}
		return
	}
	fields["ticket_id"] = msg.TicketID
	fields["recommendation_id"] = msg.RecommendationID

	if err := HandleMessage(ctx, w.Repo, msg, w.now()); err != nil {
		fields["error"] = err.Error()
		telemetry.Error("worker.feedback.failed", fields)
		metrics.IncFeedbackJob("failed")
		return
	}
	if w.ack(ctx, d, fields) {
		telemetry.Info("worker.feedback.completed", fields)
		metrics.IncFeedbackJob("completed")
	}
}

func (w *Worker) ack(ctx context.Context, d queue.Delivery, fields map[string]any) bool {
	if err := w.Queue.Ack(ctx, d); err != nil {
		fields["ack_error"] = err.Error()
		telemetry.Error("worker.feedback.ack_failed", fields)
		return false
	}
	return true
}

func (w *Worker) now() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}
