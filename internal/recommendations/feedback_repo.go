package recommendations

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"time"
)

// FeedbackRecord is one stored rating of a recommendation.
type FeedbackRecord struct {
	TicketID         string    `json:"ticketId"`
	RecommendationID string    `json:"recommendationId"`
	Feedback         Feedback  `json:"feedback"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

// FeedbackRepo persists recommendation feedback.
type FeedbackRepo interface {
	Record(ctx context.Context, rec FeedbackRecord) error
	ListByTicket(ctx context.Context, ticketID string) ([]FeedbackRecord, error)
}

// MemoryFeedbackRepo is an in-memory FeedbackRepo.
type MemoryFeedbackRepo struct {
	mu      sync.RWMutex
	records []FeedbackRecord
}

// NewMemoryFeedbackRepo constructs a MemoryFeedbackRepo.
func NewMemoryFeedbackRepo() *MemoryFeedbackRepo {
	return &MemoryFeedbackRepo{}
}

func (r *MemoryFeedbackRepo) Record(ctx context.Context, rec FeedbackRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *MemoryFeedbackRepo) ListByTicket(ctx context.Context, ticketID string) ([]FeedbackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []FeedbackRecord{}
	for _, rec := range r.records {
		if rec.TicketID == ticketID {
			out = append(out, rec)
		}
	}
	slices.SortStableFunc(out, func(a, b FeedbackRecord) int { return a.SubmittedAt.Compare(b.SubmittedAt) })
	return out, nil
}

// PGFeedbackRepo implements FeedbackRepo using Postgres.
type PGFeedbackRepo struct {
	DB *sql.DB
}

func (r *PGFeedbackRepo) Record(ctx context.Context, rec FeedbackRecord) error {
	const query = `
INSERT INTO recommendation_feedback (
    ticket_id,
    recommendation_id,
    effectiveness,
    time_to_complete,
    customer_satisfaction,
    notes,
    submitted_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	fb := rec.Feedback
	var notes sql.NullString
	if fb.Notes != "" {
		notes = sql.NullString{String: fb.Notes, Valid: true}
	}
	_, err := r.DB.ExecContext(ctx, query,
		rec.TicketID,
		rec.RecommendationID,
		fb.Effectiveness,
		nullInt(fb.TimeToComplete),
		nullInt(fb.CustomerSatisfaction),
		notes,
		rec.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *PGFeedbackRepo) ListByTicket(ctx context.Context, ticketID string) ([]FeedbackRecord, error) {
	const query = `
SELECT ticket_id, recommendation_id, effectiveness, time_to_complete, customer_satisfaction, notes, submitted_at
FROM recommendation_feedback
WHERE ticket_id = $1
ORDER BY submitted_at, id`

	rows, err := r.DB.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FeedbackRecord{}
	for rows.Next() {
		var (
			rec          FeedbackRecord
			timeTo       sql.NullInt64
			satisfaction sql.NullInt64
			notes        sql.NullString
		)
		if err := rows.Scan(&rec.TicketID, &rec.RecommendationID, &rec.Feedback.Effectiveness, &timeTo, &satisfaction, &notes, &rec.SubmittedAt); err != nil {
			return nil, err
		}
		rec.Feedback.TimeToComplete = intPtr(timeTo)
		rec.Feedback.CustomerSatisfaction = intPtr(satisfaction)
		rec.Feedback.Notes = notes.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
