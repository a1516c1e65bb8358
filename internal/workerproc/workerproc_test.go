package workerproc

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"support-backend/internal/queue"
	"support-backend/internal/recommendations"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr any
	}{
		{name: "valid", body: `{"ticketId":"T-1","recommendationId":"R-1","effectiveness":4,"version":1}`},
		{name: "empty", body: "  ", wantErr: ErrEmptyBody{}},
		{name: "not json", body: "{", wantErr: ErrDecode{}},
		{name: "missing ids", body: `{"effectiveness":4}`, wantErr: ErrInvalidMessage{}},
		{name: "out of range", body: `{"ticketId":"T-1","recommendationId":"R-1","effectiveness":9}`, wantErr: ErrInvalidMessage{}},
		{name: "future version", body: `{"ticketId":"T-1","recommendationId":"R-1","effectiveness":3,"version":2}`, wantErr: ErrInvalidMessage{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, meta, err := ParseMessage(tt.body)
			switch tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				if meta.BodyLen != len(tt.body) || len(meta.BodySHA) != 64 {
					t.Fatalf("unexpected meta %+v", meta)
				}
			case ErrEmptyBody:
				if _, ok := err.(ErrEmptyBody); !ok {
					t.Fatalf("expected ErrEmptyBody, got %v", err)
				}
			case ErrDecode:
				if _, ok := err.(ErrDecode); !ok {
					t.Fatalf("expected ErrDecode, got %v", err)
				}
			case ErrInvalidMessage:
				if _, ok := err.(ErrInvalidMessage); !ok {
					t.Fatalf("expected ErrInvalidMessage, got %v", err)
				}
			}
		})
	}
}

type fakeReceiver struct {
	mu      sync.Mutex
	batches [][]queue.Delivery
	calls   int
	acked   []string
	cancel  context.CancelFunc
}

func (f *fakeReceiver) Receive(ctx context.Context) ([]queue.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls < len(f.batches) {
		b := f.batches[f.calls]
		f.calls++
		return b, nil
	}
	f.cancel()
	return nil, ctx.Err()
}

func (f *fakeReceiver) Ack(ctx context.Context, d queue.Delivery) error {
	_ = ctx
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, d.ID)
	return nil
}

type flakyRepo struct {
	*recommendations.MemoryFeedbackRepo
}

func (r flakyRepo) Record(ctx context.Context, rec recommendations.FeedbackRecord) error {
	if rec.TicketID == "T-fail" {
		return errors.New("db down")
	}
	return r.MemoryFeedbackRepo.Record(ctx, rec)
}

func TestWorkerRunAcksHandledMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rx := &fakeReceiver{
		cancel: cancel,
		batches: [][]queue.Delivery{
			{
				{ID: "ok", Body: `{"ticketId":"T-1","recommendationId":"R-1","effectiveness":5,"submittedAt":"2026-03-01T12:00:00Z","version":1}`},
				{ID: "garbage", Body: "not json"},
			},
			{
				{ID: "fail", Body: `{"ticketId":"T-fail","recommendationId":"R-2","effectiveness":3,"version":1}`},
				{ID: "no-time", Body: `{"ticketId":"T-1","recommendationId":"R-3","effectiveness":1,"version":1}`},
			},
		},
	}
	repo := flakyRepo{recommendations.NewMemoryFeedbackRepo()}
	fixed := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	w := &Worker{Queue: rx, Repo: repo, Concurrency: 2, Now: func() time.Time { return fixed }}

	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	slices.Sort(rx.acked)
	if want := []string{"garbage", "no-time", "ok"}; !slices.Equal(rx.acked, want) {
		t.Fatalf("expected acks %v, got %v", want, rx.acked)
	}

	records, err := repo.ListByTicket(context.Background(), "T-1")
	if err != nil {
		t.Fatalf("ListByTicket: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RecommendationID != "R-1" || !records[1].SubmittedAt.Equal(fixed) {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestWorkerRunRequiresDependencies(t *testing.T) {
	if err := (&Worker{}).Run(context.Background()); err == nil {
		t.Fatalf("expected error without queue and repo")
	}
}
