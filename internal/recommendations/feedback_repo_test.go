package recommendations

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMemoryFeedbackRepoOrdersByTicket(t *testing.T) {
	repo := NewMemoryFeedbackRepo()
	ctx := context.Background()
	later := fixedNow.Add(time.Hour)

	_ = repo.Record(ctx, FeedbackRecord{TicketID: "T-1", RecommendationID: "b", SubmittedAt: later})
	_ = repo.Record(ctx, FeedbackRecord{TicketID: "T-2", RecommendationID: "x", SubmittedAt: fixedNow})
	_ = repo.Record(ctx, FeedbackRecord{TicketID: "T-1", RecommendationID: "a", SubmittedAt: fixedNow})

	got, err := repo.ListByTicket(ctx, "T-1")
	if err != nil {
		t.Fatalf("ListByTicket: %v", err)
	}
	if len(got) != 2 || got[0].RecommendationID != "a" || got[1].RecommendationID != "b" {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestPGFeedbackRepoRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	minutes := 12
	mock.ExpectExec("INSERT INTO recommendation_feedback").
		WithArgs("T-1", "R-1", 4, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := &PGFeedbackRepo{DB: db}
	err = repo.Record(context.Background(), FeedbackRecord{
		TicketID:         "T-1",
		RecommendationID: "R-1",
		Feedback:         Feedback{Effectiveness: 4, TimeToComplete: &minutes},
		SubmittedAt:      fixedNow,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGFeedbackRepoListByTicket(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"ticket_id", "recommendation_id", "effectiveness", "time_to_complete", "customer_satisfaction", "notes", "submitted_at"}).
		AddRow("T-1", "R-1", 5, int64(10), nil, "great", fixedNow).
		AddRow("T-1", "R-2", 2, nil, int64(3), nil, fixedNow)
	mock.ExpectQuery("SELECT (.+) FROM recommendation_feedback").WithArgs("T-1").WillReturnRows(rows)

	got, err := (&PGFeedbackRepo{DB: db}).ListByTicket(context.Background(), "T-1")
	if err != nil {
		t.Fatalf("ListByTicket: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if *got[0].Feedback.TimeToComplete != 10 || got[0].Feedback.CustomerSatisfaction != nil || got[0].Feedback.Notes != "great" {
		t.Fatalf("unexpected first record %+v", got[0].Feedback)
	}
	if got[1].Feedback.TimeToComplete != nil || *got[1].Feedback.CustomerSatisfaction != 3 {
		t.Fatalf("unexpected second record %+v", got[1].Feedback)
	}
}
