package manuals

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoSaveUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	m := Manual{
		ID:          "manual-1",
		Name:        "Guide",
		Status:      StatusReady,
		Sections:    []Section{{ID: "section-1", Title: "Intro", Keywords: []string{}, Priority: PriorityLow}},
		UploadedAt:  now,
		ProcessedAt: now,
	}

	mock.ExpectExec("INSERT INTO manuals .* ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(m.ID, m.Name, "ready", sqlmock.AnyArg(), now, now, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), m); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesSections(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "name", "status", "sections", "uploaded_at", "processed_at", "source_key"}).
		AddRow("manual-1", "Guide", "ready", []byte(`[{"id":"section-1","title":"Intro","content":"c","category":"General","keywords":["a"],"priority":"high"}]`), now, now, "manual-1/abc_guide.txt")
	mock.ExpectQuery("SELECT (.+) FROM manuals").WithArgs("manual-1").WillReturnRows(rows)

	m, err := repo.Get(context.Background(), "manual-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Status != StatusReady || len(m.Sections) != 1 || m.Sections[0].Priority != PriorityHigh {
		t.Fatalf("unexpected manual %+v", m)
	}
	if m.SourceKey != "manual-1/abc_guide.txt" {
		t.Fatalf("unexpected source key %q", m.SourceKey)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT (.+) FROM manuals").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListOrdersByCreation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "status", "sections", "uploaded_at", "processed_at", "source_key"}).
		AddRow("m-1", "A", "ready", []byte(`[]`), now, now, nil).
		AddRow("m-2", "B", "error", []byte(`[]`), now, now, nil)
	mock.ExpectQuery("SELECT (.+) FROM manuals\\s+ORDER BY created_at ASC").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	list, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "m-1" || list[1].Status != StatusError {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestPGRepoDeleteReportsRowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM manuals").WithArgs("m-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM manuals").WithArgs("m-1").WillReturnResult(sqlmock.NewResult(0, 0))

	repo := &PGRepo{DB: db}
	first, err := repo.Delete(context.Background(), "m-1")
	if err != nil || !first {
		t.Fatalf("expected first delete true, got %v (%v)", first, err)
	}
	second, err := repo.Delete(context.Background(), "m-1")
	if err != nil || second {
		t.Fatalf("expected second delete false, got %v (%v)", second, err)
	}
}
