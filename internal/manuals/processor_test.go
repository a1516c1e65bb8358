package manuals

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"support-backend/internal/llm"
	localstore "support-backend/internal/shared/storage/object/local"
)

func TestProcessManualTextSingleChunk(t *testing.T) {
	gen := &scriptedGenerator{objects: []string{
		`{"title":"Password Reset","content":"Reset via email link.","category":"Account","keywords":["password","reset"],"priority":"high"}`,
	}}
	p := newTestProcessor(gen)

	m, err := p.ProcessManualText(context.Background(), "m-1", "Support Guide", "Reset via email link.\n\nConfirm identity first.\n\nLog the ticket.")
	if err != nil {
		t.Fatalf("ProcessManualText: %v", err)
	}
	if m.Status != StatusReady {
		t.Fatalf("expected ready, got %s", m.Status)
	}
	if len(m.Sections) != 1 || m.Sections[0].ID != "section-1" {
		t.Fatalf("expected one section-1, got %+v", m.Sections)
	}
	if m.Sections[0].Title != "Password Reset" || m.Sections[0].Priority != PriorityHigh {
		t.Fatalf("unexpected section %+v", m.Sections[0])
	}
	if !strings.Contains(gen.prompts[0], "Confirm identity first.") {
		t.Fatalf("expected chunk text in prompt")
	}
}

func TestProcessManualTextTwoChunksWithFallback(t *testing.T) {
	gen := &scriptedGenerator{objects: []string{
		`{"title":"Billing","content":"a","category":"Billing","keywords":["invoice"],"priority":"medium"}`,
		"",
	}}
	p := newTestProcessor(gen)

	a := strings.Repeat("a", 1500)
	b := strings.Repeat("b", 1500)
	m, err := p.ProcessManualText(context.Background(), "m-2", "Guide", a+"\n\n"+b)
	if err != nil {
		t.Fatalf("ProcessManualText: %v", err)
	}
	if len(m.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(m.Sections))
	}
	second := m.Sections[1]
	if second.ID != "section-2" || second.Title != "Section 2" || second.Category != "General" {
		t.Fatalf("unexpected fallback section %+v", second)
	}
	if second.Content != b || second.Priority != PriorityMedium || len(second.Keywords) != 0 {
		t.Fatalf("fallback section should carry the raw chunk, got %+v", second)
	}
}

func TestProcessManualTextUnconfiguredUsesFallbackSections(t *testing.T) {
	p := newTestProcessor(llm.Unconfigured{})

	m, err := p.ProcessManualText(context.Background(), "m-3", "Guide", "Only paragraph.")
	if err != nil {
		t.Fatalf("ProcessManualText: %v", err)
	}
	if m.Status != StatusReady || len(m.Sections) != 1 || m.Sections[0].Title != "Section 1" {
		t.Fatalf("unexpected manual %+v", m)
	}
}

func TestProcessManualTextCanceledStoresError(t *testing.T) {
	p := newTestProcessor(llm.Unconfigured{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, err := p.ProcessManualText(ctx, "m-4", "Guide", "para one\n\npara two")
	if err != nil {
		t.Fatalf("ProcessManualText: %v", err)
	}
	if m.Status != StatusError || len(m.Sections) != 0 {
		t.Fatalf("expected error status with no sections, got %+v", m)
	}
	stored, err := p.GetManual(context.Background(), "m-4")
	if err != nil || stored.Status != StatusError {
		t.Fatalf("expected stored error manual, got %+v (%v)", stored, err)
	}
}

func TestProcessManualTextOverwritesSameID(t *testing.T) {
	p := newTestProcessor(llm.Unconfigured{})
	ctx := context.Background()

	if _, err := p.ProcessManualText(ctx, "m-1", "First", "one"); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := p.ProcessManualText(ctx, "m-2", "Other", "two"); err != nil {
		t.Fatalf("other: %v", err)
	}
	if _, err := p.ProcessManualText(ctx, "m-1", "Second", "three"); err != nil {
		t.Fatalf("second: %v", err)
	}

	all, err := p.GetAllManuals(ctx)
	if err != nil {
		t.Fatalf("GetAllManuals: %v", err)
	}
	if len(all) != 2 || all[0].ID != "m-1" || all[0].Name != "Second" {
		t.Fatalf("expected overwritten manual in original position, got %+v", all)
	}
}

func TestDeleteManualReportsExistence(t *testing.T) {
	p := newTestProcessor(llm.Unconfigured{})
	ctx := context.Background()
	if _, err := p.ProcessManualText(ctx, "m-1", "Guide", "text"); err != nil {
		t.Fatalf("ProcessManualText: %v", err)
	}

	first, err := p.DeleteManual(ctx, "m-1")
	if err != nil || !first {
		t.Fatalf("expected first delete true, got %v (%v)", first, err)
	}
	second, err := p.DeleteManual(ctx, "m-1")
	if err != nil || second {
		t.Fatalf("expected second delete false, got %v (%v)", second, err)
	}
}

func TestGetAllManualsIsIdempotent(t *testing.T) {
	p := newTestProcessor(llm.Unconfigured{})
	ctx := context.Background()
	_, _ = p.ProcessManualText(ctx, "m-1", "A", "alpha")
	_, _ = p.ProcessManualText(ctx, "m-2", "B", "beta")

	first, _ := p.GetAllManuals(ctx)
	second, _ := p.GetAllManuals(ctx)
	if len(first) != len(second) {
		t.Fatalf("expected equal listings")
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Name != second[i].Name || len(first[i].Sections) != len(second[i].Sections) {
			t.Fatalf("listing differs at %d", i)
		}
	}
}

func TestUploadManualArchivesAndProcesses(t *testing.T) {
	store := localstore.New(t.TempDir())
	p := NewProcessor(NewMemoryRepo(), llm.Unconfigured{}, store, 0)
	ctx := context.Background()

	m, err := p.UploadManual(ctx, Upload{FileName: "guide.txt", ContentType: "text/plain", Data: []byte("Reboot the modem.")})
	if err != nil {
		t.Fatalf("UploadManual: %v", err)
	}
	if !strings.HasPrefix(m.ID, "manual-") {
		t.Fatalf("unexpected id %s", m.ID)
	}
	if m.Name != "guide.txt" {
		t.Fatalf("expected name to default to file name, got %q", m.Name)
	}
	if m.SourceKey == "" {
		t.Fatalf("expected archived source key")
	}
	rc, err := store.Open(ctx, m.SourceKey)
	if err != nil {
		t.Fatalf("Open archived: %v", err)
	}
	raw, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(raw, []byte("Reboot the modem.")) {
		t.Fatalf("unexpected archived bytes %q", raw)
	}

	if _, err := p.DeleteManual(ctx, m.ID); err != nil {
		t.Fatalf("DeleteManual: %v", err)
	}
	if _, err := store.Open(ctx, m.SourceKey); err == nil {
		t.Fatalf("expected archived source to be removed")
	}
}

func TestUploadManualRejectsEmptyContent(t *testing.T) {
	p := newTestProcessor(llm.Unconfigured{})
	_, err := p.UploadManual(context.Background(), Upload{Name: "x", FileName: "empty.txt", Data: []byte("  \n\n ")})
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}
