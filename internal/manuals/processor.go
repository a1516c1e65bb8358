package manuals

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"support-backend/internal/extract"
	"support-backend/internal/llm"
	"support-backend/internal/shared/metrics"
	"support-backend/internal/shared/storage/object"
	"support-backend/internal/shared/telemetry"
	"support-backend/internal/shared/util"
)

var sectionSchema = llm.Schema[extractedSection]{
	Name:        "manual_section",
	Description: "One structured section extracted from an operations manual",
}

// Processor ingests manuals and answers searches over their sections.
type Processor struct {
	Repo       Repo
	LLM        llm.Generator
	Store      object.ObjectStore
	ChunkDelay time.Duration
	Now        func() time.Time
}

// NewProcessor constructs a Processor. store may be nil.
func NewProcessor(repo Repo, gen llm.Generator, store object.ObjectStore, chunkDelay time.Duration) *Processor {
	return &Processor{
		Repo:       repo,
		LLM:        gen,
		Store:      store,
		ChunkDelay: chunkDelay,
		Now:        time.Now,
	}
}

// Upload is a raw manual file received from a client.
type Upload struct {
	Name        string
	FileName    string
	ContentType string
	Data        []byte
}

// UploadManual decodes an uploaded file, archives the raw bytes and
// processes the text under a freshly minted id.
func (p *Processor) UploadManual(ctx context.Context, up Upload) (Manual, error) {
	text, err := extract.ExtractTextFromBytes(ctx, up.Data, up.ContentType, up.FileName)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupported) {
			return Manual{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return Manual{}, fmt.Errorf("%w: decode %s: %v", ErrInvalidInput, up.FileName, err)
	}
	if strings.TrimSpace(text) == "" {
		return Manual{}, ErrEmptyContent
	}

	name := strings.TrimSpace(up.Name)
	if name == "" {
		name = up.FileName
	}
	id := p.newManualID()

	sourceKey := ""
	if p.Store != nil {
		key, size, _, err := p.Store.Save(ctx, id, up.FileName, bytes.NewReader(up.Data))
		if err != nil {
			telemetry.Warn("manual.archive_failed", map[string]any{"manual_id": id, "error": err.Error()})
		} else {
			sourceKey = key
			telemetry.Info("manual.archived", map[string]any{
				"manual_id":  id,
				"key":        key,
				"size_bytes": size,
				"checksum":   util.Checksum(up.Data),
			})
		}
	}

	return p.process(ctx, id, name, text, sourceKey)
}

// ProcessManualText splits text into sections and stores the manual under
// manualID, replacing any manual with that id. The manual is stored even
// when processing fails; only a storage failure is returned as an error.
func (p *Processor) ProcessManualText(ctx context.Context, manualID, name, text string) (Manual, error) {
	if strings.TrimSpace(manualID) == "" {
		return Manual{}, fmt.Errorf("%w: manual id is required", ErrInvalidInput)
	}
	return p.process(ctx, manualID, name, text, "")
}

func (p *Processor) process(ctx context.Context, manualID, name, text, sourceKey string) (Manual, error) {
	m := Manual{
		ID:         manualID,
		Name:       name,
		UploadedAt: p.now(),
		Status:     StatusProcessing,
		SourceKey:  sourceKey,
	}

	sections, err := p.extractSections(ctx, name, text)
	if err != nil {
		telemetry.Error("manual.process_failed", map[string]any{"manual_id": manualID, "error": err.Error()})
		m.Status = StatusError
		m.Sections = []Section{}
	} else {
		m.Status = StatusReady
		m.Sections = sections
	}
	m.ProcessedAt = p.now()

	if err := p.Repo.Save(context.WithoutCancel(ctx), m); err != nil {
		return Manual{}, fmt.Errorf("save manual %s: %w", manualID, err)
	}
	telemetry.Info("manual.processed", map[string]any{
		"manual_id": manualID,
		"status":    string(m.Status),
		"sections":  len(m.Sections),
	})
	return m, nil
}

func (p *Processor) extractSections(ctx context.Context, name, text string) (sections []Section, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			sections = nil
			err = fmt.Errorf("panic during extraction: %v", rec)
		}
	}()

	chunks := chunkText(text, maxChunkChars)
	sections = make([]Section, 0, len(chunks))
	fallbacks := 0
	for i, chunk := range chunks {
		n := i + 1
		extracted, genErr := llm.Generate(ctx, p.LLM, sectionSchema, buildExtractionPrompt(name, chunk, n, len(chunks)))
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		if genErr != nil {
			telemetry.Warn("manual.section_fallback", map[string]any{"section": n, "error": genErr.Error()})
			metrics.IncFallback("manual_section")
			fallbacks++
			sections = append(sections, fallbackSection(n, chunk, p.now()))
			continue
		}
		sections = append(sections, normalizeSection(extracted, n, chunk, p.now()))
		if err := util.Sleep(ctx, p.ChunkDelay); err != nil {
			return nil, err
		}
	}
	if fallbacks > 0 {
		telemetry.Info("manual.sections_extracted", map[string]any{"sections": len(sections), "fallbacks": fallbacks})
	}
	return sections, nil
}

func fallbackSection(n int, chunk string, now time.Time) Section {
	return Section{
		ID:          sectionID(n),
		Title:       fmt.Sprintf("Section %d", n),
		Content:     chunk,
		Category:    "General",
		Keywords:    []string{},
		Priority:    PriorityMedium,
		LastUpdated: now,
	}
}

func normalizeSection(e extractedSection, n int, chunk string, now time.Time) Section {
	s := Section{
		ID:          sectionID(n),
		Title:       strings.TrimSpace(e.Title),
		Content:     strings.TrimSpace(e.Content),
		Category:    strings.TrimSpace(e.Category),
		Keywords:    e.Keywords,
		Priority:    e.Priority,
		LastUpdated: now,
	}
	if s.Title == "" {
		s.Title = fmt.Sprintf("Section %d", n)
	}
	if s.Content == "" {
		s.Content = chunk
	}
	if s.Category == "" {
		s.Category = "General"
	}
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	switch s.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		s.Priority = PriorityMedium
	}
	return s
}

func sectionID(n int) string {
	return fmt.Sprintf("section-%d", n)
}

// GetManual returns a manual by id.
func (p *Processor) GetManual(ctx context.Context, id string) (Manual, error) {
	return p.Repo.Get(ctx, id)
}

// GetAllManuals returns every manual in insertion order.
func (p *Processor) GetAllManuals(ctx context.Context) ([]Manual, error) {
	return p.Repo.List(ctx)
}

// DeleteManual removes a manual and its archived source, reporting whether
// the manual existed.
func (p *Processor) DeleteManual(ctx context.Context, id string) (bool, error) {
	existing, err := p.Repo.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}
	deleted, err := p.Repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete manual %s: %w", id, err)
	}
	if deleted && existing.SourceKey != "" && p.Store != nil {
		if err := p.Store.Delete(ctx, existing.SourceKey); err != nil {
			telemetry.Warn("manual.archive_delete_failed", map[string]any{"manual_id": id, "error": err.Error()})
		}
	}
	return deleted, nil
}

func (p *Processor) newManualID() string {
	return fmt.Sprintf("manual-%d-%s", p.now().UnixMilli(), uuid.NewString()[:8])
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}
