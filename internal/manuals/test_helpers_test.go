package manuals

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"support-backend/internal/llm"
)

var errScripted = errors.New("scripted failure")

// scriptedGenerator returns canned responses and records prompts.
type scriptedGenerator struct {
	mu          sync.Mutex
	objects     []string
	objectErr   error
	text        string
	textErr     error
	objectCalls int
	prompts     []string
}

func (g *scriptedGenerator) GenerateObject(ctx context.Context, req llm.ObjectRequest) (json.RawMessage, error) {
	_ = ctx
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, req.Prompt)
	i := g.objectCalls
	g.objectCalls++
	if g.objectErr != nil {
		return nil, g.objectErr
	}
	if i >= len(g.objects) {
		return nil, errScripted
	}
	if g.objects[i] == "" {
		return nil, errScripted
	}
	return json.RawMessage(g.objects[i]), nil
}

func (g *scriptedGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if g.textErr != nil {
		return "", g.textErr
	}
	return g.text, nil
}

func newTestProcessor(gen llm.Generator) *Processor {
	p := NewProcessor(NewMemoryRepo(), gen, nil, 0)
	p.Now = func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func readyManual(id string, sections ...Section) Manual {
	return Manual{ID: id, Name: id, Status: StatusReady, Sections: sections}
}
