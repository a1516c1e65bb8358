package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"support-backend/internal/shared/metrics"
)

// Source tags whether a value came from the model or from a deterministic fallback.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceFallback  Source = "fallback"
)

// ObjectRequest asks a provider for a value conforming to Schema.
type ObjectRequest struct {
	Name        string
	Description string
	Schema      *jsonschema.Definition
	Prompt      string
}

// Generator abstracts structured-generation providers.
type Generator interface {
	GenerateObject(ctx context.Context, req ObjectRequest) (json.RawMessage, error)
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by Unconfigured.
var ErrNotConfigured = errors.New("llm provider not configured")

// GenerationError wraps any failure to produce a schema-conforming value.
type GenerationError struct {
	Schema string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Schema, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Schema names the target type of a structured generation.
type Schema[T any] struct {
	Name        string
	Description string
}

// Definition derives the JSON schema for T.
func (s Schema[T]) Definition() (*jsonschema.Definition, error) {
	var zero T
	return jsonschema.GenerateSchemaForType(zero)
}

// Generate asks gen for a value of type T and decodes it.
// Every failure is returned as a *GenerationError.
func Generate[T any](ctx context.Context, gen Generator, schema Schema[T], prompt string) (T, error) {
	var out T
	start := time.Now()
	err := generateInto(ctx, gen, schema, prompt, &out)
	metrics.ObserveGeneration(schema.Name, err, time.Since(start))
	if err != nil {
		var zero T
		return zero, &GenerationError{Schema: schema.Name, Err: err}
	}
	return out, nil
}

// GenerateText asks gen for a free-text completion.
func GenerateText(ctx context.Context, gen Generator, prompt string) (string, error) {
	if gen == nil {
		gen = Unconfigured{}
	}
	start := time.Now()
	text, err := gen.GenerateText(ctx, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty completion")
	}
	metrics.ObserveGeneration("text", err, time.Since(start))
	if err != nil {
		return "", &GenerationError{Schema: "text", Err: err}
	}
	return text, nil
}

func generateInto[T any](ctx context.Context, gen Generator, schema Schema[T], prompt string, out *T) error {
	if gen == nil {
		gen = Unconfigured{}
	}
	def, err := schema.Definition()
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	raw, err := gen.GenerateObject(ctx, ObjectRequest{
		Name:        schema.Name,
		Description: schema.Description,
		Schema:      def,
		Prompt:      prompt,
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(stripCodeFence(raw), out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func stripCodeFence(raw []byte) []byte {
	s := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return []byte(strings.TrimSpace(s))
}

// Unconfigured always fails, so callers take their fallback path.
type Unconfigured struct{}

// GenerateObject returns ErrNotConfigured.
func (Unconfigured) GenerateObject(ctx context.Context, req ObjectRequest) (json.RawMessage, error) {
	_ = ctx
	_ = req
	return nil, ErrNotConfigured
}

// GenerateText returns ErrNotConfigured.
func (Unconfigured) GenerateText(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
