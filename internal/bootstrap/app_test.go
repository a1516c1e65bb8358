package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"support-backend/internal/llm"
	"support-backend/internal/recommendations"
	"support-backend/internal/shared/config"
)

func TestBuildDevDefaultsToMemory(t *testing.T) {
	app, err := Build(context.Background(), config.Config{
		Env:           "dev",
		APIBasePath:   "/api",
		LLMProvider:   "none",
		LocalStoreDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close()

	if app.DB != nil || app.Redis != nil || app.Queue != nil || app.Helpdesk != nil {
		t.Fatalf("expected optional dependencies to stay unset")
	}
	if _, ok := app.LLM.(llm.Unconfigured); !ok {
		t.Fatalf("expected unconfigured generator, got %T", app.LLM)
	}
	if _, ok := app.RecommendationStore.(*recommendations.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", app.RecommendationStore)
	}

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/manuals", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	_, err := Build(context.Background(), config.Config{Env: "production", LLMProvider: "none"})
	if err == nil {
		t.Fatalf("expected error without DATABASE_URL in production")
	}
}

func TestBuildRejectsS3WithoutBucket(t *testing.T) {
	_, err := Build(context.Background(), config.Config{Env: "dev", ObjectStoreType: "s3", LLMProvider: "none"})
	if err == nil {
		t.Fatalf("expected error for s3 without bucket")
	}
}

func TestBuildFallsBackWhenOpenAIKeyMissingInDev(t *testing.T) {
	app, err := Build(context.Background(), config.Config{Env: "dev", LLMProvider: "openai", LLMModel: "gpt-4o-mini", LocalStoreDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := app.LLM.(llm.Unconfigured); !ok {
		t.Fatalf("expected unconfigured generator, got %T", app.LLM)
	}
}
