package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveGenerationSplitsByStatus(t *testing.T) {
	okBefore := testutil.ToFloat64(GenerationRequestsTotal.WithLabelValues("test_schema", "ok"))
	errBefore := testutil.ToFloat64(GenerationRequestsTotal.WithLabelValues("test_schema", "error"))

	ObserveGeneration("test_schema", nil, 10*time.Millisecond)
	ObserveGeneration("test_schema", errors.New("boom"), 10*time.Millisecond)
	ObserveGeneration("test_schema", errors.New("boom"), 10*time.Millisecond)

	if got := testutil.ToFloat64(GenerationRequestsTotal.WithLabelValues("test_schema", "ok")) - okBefore; got != 1 {
		t.Fatalf("expected 1 ok, got %v", got)
	}
	if got := testutil.ToFloat64(GenerationRequestsTotal.WithLabelValues("test_schema", "error")) - errBefore; got != 2 {
		t.Fatalf("expected 2 errors, got %v", got)
	}
}

func TestHandlerRendersPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncFallback("metrics_test")

	r := gin.New()
	r.GET("/metrics", Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `support_fallbacks_total{component="metrics_test"}`) {
		t.Fatalf("expected fallback counter in output")
	}
}

func TestIncFeedbackJob(t *testing.T) {
	before := testutil.ToFloat64(FeedbackJobsTotal.WithLabelValues("dropped"))
	IncFeedbackJob("dropped")
	if got := testutil.ToFloat64(FeedbackJobsTotal.WithLabelValues("dropped")) - before; got != 1 {
		t.Fatalf("expected 1 dropped, got %v", got)
	}
}
