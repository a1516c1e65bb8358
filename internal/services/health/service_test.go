package health

import (
	"context"
	"errors"
	"testing"
)

type stubPinger struct{ err error }

func (s stubPinger) PingContext(ctx context.Context) error {
	_ = ctx
	return s.err
}

func TestStatusWithoutChecks(t *testing.T) {
	status := NewService(nil).Status(context.Background())
	if status["ok"] != true {
		t.Fatalf("expected ok, got %v", status)
	}
	if _, ok := status["dependencies"]; ok {
		t.Fatalf("expected no dependencies section")
	}
}

func TestStatusReportsFailingDependency(t *testing.T) {
	svc := NewService(map[string]Pinger{
		"database": stubPinger{},
		"redis":    stubPinger{err: errors.New("refused")},
		"skipped":  nil,
	})
	status := svc.Status(context.Background())
	if status["ok"] != false {
		t.Fatalf("expected not ok, got %v", status)
	}
	deps := status["dependencies"].(map[string]string)
	if deps["database"] != "up" || deps["redis"] != "down" || len(deps) != 2 {
		t.Fatalf("unexpected dependencies %v", deps)
	}
}
