package health

import (
	"context"
	"time"
)

const checkTimeout = 2 * time.Second

// Pinger is any dependency that can report liveness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports process and dependency health.
type Service struct {
	checks map[string]Pinger
}

// NewService constructs a health service. Nil checks are skipped.
func NewService(checks map[string]Pinger) *Service {
	live := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			live[name] = p
		}
	}
	return &Service{checks: live}
}

// Status returns ok=false when any registered dependency fails its ping.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true}
	if s == nil || len(s.checks) == 0 {
		return out
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	deps := make(map[string]string, len(s.checks))
	for name, p := range s.checks {
		if err := p.PingContext(ctx); err != nil {
			deps[name] = "down"
			out["ok"] = false
			continue
		}
		deps[name] = "up"
	}
	out["dependencies"] = deps
	return out
}
