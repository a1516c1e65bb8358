package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func TestInfoWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Info("manual.processed", map[string]any{"manual_id": "manual-1", "sections": 3})

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if line["level"] != "info" || line["msg"] != "manual.processed" {
		t.Fatalf("unexpected line: %#v", line)
	}
	if line["manual_id"] != "manual-1" {
		t.Fatalf("expected manual_id field, got %#v", line["manual_id"])
	}
	if _, ok := line["ts"]; !ok {
		t.Fatalf("expected timestamp field")
	}
}

func TestErrorKeepsMessageFieldApart(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	Error("http.error", map[string]any{"status": 404, "message": "Manual not found"})

	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if line["msg"] != "http.error" {
		t.Fatalf("expected event name under msg, got %#v", line["msg"])
	}
	if line["message"] != "Manual not found" {
		t.Fatalf("expected error text under message, got %#v", line["message"])
	}
	if n := bytes.Count(buf.Bytes(), []byte(`"message":`)); n != 1 {
		t.Fatalf("expected one message key, got %d in %q", n, buf.String())
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("nonsense"); got.String() != "info" {
		t.Fatalf("expected info, got %s", got)
	}
	if got := parseLevel("WARN"); got.String() != "warn" {
		t.Fatalf("expected warn, got %s", got)
	}
}
