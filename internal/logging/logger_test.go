package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, " WARNING ": slog.LevelWarn, "error": slog.LevelError, "": slog.LevelInfo, "verbose": slog.LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWritesServiceAndRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "motogo-api", "warn")
	l.Info("dropped")
	l.Warn("kept", "ride_id", "r1")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "kept" || line["service"] != "motogo-api" || line["ride_id"] != "r1" {
		t.Fatalf("unexpected line %v", line)
	}
}
