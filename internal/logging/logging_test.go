package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if diff := cmp.Diff(want, ParseLevel(in)); diff != "" {
			t.Errorf("ParseLevel(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestNewFormats(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, "info", "json").Info("scan stored", "chat_id", 7)

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("output is not json: %v\n%s", err, buf.String())
		}
		if diff := cmp.Diff("scan stored", rec["msg"]); diff != "" {
			t.Errorf("msg mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("text filters by level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, "warn", "text")
		log.Info("hidden")
		log.Warn("shown")
		out := buf.String()
		if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
			t.Errorf("unexpected output:\n%s", out)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf, "debug", "pretty").Debug("decoding", "job_id", "abc")
		if !strings.Contains(buf.String(), "decoding") {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})
}
