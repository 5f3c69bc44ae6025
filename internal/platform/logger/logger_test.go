package logger

import (
	"strings"
	"testing"
)

func TestScrubRedactsSecrets(t *testing.T) {
	out := scrub([]any{"api_key", "sk-or-123", "model", "m1", "user_id", "u-1"})
	if len(out) != 6 {
		t.Fatalf("len=%d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("api_key not redacted: %v", out[1])
	}
	if out[3] != "m1" {
		t.Fatalf("model changed: %v", out[3])
	}
	if s, _ := out[5].(string); len(s) != len("hash:")+12 {
		t.Fatalf("user_id not hashed: %v", out[5])
	}
}

func TestScrubClipsStudyText(t *testing.T) {
	long := strings.Repeat("a", maxTextRunes+10)
	out := scrub([]any{"prompt", long, "route", long})
	s, _ := out[1].(string)
	if !strings.HasSuffix(s, "...(+10 chars)") {
		t.Fatalf("prompt not clipped: %q", s[len(s)-20:])
	}
	if out[3] != long {
		t.Fatalf("non-text key clipped")
	}
}

func TestScrubNestedMap(t *testing.T) {
	out := scrub([]any{"headers", map[string]any{"Authorization": "Bearer x", "accept": "json"}})
	m, _ := out[1].(map[string]any)
	if m["Authorization"] != "[REDACTED]" || m["accept"] != "json" {
		t.Fatalf("unexpected: %v", m)
	}
}

func TestScrubOddLength(t *testing.T) {
	out := scrub([]any{"status", 200, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("unexpected: %v", out)
	}
}

func TestNewTestModeIsQuiet(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("discarded", "k", "v")
	l.With("service", "x").Warn("discarded")
}
