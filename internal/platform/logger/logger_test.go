package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"GOOGLE_API_KEY", "abc",
		"Authorization", "Bearer x",
		"postgres_dsn", "postgres://u:p@h/db",
		"client_ip", "10.0.0.1",
		"prompt_len", 12,
		"dangling",
	})
	if len(out) != 11 {
		t.Fatalf("len=%d want 11", len(out))
	}
	for _, i := range []int{1, 3, 5} {
		if out[i] != "[REDACTED]" {
			t.Fatalf("value %d not redacted: %v", i, out[i])
		}
	}
	ip, _ := out[7].(string)
	if !strings.HasPrefix(ip, "hash:") || strings.Contains(ip, "10.0.0.1") {
		t.Fatalf("client_ip not hashed: %q", ip)
	}
	if out[9] != 12 || out[10] != "dangling" {
		t.Fatalf("unexpected passthrough: %v", out[8:])
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New("test", "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	l, err := New("production", "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("suppressed")
	NewNop().Warn("discarded", "k", "v")
}
