package promptstyle

import (
	"strings"
	"testing"
)

func TestDefaultCatalogHasFourStyles(t *testing.T) {
	t.Parallel()

	c := Default()
	want := []string{"detailed", "creative", "technical", "conversational"}
	got := c.Names()
	if len(got) != len(want) {
		t.Fatalf("names=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names[%d]=%q want %q", i, got[i], want[i])
		}
	}
	if c.Default != "detailed" {
		t.Fatalf("default=%q", c.Default)
	}
}

func TestInstructionsRendersGuidance(t *testing.T) {
	t.Parallel()

	out := Default().Instructions("Technical")
	if !strings.HasPrefix(out, "The enhanced prompt should be:\n- Precise and technical in nature") {
		t.Fatalf("unexpected instructions: %q", out)
	}
	if n := strings.Count(out, "\n- "); n != 6 {
		t.Fatalf("expected 6 guidance lines, got %d", n)
	}

	fallback := Default().Instructions("unknown")
	if !strings.Contains(fallback, "Extremely detailed and comprehensive") {
		t.Fatalf("unknown style should fall back to default: %q", fallback)
	}
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing default": "default: nope\nstyles:\n  - name: a\n    guidance: [x]\n",
		"duplicate":       "default: a\nstyles:\n  - name: a\n    guidance: [x]\n  - name: A\n    guidance: [y]\n",
		"no guidance":     "default: a\nstyles:\n  - name: a\n",
		"bad yaml":        "default: [",
	}
	for name, raw := range cases {
		if _, err := Parse([]byte(raw)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestApplySystemIsIdempotent(t *testing.T) {
	t.Parallel()

	once := ApplySystem("You are a prompt analysis expert.", "json")
	if !strings.HasPrefix(once, marker) {
		t.Fatalf("missing marker: %q", once)
	}
	if twice := ApplySystem(once, "json"); twice != once {
		t.Fatalf("ApplySystem not idempotent")
	}
	if ApplySystem("   ", "text") != "" {
		t.Fatalf("blank system should stay blank")
	}
}
