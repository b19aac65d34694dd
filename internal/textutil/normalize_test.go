package textutil

import "testing"

func TestNormalizeCollapsesAndLowercases(t *testing.T) {
	got := Normalize("  Follow\tup  with   QA\n")
	if got != "follow up with qa" {
		t.Fatalf("unexpected normalized value: %q", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize("   \t\n"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken("Jane O'Neill"); got != "jane_o_neill" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := SanitizeToken("Weekly Sync: Q3"); got != "weekly_sync__q3" {
		t.Fatalf("unexpected token: %q", got)
	}
	if got := SanitizeToken("  "); got != "unknown" {
		t.Fatalf("expected unknown for blank input, got %q", got)
	}
	if got := SanitizeToken("__--"); got != "unknown" {
		t.Fatalf("expected unknown when nothing usable remains, got %q", got)
	}
}
