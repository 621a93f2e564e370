package category

import (
	"testing"
)

func TestBest_EmptyCategories(t *testing.T) {
	if got := Best("VPN drops", nil, DefaultCutoff, 137); got != 137 {
		t.Errorf("expected fallback 137 for empty categories, got %d", got)
	}
	if got := Best("VPN drops", map[string]int{}, DefaultCutoff, 137); got != 137 {
		t.Errorf("expected fallback 137 for empty map, got %d", got)
	}
}

func TestBest_ExactMatch(t *testing.T) {
	categories := map[string]int{
		"Hardware":   137,
		"Software":   155,
		"Networking": 162,
	}
	if got := Best("Networking", categories, DefaultCutoff, 0); got != 162 {
		t.Errorf("expected exact match 162, got %d", got)
	}
}

func TestBest_CloseMatch(t *testing.T) {
	categories := map[string]int{
		"Hardware":   137,
		"Software":   155,
		"Networking": 162,
	}
	if got := Best("Network", categories, DefaultCutoff, 0); got != 162 {
		t.Errorf("expected Networking (162) for 'Network', got %d", got)
	}
}

func TestBest_BelowCutoffReturnsFallback(t *testing.T) {
	categories := map[string]int{
		"Hardware": 137,
		"Software": 155,
	}
	got := Best("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", categories, DefaultCutoff, 999)
	if got != 999 {
		t.Errorf("expected fallback 999 below cutoff, got %d", got)
	}
}

func TestBest_Deterministic(t *testing.T) {
	// Two names equidistant from the summary: the lexicographically smaller
	// one must win on every run despite map iteration order.
	categories := map[string]int{
		"Printer A": 10,
		"Printer B": 20,
	}
	first := Best("Printer", categories, DefaultCutoff, 0)
	for i := 0; i < 50; i++ {
		if got := Best("Printer", categories, DefaultCutoff, 0); got != first {
			t.Fatalf("non-deterministic result: %d then %d", first, got)
		}
	}
	if first != 10 {
		t.Errorf("expected tie to go to \"Printer A\" (10), got %d", first)
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1},
		{"", "", 1},
		{"abc", "xyz", 0},
	}
	for _, tc := range cases {
		if got := Similarity(tc.a, tc.b); got != tc.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}

	if got := Similarity("abcd", "abcx"); got != 0.75 {
		t.Errorf("Similarity(abcd, abcx) = %v, want 0.75", got)
	}
}
