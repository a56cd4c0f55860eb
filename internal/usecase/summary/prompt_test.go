package summary

import (
	"strings"
	"testing"
)

func TestExtractionPrompt(t *testing.T) {
	p := ExtractionPrompt("Alice: hello")

	for _, want := range []string{
		`"summary"`, `"decisions"`, `"action_items"`, `"important_dates"`, `"other_notes"`,
		`"Unassigned"`, `"—"`,
		"Never invent names, dates or numbers",
		"explicitly commits",
		"Alice: hello",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("extraction prompt is missing %q", want)
		}
	}
	if !strings.HasSuffix(p, "Alice: hello") {
		t.Errorf("the meeting text must come last")
	}
}

func TestCondensePrompt(t *testing.T) {
	p := CondensePrompt("fragment body")
	if !strings.Contains(p, "2-3 sentences") || !strings.HasSuffix(p, "fragment body") {
		t.Fatalf("unexpected condense prompt %q", p)
	}
}
