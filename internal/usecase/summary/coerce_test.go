package summary

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func assertComplete(t *testing.T, e Extract) {
	t.Helper()
	if e.Decisions == nil || e.ActionItems == nil || e.ImportantDates == nil || e.OtherNotes == nil {
		t.Fatalf("list fields must never be nil: %+v", e)
	}
	m := e.Map()
	for _, key := range []string{"summary", "decisions", "action_items", "important_dates", "other_notes"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("missing key %s", key)
		}
	}
}

func TestCoerce_Totality(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantSummary  string
		wantDegraded bool
	}{
		{"strict json", `{"summary":"Budget approved.","decisions":["approve budget"]}`, "Budget approved.", false},
		{"json in prose", `Here is the JSON you asked for: {"summary":"We met."} Hope it helps!`, "We met.", false},
		{"fenced json", "```json\n{\"summary\":\"Fenced.\"}\n```", "Fenced.", false},
		{"bare fence", "```\n{\"summary\":\"Bare.\"}\n```", "Bare.", false},
		{"null lists", `{"summary":"x","decisions":null,"action_items":null}`, "x", false},
		{"plain prose", "  The team discussed the roadmap.  ", "The team discussed the roadmap.", true},
		{"empty", "", NoSummary, true},
		{"whitespace", " \n\t ", NoSummary, true},
		{"top-level array", `["a","b"]`, `["a","b"]`, true},
		{"broken json", `{"summary": "unterminated`, `{"summary": "unterminated`, true},
		{"braces reversed", "} nothing {", "} nothing {", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.in)
			assertComplete(t, got)
			if got.Summary != tt.wantSummary {
				t.Fatalf("summary = %q, want %q", got.Summary, tt.wantSummary)
			}
			if got.Degraded != tt.wantDegraded {
				t.Fatalf("degraded = %v, want %v", got.Degraded, tt.wantDegraded)
			}
			if tt.wantDegraded && (len(got.Decisions)+len(got.ActionItems)+len(got.ImportantDates)+len(got.OtherNotes)) != 0 {
				t.Fatalf("degraded extract must have empty lists: %+v", got)
			}
		})
	}
}

func TestCoerce_FieldShapes(t *testing.T) {
	in := `{
		"summary": ["First point.", "Second point."],
		"decisions": ["ship v2", "", 42, true],
		"action_items": [
			{"assignee": "Alice", "task": "send the report", "due_date": "Friday"},
			{"owner": "Bob", "task": "book the room", "due": null},
			{"assignee": "Carol"},
			"update the wiki"
		],
		"important_dates": "2024-05-01 launch",
		"other_notes": [{"k": "v"}]
	}`
	got := Coerce(in)

	if got.Summary != "First point. Second point." {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
	if want := []string{"ship v2", "42", "true"}; !reflect.DeepEqual(got.Decisions, want) {
		t.Fatalf("decisions = %q, want %q", got.Decisions, want)
	}
	if len(got.ActionItems) != 4 {
		t.Fatalf("coercion keeps raw items, got %d", len(got.ActionItems))
	}
	if got.ActionItems[1].Assignee != "Bob" || got.ActionItems[1].DueDate != "" {
		t.Fatalf("owner alias not applied: %+v", got.ActionItems[1])
	}
	if got.ActionItems[3].Task != "update the wiki" {
		t.Fatalf("string action item not kept as task: %+v", got.ActionItems[3])
	}
	if !reflect.DeepEqual(got.ImportantDates, []string{"2024-05-01 launch"}) {
		t.Fatalf("single string must become a one-element list: %q", got.ImportantDates)
	}
	if !reflect.DeepEqual(got.OtherNotes, []string{`{"k":"v"}`}) {
		t.Fatalf("objects must be stringified: %q", got.OtherNotes)
	}
}

func TestCoerceValue_Map(t *testing.T) {
	got := CoerceValue(map[string]any{"summary": "from a map"})
	assertComplete(t, got)
	if got.Summary != "from a map" || got.Degraded {
		t.Fatalf("unexpected extract %+v", got)
	}

	if got := CoerceValue(nil); got.Summary != NoSummary {
		t.Fatalf("nil input must degrade, got %+v", got)
	}
}

func TestCoerce_LargeNonJSONIsBounded(t *testing.T) {
	in := strings.Repeat("{ this is not json at all ", 400_000)

	start := time.Now()
	got := Coerce(in)
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("coercion took %s on large input", elapsed)
	}
	assertComplete(t, got)
	if !got.Degraded {
		t.Fatalf("expected a degraded extract")
	}
}

func TestCoerce_ObjectBeyondScanWindowIsIgnored(t *testing.T) {
	in := strings.Repeat("x", 200) + `{"summary":"late"}`
	if got := coerceBounded(in, 100); !got.Degraded {
		t.Fatalf("object outside the scan window must not be parsed")
	}
	if got := coerceBounded(in, 1000); got.Summary != "late" {
		t.Fatalf("object inside the window must be parsed, got %q", got.Summary)
	}
}

func TestCoerce_Idempotent(t *testing.T) {
	inputs := []string{
		`{"summary":"s","decisions":["d1","d2"],"action_items":[{"assignee":"A","task":"t","due_date":"Monday"},{"task":"  "}],"important_dates":["May 1"],"other_notes":["n"]}`,
		`prefix {"summary":"embedded","other_notes":[1,2]} suffix`,
		"```json\n{\"summary\":\"fenced\"}\n```",
		"just prose",
		"",
	}

	for _, in := range inputs {
		x := Coerce(in)
		x.Degraded = false

		viaMap := CoerceValue(x.Map())
		if !reflect.DeepEqual(viaMap, x) {
			t.Fatalf("map round trip changed the extract:\n got %+v\nwant %+v", viaMap, x)
		}

		b, err := json.Marshal(x)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		viaJSON := Coerce(string(b))
		if !reflect.DeepEqual(viaJSON, x) {
			t.Fatalf("json round trip changed the extract:\n got %+v\nwant %+v", viaJSON, x)
		}
	}
}

func TestCacheable(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"summary":"ok"}`, true},
		{"```json\n{\"summary\":\"ok\"}\n```", true},
		{`Here you go: {"summary":"ok"} thanks`, true},
		{"Sorry, I cannot produce JSON.", false},
		{"   ", false},
	}
	for _, tt := range tests {
		if got := Cacheable(tt.raw); got != tt.want {
			t.Errorf("Cacheable(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
