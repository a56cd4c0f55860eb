package summary

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// NoSummary stands in for the summary of a blank, unparseable response
const NoSummary = "No summary available."

// MaxScanBytes bounds how much of a response is searched for an embedded object
const MaxScanBytes = 1 << 20

// Extract is the decoded form of one generation response
type Extract struct {
	Summary        string                `json:"summary"`
	Decisions      []string              `json:"decisions"`
	ActionItems    []entities.ActionItem `json:"action_items"`
	ImportantDates []string              `json:"important_dates"`
	OtherNotes     []string              `json:"other_notes"`

	// Degraded is set when no object could be parsed and Summary holds the raw text
	Degraded bool `json:"-"`
}

func emptyExtract() Extract {
	return Extract{
		Decisions:      []string{},
		ActionItems:    []entities.ActionItem{},
		ImportantDates: []string{},
		OtherNotes:     []string{},
	}
}

// Coerce turns arbitrary backend output into an Extract. It never fails:
// strict JSON, fenced JSON and JSON embedded in prose are parsed, anything
// else degrades to a summary-only Extract holding the trimmed text.
func Coerce(raw string) Extract {
	return coerceBounded(raw, MaxScanBytes)
}

// Cacheable reports whether a reply coerces without degrading, so serving it
// again yields the same structured result
func Cacheable(raw string) bool {
	return strings.TrimSpace(raw) != "" && !Coerce(raw).Degraded
}

func coerceBounded(raw string, maxScan int) Extract {
	trimmed := strings.TrimSpace(raw)
	content := stripFence(trimmed)

	if obj, ok := parseObject(content); ok {
		return fromMap(obj)
	}
	if obj, ok := parseObject(embeddedObject(content, maxScan)); ok {
		return fromMap(obj)
	}

	out := emptyExtract()
	out.Degraded = true
	out.Summary = trimmed
	if out.Summary == "" {
		out.Summary = NoSummary
	}
	return out
}

// CoerceValue accepts either decoded JSON (a map) or raw text
func CoerceValue(v any) Extract {
	switch val := v.(type) {
	case map[string]any:
		return fromMap(val)
	case Extract:
		return fromMap(val.Map())
	case *Extract:
		if val == nil {
			return Coerce("")
		}
		return fromMap(val.Map())
	case string:
		return Coerce(val)
	case []byte:
		return Coerce(string(val))
	case nil:
		return Coerce("")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return Coerce(fmt.Sprint(val))
		}
		return Coerce(string(b))
	}
}

// Map re-serializes the extract into the shape produced by decoding JSON
func (e Extract) Map() map[string]any {
	items := make([]any, 0, len(e.ActionItems))
	for _, item := range e.ActionItems {
		items = append(items, map[string]any{
			"assignee": item.Assignee,
			"task":     item.Task,
			"due_date": item.DueDate,
		})
	}
	return map[string]any{
		"summary":         e.Summary,
		"decisions":       toAnySlice(e.Decisions),
		"action_items":    items,
		"important_dates": toAnySlice(e.ImportantDates),
		"other_notes":     toAnySlice(e.OtherNotes),
	}
}

// stripFence removes a surrounding Markdown code fence, with or without a language tag
func stripFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl != -1 && !strings.ContainsAny(content[:nl], "{[") {
		content = content[nl+1:]
	}
	if idx := strings.LastIndex(content, "```"); idx != -1 {
		content = content[:idx]
	}
	return strings.TrimSpace(content)
}

// embeddedObject returns the span from the first '{' to the last '}' within
// the first maxScan bytes, or "" when there is none.
func embeddedObject(content string, maxScan int) string {
	if maxScan > 0 && len(content) > maxScan {
		content = content[:maxScan]
	}
	start := strings.IndexByte(content, '{')
	if start == -1 {
		return ""
	}
	end := strings.LastIndexByte(content, '}')
	if end <= start {
		return ""
	}
	return content[start : end+1]
}

func parseObject(content string) (map[string]any, bool) {
	if content == "" || content[0] != '{' {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func fromMap(m map[string]any) Extract {
	out := emptyExtract()
	out.Summary = strings.TrimSpace(stringify(m["summary"]))
	out.Decisions = stringList(m["decisions"])
	out.ImportantDates = stringList(m["important_dates"])
	out.OtherNotes = stringList(m["other_notes"])
	out.ActionItems = actionItems(m["action_items"])
	return out
}

func actionItems(v any) []entities.ActionItem {
	list, ok := v.([]any)
	if !ok {
		return []entities.ActionItem{}
	}
	items := make([]entities.ActionItem, 0, len(list))
	for _, raw := range list {
		switch item := raw.(type) {
		case map[string]any:
			items = append(items, entities.ActionItem{
				Assignee: strings.TrimSpace(firstString(item, "assignee", "owner")),
				Task:     strings.TrimSpace(firstString(item, "task", "title", "description")),
				DueDate:  strings.TrimSpace(firstString(item, "due_date", "due")),
			})
		case string:
			if task := strings.TrimSpace(item); task != "" {
				items = append(items, entities.ActionItem{Task: task})
			}
		}
	}
	return items
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringify(m[k]); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// stringList accepts a list or a lone string; non-string entries are
// stringified and blank entries dropped.
func stringList(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []any:
		for _, entry := range val {
			if s := strings.TrimSpace(stringify(entry)); s != "" {
				out = append(out, s)
			}
		}
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, p := range val {
			if s := strings.TrimSpace(stringify(p)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func toAnySlice(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
