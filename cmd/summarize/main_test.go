package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/ingest"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/summary"
	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
	"github.com/johnquangdev/meeting-summarizer/pkg/jwt"
)

func newService() meeting.Service {
	return meeting.NewMeetingService(
		ingest.NewService(nil, nil, 0, nil),
		summary.NewSummarizer(ai.NewMockGenerator(), summary.DefaultConfig()),
		repository.NewMemoryMeetingRepository(),
		nil, 50, nil,
	)
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-title", "Sync", "-format", "json", "-save", "a.txt", "b.pdf"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.title != "Sync" || opts.format != formatJSON || !opts.save || len(opts.files) != 2 {
		t.Fatalf("unexpected options %+v", opts)
	}

	if _, err := parseFlags([]string{"-format", "xml"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestBuildInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weekly-sync.txt")
	os.WriteFile(path, []byte("hello"), 0o644)

	in, err := buildInput(&options{files: []string{path}}, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if in.Title != "weekly-sync" || len(in.Files) != 1 || in.Files[0].Name != "weekly-sync.txt" {
		t.Fatalf("unexpected input %+v", in)
	}

	in, err = buildInput(&options{files: []string{"-"}}, strings.NewReader("from stdin"))
	if err != nil {
		t.Fatalf("build stdin: %v", err)
	}
	if string(in.Files[0].Data) != "from stdin" || in.Title != "" {
		t.Fatalf("unexpected stdin input %+v", in)
	}

	if _, err := buildInput(&options{files: []string{filepath.Join(dir, "missing.txt")}}, nil); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestSummarizeOnce(t *testing.T) {
	cfg := &config.Config{}
	var stdout, stderr bytes.Buffer

	code := summarizeOnce(context.Background(), newService(), cfg,
		&options{format: formatJSON}, meeting.Input{Title: "Sync", Text: "Alice will send the report."}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}

	var out map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if out["title"] != "Sync" {
		t.Fatalf("unexpected title %v", out["title"])
	}
	if _, ok := out["transcript"]; ok {
		t.Fatalf("transcript must be opt-in")
	}
	if _, ok := out["id"]; ok {
		t.Fatalf("unsaved results carry no id")
	}
}

func TestSummarizeOnce_NoTranscript(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := summarizeOnce(context.Background(), newService(), &config.Config{},
		&options{format: formatYAML}, meeting.Input{Text: "  "}, &stdout, &stderr)
	if code != exitNoTranscript {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(stderr.String(), "No transcript found") || stdout.Len() != 0 {
		t.Fatalf("unexpected output %q / %q", stdout.String(), stderr.String())
	}
}

func TestSummarizeFile_WritesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "standup.md")
	os.WriteFile(path, []byte("Bob will fix the build."), 0o644)

	if err := summarizeFile(context.Background(), newService(), &config.Config{}, false, path, nil); err != nil {
		t.Fatalf("summarize file: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "standup.summary.yaml"))
	if err != nil {
		t.Fatalf("summary file missing: %v", err)
	}
	var out output
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if out.Title != "standup" || !strings.Contains(out.Summary, "Bob will fix the build.") {
		t.Fatalf("unexpected summary %+v", out)
	}
}

func TestRender(t *testing.T) {
	m := entities.NewMeetingResult("t", "the transcript", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	m.ActionItems = []entities.ActionItem{{Assignee: "Alice", Task: "send", DueDate: "Friday"}}

	y, err := render(m, formatYAML, true)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	for _, want := range []string{"title: t", "assignee: Alice", "transcript: the transcript", "decisions: []"} {
		if !strings.Contains(string(y), want) {
			t.Fatalf("expected %q in:\n%s", want, y)
		}
	}

	if _, err := render(m, "xml", false); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func TestSummaryPath(t *testing.T) {
	if got := summaryPath(filepath.Join("inbox", "call.mp3")); got != filepath.Join("inbox", "call.summary.yaml") {
		t.Fatalf("unexpected path %s", got)
	}
}

func TestRun_IssueToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	var stdout, stderr bytes.Buffer

	if code := run([]string{"-issue-token", "ci-bot"}, nil, &stdout, &stderr); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}
	claims, err := jwt.NewManager("cli-secret", time.Hour, "").Validate(strings.TrimSpace(stdout.String()))
	if err != nil || claims.Subject != "ci-bot" {
		t.Fatalf("issued token does not validate: %v", err)
	}
}

func TestRun_EmptyTextExitsTwo(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "mock")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("OCR_ENABLED", "false")
	var stdout, stderr bytes.Buffer

	if code := run([]string{"-text", "   "}, nil, &stdout, &stderr); code != exitNoTranscript {
		t.Fatalf("expected exit 2, got %d: %s", code, stderr.String())
	}
}
