package executor

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestExecute(t *testing.T) {
	if !Available("sh") {
		t.Skip("sh not available")
	}
	out, err := New().Execute(context.Background(), "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "hello" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestExecute_IncludesStderr(t *testing.T) {
	if !Available("sh") {
		t.Skip("sh not available")
	}
	_, err := New().Execute(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected stderr in the error, got %v", err)
	}
}

func TestExecuteInDir(t *testing.T) {
	if !Available("sh") {
		t.Skip("sh not available")
	}
	dir := t.TempDir()
	if err := os.WriteFile(dir+"/marker.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := New().ExecuteInDir(context.Background(), dir, "sh", "-c", "ls")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "marker.txt") {
		t.Fatalf("command did not run in %s: %q", dir, out)
	}
}

func TestAvailable_Missing(t *testing.T) {
	if Available("definitely-not-a-real-binary-name") {
		t.Fatalf("expected a missing binary to be unavailable")
	}
}
