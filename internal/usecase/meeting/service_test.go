package meeting

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	ucerrors "github.com/johnquangdev/meeting-summarizer/internal/usecase/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/ingest"
)

type fakeExtractor struct {
	files string
	audio string
	calls []string
}

func (f *fakeExtractor) ExtractTexts(ctx context.Context, sources []ingest.Source) string {
	f.calls = append(f.calls, "files")
	return f.files
}

func (f *fakeExtractor) TranscribeSource(ctx context.Context, src ingest.Source) string {
	f.calls = append(f.calls, "audio")
	return f.audio
}

type fakeSummarizer struct {
	err        error
	transcript string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, title, transcript string) (*entities.MeetingResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.transcript = transcript
	result := entities.NewMeetingResult(title, transcript, time.Now())
	result.Summary = "summary of " + title
	return result, nil
}

type fakeArchiver struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (f *fakeArchiver) Archive(ctx context.Context, meetingID uint64, name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, name)
	return name, nil
}

func newTestService(ext *fakeExtractor, sum *fakeSummarizer, arch Archiver) Service {
	return NewMeetingService(ext, sum, repository.NewMemoryMeetingRepository(), arch, 0, nil)
}

func TestProcess_SourcePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		want  string
		calls string
	}{
		{
			name:  "files win over audio and text",
			in:    Input{Files: []ingest.Source{{Name: "a.txt"}}, Audio: &ingest.Source{Name: "a.mp3"}, Text: "typed"},
			want:  "from files",
			calls: "files",
		},
		{
			name:  "audio wins over text",
			in:    Input{Audio: &ingest.Source{Name: "a.mp3"}, Text: "typed"},
			want:  "from audio",
			calls: "audio",
		},
		{
			name: "text alone",
			in:   Input{Text: "typed"},
			want: "typed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &fakeExtractor{files: "from files", audio: "from audio"}
			sum := &fakeSummarizer{}
			svc := newTestService(ext, sum, nil)

			result, err := svc.Process(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sum.transcript != tt.want {
				t.Fatalf("expected transcript %q, got %q", tt.want, sum.transcript)
			}
			if got := strings.Join(ext.calls, ","); got != tt.calls {
				t.Fatalf("expected extractor calls %q, got %q", tt.calls, got)
			}
			if result.ID == 0 {
				t.Fatalf("expected an assigned id")
			}
		})
	}
}

func TestProcess_TextStoredVerbatim(t *testing.T) {
	text := "  Alice: hi\n\nBob: hello  \n"
	sum := &fakeSummarizer{}
	svc := newTestService(&fakeExtractor{}, sum, nil)

	saved, err := svc.Process(context.Background(), Input{Title: "Sync", Text: text})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.transcript != text {
		t.Fatalf("summarizer received %q, want %q", sum.transcript, text)
	}

	got, err := svc.Get(context.Background(), saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Transcript != text {
		t.Fatalf("stored transcript %q, want %q", got.Transcript, text)
	}
}

func TestProcess_EmptyTranscript(t *testing.T) {
	sum := &fakeSummarizer{}
	svc := newTestService(&fakeExtractor{files: "   "}, sum, nil)

	_, err := svc.Process(context.Background(), Input{Files: []ingest.Source{{Name: "blank.txt"}}, Text: "ignored"})
	if !errors.Is(err, ucerrors.ErrEmptyTranscript) {
		t.Fatalf("expected ErrEmptyTranscript, got %v", err)
	}

	items, _ := svc.List(context.Background(), 0)
	if len(items) != 0 {
		t.Fatalf("nothing must be saved, got %d items", len(items))
	}
}

func TestProcess_SummarizerFailureSavesNothing(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(&fakeExtractor{}, &fakeSummarizer{err: boom}, nil)

	_, err := svc.Process(context.Background(), Input{Text: "hello"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped summarizer error, got %v", err)
	}
	items, _ := svc.List(context.Background(), 0)
	if len(items) != 0 {
		t.Fatalf("nothing must be saved, got %d items", len(items))
	}
}

func TestProcess_Archives(t *testing.T) {
	arch := &fakeArchiver{}
	svc := newTestService(&fakeExtractor{files: "text"}, &fakeSummarizer{}, arch)

	_, err := svc.Process(context.Background(), Input{
		Files: []ingest.Source{{Name: "a.txt", Data: []byte("a")}, {Name: "b.pdf", Data: []byte("b")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(arch.keys, ",") != "a.txt,b.pdf" {
		t.Fatalf("unexpected archived sources %v", arch.keys)
	}
}

func TestProcess_ArchiveFailureIsNotFatal(t *testing.T) {
	arch := &fakeArchiver{err: errors.New("bucket gone")}
	svc := newTestService(&fakeExtractor{files: "text"}, &fakeSummarizer{}, arch)

	result, err := svc.Process(context.Background(), Input{Files: []ingest.Source{{Name: "a.txt"}}})
	if err != nil {
		t.Fatalf("archive failures must not fail the request: %v", err)
	}
	if !result.IsPersisted() {
		t.Fatalf("result must still be saved")
	}
}

func TestSummarize_DoesNotSave(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeSummarizer{}, nil)

	result, err := svc.Summarize(context.Background(), Input{Title: "Standup", Text: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsPersisted() {
		t.Fatalf("Summarize must not persist")
	}
	items, _ := svc.List(context.Background(), 0)
	if len(items) != 0 {
		t.Fatalf("expected empty history, got %d", len(items))
	}
}

func TestListAndGet(t *testing.T) {
	svc := newTestService(&fakeExtractor{}, &fakeSummarizer{}, nil)
	ctx := context.Background()

	var last *entities.MeetingResult
	for _, title := range []string{"one", "two", "three"} {
		r, err := svc.Process(ctx, Input{Title: title, Text: "text " + title})
		if err != nil {
			t.Fatalf("process %s: %v", title, err)
		}
		last = r
	}

	items, err := svc.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].Title != "three" || items[1].Title != "two" {
		t.Fatalf("unexpected listing %+v", items)
	}

	got, err := svc.Get(ctx, last.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Summary != "summary of three" || got.Transcript != "text three" {
		t.Fatalf("unexpected record %+v", got)
	}

	if _, err := svc.Get(ctx, 999); !errors.Is(err, ucerrors.ErrMeetingNotFound) {
		t.Fatalf("expected ErrMeetingNotFound, got %v", err)
	}
}
