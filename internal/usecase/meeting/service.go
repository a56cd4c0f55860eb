// Package meeting runs the upload flow: ingest the sources, summarize the
// transcript, persist the result and archive the originals.
package meeting

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/ingest"
)

// Summarizer produces an unsaved MeetingResult from a transcript
type Summarizer interface {
	Summarize(ctx context.Context, title, transcript string) (*entities.MeetingResult, error)
}

// Extractor turns sources into transcript text
type Extractor interface {
	ExtractTexts(ctx context.Context, sources []ingest.Source) string
	TranscribeSource(ctx context.Context, src ingest.Source) string
}

// Archiver keeps a copy of the original sources of a saved meeting
type Archiver interface {
	Archive(ctx context.Context, meetingID uint64, name string, data []byte) (string, error)
}

// Input is one submission. Files take precedence over Audio, which takes
// precedence over Text.
type Input struct {
	Title string
	Text  string
	Files []ingest.Source
	Audio *ingest.Source
}

// Service defines the meeting use cases
type Service interface {
	// Summarize resolves the transcript and summarizes it without saving
	Summarize(ctx context.Context, in Input) (*entities.MeetingResult, error)
	// Process summarizes, saves and archives a submission
	Process(ctx context.Context, in Input) (*entities.MeetingResult, error)
	List(ctx context.Context, limit int) ([]entities.MeetingSummaryItem, error)
	Get(ctx context.Context, id uint64) (*entities.MeetingResult, error)
}

type meetingService struct {
	extractor    Extractor
	summarizer   Summarizer
	repo         repositories.MeetingRepository
	archiver     Archiver
	defaultLimit int
	logger       *zap.Logger
}

// NewMeetingService constructs the meeting service. archiver may be nil.
func NewMeetingService(
	extractor Extractor,
	summarizer Summarizer,
	repo repositories.MeetingRepository,
	archiver Archiver,
	defaultLimit int,
	logger *zap.Logger,
) Service {
	return &meetingService{
		extractor:    extractor,
		summarizer:   summarizer,
		repo:         repo,
		archiver:     archiver,
		defaultLimit: repositories.ClampListLimit(defaultLimit),
		logger:       logger,
	}
}

// Transcript applies the source precedence and returns the transcript text
func (s *meetingService) transcript(ctx context.Context, in Input) string {
	switch {
	case len(in.Files) > 0:
		return s.extractor.ExtractTexts(ctx, in.Files)
	case in.Audio != nil:
		return s.extractor.TranscribeSource(ctx, *in.Audio)
	default:
		return in.Text
	}
}

func (s *meetingService) Summarize(ctx context.Context, in Input) (*entities.MeetingResult, error) {
	transcript := s.transcript(ctx, in)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.ErrEmptyTranscript
	}

	result, err := s.summarizer.Summarize(ctx, in.Title, transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize meeting: %w", err)
	}
	return result, nil
}

func (s *meetingService) Process(ctx context.Context, in Input) (*entities.MeetingResult, error) {
	result, err := s.Summarize(ctx, in)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Save(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to save meeting: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("💾 Meeting saved",
			zap.Uint64("meeting_id", id),
			zap.String("title", result.Title),
		)
	}

	s.archive(ctx, id, in)
	return result, nil
}

// archive copies the uploaded sources to object storage. Failures are logged only.
func (s *meetingService) archive(ctx context.Context, id uint64, in Input) {
	if s.archiver == nil {
		return
	}

	sources := append([]ingest.Source{}, in.Files...)
	if in.Audio != nil {
		sources = append(sources, *in.Audio)
	}
	for _, src := range sources {
		key, err := s.archiver.Archive(ctx, id, src.Name, src.Data)
		if s.logger == nil {
			continue
		}
		if err != nil {
			s.logger.Warn("⚠️ Failed to archive source",
				zap.Uint64("meeting_id", id),
				zap.String("file", src.Name),
				zap.Error(err),
			)
			continue
		}
		s.logger.Debug("Archived source", zap.Uint64("meeting_id", id), zap.String("key", key))
	}
}

func (s *meetingService) List(ctx context.Context, limit int) ([]entities.MeetingSummaryItem, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	items, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return items, nil
}

func (s *meetingService) Get(ctx context.Context, id uint64) (*entities.MeetingResult, error) {
	result, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	if result == nil {
		return nil, errors.ErrMeetingNotFound
	}
	return result, nil
}
