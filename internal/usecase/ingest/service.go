// Package ingest turns uploaded files and recordings into transcript text.
// Extraction never fails outright: an empty string means no transcript.
package ingest

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/ocr"
	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
)

// Transcriber converts speech to timed text segments
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) ([]ai.Segment, error)
}

// OCR recognizes text in scanned pages
type OCR interface {
	Enabled() bool
	RecognizeImage(ctx context.Context, data []byte, ext string) (string, error)
	RecognizePDF(ctx context.Context, data []byte) (string, error)
}

var _ OCR = (*ocr.Engine)(nil)

// Service extracts transcript text from sources
type Service struct {
	ocr         OCR
	transcriber Transcriber
	speakerGap  time.Duration
	logger      *zap.Logger
}

// NewService creates an ingestion service. ocrEngine and transcriber may be
// nil, which disables scanned-document and audio support respectively.
func NewService(ocrEngine OCR, transcriber Transcriber, speakerGap time.Duration, logger *zap.Logger) *Service {
	if speakerGap <= 0 {
		speakerGap = DefaultSpeakerGap
	}
	if asm, ok := transcriber.(*ai.AssemblyAIClient); ok && asm == nil {
		transcriber = nil
	}
	return &Service{
		ocr:         ocrEngine,
		transcriber: transcriber,
		speakerGap:  speakerGap,
		logger:      logger,
	}
}

// CanTranscribe reports whether a speech-to-text backend is configured
func (s *Service) CanTranscribe() bool {
	return s.transcriber != nil
}

// ExtractText returns the cleaned text of one source or "" when nothing
// could be extracted.
func (s *Service) ExtractText(ctx context.Context, src Source) string {
	var (
		text string
		err  error
	)

	switch src.Kind() {
	case KindPDF:
		text, err = s.extractPDF(ctx, src.Data)
	case KindDOCX:
		text, err = docxText(src.Data)
	case KindImage:
		text, err = s.recognizeImage(ctx, src)
	case KindAudio:
		return s.TranscribeSource(ctx, src)
	default:
		text, err = decodeText(src.Data)
	}

	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to extract text",
				zap.String("file", src.Name),
				zap.String("kind", string(src.Kind())),
				zap.Error(err),
			)
		}
		return ""
	}
	return clean(text)
}

// ExtractTexts extracts every source. A single source is returned as is;
// several are concatenated with a "# File: <name>" header each.
func (s *Service) ExtractTexts(ctx context.Context, sources []Source) string {
	if len(sources) == 1 {
		return s.ExtractText(ctx, sources[0])
	}

	parts := make([]string, 0, len(sources))
	for _, src := range sources {
		if ctx.Err() != nil {
			return ""
		}
		text := s.ExtractText(ctx, src)
		if text == "" {
			continue
		}
		parts = append(parts, "# File: "+src.Name+"\n"+text)
	}
	return strings.Join(parts, "\n\n")
}

// TranscribeAudio transcribes the recording at path into speaker-tagged lines
func (s *Service) TranscribeAudio(ctx context.Context, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to read audio file", zap.String("path", path), zap.Error(err))
		}
		return ""
	}
	return s.TranscribeSource(ctx, Source{Name: filepath.Base(path), Data: data})
}

// TranscribeSource transcribes an in-memory recording into speaker-tagged lines
func (s *Service) TranscribeSource(ctx context.Context, src Source) string {
	if s.transcriber == nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Audio received but no transcription backend is configured",
				zap.String("file", src.Name),
			)
		}
		return ""
	}

	start := time.Now()
	segments, err := s.transcriber.Transcribe(ctx, bytes.NewReader(src.Data))
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Transcription failed", zap.String("file", src.Name), zap.Error(err))
		}
		return ""
	}

	text := FormatSpeakerTurns(segments, s.speakerGap)
	if s.logger != nil {
		s.logger.Info("🎙️ Audio transcribed",
			zap.String("file", src.Name),
			zap.Int("segments", len(segments)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return text
}

// extractPDF reads the text layer and falls back to OCR for scanned files
func (s *Service) extractPDF(ctx context.Context, data []byte) (string, error) {
	text, err := pdfText(data)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	if s.ocr == nil || !s.ocr.Enabled() {
		return text, err
	}

	if s.logger != nil {
		s.logger.Info("⚡ No text layer in PDF, switching to OCR", zap.NamedError("text_layer_error", err))
	}
	return s.ocr.RecognizePDF(ctx, data)
}

func (s *Service) recognizeImage(ctx context.Context, src Source) (string, error) {
	if s.ocr == nil || !s.ocr.Enabled() {
		return "", ocr.ErrDisabled
	}
	return s.ocr.RecognizeImage(ctx, src.Data, src.Ext())
}
