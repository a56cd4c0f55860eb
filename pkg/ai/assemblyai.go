package ai

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// Segment is one timed span of recognized speech
type Segment struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// AssemblyAIClient transcribes audio through the official SDK
type AssemblyAIClient struct {
	client       *aai.Client
	languageCode string
	timeout      time.Duration
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If the config has no key, falls back to ASSEMBLYAI_API_KEY; a client
// without any key returns nil.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, opts ...aai.ClientOption) *AssemblyAIClient {
	var apiKey, language string
	timeout := 10 * time.Minute
	if cfg != nil {
		apiKey = cfg.APIKey
		language = cfg.LanguageCode
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	if apiKey == "" {
		return nil
	}

	return &AssemblyAIClient{
		client:       aai.NewClientWithOptions(append([]aai.ClientOption{aai.WithAPIKey(apiKey)}, opts...)...),
		languageCode: language,
		timeout:      timeout,
	}
}

// Transcribe uploads the audio, waits for the transcript and returns its
// sentence segments in order.
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio io.Reader) ([]Segment, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := &aai.TranscriptOptionalParams{
		Punctuate:  aai.Bool(true),
		FormatText: aai.Bool(true),
	}
	if c.languageCode != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(c.languageCode)
	} else {
		params.LanguageDetection = aai.Bool(true)
	}

	transcript, err := c.client.Transcripts.TranscribeFromReader(ctx, audio, params)
	if err != nil {
		return nil, fmt.Errorf("assemblyai transcribe: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		return nil, fmt.Errorf("assemblyai transcript failed: %s", deref(transcript.Error))
	}

	id := deref(transcript.ID)
	sentences, err := c.client.Transcripts.GetSentences(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("assemblyai sentences for %s: %w", id, err)
	}

	segments := make([]Segment, 0, len(sentences.Sentences))
	for _, s := range sentences.Sentences {
		text := strings.TrimSpace(deref(s.Text))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:  text,
			Start: millis(s.Start),
			End:   millis(s.End),
		})
	}

	// no sentence split available, keep the whole text as one segment
	if len(segments) == 0 {
		if text := strings.TrimSpace(deref(transcript.Text)); text != "" {
			segments = append(segments, Segment{Text: text})
		}
	}

	return segments, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func millis(v *int64) time.Duration {
	if v == nil {
		return 0
	}
	return time.Duration(*v) * time.Millisecond
}
