package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// DefaultOllamaBaseURL is the local daemon address
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaGenerator calls a local or remote Ollama daemon
type OllamaGenerator struct {
	client *ollama.Client
	model  string
}

// NewOllamaGenerator creates an Ollama chat client. No API key is needed.
func NewOllamaGenerator(baseURL, model string) (*OllamaGenerator, error) {
	if model == "" {
		return nil, &ConfigError{Provider: "ollama", Field: "OLLAMA_MODEL"}
	}
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_API_BASE %q: %w", baseURL, err)
	}

	return &OllamaGenerator{
		client: ollama.NewClient(u, http.DefaultClient),
		model:  model,
	}, nil
}

// Name implements Generator
func (o *OllamaGenerator) Name() string {
	return "ollama"
}

// Generate implements Generator
func (o *OllamaGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	opts = opts.WithDefaults()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	model := o.model
	if opts.Model != "" {
		model = opts.Model
	}

	var messages []ollama.Message
	if opts.System != "" {
		messages = append(messages, ollama.Message{Role: "system", Content: opts.System})
	}
	messages = append(messages, ollama.Message{Role: "user", Content: prompt})

	stream := false
	req := &ollama.ChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": opts.TemperatureValue(),
			"num_predict": opts.MaxTokens,
		},
	}

	var (
		text strings.Builder
		done bool
	)
	err := o.client.Chat(ctx, req, func(resp ollama.ChatResponse) error {
		text.WriteString(resp.Message.Content)
		done = done || resp.Done
		return nil
	})
	if err != nil {
		var statusErr ollama.StatusError
		if errors.As(err, &statusErr) {
			return "", failure(o.Name(), statusErr.StatusCode, err)
		}
		return "", failure(o.Name(), 0, err)
	}
	if !done {
		return "", malformed(o.Name(), "chat response ended before done")
	}

	return text.String(), nil
}
