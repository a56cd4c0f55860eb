package ai

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGenerator calls the Anthropic Messages API
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
}

// NewAnthropicGenerator creates a Messages API client
func NewAnthropicGenerator(apiKey, baseURL, model string) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, &ConfigError{Provider: "anthropic", Field: "ANTHROPIC_API_KEY"}
	}
	if model == "" {
		return nil, &ConfigError{Provider: "anthropic", Field: "ANTHROPIC_MODEL"}
	}

	reqOpts := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(apiKey),
		anthropicopt.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, anthropicopt.WithBaseURL(baseURL))
	}

	return &AnthropicGenerator{
		client: anthropic.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// Name implements Generator
func (a *AnthropicGenerator) Name() string {
	return "anthropic"
}

// Generate implements Generator
func (a *AnthropicGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	opts = opts.WithDefaults()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	model := a.model
	if opts.Model != "" {
		model = opts.Model
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(opts.MaxTokens),
		Temperature: anthropic.Float(opts.TemperatureValue()),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: opts.System}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", failure(a.Name(), apiErr.StatusCode, err)
		}
		return "", failure(a.Name(), 0, err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	if b.Len() == 0 && len(msg.Content) == 0 {
		return "", malformed(a.Name(), "no content blocks in message")
	}
	return b.String(), nil
}
