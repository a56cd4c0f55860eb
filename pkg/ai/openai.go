package ai

import (
	"context"
	"errors"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

// Known OpenAI-compatible endpoints
const (
	CerebrasBaseURL = "https://api.cerebras.ai/v1"
	GroqBaseURL     = "https://api.groq.com/openai/v1"
)

// OpenAICompatible speaks the chat-completions protocol. It serves OpenAI
// itself and every backend that mirrors it (Cerebras, Groq).
type OpenAICompatible struct {
	name   string
	client oai.Client
	model  string
}

// NewOpenAICompatible creates a chat-completions client for the named backend.
// An empty baseURL uses the SDK default (api.openai.com).
func NewOpenAICompatible(name, apiKey, baseURL, model string) (*OpenAICompatible, error) {
	if apiKey == "" {
		return nil, &ConfigError{Provider: name, Field: strings.ToUpper(name) + "_API_KEY"}
	}
	if model == "" {
		return nil, &ConfigError{Provider: name, Field: strings.ToUpper(name) + "_MODEL"}
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// retries are decided by the caller
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(baseURL))
	}

	return &OpenAICompatible{
		name:   name,
		client: oai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

// Name implements Generator
func (p *OpenAICompatible) Name() string {
	return p.name
}

// Generate implements Generator
func (p *OpenAICompatible) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	opts = opts.WithDefaults()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	model := p.model
	if opts.Model != "" {
		model = opts.Model
	}

	var messages []oai.ChatCompletionMessageParamUnion
	if opts.System != "" {
		messages = append(messages, oai.SystemMessage(opts.System))
	}
	messages = append(messages, oai.UserMessage(prompt))

	params := oai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model),
		Messages:    messages,
		Temperature: param.NewOpt(opts.TemperatureValue()),
		MaxTokens:   param.NewOpt(int64(opts.MaxTokens)),
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *oai.Error
		if errors.As(err, &apiErr) {
			return "", failure(p.name, apiErr.StatusCode, err)
		}
		return "", failure(p.name, 0, err)
	}
	if len(resp.Choices) == 0 {
		return "", malformed(p.name, "empty choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
