package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini API through the genai SDK
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini client. The client is built once and
// reused for every call.
func NewGeminiGenerator(ctx context.Context, apiKey, baseURL, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, &ConfigError{Provider: "gemini", Field: "GEMINI_API_KEY"}
	}
	if model == "" {
		return nil, &ConfigError{Provider: "gemini", Field: "GEMINI_MODEL"}
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Name implements Generator
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	opts = opts.WithDefaults()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	model := g.model
	if opts.Model != "" {
		model = opts.Model
	}

	temperature := float32(opts.TemperatureValue())
	gc := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(opts.MaxTokens),
	}
	if opts.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(opts.System, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), gc)
	if err != nil {
		return "", failure(g.Name(), geminiStatus(err), err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", malformed(g.Name(), "empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

var geminiStatusPattern = regexp.MustCompile(`Error (\d{3})`)

// geminiStatus recovers the HTTP status from a genai API error message
func geminiStatus(err error) int {
	m := geminiStatusPattern.FindStringSubmatch(err.Error())
	if len(m) != 2 {
		if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
			return 429
		}
		return 0
	}
	code, _ := strconv.Atoi(m[1])
	return code
}
