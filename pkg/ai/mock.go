package ai

import "context"

// emptyExtract is a strict-JSON reply with every field empty
const emptyExtract = `{"summary":"","decisions":[],"action_items":[],"important_dates":[],"other_notes":[]}`

// MockGenerator is the deterministic fallback used when no supported
// backend is configured. It always answers with empty structured fields.
type MockGenerator struct{}

// NewMockGenerator creates the fallback generator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Name implements Generator
func (MockGenerator) Name() string {
	return "mock"
}

// Generate implements Generator
func (MockGenerator) Generate(ctx context.Context, _ string, _ Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", failure("mock", 0, err)
	}
	return emptyExtract, nil
}
