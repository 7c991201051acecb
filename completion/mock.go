package completion

import (
	"context"
	"fmt"
	"strings"
)

// MockService is a deterministic Service implementation for tests and
// offline runs.
type MockService struct{}

// NewMockService creates a new mock completion service.
func NewMockService() *MockService {
	return &MockService{}
}

// Ensure MockService implements the Service interface.
var _ Service = (*MockService)(nil)

// Complete returns a short deterministic reply derived from the prompt.
func (m *MockService) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	line := prompt
	if i := strings.LastIndexByte(prompt, '\n'); i >= 0 {
		line = prompt[i+1:]
	}
	return fmt.Sprintf("[MOCK] %s", truncate(strings.TrimSpace(line), 80)), nil
}
