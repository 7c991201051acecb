// Package completion abstracts the external text-completion capability.
// The engine never assumes a completion succeeds; every caller carries a
// fallback.
package completion

import (
	"context"
	"log"
	"os"
	"time"
)

// Service is the text-completion contract: given a prompt, return
// generated text or an error.
type Service interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Service interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const (
	// EnvMode is the environment variable name for mode selection.
	EnvMode = "QUESTENGINE_MODE"
	// ModeMock indicates the deterministic mock service should be used.
	ModeMock = "MOCK"
)

// NewService creates a completion service based on the QUESTENGINE_MODE
// environment variable. MOCK mode returns the deterministic mock;
// otherwise an HTTP gateway client is returned.
func NewService(baseURL, apiKey, model string, timeout time.Duration) Service {
	if os.Getenv(EnvMode) == ModeMock {
		log.Println("QUESTENGINE_MODE=MOCK detected, using mock completion service")
		return NewMockService()
	}
	return NewClient(baseURL, apiKey, model, timeout)
}
