package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(context.Background(), DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}
	return e
}

func TestDefaultPolicyBlocksGraphicContentForFamily(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	decision, err := e.Evaluate(ctx, "family", "the villain threatens TORTURE")
	require.NoError(t, err)
	assert.Equal(t, DecisionBlock, decision)

	decision, err = e.Evaluate(ctx, "family", "we walk into the village")
	require.NoError(t, err)
	assert.Equal(t, DecisionAllow, decision)
}

func TestDefaultPolicyAllowsOtherRatings(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for _, rating := range []string{"standard", "mature", ""} {
		decision, err := e.Evaluate(ctx, rating, "gore everywhere")
		require.NoError(t, err)
		assert.Equal(t, DecisionAllow, decision, "rating %q", rating)
	}
}

func TestNewEngineRejectsInvalidPolicy(t *testing.T) {
	_, err := NewEngine(context.Background(), "package content_policy\n\ndecision :=")
	assert.Error(t, err)
}
