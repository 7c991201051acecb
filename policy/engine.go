// Package policy evaluates incoming participant messages against the
// session's content rating.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the content policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA content policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a policy engine from rego policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.content_policy.decision"),
		rego.Module("content_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks a message against the content policy for a rating.
// The policy is expected to define a default, so an empty result set
// degrades to allow.
func (e *Engine) Evaluate(ctx context.Context, rating, text string) (string, error) {
	input := map[string]interface{}{
		"rating": rating,
		"text":   text,
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}
	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy is the built-in content policy: family-rated sessions
// reject graphic content, everything else is allowed.
const DefaultPolicy = `
package content_policy

import rego.v1

default decision := "allow"

graphic_words := ["gore", "torture", "slaughter", "mutilate"]

decision := "block" if {
	input.rating == "family"
	some w in graphic_words
	contains(lower(input.text), w)
}
`
