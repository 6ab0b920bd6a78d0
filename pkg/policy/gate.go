// Package policy provides an optional Rego gate layered on top of the
// envelope verdict. Deployments can tighten the open decision with a site
// policy without changing gateway code; with no policy configured the
// verdict stands on its own.
package policy

import (
	"context"
	"fmt"
	"time"

	"sealgate/pkg/envelope"

	"github.com/open-policy-agent/opa/v1/rego"
)

const openQuery = "data.sealgate.open.allow"

// OpenGate evaluates the configured open policy against an envelope and its
// verdict. A gate with no policy always allows.
type OpenGate struct {
	query *rego.PreparedEvalQuery
}

// NewOpenGate compiles the policy once up front. An empty policyContent
// yields a pass-through gate.
func NewOpenGate(ctx context.Context, policyContent string) (*OpenGate, error) {
	if policyContent == "" {
		return &OpenGate{}, nil
	}

	r := rego.New(
		rego.Query(openQuery),
		rego.Module("open_policy", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare open policy: %w", err)
	}

	return &OpenGate{query: &query}, nil
}

// Allow reports whether the policy permits opening the envelope. The
// verdict's own refusals are not overridable; the policy can only further
// restrict. A policy that returns no result denies.
func (g *OpenGate) Allow(ctx context.Context, env *envelope.Envelope, verdict envelope.Verdict, identityEmail string, now time.Time) (bool, error) {
	if !verdict.CanOpen() {
		return false, nil
	}
	if g.query == nil {
		return true, nil
	}

	input := map[string]interface{}{
		"fileId": env.FileID,
		"subject": map[string]interface{}{
			"email": identityEmail,
		},
		"verdict": map[string]interface{}{
			"isExpired":   verdict.IsExpired,
			"hasAccess":   verdict.HasAccess,
			"accessKnown": verdict.AccessKnown,
		},
		"metadata": map[string]interface{}{
			"originalName": env.Metadata.OriginalName,
			"originalSize": env.Metadata.OriginalSize,
			"expiresAt":    env.Metadata.ExpiresAt,
		},
		"now": now.Format(time.RFC3339),
	}

	results, err := g.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate open policy: %w", err)
	}

	if len(results) > 0 && len(results[0].Expressions) > 0 {
		if allowed, ok := results[0].Expressions[0].Value.(bool); ok {
			return allowed, nil
		}
	}

	// No result means default deny
	return false, nil
}

// ValidatePolicy checks that a policy compiles against the open query.
func ValidatePolicy(ctx context.Context, policyContent string) error {
	r := rego.New(
		rego.Query(openQuery),
		rego.Module("validation", policyContent),
	)

	if _, err := r.PrepareForEval(ctx); err != nil {
		return fmt.Errorf("open policy validation failed: %w", err)
	}

	return nil
}
