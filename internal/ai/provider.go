package ai

import (
	"context"

	"github.com/fdg312/meal-hub/internal/planner"
)

// Provider is an LLM collaborator that drafts and rewrites meal plans in
// the shared wire shape. Provider failures are never fatal: the caller
// recovers by deterministic generation or by keeping the stored plan.
type Provider interface {
	// GenerateDraft proposes a first-draft 3-day plan from the slot
	// candidate summaries. The draft is not yet validated.
	GenerateDraft(ctx context.Context, req planner.DraftRequest) (*planner.Plan, error)

	// OptimizePlan rewrites an existing plan so it better meets the
	// calorie targets and structural rules, keeping the same JSON shape.
	OptimizePlan(ctx context.Context, plan *planner.Plan) (*planner.Plan, error)
}
