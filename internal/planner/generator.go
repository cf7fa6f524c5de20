package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// DefaultMinCandidates is the minimum pool size required before generation
// is attempted.
const DefaultMinCandidates = 30

// promptCandidateLimit caps how many recipes per slot are summarized for a
// draft provider.
const promptCandidateLimit = 10

// ErrInsufficientCandidates is returned when the candidate pool is too
// small to generate a meaningful plan.
var ErrInsufficientCandidates = errors.New("insufficient candidate recipes")

// Generation methods reported in Result.Method.
const (
	MethodDraft         = "draft"
	MethodDraftRepaired = "draft+repair"
	MethodDeterministic = "deterministic"
)

// DraftGenerator proposes a first-draft plan from a structured request.
// Implementations are external collaborators (LLM providers); any error is
// recovered by falling back to deterministic construction.
type DraftGenerator interface {
	GenerateDraft(ctx context.Context, req DraftRequest) (*Plan, error)
}

// DraftRequest is the payload handed to a draft provider.
type DraftRequest struct {
	UserEmail     string
	UserName      string
	DailyCalories int
	Goal          string
	MacroTargets  MacroTargets
	Slots         []SlotCandidates
}

// SlotCandidates summarizes the eligible recipes for one day/meal/part
// slot of the plan being drafted.
type SlotCandidates struct {
	DayType        string
	MealType       string
	PartName       string
	TargetCalories int
	Candidates     []CandidateRecipe
}

// Request is the input of one generation run. Pool and Feedback are
// read-only snapshots taken by the caller.
type Request struct {
	UserEmail          string
	UserName           string
	DailyCalories      int
	Goal               string
	PhysicalActivity   string
	Pool               *CandidatePool
	Feedback           FeedbackCache
	ForceDeterministic bool
}

// Result is a finished, accepted plan plus the method that produced it.
type Result struct {
	Plan   *Plan
	Method string
}

// Options configure a Generator.
type Options struct {
	Draft         DraftGenerator // optional; nil disables the draft path
	MinCandidates int            // defaults to DefaultMinCandidates
	Seed          int64          // 0 means time-seeded
	Logger        *log.Logger    // defaults to log.Default()
}

// Generator runs the full generation flow: optional draft, validate,
// repair once, re-validate, deterministic fallback.
type Generator struct {
	draft         DraftGenerator
	minCandidates int
	rng           *rand.Rand
	logger        *log.Logger
	now           func() time.Time
}

// NewGenerator creates a generator from options.
func NewGenerator(opts Options) *Generator {
	minCandidates := opts.MinCandidates
	if minCandidates <= 0 {
		minCandidates = DefaultMinCandidates
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{
		draft:         opts.Draft,
		minCandidates: minCandidates,
		rng:           rand.New(rand.NewSource(seed)),
		logger:        logger,
		now:           time.Now,
	}
}

// Generate produces an accepted 3-day plan or an error. The draft path is
// tried first when a provider is configured and not explicitly disabled;
// any draft failure falls back to deterministic construction. The returned
// plan never violates the calorie band or required-part invariants except
// for required parts with zero matching candidates, which are logged.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Pool == nil || req.Pool.Len() < g.minCandidates {
		found := 0
		if req.Pool != nil {
			found = req.Pool.Len()
		}
		return nil, fmt.Errorf("%w: need at least %d recipes matching preferences, found %d",
			ErrInsufficientCandidates, g.minCandidates, found)
	}

	goal := req.Goal
	if goal == "" {
		goal = GoalMaintenance
	}
	base := AdjustedBaseCalories(req.DailyCalories, req.PhysicalActivity)
	if base != req.DailyCalories {
		g.logger.Printf("planner: adjusted base daily calories to %d for activity level %q", base, req.PhysicalActivity)
	}

	scorer := NewScorer(req.Feedback, g.rng)
	selector := NewSelector(req.Pool, scorer, g.rng)

	if g.draft != nil && !req.ForceDeterministic {
		plan, method, err := g.tryDraft(ctx, req, goal, base, selector)
		if err != nil {
			g.logger.Printf("WARNING: draft plan rejected: %v; falling back to deterministic generation", err)
		} else {
			return &Result{Plan: plan, Method: method}, nil
		}
	}

	plan := g.buildDeterministic(req, goal, base, selector)
	return &Result{Plan: plan, Method: MethodDeterministic}, nil
}

// tryDraft requests a draft, validates it, repairs at most once and
// re-validates. Any failure abandons the draft path entirely.
func (g *Generator) tryDraft(ctx context.Context, req Request, goal string, base int, selector *Selector) (*Plan, string, error) {
	draftReq := DraftRequest{
		UserEmail:     req.UserEmail,
		UserName:      req.UserName,
		DailyCalories: base,
		Goal:          goal,
		MacroTargets:  MacroTargetsFor(goal),
		Slots:         BuildSlotCandidates(req.Pool, base, promptCandidateLimit),
	}

	plan, err := g.draft.GenerateDraft(ctx, draftReq)
	if err != nil {
		return nil, "", fmt.Errorf("draft generation failed: %w", err)
	}
	if plan == nil {
		return nil, "", fmt.Errorf("draft provider returned no plan")
	}
	if len(plan.Days) != 3 {
		return nil, "", fmt.Errorf("draft must have exactly 3 days, got %d", len(plan.Days))
	}

	method := MethodDraft
	violations := Validate(plan, base, req.Pool)
	if len(violations) > 0 {
		g.logger.Printf("WARNING: draft plan has %d violations, repairing: %v", len(violations), violations)
		NewRepairer(req.Pool, selector, g.rng).Repair(plan, base)
		method = MethodDraftRepaired
		if violations = Validate(plan, base, req.Pool); len(violations) > 0 {
			return nil, "", fmt.Errorf("draft plan still invalid after repair: %v", violations)
		}
	}

	if plan.Title == "" {
		plan.Title = "AI Plan for " + displayName(req.UserName, req.UserEmail)
	}
	plan.BaseDailyCalories = req.DailyCalories
	plan.Goal = goal
	plan.MacroTargets = MacroTargetsFor(goal)
	return plan, method, nil
}

// buildDeterministic constructs a plan by direct selection, the fallback
// of last resort. Every part slot, required or optional, gets an attempted
// fill; slots with no matching candidate stay nil and are logged.
func (g *Generator) buildDeterministic(req Request, goal string, base int, selector *Selector) *Plan {
	plan := &Plan{
		Title:             "Personalized Plan for " + displayName(req.UserName, req.UserEmail),
		BaseDailyCalories: req.DailyCalories,
		Goal:              goal,
		MacroTargets:      MacroTargetsFor(goal),
	}

	for i, dayType := range RequiredDayTypes {
		target := DayTarget(base, dayType)
		mealTypes := ExpectedMealTypes(dayType)
		allocations := DistributeCalories(target, mealTypes)

		meals := make([]MealSlot, 0, len(mealTypes))
		for _, mealType := range mealTypes {
			allocated := allocations[mealType]
			if partDefs, structured := MealPartsStructure[mealType]; structured {
				parts := make([]PartSlot, 0, len(partDefs))
				for _, def := range partDefs {
					selected := selector.SelectForPart(mealType, def.Name, float64(allocated)/float64(len(partDefs)))
					if selected == nil && def.Required {
						g.logger.Printf("WARNING: no candidate recipe for required part %q of meal %q (%s day)", def.Name, mealType, dayType)
					}
					parts = append(parts, PartSlot{Name: def.Name, RecipeID: recipeID(selected)})
				}
				meals = append(meals, MealSlot{MealType: mealType, AllocatedCalories: allocated, Parts: parts})
			} else {
				selected := selector.SelectForSimpleMeal(mealType, float64(allocated))
				if selected == nil {
					g.logger.Printf("WARNING: no candidate recipe for meal %q (%s day)", mealType, dayType)
				}
				meals = append(meals, MealSlot{
					MealType:          mealType,
					AllocatedCalories: allocated,
					Parts:             []PartSlot{{Name: "main", RecipeID: recipeID(selected)}},
				})
			}
		}

		plan.Days = append(plan.Days, Day{
			Date:           g.now().AddDate(0, 0, i).Format("2006-01-02"),
			DayType:        dayType,
			TargetCalories: target,
			Meals:          meals,
		})
	}

	return plan
}

// BuildSlotCandidates collects the top candidates for every day/meal/part
// slot of a 3-day plan, for inclusion in a draft provider prompt.
func BuildSlotCandidates(pool *CandidatePool, base int, limit int) []SlotCandidates {
	var slots []SlotCandidates
	for _, dayType := range RequiredDayTypes {
		target := DayTarget(base, dayType)
		mealTypes := ExpectedMealTypes(dayType)
		allocations := DistributeCalories(target, mealTypes)
		for _, mealType := range mealTypes {
			allocated := allocations[mealType]
			if partDefs, structured := MealPartsStructure[mealType]; structured {
				for _, def := range partDefs {
					slots = append(slots, SlotCandidates{
						DayType:        dayType,
						MealType:       mealType,
						PartName:       def.Name,
						TargetCalories: allocated,
						Candidates:     capCandidates(pool.WithTags(mealType, def.Name), limit),
					})
				}
			} else {
				slots = append(slots, SlotCandidates{
					DayType:        dayType,
					MealType:       mealType,
					PartName:       "main",
					TargetCalories: allocated,
					Candidates:     capCandidates(pool.WithTags(SimpleMealTag(mealType), PartMainCourse), limit),
				})
			}
		}
	}
	return slots
}

func capCandidates(candidates []CandidateRecipe, limit int) []CandidateRecipe {
	if limit > 0 && len(candidates) > limit {
		return candidates[:limit]
	}
	return candidates
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
