package ai

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/fdg312/meal-hub/internal/planner"
)

// MockProvider builds drafts without any network call: every slot gets the
// candidate closest to its calorie target. Used in tests and demo mode.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) GenerateDraft(ctx context.Context, req planner.DraftRequest) (*planner.Plan, error) {
	_ = ctx

	candidates := map[string][]planner.CandidateRecipe{}
	for _, slot := range req.Slots {
		candidates[slot.DayType+"/"+slot.MealType+"/"+slot.PartName] = slot.Candidates
	}

	plan := &planner.Plan{
		Title:             "Mock Plan for " + displayName(req.UserName, req.UserEmail),
		BaseDailyCalories: req.DailyCalories,
		Goal:              req.Goal,
		MacroTargets:      req.MacroTargets,
	}

	for i, dayType := range planner.RequiredDayTypes {
		target := planner.DayTarget(req.DailyCalories, dayType)
		mealTypes := planner.ExpectedMealTypes(dayType)
		allocations := planner.DistributeCalories(target, mealTypes)

		meals := make([]planner.MealSlot, 0, len(mealTypes))
		for _, mealType := range mealTypes {
			allocated := allocations[mealType]
			if partDefs, structured := planner.MealPartsStructure[mealType]; structured {
				parts := make([]planner.PartSlot, 0, len(partDefs))
				for _, def := range partDefs {
					pool := candidates[dayType+"/"+mealType+"/"+def.Name]
					selected := closestByCalories(pool, float64(allocated)/float64(len(partDefs)))
					parts = append(parts, planner.PartSlot{Name: def.Name, RecipeID: selected})
				}
				meals = append(meals, planner.MealSlot{MealType: mealType, AllocatedCalories: allocated, Parts: parts})
			} else {
				pool := candidates[dayType+"/"+mealType+"/main"]
				selected := closestByCalories(pool, float64(allocated))
				meals = append(meals, planner.MealSlot{
					MealType:          mealType,
					AllocatedCalories: allocated,
					Parts:             []planner.PartSlot{{Name: "main", RecipeID: selected}},
				})
			}
		}

		plan.Days = append(plan.Days, planner.Day{
			Date:           time.Now().AddDate(0, 0, i).Format("2006-01-02"),
			DayType:        dayType,
			TargetCalories: target,
			Meals:          meals,
		})
	}

	return plan, nil
}

// OptimizePlan returns a deep copy of the input: the mock has nothing to
// improve, but callers expect a plan they own.
func (p *MockProvider) OptimizePlan(ctx context.Context, plan *planner.Plan) (*planner.Plan, error) {
	_ = ctx
	raw, err := json.Marshal(plan)
	if err != nil {
		return nil, err
	}
	var copied planner.Plan
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}

func closestByCalories(pool []planner.CandidateRecipe, target float64) *int64 {
	if len(pool) == 0 {
		return nil
	}
	best := pool[0]
	bestDiff := math.Abs(best.Calories - target)
	for _, c := range pool[1:] {
		if diff := math.Abs(c.Calories - target); diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	id := best.ID
	return &id
}

func displayName(name, email string) string {
	if name != "" {
		return name
	}
	return email
}
