package main

import (
	"strings"
	"testing"

	"github.com/fdg312/meal-hub/internal/planner"
	"github.com/fdg312/meal-hub/internal/plans"
)

func TestPrintPlanMacroPercentages(t *testing.T) {
	recipeID := int64(1)
	recipe := planner.NewCandidateRecipe(recipeID, "Oatmeal", []string{"breakfast", "main course"})
	recipe.Calories = 250
	pool := planner.NewCandidatePool([]planner.CandidateRecipe{recipe})

	plan := plans.PlanDTO{
		PlanSummaryDTO: plans.PlanSummaryDTO{ID: "plan-1", GenerationMethod: "deterministic"},
		Plan: &planner.Plan{
			Title:             "Personalized Meal Plan",
			BaseDailyCalories: 2000,
			Goal:              "maintenance",
			MacroTargets:      planner.MacroTargetsFor("maintenance"),
			Days: []planner.Day{
				{
					Date:           "2026-08-27",
					DayType:        "regular",
					TargetCalories: 2000,
					Meals: []planner.MealSlot{
						{
							MealType:          "breakfast",
							AllocatedCalories: 500,
							Parts:             []planner.PartSlot{{Name: "main course", RecipeID: &recipeID}},
						},
					},
				},
			},
		},
	}

	var out strings.Builder
	printPlan(&out, plan, pool)

	// Fractions are rendered as whole percentages
	if !strings.Contains(out.String(), "macros: 25/50/25 %") {
		t.Errorf("expected macro percentages in output, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Oatmeal") {
		t.Errorf("expected recipe title in output, got:\n%s", out.String())
	}
}
