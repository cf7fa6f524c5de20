package ai

import (
	"testing"
)

const planJSON = `{
  "meal_plan_title": "Test Plan",
  "base_daily_calories": 2000,
  "goal": "maintenance",
  "macro_targets": {"protein": 0.25, "carbs": 0.50, "fat": 0.25},
  "days": [
    {
      "date": "2025-01-01",
      "day_type": "regular",
      "target_calories_for_day": 2000,
      "meals": [
        {
          "meal_type": "breakfast",
          "allocated_calories_for_meal": 500,
          "parts": [
            {"name": "main course", "selected_recipe_id": 12},
            {"name": "fruit", "selected_recipe_id": null}
          ]
        }
      ]
    }
  ]
}`

func TestExtractPlanJSONDirect(t *testing.T) {
	plan, err := ExtractPlanJSON(planJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Title != "Test Plan" {
		t.Errorf("expected title 'Test Plan', got %q", plan.Title)
	}
	if len(plan.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(plan.Days))
	}
	parts := plan.Days[0].Meals[0].Parts
	if parts[0].RecipeID == nil || *parts[0].RecipeID != 12 {
		t.Errorf("expected recipe id 12, got %v", parts[0].RecipeID)
	}
	if parts[1].RecipeID != nil {
		t.Errorf("expected nil recipe id, got %d", *parts[1].RecipeID)
	}
}

func TestExtractPlanJSONCodeBlock(t *testing.T) {
	text := "Here is your plan:\n```json\n" + planJSON + "\n```\nEnjoy!"
	plan, err := ExtractPlanJSON(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.BaseDailyCalories != 2000 {
		t.Errorf("expected 2000 base calories, got %d", plan.BaseDailyCalories)
	}
}

func TestExtractPlanJSONSurroundingText(t *testing.T) {
	text := "Sure! The optimized plan follows.\n" + planJSON + "\nLet me know if you need changes."
	plan, err := ExtractPlanJSON(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Goal != "maintenance" {
		t.Errorf("expected goal maintenance, got %q", plan.Goal)
	}
}

func TestExtractPlanJSONRepairsUnquotedKeys(t *testing.T) {
	text := `{meal_plan_title: "Fixed", base_daily_calories: 1800, goal: "maintenance", days: []}`
	plan, err := ExtractPlanJSON(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Title != "Fixed" {
		t.Errorf("expected title 'Fixed', got %q", plan.Title)
	}
	if plan.BaseDailyCalories != 1800 {
		t.Errorf("expected 1800 base calories, got %d", plan.BaseDailyCalories)
	}
}

func TestExtractPlanJSONEmptyInput(t *testing.T) {
	if _, err := ExtractPlanJSON("   "); err == nil {
		t.Error("expected an error for empty input")
	}
}

func TestExtractPlanJSONGarbage(t *testing.T) {
	if _, err := ExtractPlanJSON("I could not generate a plan today."); err == nil {
		t.Error("expected an error for output without JSON")
	}
}
