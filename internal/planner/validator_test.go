package planner

import (
	"strings"
	"testing"
)

func TestValidateAcceptsCompletePlan(t *testing.T) {
	plan, pool := generateValidPlan(t, 11)
	if violations := Validate(plan, 2000, pool); len(violations) > 0 {
		t.Fatalf("expected no violations, got %v", violations)
	}
}

func TestValidateMissingRegularDay(t *testing.T) {
	plan, pool := generateValidPlan(t, 11)
	// drop the regular day, keep workout and rest
	plan.Days = plan.Days[1:]

	violations := Validate(plan, 2000, pool)
	if len(violations) == 0 {
		t.Fatal("expected a day-type violation")
	}

	foundDayTypeViolation := false
	for _, v := range violations {
		if v.DayIndex == -1 {
			foundDayTypeViolation = true
		}
		// the missing day must not produce a calorie-band violation
		if v.DayType == DayTypeRegular {
			t.Errorf("unexpected violation attributed to the missing regular day: %v", v)
		}
	}
	if !foundDayTypeViolation {
		t.Error("expected a plan-level day-type-set violation")
	}
}

func TestValidateUnknownRecipeID(t *testing.T) {
	plan, pool := generateValidPlan(t, 11)
	unknown := int64(9999)
	plan.Days[0].Meals[0].Parts[0].RecipeID = &unknown

	violations := Validate(plan, 2000, pool)
	found := false
	for _, v := range violations {
		if strings.Contains(v.Reason, "9999") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a violation referencing recipe id 9999, got %v", violations)
	}
}

func TestValidateRecipeLackingTags(t *testing.T) {
	plan, pool := generateValidPlan(t, 11)
	// recipe 4 is tagged lunch/main course; placing it in breakfast must
	// trip the tag check
	lunchMain := int64(4)
	plan.Days[0].Meals[0].Parts[0].RecipeID = &lunchMain

	violations := Validate(plan, 2000, pool)
	found := false
	for _, v := range violations {
		if strings.Contains(v.Reason, "lacks required tags") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a lacks-required-tags violation, got %v", violations)
	}
}

func TestValidateCalorieBand(t *testing.T) {
	plan, pool := generateValidPlan(t, 11)

	// same plan judged against a much larger base must fail every band
	violations := Validate(plan, 4000, pool)
	bandViolations := 0
	for _, v := range violations {
		if strings.Contains(v.Reason, "outside target") {
			bandViolations++
		}
	}
	if bandViolations != 3 {
		t.Errorf("expected 3 calorie-band violations, got %d (%v)", bandViolations, violations)
	}
}

func TestValidateMissingMealAndPart(t *testing.T) {
	plan, pool := generateValidPlan(t, 11)
	day := &plan.Days[0]
	// drop breakfast entirely
	day.Meals = day.Meals[1:]

	violations := Validate(plan, 2000, pool)
	foundMissingMeal := false
	for _, v := range violations {
		if v.MealType == MealBreakfast && v.Reason == "missing required meal" {
			foundMissingMeal = true
		}
	}
	if !foundMissingMeal {
		t.Errorf("expected a missing-meal violation for breakfast, got %v", violations)
	}
}

func TestValidateSimpleMealWithoutSelection(t *testing.T) {
	plan, pool := generateValidPlan(t, 11)
	for i := range plan.Days[0].Meals {
		meal := &plan.Days[0].Meals[i]
		if meal.MealType == MealSupper {
			meal.Parts = []PartSlot{{Name: "main"}}
		}
	}

	violations := Validate(plan, 2000, pool)
	found := false
	for _, v := range violations {
		if v.MealType == MealSupper && v.Reason == "no recipe selected" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a no-recipe-selected violation for supper, got %v", violations)
	}
}
