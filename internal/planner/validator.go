package planner

import (
	"fmt"
	"strings"
)

// CalorieTolerance is the allowed deviation of a day's selected-recipe
// calorie total from the day-type-adjusted target.
const CalorieTolerance = 0.15

// Violation is one validation finding. DayIndex is zero-based; -1 for
// plan-level violations. MealType and PartName are empty when not
// applicable.
type Violation struct {
	DayIndex int
	DayType  string
	MealType string
	PartName string
	Reason   string
}

func (v Violation) String() string {
	if v.DayIndex < 0 {
		return v.Reason
	}
	loc := fmt.Sprintf("day %d (%s)", v.DayIndex+1, v.DayType)
	if v.MealType != "" {
		loc += ", meal " + v.MealType
	}
	if v.PartName != "" {
		loc += ", part " + v.PartName
	}
	return loc + ": " + v.Reason
}

// Validate checks a plan against the structural and nutritional rules and
// returns every violation found, in check order. It never aborts early; an
// empty result means the plan is accepted. Calorie bands are checked
// against the day-type-adjusted target derived from baseDailyCalories.
func Validate(plan *Plan, baseDailyCalories int, pool *CandidatePool) []Violation {
	var violations []Violation

	required := map[string]bool{DayTypeRegular: true, DayTypeWorkout: true, DayTypeRest: true}
	seen := map[string]bool{}
	for _, day := range plan.Days {
		seen[strings.ToLower(day.DayType)] = true
	}
	if len(seen) != len(required) || !seen[DayTypeRegular] || !seen[DayTypeWorkout] || !seen[DayTypeRest] {
		violations = append(violations, Violation{
			DayIndex: -1,
			Reason:   fmt.Sprintf("plan must include exactly one regular, one workout, and one rest day, found %v", dayTypeList(plan.Days)),
		})
	}

	for dayIdx, day := range plan.Days {
		dayType := strings.ToLower(day.DayType)
		target := DayTarget(baseDailyCalories, dayType)

		expected := ExpectedMealTypes(dayType)
		present := map[string]bool{}
		for _, meal := range day.Meals {
			present[strings.ToLower(meal.MealType)] = true
		}
		for _, mt := range expected {
			if !present[mt] {
				violations = append(violations, Violation{
					DayIndex: dayIdx, DayType: dayType, MealType: mt,
					Reason: "missing required meal",
				})
			}
		}

		dayCalories := 0.0
		for _, meal := range day.Meals {
			mealType := strings.ToLower(meal.MealType)
			if parts, structured := MealPartsStructure[mealType]; structured {
				partNames := map[string]bool{}
				for _, p := range meal.Parts {
					partNames[strings.ToLower(p.Name)] = true
				}
				for _, def := range parts {
					if def.Required && !partNames[def.Name] {
						violations = append(violations, Violation{
							DayIndex: dayIdx, DayType: dayType, MealType: mealType, PartName: def.Name,
							Reason: "missing required part",
						})
					}
				}
				for _, part := range meal.Parts {
					if part.RecipeID == nil {
						continue
					}
					partName := strings.ToLower(part.Name)
					recipe, ok := pool.ByID(*part.RecipeID)
					if !ok {
						violations = append(violations, Violation{
							DayIndex: dayIdx, DayType: dayType, MealType: mealType, PartName: partName,
							Reason: fmt.Sprintf("invalid recipe id %d", *part.RecipeID),
						})
						continue
					}
					dayCalories += recipe.Calories
					if !recipe.HasTag(partName) || !recipe.HasTag(mealType) {
						violations = append(violations, Violation{
							DayIndex: dayIdx, DayType: dayType, MealType: mealType, PartName: partName,
							Reason: fmt.Sprintf("recipe id %d lacks required tags", *part.RecipeID),
						})
					}
				}
			} else if isSimpleOrWorkoutMeal(mealType) {
				selected := false
				for _, part := range meal.Parts {
					if part.RecipeID != nil {
						selected = true
					}
				}
				if !selected {
					violations = append(violations, Violation{
						DayIndex: dayIdx, DayType: dayType, MealType: mealType,
						Reason: "no recipe selected",
					})
				}
				for _, part := range meal.Parts {
					if part.RecipeID == nil {
						continue
					}
					recipe, ok := pool.ByID(*part.RecipeID)
					if !ok {
						violations = append(violations, Violation{
							DayIndex: dayIdx, DayType: dayType, MealType: mealType,
							Reason: fmt.Sprintf("invalid recipe id %d", *part.RecipeID),
						})
						continue
					}
					dayCalories += recipe.Calories
					if !recipe.HasTag(PartMainCourse) || !recipe.HasTag(SimpleMealTag(mealType)) {
						violations = append(violations, Violation{
							DayIndex: dayIdx, DayType: dayType, MealType: mealType,
							Reason: fmt.Sprintf("recipe id %d lacks required tags", *part.RecipeID),
						})
					}
				}
			}
		}

		low := float64(target) * (1 - CalorieTolerance)
		high := float64(target) * (1 + CalorieTolerance)
		if dayCalories < low || dayCalories > high {
			violations = append(violations, Violation{
				DayIndex: dayIdx, DayType: dayType,
				Reason: fmt.Sprintf("total calories %.2f outside target %d ±15%%", dayCalories, target),
			})
		}
	}

	return violations
}

func isSimpleOrWorkoutMeal(mealType string) bool {
	switch mealType {
	case MealMidMorning, MealMidAfternoon, MealSupper, MealPreWorkout, MealPostWorkout:
		return true
	}
	return false
}

func dayTypeList(days []Day) []string {
	types := make([]string, 0, len(days))
	for _, day := range days {
		types = append(types, strings.ToLower(day.DayType))
	}
	return types
}
