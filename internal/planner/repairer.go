package planner

import (
	"math/rand"
	"strings"
	"time"
)

// Repairer rebuilds a plan's day list so that every expected meal and part
// slot is present, reusing existing selections that already satisfy tag
// constraints. The day list is always replaced wholesale, never patched in
// place, so the repaired plan has a fully specified shape before
// re-validation. The contract is exactly one repair pass followed by one
// re-validation.
type Repairer struct {
	pool     *CandidatePool
	selector *Selector
	rng      *rand.Rand
	now      func() time.Time
}

// NewRepairer creates a repairer. A nil rng gets a time-seeded one.
func NewRepairer(pool *CandidatePool, selector *Selector, rng *rand.Rand) *Repairer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Repairer{pool: pool, selector: selector, rng: rng, now: time.Now}
}

// Repair replaces plan.Days with three freshly built days, one per required
// day type. Required parts always get an attempted fill; optional parts
// without a reusable selection are filled with 50% probability to vary plan
// variety. A required part may still end up nil when no candidate matches
// its tags.
func (r *Repairer) Repair(plan *Plan, baseDailyCalories int) {
	fixed := make([]Day, 0, len(RequiredDayTypes))
	for _, dayType := range RequiredDayTypes {
		target := DayTarget(baseDailyCalories, dayType)
		mealTypes := ExpectedMealTypes(dayType)
		allocations := DistributeCalories(target, mealTypes)

		existingDay := findDay(plan.Days, dayType)
		date := r.now().AddDate(0, 0, len(fixed)).Format("2006-01-02")
		if existingDay != nil && existingDay.Date != "" {
			date = existingDay.Date
		}

		meals := make([]MealSlot, 0, len(mealTypes))
		for _, mealType := range mealTypes {
			allocated := allocations[mealType]
			existingMeal := findMeal(existingDay, mealType)

			if partDefs, structured := MealPartsStructure[mealType]; structured {
				parts := make([]PartSlot, 0, len(partDefs))
				for _, def := range partDefs {
					selected := r.reusePartSelection(existingMeal, mealType, def.Name)
					if selected == nil && (def.Required || r.rng.Intn(2) == 0) {
						selected = r.selector.SelectForPart(mealType, def.Name, float64(allocated)/float64(len(partDefs)))
					}
					parts = append(parts, PartSlot{Name: def.Name, RecipeID: recipeID(selected)})
				}
				meals = append(meals, MealSlot{MealType: mealType, AllocatedCalories: allocated, Parts: parts})
			} else {
				selected := r.reuseSimpleSelection(existingMeal, mealType)
				if selected == nil {
					selected = r.selector.SelectForSimpleMeal(mealType, float64(allocated))
				}
				meals = append(meals, MealSlot{
					MealType:          mealType,
					AllocatedCalories: allocated,
					Parts:             []PartSlot{{Name: "main", RecipeID: recipeID(selected)}},
				})
			}
		}

		fixed = append(fixed, Day{
			Date:           date,
			DayType:        dayType,
			TargetCalories: target,
			Meals:          meals,
		})
	}
	plan.Days = fixed
}

// reusePartSelection returns the existing selection for a structured meal
// part when it resolves and carries both the part and meal type tags.
func (r *Repairer) reusePartSelection(meal *MealSlot, mealType, partName string) *CandidateRecipe {
	if meal == nil {
		return nil
	}
	for _, part := range meal.Parts {
		if !strings.EqualFold(part.Name, partName) || part.RecipeID == nil {
			continue
		}
		if recipe, ok := r.pool.ByID(*part.RecipeID); ok && recipe.HasTag(partName) && recipe.HasTag(mealType) {
			return &recipe
		}
	}
	return nil
}

// reuseSimpleSelection returns the first existing selection of a simple or
// workout meal when it resolves and carries the mapped meal tag plus
// "main course".
func (r *Repairer) reuseSimpleSelection(meal *MealSlot, mealType string) *CandidateRecipe {
	if meal == nil || len(meal.Parts) == 0 || meal.Parts[0].RecipeID == nil {
		return nil
	}
	recipe, ok := r.pool.ByID(*meal.Parts[0].RecipeID)
	if ok && recipe.HasTag(PartMainCourse) && recipe.HasTag(SimpleMealTag(mealType)) {
		return &recipe
	}
	return nil
}

func findDay(days []Day, dayType string) *Day {
	for i := range days {
		if strings.EqualFold(days[i].DayType, dayType) {
			return &days[i]
		}
	}
	return nil
}

func findMeal(day *Day, mealType string) *MealSlot {
	if day == nil {
		return nil
	}
	for i := range day.Meals {
		if strings.EqualFold(day.Meals[i].MealType, mealType) {
			return &day.Meals[i]
		}
	}
	return nil
}

func recipeID(recipe *CandidateRecipe) *int64 {
	if recipe == nil {
		return nil
	}
	id := recipe.ID
	return &id
}
