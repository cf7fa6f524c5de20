package planner

import "strings"

// Day types. A finished plan carries exactly one day of each type.
const (
	DayTypeRegular = "regular"
	DayTypeWorkout = "workout"
	DayTypeRest    = "rest"
)

// Meal types. The two workout meals only appear on workout days.
const (
	MealBreakfast    = "breakfast"
	MealLunch        = "lunch"
	MealDinner       = "dinner"
	MealMidMorning   = "mid_morning"
	MealMidAfternoon = "mid_afternoon"
	MealSupper       = "supper"
	MealPreWorkout   = "pre-workout"
	MealPostWorkout  = "post-workout"
)

// Goals.
const (
	GoalWeightLoss  = "weight_loss"
	GoalMuscleGain  = "muscle_gain"
	GoalMaintenance = "maintenance"
)

// PartMainCourse is the part name (and recipe tag) shared by every meal.
const PartMainCourse = "main course"

// PartSpec describes one named component of a structured meal.
type PartSpec struct {
	Name     string
	Required bool
}

// MealPartsStructure lists the parts of structured meals. Meal types absent
// from this map are simple meals with a single implicit part.
var MealPartsStructure = map[string][]PartSpec{
	MealBreakfast: {
		{Name: PartMainCourse, Required: true},
		{Name: "fruit", Required: false},
		{Name: "dairy", Required: false},
	},
	MealLunch: {
		{Name: PartMainCourse, Required: true},
		{Name: "soup", Required: false},
	},
	MealDinner: {
		{Name: PartMainCourse, Required: true},
		{Name: "soup", Required: false},
	},
}

// RequiredDayTypes in the order days appear in a generated plan.
var RequiredDayTypes = []string{DayTypeRegular, DayTypeWorkout, DayTypeRest}

var baseMealTypes = []string{
	MealBreakfast, MealLunch, MealDinner,
	MealMidMorning, MealMidAfternoon, MealSupper,
}

// ExpectedMealTypes returns the meal types a day of the given type must
// contain, in plan order. Workout days add pre- and post-workout meals.
func ExpectedMealTypes(dayType string) []string {
	meals := append([]string{}, baseMealTypes...)
	if strings.ToLower(dayType) == DayTypeWorkout {
		meals = append(meals, MealPreWorkout, MealPostWorkout)
	}
	return meals
}

// DayTarget scales the base daily calories by the day type multiplier:
// workout days eat 20% more, rest days 10% less.
func DayTarget(baseDailyCalories int, dayType string) int {
	switch strings.ToLower(dayType) {
	case DayTypeWorkout:
		return int(float64(baseDailyCalories) * 1.20)
	case DayTypeRest:
		return int(float64(baseDailyCalories) * 0.90)
	default:
		return baseDailyCalories
	}
}

// AdjustedBaseCalories raises the base daily calories by 10% for users with
// moderate or high physical activity.
func AdjustedBaseCalories(dailyCalories int, physicalActivity string) int {
	switch strings.ToLower(physicalActivity) {
	case "moderate", "high":
		return int(float64(dailyCalories) * 1.10)
	}
	return dailyCalories
}

// SimpleMealTag maps a simple or workout meal type to the recipe tag used
// for candidate filtering: the snack meals borrow the breakfast and dinner
// tag pools, everything else filters on its own name.
func SimpleMealTag(mealType string) string {
	switch strings.ToLower(mealType) {
	case MealMidMorning, MealMidAfternoon:
		return MealBreakfast
	case MealSupper:
		return MealDinner
	default:
		return strings.ToLower(mealType)
	}
}

// MacroTargets is the protein/carbs/fat calorie share for a goal.
type MacroTargets struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// MacroTargetsFor returns the macro split for a goal. Unknown goals get the
// maintenance split.
func MacroTargetsFor(goal string) MacroTargets {
	switch goal {
	case GoalWeightLoss:
		return MacroTargets{Protein: 0.35, Carbs: 0.40, Fat: 0.25}
	case GoalMuscleGain:
		return MacroTargets{Protein: 0.30, Carbs: 0.50, Fat: 0.20}
	default:
		return MacroTargets{Protein: 0.25, Carbs: 0.50, Fat: 0.25}
	}
}

// Plan is a full 3-day meal plan. It round-trips through JSON in the wire
// shape produced and consumed by draft providers and the export endpoint.
type Plan struct {
	Title             string       `json:"meal_plan_title"`
	BaseDailyCalories int          `json:"base_daily_calories"`
	Goal              string       `json:"goal"`
	MacroTargets      MacroTargets `json:"macro_targets"`
	Days              []Day        `json:"days"`
}

// Day is one plan day.
type Day struct {
	Date           string     `json:"date"`
	DayType        string     `json:"day_type"`
	TargetCalories int        `json:"target_calories_for_day"`
	Meals          []MealSlot `json:"meals"`
}

// MealSlot is one meal within a day.
type MealSlot struct {
	MealType          string     `json:"meal_type"`
	AllocatedCalories int        `json:"allocated_calories_for_meal"`
	Parts             []PartSlot `json:"parts"`
}

// PartSlot is one named component of a meal. A nil RecipeID means the slot
// is intentionally unfilled.
type PartSlot struct {
	Name     string `json:"name"`
	RecipeID *int64 `json:"selected_recipe_id"`
}

// CandidateRecipe is the read-only view of a recipe used during planning.
// Tags is a lower-cased set.
type CandidateRecipe struct {
	ID                int64
	Title             string
	Tags              map[string]struct{}
	Calories          float64
	Protein           float64
	Carbohydrate      float64
	Fat               float64
	AverageRating     float64
	GlobalCookedCount int
}

// NewCandidateRecipe builds a CandidateRecipe with tags normalized into a
// lower-cased set.
func NewCandidateRecipe(id int64, title string, tags []string) CandidateRecipe {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		set[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}
	return CandidateRecipe{ID: id, Title: title, Tags: set}
}

// HasTag reports whether the recipe carries the tag, case-insensitively.
func (r CandidateRecipe) HasTag(tag string) bool {
	_, ok := r.Tags[strings.ToLower(tag)]
	return ok
}

// TagList returns the recipe's tags as a sorted-free slice for summaries.
func (r CandidateRecipe) TagList() []string {
	tags := make([]string, 0, len(r.Tags))
	for tag := range r.Tags {
		tags = append(tags, tag)
	}
	return tags
}

// CandidatePool is an indexed read-only snapshot of the recipes eligible
// for one generation request.
type CandidatePool struct {
	recipes []CandidateRecipe
	byID    map[int64]CandidateRecipe
}

// NewCandidatePool indexes a recipe snapshot.
func NewCandidatePool(recipes []CandidateRecipe) *CandidatePool {
	byID := make(map[int64]CandidateRecipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	return &CandidatePool{recipes: recipes, byID: byID}
}

// Len returns the number of recipes in the pool.
func (p *CandidatePool) Len() int {
	return len(p.recipes)
}

// All returns the underlying snapshot. Callers must not mutate it.
func (p *CandidatePool) All() []CandidateRecipe {
	return p.recipes
}

// ByID looks up a recipe by id.
func (p *CandidatePool) ByID(id int64) (CandidateRecipe, bool) {
	r, ok := p.byID[id]
	return r, ok
}

// WithTags returns the recipes carrying every given tag, case-insensitively.
func (p *CandidatePool) WithTags(tags ...string) []CandidateRecipe {
	var out []CandidateRecipe
next:
	for _, r := range p.recipes {
		for _, tag := range tags {
			if !r.HasTag(tag) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

// Feedback is one user's history with one recipe. Rating and Liked are nil
// when the user never rated or reacted.
type Feedback struct {
	Rating      *int
	Liked       *bool
	CookedCount int
	SkipCount   int
}

// FeedbackCache maps recipe id to the user's feedback, snapshotted once per
// generation request.
type FeedbackCache map[int64]Feedback

// DayNutrition sums calories and macros over the selected recipes of a day.
type DayNutrition struct {
	Calories     float64
	Protein      float64
	Carbohydrate float64
	Fat          float64
}

// NutritionFor totals the selected recipes of a day against the pool.
// Unresolvable recipe ids contribute nothing.
func (p *CandidatePool) NutritionFor(day Day) DayNutrition {
	var n DayNutrition
	for _, meal := range day.Meals {
		for _, part := range meal.Parts {
			if part.RecipeID == nil {
				continue
			}
			recipe, ok := p.ByID(*part.RecipeID)
			if !ok {
				continue
			}
			n.Calories += recipe.Calories
			n.Protein += recipe.Protein
			n.Carbohydrate += recipe.Carbohydrate
			n.Fat += recipe.Fat
		}
	}
	return n
}
