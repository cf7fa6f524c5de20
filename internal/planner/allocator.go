package planner

import "strings"

// mealCalorieWeights is the fixed share of a day's calories each meal type
// receives.
var mealCalorieWeights = map[string]float64{
	MealBreakfast:    0.25,
	MealLunch:        0.35,
	MealDinner:       0.30,
	MealPreWorkout:   0.05,
	MealPostWorkout:  0.05,
	MealMidMorning:   0.05,
	MealMidAfternoon: 0.05,
	MealSupper:       0.10,
}

// DistributeCalories splits a day's calorie target across meal types using
// the fixed weight table. Unknown meal types allocate 0. Shares are
// truncated and never renormalized, so the allocations may sum to less than
// the target; the calorie band check runs on actual selected-recipe totals,
// not on allocations.
func DistributeCalories(targetCalories int, mealTypes []string) map[string]int {
	result := make(map[string]int, len(mealTypes))
	for _, mt := range mealTypes {
		weight := mealCalorieWeights[strings.ToLower(mt)]
		result[mt] = int(float64(targetCalories) * weight)
	}
	return result
}
