package planner

import (
	"math"
	"math/rand"
	"time"
)

// Scorer ranks candidate recipes for a meal slot. Scores are not bounded;
// higher is better. Calorie fit dominates the weighting on purpose.
type Scorer struct {
	feedback FeedbackCache
	rng      *rand.Rand
}

// NewScorer creates a scorer over a user's feedback snapshot. A nil rng
// gets a time-seeded one; pass an explicit source for reproducible runs.
func NewScorer(feedback FeedbackCache, rng *rand.Rand) *Scorer {
	if feedback == nil {
		feedback = FeedbackCache{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scorer{feedback: feedback, rng: rng}
}

// Score computes the desirability of a recipe for a slot:
//   - calorie fit against the slot target, weight 0.4 (skipped when the
//     target is not positive)
//   - tag match bonus for the meal type and part name, weight 0.2
//   - personal feedback (rating, liked, cooked/skip history), weight 0.25
//   - global popularity, added flat (up to +0.10)
//   - uniform jitter in [0, 0.05) so exact ties do not always resolve the
//     same way
func (s *Scorer) Score(recipe CandidateRecipe, mealType, partName string, targetCalories float64) float64 {
	score := 0.0

	if targetCalories > 0 {
		diff := math.Abs(recipe.Calories - targetCalories)
		score += math.Max(0, 1-diff/targetCalories) * 0.4
	}

	tagBonus := 0.0
	if mealType != "" && recipe.HasTag(mealType) {
		tagBonus += 0.1
	}
	if partName != "" && recipe.HasTag(partName) {
		tagBonus += 0.1
	}
	score += tagBonus * 0.2

	userBonus := 0.0
	if fb, ok := s.feedback[recipe.ID]; ok {
		if fb.Rating != nil {
			if *fb.Rating >= 4 {
				userBonus += 0.1
			} else if *fb.Rating <= 2 {
				userBonus -= 0.1
			}
		}
		if fb.Liked != nil {
			if *fb.Liked {
				userBonus += 0.1
			} else {
				userBonus -= 0.2
			}
		}
		userBonus += float64(min(fb.CookedCount, 5)) * 0.02
		userBonus -= float64(min(fb.SkipCount, 5)) * 0.02
	}
	score += userBonus * 0.25

	globalBonus := 0.0
	if recipe.AverageRating > 0 {
		globalBonus += recipe.AverageRating / 5.0 * 0.05
	}
	if recipe.GlobalCookedCount > 0 {
		globalBonus += math.Min(float64(recipe.GlobalCookedCount)/100.0, 1.0) * 0.05
	}
	score += globalBonus

	score += s.rng.Float64() * 0.05
	return score
}
