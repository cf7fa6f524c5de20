package planner

import (
	"math/rand"
	"time"
)

// Selector picks recipes for meal slots out of the candidate pool.
type Selector struct {
	pool   *CandidatePool
	scorer *Scorer
	rng    *rand.Rand
}

// NewSelector creates a selector. A nil rng gets a time-seeded one.
func NewSelector(pool *CandidatePool, scorer *Scorer, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{pool: pool, scorer: scorer, rng: rng}
}

// SelectForPart picks the best-scoring recipe carrying both the meal type
// and the part name as tags. Returns nil when no candidate survives the
// tag filter; the caller decides whether that is acceptable.
func (s *Selector) SelectForPart(mealType, partName string, targetCalories float64) *CandidateRecipe {
	candidates := s.pool.WithTags(mealType, partName)
	return s.pickBest(candidates, mealType, partName, targetCalories)
}

// SelectForSimpleMeal picks a recipe for a simple or workout meal: the
// candidate must carry the mapped meal tag and the "main course" tag.
func (s *Selector) SelectForSimpleMeal(mealType string, targetCalories float64) *CandidateRecipe {
	mealTag := SimpleMealTag(mealType)
	candidates := s.pool.WithTags(mealTag, PartMainCourse)
	return s.pickBest(candidates, mealTag, PartMainCourse, targetCalories)
}

// pickBest scores all candidates and chooses uniformly among those sharing
// the exact maximum score.
func (s *Selector) pickBest(candidates []CandidateRecipe, mealType, partName string, targetCalories float64) *CandidateRecipe {
	bestScore := -1.0
	var best []CandidateRecipe
	for _, recipe := range candidates {
		score := s.scorer.Score(recipe, mealType, partName, targetCalories)
		if score > bestScore {
			bestScore = score
			best = append(best[:0], recipe)
		} else if score == bestScore && bestScore != -1.0 {
			best = append(best, recipe)
		}
	}
	if len(best) == 0 {
		return nil
	}
	pick := best[s.rng.Intn(len(best))]
	return &pick
}
