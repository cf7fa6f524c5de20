package planner

import (
	"math/rand"
	"testing"
)

func testRecipe(id int64, calories float64, tags ...string) CandidateRecipe {
	r := NewCandidateRecipe(id, "recipe", tags)
	r.Calories = calories
	return r
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// Calorie fit carries weight 0.4 while jitter tops out below 0.05, so a
// recipe on target must always outscore one far off target.
func TestScoreCalorieFitDominatesJitter(t *testing.T) {
	scorer := NewScorer(nil, rand.New(rand.NewSource(1)))

	onTarget := testRecipe(1, 500)
	farOff := testRecipe(2, 1000)

	for i := 0; i < 100; i++ {
		good := scorer.Score(onTarget, MealLunch, PartMainCourse, 500)
		bad := scorer.Score(farOff, MealLunch, PartMainCourse, 500)
		if good <= bad {
			t.Fatalf("expected on-target recipe to outscore far-off recipe, got %.4f <= %.4f", good, bad)
		}
	}
}

func TestScoreSkipsCalorieFitWithoutTarget(t *testing.T) {
	scorer := NewScorer(nil, rand.New(rand.NewSource(1)))
	score := scorer.Score(testRecipe(1, 500), "", "", 0)
	// only jitter remains
	if score < 0 || score >= 0.05 {
		t.Errorf("expected score in [0, 0.05) with no target and no tags, got %.4f", score)
	}
}

func TestScoreTagBonus(t *testing.T) {
	scorer := NewScorer(nil, rand.New(rand.NewSource(1)))
	tagged := testRecipe(1, 0, MealLunch, PartMainCourse)
	untagged := testRecipe(2, 0)

	for i := 0; i < 100; i++ {
		withTags := scorer.Score(tagged, MealLunch, PartMainCourse, 0)
		without := scorer.Score(untagged, MealLunch, PartMainCourse, 0)
		// tag bonus is 0.2*0.2 = 0.04, below jitter range, so compare
		// after stripping the known deterministic part is not possible;
		// check the tagged floor instead
		if withTags < 0.04 {
			t.Fatalf("expected tagged recipe to score at least the tag bonus, got %.4f", withTags)
		}
		if without >= 0.05 {
			t.Fatalf("expected untagged recipe to score only jitter, got %.4f", without)
		}
	}
}

func TestScorePersonalFeedback(t *testing.T) {
	liked := FeedbackCache{1: {Rating: intPtr(5), Liked: boolPtr(true), CookedCount: 10}}
	disliked := FeedbackCache{1: {Rating: intPtr(1), Liked: boolPtr(false), SkipCount: 10}}

	recipe := testRecipe(1, 0)
	likedScorer := NewScorer(liked, rand.New(rand.NewSource(1)))
	dislikedScorer := NewScorer(disliked, rand.New(rand.NewSource(2)))

	// liked bonus: (0.1 + 0.1 + 5*0.02) * 0.25 = 0.075
	// disliked penalty: (-0.1 - 0.2 - 5*0.02) * 0.25 = -0.1
	// gap of 0.175 always beats the 0.05 jitter range
	for i := 0; i < 100; i++ {
		if likedScorer.Score(recipe, "", "", 0) <= dislikedScorer.Score(recipe, "", "", 0) {
			t.Fatal("expected liked recipe history to outscore disliked history")
		}
	}
}

func TestScoreGlobalPopularity(t *testing.T) {
	scorer := NewScorer(nil, rand.New(rand.NewSource(1)))

	popular := testRecipe(1, 0)
	popular.AverageRating = 5
	popular.GlobalCookedCount = 200

	score := scorer.Score(popular, "", "", 0)
	if score < 0.10 {
		t.Errorf("expected at least the full popularity bonus 0.10, got %.4f", score)
	}
}
