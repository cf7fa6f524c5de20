package planner

import (
	"math/rand"
	"testing"
)

func newTestSelector(pool *CandidatePool, seed int64) *Selector {
	rng := rand.New(rand.NewSource(seed))
	return NewSelector(pool, NewScorer(nil, rng), rng)
}

func TestSelectForPartFiltersByBothTags(t *testing.T) {
	pool := NewCandidatePool([]CandidateRecipe{
		testRecipe(1, 500, MealLunch, PartMainCourse),
		testRecipe(2, 500, MealLunch), // missing part tag
		testRecipe(3, 500, PartMainCourse),
	})
	selector := newTestSelector(pool, 1)

	selected := selector.SelectForPart(MealLunch, PartMainCourse, 500)
	if selected == nil {
		t.Fatal("expected a selection")
	}
	if selected.ID != 1 {
		t.Errorf("expected recipe 1, got %d", selected.ID)
	}
}

func TestSelectForPartReturnsNilWhenNoCandidate(t *testing.T) {
	pool := NewCandidatePool([]CandidateRecipe{
		testRecipe(1, 500, MealLunch),
	})
	selector := newTestSelector(pool, 1)

	if selected := selector.SelectForPart(MealLunch, "soup", 500); selected != nil {
		t.Errorf("expected nil selection, got recipe %d", selected.ID)
	}
}

func TestSelectForSimpleMealUsesMappedTag(t *testing.T) {
	pool := NewCandidatePool([]CandidateRecipe{
		testRecipe(1, 100, MealBreakfast, PartMainCourse),
		testRecipe(2, 100, MealDinner, PartMainCourse),
	})
	selector := newTestSelector(pool, 1)

	// mid_morning borrows the breakfast tag pool
	selected := selector.SelectForSimpleMeal(MealMidMorning, 100)
	if selected == nil || selected.ID != 1 {
		t.Fatalf("expected mid_morning to select the breakfast recipe, got %v", selected)
	}

	// supper borrows the dinner tag pool
	selected = selector.SelectForSimpleMeal(MealSupper, 100)
	if selected == nil || selected.ID != 2 {
		t.Fatalf("expected supper to select the dinner recipe, got %v", selected)
	}
}

func TestSelectForPartPrefersBetterCalorieFit(t *testing.T) {
	pool := NewCandidatePool([]CandidateRecipe{
		testRecipe(1, 500, MealLunch, PartMainCourse),
		testRecipe(2, 2000, MealLunch, PartMainCourse),
	})
	selector := newTestSelector(pool, 1)

	for i := 0; i < 50; i++ {
		selected := selector.SelectForPart(MealLunch, PartMainCourse, 500)
		if selected == nil || selected.ID != 1 {
			t.Fatalf("expected the on-target recipe, got %v", selected)
		}
	}
}
