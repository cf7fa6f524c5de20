package recipes

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fdg312/meal-hub/internal/storage/memory"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.New().GetRecipesStorage())
}

func TestCreateAndGet(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, UpsertRecipeRequest{
		Title:    "Oatmeal",
		Tags:     []string{"breakfast", "main course"},
		Calories: 200,
		Protein:  8,
	})
	if err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected non-zero recipe id")
	}

	got, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get recipe: %v", err)
	}
	if got.Title != "Oatmeal" {
		t.Errorf("expected title Oatmeal, got %s", got.Title)
	}
	if got.Calories != 200 {
		t.Errorf("expected 200 calories, got %v", got.Calories)
	}
}

func TestCreateValidation(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  UpsertRecipeRequest
	}{
		{"empty title", UpsertRecipeRequest{Tags: []string{"lunch"}, Calories: 100}},
		{"no tags", UpsertRecipeRequest{Title: "Soup", Calories: 100}},
		{"negative calories", UpsertRecipeRequest{Title: "Soup", Tags: []string{"lunch"}, Calories: -1}},
		{"negative protein", UpsertRecipeRequest{Title: "Soup", Tags: []string{"lunch"}, Protein: -5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Create(ctx, tc.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestListFiltersByTags(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	seed := []UpsertRecipeRequest{
		{Title: "Oatmeal", Tags: []string{"breakfast", "vegan"}, Calories: 200},
		{Title: "Chicken Bowl", Tags: []string{"lunch"}, Calories: 400},
		{Title: "Tofu Stir Fry", Tags: []string{"dinner", "vegan"}, Calories: 350},
	}
	for _, req := range seed {
		if _, err := service.Create(ctx, req); err != nil {
			t.Fatalf("failed to seed recipe %q: %v", req.Title, err)
		}
	}

	resp, err := service.List(ctx, []string{"vegan"}, 0, 0)
	if err != nil {
		t.Fatalf("failed to list recipes: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("expected total 2, got %d", resp.Total)
	}
	if len(resp.Recipes) != 2 {
		t.Errorf("expected 2 recipes, got %d", len(resp.Recipes))
	}

	all, err := service.List(ctx, nil, 0, 0)
	if err != nil {
		t.Fatalf("failed to list all recipes: %v", err)
	}
	if all.Total != 3 {
		t.Errorf("expected total 3, got %d", all.Total)
	}
	if all.Limit != 50 {
		t.Errorf("expected default limit 50, got %d", all.Limit)
	}
}

// Tags are stored lower-cased so the Postgres array-overlap filter
// behaves like the in-memory fold comparison.
func TestTagNormalization(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, UpsertRecipeRequest{
		Title:    "Tofu Bowl",
		Tags:     []string{"Vegan", " Lunch ", "MAIN COURSE"},
		Calories: 350,
	})
	if err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}

	want := []string{"vegan", "lunch", "main course"}
	for i, tag := range created.Tags {
		if tag != want[i] {
			t.Errorf("expected tag %q, got %q", want[i], tag)
		}
	}

	// Mixed-case filter terms still match
	resp, err := service.List(ctx, []string{"VEGAN"}, 0, 0)
	if err != nil {
		t.Fatalf("failed to list recipes: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected total 1 for mixed-case filter, got %d", resp.Total)
	}

	pool, err := service.CandidatePool(ctx, []string{"VeGaN"})
	if err != nil {
		t.Fatalf("failed to build pool: %v", err)
	}
	if pool.Len() != 1 {
		t.Errorf("expected pool of 1 for mixed-case preference, got %d", pool.Len())
	}

	updated, err := service.Update(ctx, created.ID, UpsertRecipeRequest{
		Title:    "Tofu Bowl",
		Tags:     []string{"Dinner"},
		Calories: 350,
	})
	if err != nil {
		t.Fatalf("failed to update recipe: %v", err)
	}
	if updated.Tags[0] != "dinner" {
		t.Errorf("expected updated tag dinner, got %q", updated.Tags[0])
	}
}

func TestUpdateAndDelete(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, UpsertRecipeRequest{
		Title:    "Soup",
		Tags:     []string{"lunch"},
		Calories: 120,
	})
	if err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}

	updated, err := service.Update(ctx, created.ID, UpsertRecipeRequest{
		Title:    "Tomato Soup",
		Tags:     []string{"lunch", "soup"},
		Calories: 130,
	})
	if err != nil {
		t.Fatalf("failed to update recipe: %v", err)
	}
	if updated.Title != "Tomato Soup" {
		t.Errorf("expected updated title, got %s", updated.Title)
	}
	if len(updated.Tags) != 2 {
		t.Errorf("expected 2 tags, got %d", len(updated.Tags))
	}

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("failed to delete recipe: %v", err)
	}
	if _, err := service.Get(ctx, created.ID); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	service := setupTestService(t)

	if err := service.Delete(context.Background(), 999); !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got %v", err)
	}
}

func TestCandidatePool(t *testing.T) {
	service := setupTestService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		req := UpsertRecipeRequest{
			Title:    fmt.Sprintf("Recipe %d", i),
			Tags:     []string{"breakfast"},
			Calories: 100 + float64(i*50),
		}
		if i%2 == 0 {
			req.Tags = append(req.Tags, "vegan")
		}
		if _, err := service.Create(ctx, req); err != nil {
			t.Fatalf("failed to seed recipe: %v", err)
		}
	}

	pool, err := service.CandidatePool(ctx, nil)
	if err != nil {
		t.Fatalf("failed to build pool: %v", err)
	}
	if pool.Len() != 5 {
		t.Errorf("expected pool of 5, got %d", pool.Len())
	}

	vegan, err := service.CandidatePool(ctx, []string{"vegan"})
	if err != nil {
		t.Fatalf("failed to build filtered pool: %v", err)
	}
	if vegan.Len() != 3 {
		t.Errorf("expected pool of 3, got %d", vegan.Len())
	}
}
