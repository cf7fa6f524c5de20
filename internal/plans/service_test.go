package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/fdg312/meal-hub/internal/feedback"
	"github.com/fdg312/meal-hub/internal/nutrition"
	"github.com/fdg312/meal-hub/internal/planner"
	"github.com/fdg312/meal-hub/internal/recipes"
	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/fdg312/meal-hub/internal/storage/memory"
)

type stubProvider struct {
	draft    *planner.Plan
	draftErr error
	optimize func(plan *planner.Plan) (*planner.Plan, error)
}

func (s *stubProvider) GenerateDraft(ctx context.Context, req planner.DraftRequest) (*planner.Plan, error) {
	return s.draft, s.draftErr
}

func (s *stubProvider) OptimizePlan(ctx context.Context, plan *planner.Plan) (*planner.Plan, error) {
	if s.optimize == nil {
		return nil, fmt.Errorf("not implemented")
	}
	return s.optimize(plan)
}

type testEnv struct {
	service   *Service
	nutrition *nutrition.Service
	userID    string
}

// setupTestEnv seeds a user and a catalog with one calibrated recipe per
// meal part plus fillers to clear the minimum pool size.
func setupTestEnv(t *testing.T, opts Options) testEnv {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	user := &storage.User{Email: "planner@example.com", Name: "Planner"}
	if err := store.GetUsersStorage().CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	recipeService := recipes.NewService(store.GetRecipesStorage())
	seed := []recipes.UpsertRecipeRequest{
		{Title: "Oatmeal", Tags: []string{"breakfast", "main course"}, Calories: 200},
		{Title: "Apple", Tags: []string{"breakfast", "fruit"}, Calories: 80},
		{Title: "Yogurt", Tags: []string{"breakfast", "dairy"}, Calories: 100},
		{Title: "Chicken Bowl", Tags: []string{"lunch", "main course"}, Calories: 400},
		{Title: "Tomato Soup", Tags: []string{"lunch", "soup"}, Calories: 120},
		{Title: "Baked Salmon", Tags: []string{"dinner", "main course"}, Calories: 280},
		{Title: "Miso Soup", Tags: []string{"dinner", "soup"}, Calories: 100},
		{Title: "Banana Toast", Tags: []string{"pre-workout", "main course"}, Calories: 150},
		{Title: "Protein Shake", Tags: []string{"post-workout", "main course"}, Calories: 150},
	}
	for i := 0; i < 21; i++ {
		seed = append(seed, recipes.UpsertRecipeRequest{
			Title:    fmt.Sprintf("Vegan Filler %d", i),
			Tags:     []string{"vegan"},
			Calories: 100,
		})
	}
	for _, req := range seed {
		if _, err := recipeService.Create(ctx, req); err != nil {
			t.Fatalf("failed to seed recipe %q: %v", req.Title, err)
		}
	}

	nutritionService := nutrition.NewService(store.GetNutritionTargetsStorage())

	opts.Plans = store.GetMealPlansStorage()
	opts.Users = store.GetUsersStorage()
	opts.Recipes = recipeService
	opts.Feedback = feedback.NewService(store.GetFeedbackStorage(), store.GetRecipesStorage())
	opts.Nutrition = nutritionService

	return testEnv{
		service:   NewService(opts),
		nutrition: nutritionService,
		userID:    user.ID,
	}
}

func TestGenerateDeterministic(t *testing.T) {
	env := setupTestEnv(t, Options{})
	ctx := context.Background()

	plan, err := env.service.Generate(ctx, env.userID, GeneratePlanRequest{
		DailyCalories: 2000,
		Goal:          "maintenance",
		Seed:          42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.GenerationMethod != planner.MethodDeterministic {
		t.Errorf("expected method %q, got %q", planner.MethodDeterministic, plan.GenerationMethod)
	}
	if plan.ID == "" {
		t.Error("expected stored plan to have an id")
	}
	if len(plan.Plan.Days) != 3 {
		t.Errorf("expected 3 days, got %d", len(plan.Plan.Days))
	}
	if plan.BaseDailyCalories != 2000 {
		t.Errorf("expected base 2000, got %d", plan.BaseDailyCalories)
	}

	list, err := env.service.List(ctx, env.userID, 0, 0)
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(list.Plans) != 1 {
		t.Errorf("expected 1 stored plan, got %d", len(list.Plans))
	}
}

func TestGenerateUsesStoredTargets(t *testing.T) {
	env := setupTestEnv(t, Options{})
	ctx := context.Background()

	if _, err := env.nutrition.Upsert(ctx, env.userID, nutrition.UpsertTargetsRequest{
		DailyCalories: 1800,
		Goal:          "weight_loss",
	}); err != nil {
		t.Fatalf("failed to store targets: %v", err)
	}

	plan, err := env.service.Generate(ctx, env.userID, GeneratePlanRequest{Seed: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.BaseDailyCalories != 1800 {
		t.Errorf("expected base from stored targets 1800, got %d", plan.BaseDailyCalories)
	}
	if plan.Goal != "weight_loss" {
		t.Errorf("expected goal from stored targets, got %q", plan.Goal)
	}
}

func TestGenerateValidation(t *testing.T) {
	env := setupTestEnv(t, Options{})

	_, err := env.service.Generate(context.Background(), env.userID, GeneratePlanRequest{DailyCalories: 100})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := err.Error(); got != "validation failed: daily_calories must be between 800 and 6000" {
		t.Errorf("unexpected error message: %q", got)
	}
}

func TestGenerateInsufficientPool(t *testing.T) {
	env := setupTestEnv(t, Options{})
	ctx := context.Background()

	// Narrow the user's preferences to a tag nothing carries
	user, _, err := env.service.users.GetUser(ctx, env.userID)
	if err != nil {
		t.Fatalf("failed to load user: %v", err)
	}
	user.DietaryPreferences = []string{"keto"}
	if err := env.service.users.UpdateUser(ctx, &user); err != nil {
		t.Fatalf("failed to update user: %v", err)
	}

	_, err = env.service.Generate(ctx, env.userID, GeneratePlanRequest{DailyCalories: 2000})
	if !errors.Is(err, planner.ErrInsufficientCandidates) {
		t.Fatalf("expected ErrInsufficientCandidates, got %v", err)
	}
}

func TestGenerateUnknownUser(t *testing.T) {
	env := setupTestEnv(t, Options{})

	_, err := env.service.Generate(context.Background(), "nope", GeneratePlanRequest{DailyCalories: 2000})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGenerateFallsBackOnDraftError(t *testing.T) {
	env := setupTestEnv(t, Options{
		Provider: &stubProvider{draftErr: fmt.Errorf("provider unreachable")},
	})

	plan, err := env.service.Generate(context.Background(), env.userID, GeneratePlanRequest{
		DailyCalories: 2000,
		Seed:          3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.GenerationMethod != planner.MethodDeterministic {
		t.Errorf("expected fallback to %q, got %q", planner.MethodDeterministic, plan.GenerationMethod)
	}
}

func TestGetExportDelete(t *testing.T) {
	env := setupTestEnv(t, Options{})
	ctx := context.Background()

	created, err := env.service.Generate(ctx, env.userID, GeneratePlanRequest{DailyCalories: 2000, Seed: 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := env.service.Get(ctx, env.userID, created.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if got.Title != created.Title {
		t.Errorf("expected title %q, got %q", created.Title, got.Title)
	}

	payload, err := env.service.Export(ctx, env.userID, created.ID)
	if err != nil {
		t.Fatalf("unexpected export error: %v", err)
	}
	var exported planner.Plan
	if err := json.Unmarshal(payload, &exported); err != nil {
		t.Fatalf("export is not valid plan JSON: %v", err)
	}
	if len(exported.Days) != 3 {
		t.Errorf("expected 3 days in export, got %d", len(exported.Days))
	}

	if err := env.service.Delete(ctx, env.userID, created.ID); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}
	if _, err := env.service.Get(ctx, env.userID, created.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound after delete, got %v", err)
	}

	// plans are owner-scoped
	if err := env.service.Delete(ctx, "someone-else", created.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound for foreign owner, got %v", err)
	}
}

func TestOptimizeReplacesPlan(t *testing.T) {
	provider := &stubProvider{
		optimize: func(plan *planner.Plan) (*planner.Plan, error) {
			rewritten := *plan
			rewritten.Title = "Tightened Plan"
			return &rewritten, nil
		},
	}
	env := setupTestEnv(t, Options{Provider: provider})
	ctx := context.Background()

	created, err := env.service.Generate(ctx, env.userID, GeneratePlanRequest{
		DailyCalories:      2000,
		Seed:               13,
		ForceDeterministic: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	optimized, err := env.service.Optimize(ctx, env.userID, created.ID)
	if err != nil {
		t.Fatalf("unexpected optimize error: %v", err)
	}
	if optimized.GenerationMethod != GenerationMethodOptimized {
		t.Errorf("expected method %q, got %q", GenerationMethodOptimized, optimized.GenerationMethod)
	}
	if optimized.Title != "Tightened Plan" {
		t.Errorf("expected rewritten title, got %q", optimized.Title)
	}
	if optimized.BaseDailyCalories != created.BaseDailyCalories {
		t.Errorf("expected base calories preserved, got %d", optimized.BaseDailyCalories)
	}

	stored, err := env.service.Get(ctx, env.userID, created.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if stored.GenerationMethod != GenerationMethodOptimized {
		t.Errorf("expected stored method %q, got %q", GenerationMethodOptimized, stored.GenerationMethod)
	}
}

func TestOptimizeRejectsBadRewrite(t *testing.T) {
	provider := &stubProvider{
		optimize: func(plan *planner.Plan) (*planner.Plan, error) {
			rewritten := *plan
			rewritten.Days = rewritten.Days[:2]
			return &rewritten, nil
		},
	}
	env := setupTestEnv(t, Options{Provider: provider})
	ctx := context.Background()

	created, err := env.service.Generate(ctx, env.userID, GeneratePlanRequest{
		DailyCalories:      2000,
		Seed:               17,
		ForceDeterministic: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := env.service.Optimize(ctx, env.userID, created.ID); !errors.Is(err, ErrOptimizeRejected) {
		t.Fatalf("expected ErrOptimizeRejected, got %v", err)
	}

	// stored plan must be untouched
	stored, err := env.service.Get(ctx, env.userID, created.ID)
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if stored.GenerationMethod != created.GenerationMethod {
		t.Errorf("expected stored method unchanged, got %q", stored.GenerationMethod)
	}
}

func TestOptimizeWithoutProvider(t *testing.T) {
	env := setupTestEnv(t, Options{})

	_, err := env.service.Optimize(context.Background(), env.userID, "any")
	if !errors.Is(err, ErrOptimizeUnavailable) {
		t.Fatalf("expected ErrOptimizeUnavailable, got %v", err)
	}
}
