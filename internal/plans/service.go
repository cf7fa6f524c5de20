package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/fdg312/meal-hub/internal/ai"
	"github.com/fdg312/meal-hub/internal/feedback"
	"github.com/fdg312/meal-hub/internal/nutrition"
	"github.com/fdg312/meal-hub/internal/planner"
	"github.com/fdg312/meal-hub/internal/recipes"
	"github.com/fdg312/meal-hub/internal/storage"
)

var (
	ErrPlanNotFound = errors.New("meal plan not found")
	ErrUserNotFound = errors.New("user not found")

	// ErrOptimizeRejected means the provider's rewrite could not be made
	// valid. The stored plan is left untouched.
	ErrOptimizeRejected = errors.New("optimized plan rejected")

	// ErrOptimizeUnavailable means no provider is configured.
	ErrOptimizeUnavailable = errors.New("plan optimization unavailable")
)

// GenerationMethodOptimized marks plans rewritten by a provider after the
// initial generation.
const GenerationMethodOptimized = "optimized"

// Service runs plan generation and manages stored plans. Each request
// works on read-only snapshots of the recipe catalog and the user's
// feedback history, so concurrent generations never contend.
type Service struct {
	plans         storage.MealPlansStorage
	users         storage.UsersStorage
	recipes       *recipes.Service
	feedback      *feedback.Service
	nutrition     *nutrition.Service
	provider      ai.Provider
	minCandidates int
	logger        *log.Logger
}

// Options configure a plans service.
type Options struct {
	Plans         storage.MealPlansStorage
	Users         storage.UsersStorage
	Recipes       *recipes.Service
	Feedback      *feedback.Service
	Nutrition     *nutrition.Service
	Provider      ai.Provider // optional; nil disables the draft and optimize paths
	MinCandidates int         // defaults to planner.DefaultMinCandidates
	Logger        *log.Logger // defaults to log.Default()
}

func NewService(opts Options) *Service {
	minCandidates := opts.MinCandidates
	if minCandidates <= 0 {
		minCandidates = planner.DefaultMinCandidates
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		plans:         opts.Plans,
		users:         opts.Users,
		recipes:       opts.Recipes,
		feedback:      opts.Feedback,
		nutrition:     opts.Nutrition,
		provider:      opts.Provider,
		minCandidates: minCandidates,
		logger:        logger,
	}
}

// Generate produces a new 3-day plan for the user and stores it. Request
// fields left empty fall back to the user's stored nutrition targets.
func (s *Service) Generate(ctx context.Context, userID string, req GeneratePlanRequest) (PlanDTO, error) {
	if err := req.Validate(); err != nil {
		return PlanDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	user, found, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return PlanDTO{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !found {
		return PlanDTO{}, ErrUserNotFound
	}

	calories, goal, err := s.resolveTargets(ctx, userID, req)
	if err != nil {
		return PlanDTO{}, err
	}

	pool, err := s.recipes.CandidatePool(ctx, user.DietaryPreferences)
	if err != nil {
		return PlanDTO{}, err
	}

	history, err := s.feedback.Snapshot(ctx, userID)
	if err != nil {
		return PlanDTO{}, err
	}

	opts := planner.Options{
		MinCandidates: s.minCandidates,
		Seed:          req.Seed,
		Logger:        s.logger,
	}
	if s.provider != nil {
		opts.Draft = s.provider
	}

	result, err := planner.NewGenerator(opts).Generate(ctx, planner.Request{
		UserEmail:          user.Email,
		UserName:           user.Name,
		DailyCalories:      calories,
		Goal:               goal,
		PhysicalActivity:   user.PhysicalActivity,
		Pool:               pool,
		Feedback:           history,
		ForceDeterministic: req.ForceDeterministic,
	})
	if err != nil {
		return PlanDTO{}, err
	}

	payload, err := json.Marshal(result.Plan)
	if err != nil {
		return PlanDTO{}, fmt.Errorf("failed to encode plan: %w", err)
	}

	record := &storage.MealPlanRecord{
		OwnerUserID:       userID,
		Title:             result.Plan.Title,
		Goal:              result.Plan.Goal,
		BaseDailyCalories: result.Plan.BaseDailyCalories,
		GenerationMethod:  result.Method,
		PlanJSON:          payload,
	}
	if err := s.plans.CreateMealPlan(ctx, record); err != nil {
		return PlanDTO{}, fmt.Errorf("failed to store plan: %w", err)
	}

	s.logger.Printf("plans: generated plan %s for user %s via %s", record.ID, userID, result.Method)
	return toPlanDTO(*record, result.Plan), nil
}

// List returns summaries of the user's plans, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) (ListPlansResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	records, err := s.plans.ListMealPlans(ctx, userID, limit, offset)
	if err != nil {
		return ListPlansResponse{}, err
	}

	summaries := make([]PlanSummaryDTO, len(records))
	for i, record := range records {
		summaries[i] = toSummaryDTO(record)
	}

	return ListPlansResponse{Plans: summaries, Limit: limit, Offset: offset}, nil
}

// Get returns a stored plan with its full payload.
func (s *Service) Get(ctx context.Context, userID, planID string) (PlanDTO, error) {
	record, plan, err := s.load(ctx, userID, planID)
	if err != nil {
		return PlanDTO{}, err
	}
	return toPlanDTO(record, plan), nil
}

// Export returns the stored plan payload verbatim.
func (s *Service) Export(ctx context.Context, userID, planID string) ([]byte, error) {
	record, found, err := s.plans.GetMealPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrPlanNotFound
	}
	return record.PlanJSON, nil
}

// Delete removes a stored plan.
func (s *Service) Delete(ctx context.Context, userID, planID string) error {
	err := s.plans.DeleteMealPlan(ctx, userID, planID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// Optimize asks the provider to rewrite a stored plan, then validates and
// repairs the rewrite before swapping it in. A rewrite that cannot be
// made valid is discarded and the stored plan stays as-is.
func (s *Service) Optimize(ctx context.Context, userID, planID string) (PlanDTO, error) {
	if s.provider == nil {
		return PlanDTO{}, ErrOptimizeUnavailable
	}

	record, plan, err := s.load(ctx, userID, planID)
	if err != nil {
		return PlanDTO{}, err
	}

	user, found, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return PlanDTO{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !found {
		return PlanDTO{}, ErrUserNotFound
	}

	optimized, err := s.provider.OptimizePlan(ctx, plan)
	if err != nil {
		return PlanDTO{}, fmt.Errorf("%w: %v", ErrOptimizeRejected, err)
	}
	if optimized == nil || len(optimized.Days) != 3 {
		return PlanDTO{}, fmt.Errorf("%w: rewrite must have exactly 3 days", ErrOptimizeRejected)
	}

	pool, err := s.recipes.CandidatePool(ctx, user.DietaryPreferences)
	if err != nil {
		return PlanDTO{}, err
	}
	history, err := s.feedback.Snapshot(ctx, userID)
	if err != nil {
		return PlanDTO{}, err
	}

	base := planner.AdjustedBaseCalories(record.BaseDailyCalories, user.PhysicalActivity)
	if violations := planner.Validate(optimized, base, pool); len(violations) > 0 {
		s.logger.Printf("plans: optimized plan %s has %d violations, repairing: %v", planID, len(violations), violations)
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		selector := planner.NewSelector(pool, planner.NewScorer(history, rng), rng)
		planner.NewRepairer(pool, selector, rng).Repair(optimized, base)
		if violations = planner.Validate(optimized, base, pool); len(violations) > 0 {
			return PlanDTO{}, fmt.Errorf("%w: still invalid after repair: %v", ErrOptimizeRejected, violations)
		}
	}

	// The rewrite keeps the plan's identity fields
	if optimized.Title == "" {
		optimized.Title = plan.Title
	}
	optimized.BaseDailyCalories = record.BaseDailyCalories
	optimized.Goal = record.Goal
	optimized.MacroTargets = planner.MacroTargetsFor(record.Goal)

	payload, err := json.Marshal(optimized)
	if err != nil {
		return PlanDTO{}, fmt.Errorf("failed to encode plan: %w", err)
	}

	record.Title = optimized.Title
	record.GenerationMethod = GenerationMethodOptimized
	record.PlanJSON = payload
	if err := s.plans.ReplaceMealPlan(ctx, &record); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return PlanDTO{}, ErrPlanNotFound
		}
		return PlanDTO{}, fmt.Errorf("failed to store optimized plan: %w", err)
	}

	s.logger.Printf("plans: optimized plan %s for user %s", planID, userID)
	return toPlanDTO(record, optimized), nil
}

// resolveTargets fills calories and goal from the request, falling back
// to the user's stored nutrition targets field by field.
func (s *Service) resolveTargets(ctx context.Context, userID string, req GeneratePlanRequest) (int, string, error) {
	calories, goal := req.DailyCalories, req.Goal
	if calories != 0 && goal != "" {
		return calories, goal, nil
	}

	targets, err := s.nutrition.GetOrDefault(ctx, userID)
	if err != nil {
		return 0, "", err
	}
	if calories == 0 {
		calories = targets.Targets.DailyCalories
	}
	if goal == "" {
		goal = targets.Targets.Goal
	}
	return calories, goal, nil
}

func (s *Service) load(ctx context.Context, userID, planID string) (storage.MealPlanRecord, *planner.Plan, error) {
	record, found, err := s.plans.GetMealPlan(ctx, userID, planID)
	if err != nil {
		return storage.MealPlanRecord{}, nil, err
	}
	if !found {
		return storage.MealPlanRecord{}, nil, ErrPlanNotFound
	}

	var plan planner.Plan
	if err := json.Unmarshal(record.PlanJSON, &plan); err != nil {
		return storage.MealPlanRecord{}, nil, fmt.Errorf("failed to decode stored plan %s: %w", planID, err)
	}
	return record, &plan, nil
}

func toSummaryDTO(record storage.MealPlanRecord) PlanSummaryDTO {
	return PlanSummaryDTO{
		ID:                record.ID,
		Title:             record.Title,
		Goal:              record.Goal,
		BaseDailyCalories: record.BaseDailyCalories,
		GenerationMethod:  record.GenerationMethod,
		CreatedAt:         record.CreatedAt,
		UpdatedAt:         record.UpdatedAt,
	}
}

func toPlanDTO(record storage.MealPlanRecord, plan *planner.Plan) PlanDTO {
	return PlanDTO{PlanSummaryDTO: toSummaryDTO(record), Plan: plan}
}
