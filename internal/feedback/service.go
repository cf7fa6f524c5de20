package feedback

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-hub/internal/planner"
	"github.com/fdg312/meal-hub/internal/storage"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// Service records per-user recipe history and builds the scorer
// snapshot used during generation.
type Service struct {
	storage storage.FeedbackStorage
	recipes storage.RecipesStorage
}

func NewService(storage storage.FeedbackStorage, recipes storage.RecipesStorage) *Service {
	return &Service{storage: storage, recipes: recipes}
}

// Upsert records a rating and/or liked flag for a recipe.
func (s *Service) Upsert(ctx context.Context, userID string, recipeID int64, req UpsertFeedbackRequest) (FeedbackDTO, error) {
	if err := req.Validate(); err != nil {
		return FeedbackDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	if err := s.ensureRecipeExists(ctx, recipeID); err != nil {
		return FeedbackDTO{}, err
	}

	// Preserve values the request leaves unset
	existing, found, err := s.storage.GetFeedback(ctx, userID, recipeID)
	if err != nil {
		return FeedbackDTO{}, err
	}
	rating := req.Rating
	liked := req.Liked
	if found {
		if rating == nil {
			rating = existing.Rating
		}
		if liked == nil {
			liked = existing.Liked
		}
	}

	record, err := s.storage.UpsertFeedback(ctx, &storage.RecipeFeedback{
		UserID:   userID,
		RecipeID: recipeID,
		Rating:   rating,
		Liked:    liked,
	})
	if err != nil {
		return FeedbackDTO{}, err
	}

	return toDTO(record), nil
}

// MarkCooked bumps the cooked counter for a recipe.
func (s *Service) MarkCooked(ctx context.Context, userID string, recipeID int64) (FeedbackDTO, error) {
	if err := s.ensureRecipeExists(ctx, recipeID); err != nil {
		return FeedbackDTO{}, err
	}

	record, err := s.storage.IncrementCooked(ctx, userID, recipeID)
	if err != nil {
		return FeedbackDTO{}, err
	}

	return toDTO(record), nil
}

// MarkSkipped bumps the skip counter for a recipe.
func (s *Service) MarkSkipped(ctx context.Context, userID string, recipeID int64) (FeedbackDTO, error) {
	if err := s.ensureRecipeExists(ctx, recipeID); err != nil {
		return FeedbackDTO{}, err
	}

	record, err := s.storage.IncrementSkipped(ctx, userID, recipeID)
	if err != nil {
		return FeedbackDTO{}, err
	}

	return toDTO(record), nil
}

// List returns all feedback records of a user.
func (s *Service) List(ctx context.Context, userID string) (ListFeedbackResponse, error) {
	records, err := s.storage.ListFeedbackByUser(ctx, userID)
	if err != nil {
		return ListFeedbackResponse{}, err
	}

	dtos := make([]FeedbackDTO, len(records))
	for i, record := range records {
		dtos[i] = toDTO(record)
	}

	return ListFeedbackResponse{Feedback: dtos}, nil
}

// Snapshot loads the user's full feedback history as the read-only
// cache consumed by recipe scoring.
func (s *Service) Snapshot(ctx context.Context, userID string) (planner.FeedbackCache, error) {
	records, err := s.storage.ListFeedbackByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback snapshot: %w", err)
	}

	cache := make(planner.FeedbackCache, len(records))
	for _, record := range records {
		cache[record.RecipeID] = planner.Feedback{
			Rating:      record.Rating,
			Liked:       record.Liked,
			CookedCount: record.CookedCount,
			SkipCount:   record.SkipCount,
		}
	}

	return cache, nil
}

func (s *Service) ensureRecipeExists(ctx context.Context, recipeID int64) error {
	_, found, err := s.recipes.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !found {
		return ErrRecipeNotFound
	}
	return nil
}

func toDTO(record storage.RecipeFeedback) FeedbackDTO {
	return FeedbackDTO{
		RecipeID:    record.RecipeID,
		Rating:      record.Rating,
		Liked:       record.Liked,
		CookedCount: record.CookedCount,
		SkipCount:   record.SkipCount,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
