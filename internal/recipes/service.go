package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/meal-hub/internal/planner"
	"github.com/fdg312/meal-hub/internal/storage"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// Service handles the recipe catalog and builds candidate pools for
// plan generation.
type Service struct {
	storage storage.RecipesStorage
}

func NewService(storage storage.RecipesStorage) *Service {
	return &Service{storage: storage}
}

// Create stores a new recipe.
func (s *Service) Create(ctx context.Context, req UpsertRecipeRequest) (RecipeDTO, error) {
	if err := req.Validate(); err != nil {
		return RecipeDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	recipe := storage.Recipe{
		Title:        req.Title,
		Tags:         NormalizeTags(req.Tags),
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbohydrate: req.Carbohydrate,
		Fat:          req.Fat,
	}

	if err := s.storage.CreateRecipe(ctx, &recipe); err != nil {
		return RecipeDTO{}, err
	}

	return toDTO(recipe), nil
}

// Get returns a recipe by id.
func (s *Service) Get(ctx context.Context, id int64) (RecipeDTO, error) {
	recipe, found, err := s.storage.GetRecipe(ctx, id)
	if err != nil {
		return RecipeDTO{}, err
	}
	if !found {
		return RecipeDTO{}, ErrRecipeNotFound
	}

	return toDTO(recipe), nil
}

// List returns recipes matching at least one of the given tags, with
// the unpaginated total for the same filter.
func (s *Service) List(ctx context.Context, tagsAny []string, limit, offset int) (ListRecipesResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	tagsAny = NormalizeTags(tagsAny)

	total, err := s.storage.CountRecipes(ctx, tagsAny)
	if err != nil {
		return ListRecipesResponse{}, err
	}

	recipes, err := s.storage.ListRecipes(ctx, tagsAny, limit, offset)
	if err != nil {
		return ListRecipesResponse{}, err
	}

	dtos := make([]RecipeDTO, len(recipes))
	for i, recipe := range recipes {
		dtos[i] = toDTO(recipe)
	}

	return ListRecipesResponse{
		Recipes: dtos,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// Update replaces a recipe's editable fields.
func (s *Service) Update(ctx context.Context, id int64, req UpsertRecipeRequest) (RecipeDTO, error) {
	if err := req.Validate(); err != nil {
		return RecipeDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	recipe, found, err := s.storage.GetRecipe(ctx, id)
	if err != nil {
		return RecipeDTO{}, err
	}
	if !found {
		return RecipeDTO{}, ErrRecipeNotFound
	}

	recipe.Title = req.Title
	recipe.Tags = NormalizeTags(req.Tags)
	recipe.Calories = req.Calories
	recipe.Protein = req.Protein
	recipe.Carbohydrate = req.Carbohydrate
	recipe.Fat = req.Fat

	if err := s.storage.UpdateRecipe(ctx, &recipe); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return RecipeDTO{}, ErrRecipeNotFound
		}
		return RecipeDTO{}, err
	}

	return toDTO(recipe), nil
}

// Delete removes a recipe.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteRecipe(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	return nil
}

// CandidatePool loads a read-only snapshot of the catalog for plan
// generation. tagsAny narrows the pool to recipes carrying at least one
// of the user's dietary preferences; empty means the whole catalog.
func (s *Service) CandidatePool(ctx context.Context, tagsAny []string) (*planner.CandidatePool, error) {
	recipes, err := s.storage.ListRecipes(ctx, NormalizeTags(tagsAny), 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate recipes: %w", err)
	}

	candidates := make([]planner.CandidateRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		candidate := planner.NewCandidateRecipe(recipe.ID, recipe.Title, recipe.Tags)
		candidate.Calories = recipe.Calories
		candidate.Protein = recipe.Protein
		candidate.Carbohydrate = recipe.Carbohydrate
		candidate.Fat = recipe.Fat
		candidate.AverageRating = recipe.AverageRating
		candidate.GlobalCookedCount = recipe.GlobalCookedCount
		candidates = append(candidates, candidate)
	}

	return planner.NewCandidatePool(candidates), nil
}

// NormalizeTags lower-cases and trims tags so stored tags and filter
// terms compare equal on every storage backend.
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	normalized := make([]string, len(tags))
	for i, tag := range tags {
		normalized[i] = strings.ToLower(strings.TrimSpace(tag))
	}
	return normalized
}

func toDTO(recipe storage.Recipe) RecipeDTO {
	tags := recipe.Tags
	if tags == nil {
		tags = []string{}
	}
	return RecipeDTO{
		ID:                recipe.ID,
		Title:             recipe.Title,
		Tags:              tags,
		Calories:          recipe.Calories,
		Protein:           recipe.Protein,
		Carbohydrate:      recipe.Carbohydrate,
		Fat:               recipe.Fat,
		AverageRating:     recipe.AverageRating,
		GlobalCookedCount: recipe.GlobalCookedCount,
		CreatedAt:         recipe.CreatedAt,
		UpdatedAt:         recipe.UpdatedAt,
	}
}
