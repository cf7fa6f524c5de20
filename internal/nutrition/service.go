package nutrition

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-hub/internal/storage"
)

var ErrTargetsNotFound = errors.New("nutrition targets not found")

// Service manages per-user nutrition targets. Stored targets supply the
// defaults that plan generation falls back to when a request omits
// daily calories or a goal.
type Service struct {
	storage storage.NutritionTargetsStorage
}

func NewService(storage storage.NutritionTargetsStorage) *Service {
	return &Service{storage: storage}
}

// GetOrDefault returns the user's targets, falling back to defaults when
// none are stored.
func (s *Service) GetOrDefault(ctx context.Context, userID string) (GetTargetsResponse, error) {
	targets, found, err := s.storage.GetTargets(ctx, userID)
	if err != nil {
		return GetTargetsResponse{}, fmt.Errorf("failed to get nutrition targets: %w", err)
	}

	if !found {
		return GetTargetsResponse{Targets: GetDefaultTargets(), IsDefault: true}, nil
	}

	return GetTargetsResponse{Targets: toDTO(targets), IsDefault: false}, nil
}

// Upsert creates or replaces the user's targets.
func (s *Service) Upsert(ctx context.Context, userID string, req UpsertTargetsRequest) (TargetsDTO, error) {
	if err := req.Validate(); err != nil {
		return TargetsDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	goal := req.Goal
	if goal == "" {
		goal = GetDefaultTargets().Goal
	}

	targets, err := s.storage.UpsertTargets(ctx, &storage.NutritionTargets{
		OwnerUserID:   userID,
		DailyCalories: req.DailyCalories,
		Goal:          goal,
	})
	if err != nil {
		return TargetsDTO{}, fmt.Errorf("failed to upsert nutrition targets: %w", err)
	}

	return toDTO(targets), nil
}

// Delete removes the user's stored targets so defaults apply again.
func (s *Service) Delete(ctx context.Context, userID string) error {
	err := s.storage.DeleteTargets(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrTargetsNotFound
	}
	return err
}

func toDTO(targets storage.NutritionTargets) TargetsDTO {
	return TargetsDTO{
		DailyCalories: targets.DailyCalories,
		Goal:          targets.Goal,
		CreatedAt:     targets.CreatedAt,
		UpdatedAt:     targets.UpdatedAt,
	}
}
