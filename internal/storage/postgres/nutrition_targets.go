package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type nutritionTargetsStorage struct {
	pool *pgxpool.Pool
}

func newNutritionTargetsStorage(pool *pgxpool.Pool) *nutritionTargetsStorage {
	return &nutritionTargetsStorage{pool: pool}
}

func (s *nutritionTargetsStorage) GetTargets(ctx context.Context, ownerUserID string) (storage.NutritionTargets, bool, error) {
	query := `
		SELECT owner_user_id, daily_calories, goal, created_at, updated_at
		FROM nutrition_targets
		WHERE owner_user_id = $1
	`

	var targets storage.NutritionTargets
	err := s.pool.QueryRow(ctx, query, ownerUserID).Scan(
		&targets.OwnerUserID,
		&targets.DailyCalories,
		&targets.Goal,
		&targets.CreatedAt,
		&targets.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.NutritionTargets{}, false, nil
	}
	if err != nil {
		return storage.NutritionTargets{}, false, fmt.Errorf("failed to get nutrition targets: %w", err)
	}

	return targets, true, nil
}

func (s *nutritionTargetsStorage) UpsertTargets(ctx context.Context, targets *storage.NutritionTargets) (storage.NutritionTargets, error) {
	query := `
		INSERT INTO nutrition_targets (owner_user_id, daily_calories, goal, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (owner_user_id)
		DO UPDATE SET daily_calories = EXCLUDED.daily_calories, goal = EXCLUDED.goal, updated_at = NOW()
		RETURNING owner_user_id, daily_calories, goal, created_at, updated_at
	`

	var saved storage.NutritionTargets
	err := s.pool.QueryRow(ctx, query,
		targets.OwnerUserID,
		targets.DailyCalories,
		targets.Goal,
	).Scan(
		&saved.OwnerUserID,
		&saved.DailyCalories,
		&saved.Goal,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)

	if err != nil {
		return storage.NutritionTargets{}, fmt.Errorf("failed to upsert nutrition targets: %w", err)
	}

	return saved, nil
}

func (s *nutritionTargetsStorage) DeleteTargets(ctx context.Context, ownerUserID string) error {
	query := `DELETE FROM nutrition_targets WHERE owner_user_id = $1`

	result, err := s.pool.Exec(ctx, query, ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to delete nutrition targets: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}
