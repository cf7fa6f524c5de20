package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type mealPlansStorage struct {
	pool *pgxpool.Pool
}

func newMealPlansStorage(pool *pgxpool.Pool) *mealPlansStorage {
	return &mealPlansStorage{pool: pool}
}

func (s *mealPlansStorage) CreateMealPlan(ctx context.Context, plan *storage.MealPlanRecord) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}

	query := `
		INSERT INTO meal_plans (id, owner_user_id, title, goal, base_daily_calories, generation_method, plan_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		plan.ID,
		plan.OwnerUserID,
		plan.Title,
		plan.Goal,
		plan.BaseDailyCalories,
		plan.GenerationMethod,
		plan.PlanJSON,
	).Scan(&plan.CreatedAt, &plan.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create meal plan: %w", err)
	}

	return nil
}

func (s *mealPlansStorage) GetMealPlan(ctx context.Context, ownerUserID, id string) (storage.MealPlanRecord, bool, error) {
	query := `
		SELECT id, owner_user_id, title, goal, base_daily_calories, generation_method, plan_json, created_at, updated_at
		FROM meal_plans
		WHERE id = $1 AND owner_user_id = $2
	`

	plan, err := s.scanPlan(s.pool.QueryRow(ctx, query, id, ownerUserID))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.MealPlanRecord{}, false, nil
	}
	if err != nil {
		return storage.MealPlanRecord{}, false, fmt.Errorf("failed to get meal plan: %w", err)
	}

	return plan, true, nil
}

func (s *mealPlansStorage) ListMealPlans(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.MealPlanRecord, error) {
	query := `
		SELECT id, owner_user_id, title, goal, base_daily_calories, generation_method, plan_json, created_at, updated_at
		FROM meal_plans
		WHERE owner_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, ownerUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	defer rows.Close()

	var plans []storage.MealPlanRecord
	for rows.Next() {
		plan, err := s.scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (s *mealPlansStorage) ReplaceMealPlan(ctx context.Context, plan *storage.MealPlanRecord) error {
	query := `
		UPDATE meal_plans
		SET title = $3, goal = $4, base_daily_calories = $5, generation_method = $6, plan_json = $7, updated_at = NOW()
		WHERE id = $1 AND owner_user_id = $2
	`

	result, err := s.pool.Exec(ctx, query,
		plan.ID,
		plan.OwnerUserID,
		plan.Title,
		plan.Goal,
		plan.BaseDailyCalories,
		plan.GenerationMethod,
		plan.PlanJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to replace meal plan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *mealPlansStorage) DeleteMealPlan(ctx context.Context, ownerUserID, id string) error {
	query := `DELETE FROM meal_plans WHERE id = $1 AND owner_user_id = $2`

	result, err := s.pool.Exec(ctx, query, id, ownerUserID)
	if err != nil {
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *mealPlansStorage) scanPlan(row pgx.Row) (storage.MealPlanRecord, error) {
	var plan storage.MealPlanRecord
	err := row.Scan(
		&plan.ID,
		&plan.OwnerUserID,
		&plan.Title,
		&plan.Goal,
		&plan.BaseDailyCalories,
		&plan.GenerationMethod,
		&plan.PlanJSON,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	return plan, err
}
