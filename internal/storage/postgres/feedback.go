package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type feedbackStorage struct {
	pool *pgxpool.Pool
}

func newFeedbackStorage(pool *pgxpool.Pool) *feedbackStorage {
	return &feedbackStorage{pool: pool}
}

func (s *feedbackStorage) UpsertFeedback(ctx context.Context, fb *storage.RecipeFeedback) (storage.RecipeFeedback, error) {
	query := `
		INSERT INTO recipe_feedback (user_id, recipe_id, rating, liked, cooked_count, skip_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, 0, NOW(), NOW())
		ON CONFLICT (user_id, recipe_id)
		DO UPDATE SET rating = EXCLUDED.rating, liked = EXCLUDED.liked, updated_at = NOW()
		RETURNING user_id, recipe_id, rating, liked, cooked_count, skip_count, created_at, updated_at
	`

	record, err := s.scanFeedback(s.pool.QueryRow(ctx, query, fb.UserID, fb.RecipeID, fb.Rating, fb.Liked))
	if err != nil {
		return storage.RecipeFeedback{}, fmt.Errorf("failed to upsert feedback: %w", err)
	}

	return record, nil
}

func (s *feedbackStorage) GetFeedback(ctx context.Context, userID string, recipeID int64) (storage.RecipeFeedback, bool, error) {
	query := `
		SELECT user_id, recipe_id, rating, liked, cooked_count, skip_count, created_at, updated_at
		FROM recipe_feedback
		WHERE user_id = $1 AND recipe_id = $2
	`

	record, err := s.scanFeedback(s.pool.QueryRow(ctx, query, userID, recipeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.RecipeFeedback{}, false, nil
	}
	if err != nil {
		return storage.RecipeFeedback{}, false, fmt.Errorf("failed to get feedback: %w", err)
	}

	return record, true, nil
}

func (s *feedbackStorage) ListFeedbackByUser(ctx context.Context, userID string) ([]storage.RecipeFeedback, error) {
	query := `
		SELECT user_id, recipe_id, rating, liked, cooked_count, skip_count, created_at, updated_at
		FROM recipe_feedback
		WHERE user_id = $1
		ORDER BY recipe_id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var records []storage.RecipeFeedback
	for rows.Next() {
		record, err := s.scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func (s *feedbackStorage) IncrementCooked(ctx context.Context, userID string, recipeID int64) (storage.RecipeFeedback, error) {
	return s.incrementCounter(ctx, userID, recipeID, "cooked_count")
}

func (s *feedbackStorage) IncrementSkipped(ctx context.Context, userID string, recipeID int64) (storage.RecipeFeedback, error) {
	return s.incrementCounter(ctx, userID, recipeID, "skip_count")
}

func (s *feedbackStorage) incrementCounter(ctx context.Context, userID string, recipeID int64, column string) (storage.RecipeFeedback, error) {
	insertCooked, insertSkip := 0, 0
	if column == "cooked_count" {
		insertCooked = 1
	} else {
		insertSkip = 1
	}

	// column is one of the two fixed counter names, never user input
	query := fmt.Sprintf(`
		INSERT INTO recipe_feedback (user_id, recipe_id, cooked_count, skip_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, recipe_id)
		DO UPDATE SET %s = recipe_feedback.%s + 1, updated_at = NOW()
		RETURNING user_id, recipe_id, rating, liked, cooked_count, skip_count, created_at, updated_at
	`, column, column)

	record, err := s.scanFeedback(s.pool.QueryRow(ctx, query, userID, recipeID, insertCooked, insertSkip))
	if err != nil {
		return storage.RecipeFeedback{}, fmt.Errorf("failed to increment %s: %w", column, err)
	}

	return record, nil
}

func (s *feedbackStorage) scanFeedback(row pgx.Row) (storage.RecipeFeedback, error) {
	var record storage.RecipeFeedback
	err := row.Scan(
		&record.UserID,
		&record.RecipeID,
		&record.Rating,
		&record.Liked,
		&record.CookedCount,
		&record.SkipCount,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	return record, err
}
