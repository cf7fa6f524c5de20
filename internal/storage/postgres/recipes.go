package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type recipesStorage struct {
	pool *pgxpool.Pool
}

func newRecipesStorage(pool *pgxpool.Pool) *recipesStorage {
	return &recipesStorage{pool: pool}
}

func (s *recipesStorage) CreateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	query := `
		INSERT INTO recipes (title, tags, calories, protein, carbohydrate, fat, average_rating, global_cooked_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		recipe.Title,
		recipe.Tags,
		recipe.Calories,
		recipe.Protein,
		recipe.Carbohydrate,
		recipe.Fat,
		recipe.AverageRating,
		recipe.GlobalCookedCount,
	).Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

func (s *recipesStorage) GetRecipe(ctx context.Context, id int64) (storage.Recipe, bool, error) {
	query := `
		SELECT id, title, tags, calories, protein, carbohydrate, fat, average_rating, global_cooked_count, created_at, updated_at
		FROM recipes
		WHERE id = $1
	`

	recipe, err := s.scanRecipe(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Recipe{}, false, nil
	}
	if err != nil {
		return storage.Recipe{}, false, fmt.Errorf("failed to get recipe: %w", err)
	}

	return recipe, true, nil
}

func (s *recipesStorage) ListRecipes(ctx context.Context, tagsAny []string, limit, offset int) ([]storage.Recipe, error) {
	query := `
		SELECT id, title, tags, calories, protein, carbohydrate, fat, average_rating, global_cooked_count, created_at, updated_at
		FROM recipes
	`

	args := []interface{}{}
	argPos := 1
	if len(tagsAny) > 0 {
		// tags && $1 matches recipes carrying at least one wanted tag
		query += fmt.Sprintf(" WHERE tags && $%d", argPos)
		args = append(args, tagsAny)
		argPos++
	}

	query += " ORDER BY id ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
		args = append(args, limit, offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []storage.Recipe
	for rows.Next() {
		recipe, err := s.scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, rows.Err()
}

func (s *recipesStorage) CountRecipes(ctx context.Context, tagsAny []string) (int, error) {
	query := `SELECT COUNT(*) FROM recipes`

	args := []interface{}{}
	if len(tagsAny) > 0 {
		query += " WHERE tags && $1"
		args = append(args, tagsAny)
	}

	var count int
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	return count, nil
}

func (s *recipesStorage) UpdateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	query := `
		UPDATE recipes
		SET title = $2, tags = $3, calories = $4, protein = $5, carbohydrate = $6, fat = $7,
		    average_rating = $8, global_cooked_count = $9, updated_at = NOW()
		WHERE id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		recipe.ID,
		recipe.Title,
		recipe.Tags,
		recipe.Calories,
		recipe.Protein,
		recipe.Carbohydrate,
		recipe.Fat,
		recipe.AverageRating,
		recipe.GlobalCookedCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *recipesStorage) DeleteRecipe(ctx context.Context, id int64) error {
	query := `DELETE FROM recipes WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return nil
}

func (s *recipesStorage) scanRecipe(row pgx.Row) (storage.Recipe, error) {
	var recipe storage.Recipe
	err := row.Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.Tags,
		&recipe.Calories,
		&recipe.Protein,
		&recipe.Carbohydrate,
		&recipe.Fat,
		&recipe.AverageRating,
		&recipe.GlobalCookedCount,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	return recipe, err
}
