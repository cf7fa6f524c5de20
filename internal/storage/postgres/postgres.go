package postgres

import (
	"context"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage bundles the Postgres implementations of every storage
// interface over a shared connection pool.
type PostgresStorage struct {
	pool             *pgxpool.Pool
	users            *usersStorage
	recipes          *recipesStorage
	feedback         *feedbackStorage
	mealPlans        *mealPlansStorage
	nutritionTargets *nutritionTargetsStorage
	reports          *reportsStorage
}

func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{
		pool:             pool,
		users:            newUsersStorage(pool),
		recipes:          newRecipesStorage(pool),
		feedback:         newFeedbackStorage(pool),
		mealPlans:        newMealPlansStorage(pool),
		nutritionTargets: newNutritionTargetsStorage(pool),
		reports:          newReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// GetUsersStorage returns the users storage.
func (p *PostgresStorage) GetUsersStorage() storage.UsersStorage {
	return p.users
}

// GetRecipesStorage returns the recipes storage.
func (p *PostgresStorage) GetRecipesStorage() storage.RecipesStorage {
	return p.recipes
}

// GetFeedbackStorage returns the recipe feedback storage.
func (p *PostgresStorage) GetFeedbackStorage() storage.FeedbackStorage {
	return p.feedback
}

// GetMealPlansStorage returns the meal plans storage.
func (p *PostgresStorage) GetMealPlansStorage() storage.MealPlansStorage {
	return p.mealPlans
}

// GetNutritionTargetsStorage returns the nutrition targets storage.
func (p *PostgresStorage) GetNutritionTargetsStorage() storage.NutritionTargetsStorage {
	return p.nutritionTargets
}

// GetReportsStorage returns the reports storage.
func (p *PostgresStorage) GetReportsStorage() storage.ReportsStorage {
	return p.reports
}
