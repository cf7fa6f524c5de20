package memory

import (
	"github.com/fdg312/meal-hub/internal/storage"
)

// MemoryStorage bundles the in-memory implementations of every storage
// interface. It is the default backend when no database is configured.
type MemoryStorage struct {
	users            *usersStorage
	recipes          *recipesStorage
	feedback         *feedbackStorage
	mealPlans        *mealPlansStorage
	nutritionTargets *nutritionTargetsStorage
	reports          *reportsStorage
}

func New() *MemoryStorage {
	return &MemoryStorage{
		users:            newUsersStorage(),
		recipes:          newRecipesStorage(),
		feedback:         newFeedbackStorage(),
		mealPlans:        newMealPlansStorage(),
		nutritionTargets: newNutritionTargetsStorage(),
		reports:          newReportsStorage(),
	}
}

func (m *MemoryStorage) Close() error {
	// no-op for memory
	return nil
}

// GetUsersStorage returns the users storage.
func (m *MemoryStorage) GetUsersStorage() storage.UsersStorage {
	return m.users
}

// GetRecipesStorage returns the recipes storage.
func (m *MemoryStorage) GetRecipesStorage() storage.RecipesStorage {
	return m.recipes
}

// GetFeedbackStorage returns the recipe feedback storage.
func (m *MemoryStorage) GetFeedbackStorage() storage.FeedbackStorage {
	return m.feedback
}

// GetMealPlansStorage returns the meal plans storage.
func (m *MemoryStorage) GetMealPlansStorage() storage.MealPlansStorage {
	return m.mealPlans
}

// GetNutritionTargetsStorage returns the nutrition targets storage.
func (m *MemoryStorage) GetNutritionTargetsStorage() storage.NutritionTargetsStorage {
	return m.nutritionTargets
}

// GetReportsStorage returns the reports storage.
func (m *MemoryStorage) GetReportsStorage() storage.ReportsStorage {
	return m.reports
}

// paginate applies limit/offset to an already sorted slice. limit <= 0
// means no limit.
func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return items[offset:end]
}
