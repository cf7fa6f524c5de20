package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/meal-hub/internal/storage"
)

type recipesStorage struct {
	mu      sync.RWMutex
	recipes map[int64]*storage.Recipe // key: recipe_id
	nextID  int64
}

func newRecipesStorage() *recipesStorage {
	return &recipesStorage{
		recipes: make(map[int64]*storage.Recipe),
		nextID:  1,
	}
}

func (s *recipesStorage) CreateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recipe.ID == 0 {
		recipe.ID = s.nextID
	}
	if recipe.ID >= s.nextID {
		s.nextID = recipe.ID + 1
	}

	now := time.Now().UTC()
	recipe.CreatedAt = now
	recipe.UpdatedAt = now

	stored := *recipe
	stored.Tags = append([]string(nil), recipe.Tags...)
	s.recipes[recipe.ID] = &stored

	return nil
}

func (s *recipesStorage) GetRecipe(ctx context.Context, id int64) (storage.Recipe, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipe, ok := s.recipes[id]
	if !ok {
		return storage.Recipe{}, false, nil
	}

	return copyRecipe(recipe), true, nil
}

func (s *recipesStorage) ListRecipes(ctx context.Context, tagsAny []string, limit, offset int) ([]storage.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.matchingLocked(tagsAny)

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	return paginate(matched, limit, offset), nil
}

func (s *recipesStorage) CountRecipes(ctx context.Context, tagsAny []string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.matchingLocked(tagsAny)), nil
}

func (s *recipesStorage) UpdateRecipe(ctx context.Context, recipe *storage.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.recipes[recipe.ID]
	if !ok {
		return storage.ErrNotFound
	}

	recipe.CreatedAt = existing.CreatedAt
	recipe.UpdatedAt = time.Now().UTC()

	stored := *recipe
	stored.Tags = append([]string(nil), recipe.Tags...)
	s.recipes[recipe.ID] = &stored

	return nil
}

func (s *recipesStorage) DeleteRecipe(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return storage.ErrNotFound
	}

	delete(s.recipes, id)

	return nil
}

// matchingLocked returns copies of recipes carrying at least one of the
// given tags. Must be called with the lock held.
func (s *recipesStorage) matchingLocked(tagsAny []string) []storage.Recipe {
	var matched []storage.Recipe
	for _, recipe := range s.recipes {
		if len(tagsAny) == 0 || hasAnyTag(recipe.Tags, tagsAny) {
			matched = append(matched, copyRecipe(recipe))
		}
	}

	return matched
}

func hasAnyTag(tags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range tags {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}

	return false
}

func copyRecipe(recipe *storage.Recipe) storage.Recipe {
	out := *recipe
	out.Tags = append([]string(nil), recipe.Tags...)
	return out
}
