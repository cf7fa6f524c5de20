package memory

import (
	"context"
	"sync"
	"time"

	"github.com/fdg312/meal-hub/internal/storage"
)

type nutritionTargetsStorage struct {
	mu      sync.RWMutex
	targets map[string]*storage.NutritionTargets // key: owner_user_id
}

func newNutritionTargetsStorage() *nutritionTargetsStorage {
	return &nutritionTargetsStorage{
		targets: make(map[string]*storage.NutritionTargets),
	}
}

func (s *nutritionTargetsStorage) GetTargets(ctx context.Context, ownerUserID string) (storage.NutritionTargets, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	targets, ok := s.targets[ownerUserID]
	if !ok {
		return storage.NutritionTargets{}, false, nil
	}

	return *targets, true, nil
}

func (s *nutritionTargetsStorage) UpsertTargets(ctx context.Context, targets *storage.NutritionTargets) (storage.NutritionTargets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := s.targets[targets.OwnerUserID]; ok {
		targets.CreatedAt = existing.CreatedAt
	} else {
		targets.CreatedAt = now
	}
	targets.UpdatedAt = now

	stored := *targets
	s.targets[targets.OwnerUserID] = &stored

	return stored, nil
}

func (s *nutritionTargetsStorage) DeleteTargets(ctx context.Context, ownerUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.targets[ownerUserID]; !ok {
		return storage.ErrNotFound
	}

	delete(s.targets, ownerUserID)

	return nil
}
