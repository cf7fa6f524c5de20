package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/google/uuid"
)

type mealPlansStorage struct {
	mu      sync.RWMutex
	plans   map[string]*storage.MealPlanRecord // key: plan_id
	byOwner map[string][]string                // key: owner_user_id -> []plan_id
}

func newMealPlansStorage() *mealPlansStorage {
	return &mealPlansStorage{
		plans:   make(map[string]*storage.MealPlanRecord),
		byOwner: make(map[string][]string),
	}
}

func (s *mealPlansStorage) CreateMealPlan(ctx context.Context, plan *storage.MealPlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	s.plans[plan.ID] = copyPlanRecord(plan)
	s.byOwner[plan.OwnerUserID] = append(s.byOwner[plan.OwnerUserID], plan.ID)

	return nil
}

func (s *mealPlansStorage) GetMealPlan(ctx context.Context, ownerUserID, id string) (storage.MealPlanRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[id]
	if !ok || plan.OwnerUserID != ownerUserID {
		return storage.MealPlanRecord{}, false, nil
	}

	return *copyPlanRecord(plan), true, nil
}

func (s *mealPlansStorage) ListMealPlans(ctx context.Context, ownerUserID string, limit, offset int) ([]storage.MealPlanRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, ok := s.byOwner[ownerUserID]
	if !ok {
		return []storage.MealPlanRecord{}, nil
	}

	plans := make([]storage.MealPlanRecord, 0, len(ids))
	for _, id := range ids {
		if plan, ok := s.plans[id]; ok {
			plans = append(plans, *copyPlanRecord(plan))
		}
	}

	// Newest first
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})

	return paginate(plans, limit, offset), nil
}

func (s *mealPlansStorage) ReplaceMealPlan(ctx context.Context, plan *storage.MealPlanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.plans[plan.ID]
	if !ok || existing.OwnerUserID != plan.OwnerUserID {
		return storage.ErrNotFound
	}

	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = time.Now().UTC()

	s.plans[plan.ID] = copyPlanRecord(plan)

	return nil
}

func (s *mealPlansStorage) DeleteMealPlan(ctx context.Context, ownerUserID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[id]
	if !ok || plan.OwnerUserID != ownerUserID {
		return storage.ErrNotFound
	}

	delete(s.plans, id)
	s.byOwner[ownerUserID] = removeID(s.byOwner[ownerUserID], id)

	return nil
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}

	return ids
}

func copyPlanRecord(plan *storage.MealPlanRecord) *storage.MealPlanRecord {
	out := *plan
	out.PlanJSON = append([]byte(nil), plan.PlanJSON...)
	return &out
}
