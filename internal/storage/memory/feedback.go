package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/meal-hub/internal/storage"
)

type feedbackStorage struct {
	mu      sync.RWMutex
	records map[string]*storage.RecipeFeedback // key: "userID:recipeID"
	byUser  map[string][]string                // key: userID -> record keys
}

func newFeedbackStorage() *feedbackStorage {
	return &feedbackStorage{
		records: make(map[string]*storage.RecipeFeedback),
		byUser:  make(map[string][]string),
	}
}

func feedbackKey(userID string, recipeID int64) string {
	return fmt.Sprintf("%s:%d", userID, recipeID)
}

func (s *feedbackStorage) UpsertFeedback(ctx context.Context, fb *storage.RecipeFeedback) (storage.RecipeFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.getOrCreateLocked(fb.UserID, fb.RecipeID)
	record.Rating = fb.Rating
	record.Liked = fb.Liked
	record.UpdatedAt = time.Now().UTC()

	return *record, nil
}

func (s *feedbackStorage) GetFeedback(ctx context.Context, userID string, recipeID int64) (storage.RecipeFeedback, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[feedbackKey(userID, recipeID)]
	if !ok {
		return storage.RecipeFeedback{}, false, nil
	}

	return *record, true, nil
}

func (s *feedbackStorage) ListFeedbackByUser(ctx context.Context, userID string) ([]storage.RecipeFeedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys, ok := s.byUser[userID]
	if !ok {
		return []storage.RecipeFeedback{}, nil
	}

	results := make([]storage.RecipeFeedback, 0, len(keys))
	for _, key := range keys {
		if record, ok := s.records[key]; ok {
			results = append(results, *record)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].RecipeID < results[j].RecipeID
	})

	return results, nil
}

func (s *feedbackStorage) IncrementCooked(ctx context.Context, userID string, recipeID int64) (storage.RecipeFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.getOrCreateLocked(userID, recipeID)
	record.CookedCount++
	record.UpdatedAt = time.Now().UTC()

	return *record, nil
}

func (s *feedbackStorage) IncrementSkipped(ctx context.Context, userID string, recipeID int64) (storage.RecipeFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.getOrCreateLocked(userID, recipeID)
	record.SkipCount++
	record.UpdatedAt = time.Now().UTC()

	return *record, nil
}

// getOrCreateLocked returns the record for a user×recipe pair, creating
// an empty one when missing. Must be called with the lock held.
func (s *feedbackStorage) getOrCreateLocked(userID string, recipeID int64) *storage.RecipeFeedback {
	key := feedbackKey(userID, recipeID)
	if record, ok := s.records[key]; ok {
		return record
	}

	now := time.Now().UTC()
	record := &storage.RecipeFeedback{
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.records[key] = record
	s.byUser[userID] = append(s.byUser[userID], key)

	return record
}
