package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/google/uuid"
)

type usersStorage struct {
	mu      sync.RWMutex
	users   map[string]*storage.User // key: user_id
	byEmail map[string]string        // key: lowercase email -> user_id
}

func newUsersStorage() *usersStorage {
	return &usersStorage{
		users:   make(map[string]*storage.User),
		byEmail: make(map[string]string),
	}
}

func (s *usersStorage) CreateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emailKey := strings.ToLower(strings.TrimSpace(user.Email))
	if _, exists := s.byEmail[emailKey]; exists {
		return fmt.Errorf("user with email %s already exists", user.Email)
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	s.users[user.ID] = &stored
	s.byEmail[emailKey] = user.ID

	return nil
}

func (s *usersStorage) GetUser(ctx context.Context, id string) (storage.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return storage.User{}, false, nil
	}

	return *user, true, nil
}

func (s *usersStorage) GetUserByEmail(ctx context.Context, email string) (storage.User, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return storage.User{}, false, nil
	}

	user, ok := s.users[id]
	if !ok {
		return storage.User{}, false, nil
	}

	return *user, true, nil
}

func (s *usersStorage) ListUsers(ctx context.Context, limit, offset int) ([]storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]storage.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *u)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return paginate(users, limit, offset), nil
}

func (s *usersStorage) UpdateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return storage.ErrNotFound
	}

	// Keep the email index in sync when the email changes
	oldKey := strings.ToLower(strings.TrimSpace(existing.Email))
	newKey := strings.ToLower(strings.TrimSpace(user.Email))
	if oldKey != newKey {
		if _, taken := s.byEmail[newKey]; taken {
			return fmt.Errorf("user with email %s already exists", user.Email)
		}
		delete(s.byEmail, oldKey)
		s.byEmail[newKey] = user.ID
	}

	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = time.Now().UTC()

	stored := *user
	s.users[user.ID] = &stored

	return nil
}

func (s *usersStorage) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}

	delete(s.byEmail, strings.ToLower(strings.TrimSpace(user.Email)))
	delete(s.users, id)

	return nil
}
