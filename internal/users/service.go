package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/meal-hub/internal/storage"
)

var ErrUserNotFound = errors.New("user not found")

// Service handles user account business logic.
type Service struct {
	storage storage.UsersStorage
}

func NewService(storage storage.UsersStorage) *Service {
	return &Service{storage: storage}
}

// Get returns the user by id.
func (s *Service) Get(ctx context.Context, userID string) (UserDTO, error) {
	user, found, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	if !found {
		return UserDTO{}, ErrUserNotFound
	}

	return toDTO(user), nil
}

// Update applies the provided fields to the user.
func (s *Service) Update(ctx context.Context, userID string, req UpdateUserRequest) (UserDTO, error) {
	if err := req.Validate(); err != nil {
		return UserDTO{}, fmt.Errorf("validation failed: %w", err)
	}

	user, found, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return UserDTO{}, err
	}
	if !found {
		return UserDTO{}, ErrUserNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.PhysicalActivity != nil {
		user.PhysicalActivity = *req.PhysicalActivity
	}
	if req.DietaryPreferences != nil {
		// Stored lower-cased so they match recipe tags on every backend
		prefs := make([]string, len(*req.DietaryPreferences))
		for i, pref := range *req.DietaryPreferences {
			prefs[i] = strings.ToLower(strings.TrimSpace(pref))
		}
		user.DietaryPreferences = prefs
	}

	if err := s.storage.UpdateUser(ctx, &user); err != nil {
		return UserDTO{}, err
	}

	return toDTO(user), nil
}

func toDTO(user storage.User) UserDTO {
	prefs := user.DietaryPreferences
	if prefs == nil {
		prefs = []string{}
	}
	return UserDTO{
		ID:                 user.ID,
		Email:              user.Email,
		Name:               user.Name,
		PhysicalActivity:   user.PhysicalActivity,
		DietaryPreferences: prefs,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}
