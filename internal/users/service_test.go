package users

import (
	"context"
	"errors"
	"testing"

	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/fdg312/meal-hub/internal/storage/memory"
)

func setupTestService(t *testing.T) (*Service, string) {
	t.Helper()
	store := memory.New().GetUsersStorage()

	user := storage.User{Email: "user@example.com", Name: "User"}
	if err := store.CreateUser(context.Background(), &user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return NewService(store), user.ID
}

func strPtr(v string) *string { return &v }

func TestGetUser(t *testing.T) {
	service, userID := setupTestService(t)

	user, err := service.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("failed to get user: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Errorf("expected seeded email, got %s", user.Email)
	}

	if _, err := service.Get(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	service, userID := setupTestService(t)
	ctx := context.Background()

	updated, err := service.Update(ctx, userID, UpdateUserRequest{
		Name:             strPtr("Renamed"),
		PhysicalActivity: strPtr("moderate"),
	})
	if err != nil {
		t.Fatalf("failed to update user: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("expected name Renamed, got %s", updated.Name)
	}
	if updated.PhysicalActivity != "moderate" {
		t.Errorf("expected moderate activity, got %s", updated.PhysicalActivity)
	}
}

func TestUpdateUserValidation(t *testing.T) {
	service, userID := setupTestService(t)

	_, err := service.Update(context.Background(), userID, UpdateUserRequest{
		PhysicalActivity: strPtr("extreme"),
	})
	if err == nil {
		t.Error("expected validation error for unknown activity")
	}
}

// Dietary preferences are stored lower-cased so they match recipe tags
// on every storage backend.
func TestUpdateUserNormalizesPreferences(t *testing.T) {
	service, userID := setupTestService(t)

	prefs := []string{"Vegan", " Keto ", "GLUTEN-FREE"}
	updated, err := service.Update(context.Background(), userID, UpdateUserRequest{
		DietaryPreferences: &prefs,
	})
	if err != nil {
		t.Fatalf("failed to update user: %v", err)
	}

	want := []string{"vegan", "keto", "gluten-free"}
	if len(updated.DietaryPreferences) != len(want) {
		t.Fatalf("expected %d preferences, got %d", len(want), len(updated.DietaryPreferences))
	}
	for i, pref := range updated.DietaryPreferences {
		if pref != want[i] {
			t.Errorf("expected preference %q, got %q", want[i], pref)
		}
	}
}
