package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by mutating operations whose target row does
// not exist. Lookups report absence through their bool return instead.
var ErrNotFound = errors.New("record not found")

// User is an account that owns meal plans and feedback. DietaryPreferences
// are recipe tag names used to filter the candidate pool.
type User struct {
	ID                 string
	Email              string
	Name               string
	PhysicalActivity   string // "low", "moderate" or "high"
	DietaryPreferences []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// UsersStorage handles user accounts.
type UsersStorage interface {
	// CreateUser creates a user, assigning an id when empty.
	CreateUser(ctx context.Context, user *User) error

	// GetUser returns a user by id.
	GetUser(ctx context.Context, id string) (User, bool, error)

	// GetUserByEmail returns a user by email (case-insensitive).
	GetUserByEmail(ctx context.Context, email string) (User, bool, error)

	// ListUsers returns users ordered by creation time.
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)

	// UpdateUser updates an existing user.
	UpdateUser(ctx context.Context, user *User) error

	// DeleteUser deletes a user.
	DeleteUser(ctx context.Context, id string) error
}

// Recipe is a stored recipe with precomputed nutrition values and
// aggregated community counters.
type Recipe struct {
	ID                int64
	Title             string
	Tags              []string
	Calories          float64
	Protein           float64
	Carbohydrate      float64
	Fat               float64
	AverageRating     float64
	GlobalCookedCount int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecipesStorage handles the recipe catalog.
type RecipesStorage interface {
	// CreateRecipe creates a recipe, assigning a sequential id when zero.
	CreateRecipe(ctx context.Context, recipe *Recipe) error

	// GetRecipe returns a recipe by id.
	GetRecipe(ctx context.Context, id int64) (Recipe, bool, error)

	// ListRecipes returns recipes carrying at least one of the given tags,
	// case-insensitively; an empty tag list returns everything. limit <= 0
	// means no limit.
	ListRecipes(ctx context.Context, tagsAny []string, limit, offset int) ([]Recipe, error)

	// CountRecipes counts recipes matching the same tag filter.
	CountRecipes(ctx context.Context, tagsAny []string) (int, error)

	// UpdateRecipe updates an existing recipe.
	UpdateRecipe(ctx context.Context, recipe *Recipe) error

	// DeleteRecipe deletes a recipe.
	DeleteRecipe(ctx context.Context, id int64) error
}

// RecipeFeedback is one user's history with one recipe.
type RecipeFeedback struct {
	UserID      string
	RecipeID    int64
	Rating      *int
	Liked       *bool
	CookedCount int
	SkipCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// FeedbackStorage handles per user×recipe feedback.
type FeedbackStorage interface {
	// UpsertFeedback sets rating and liked for a user×recipe pair,
	// creating the record when missing. Counters are preserved.
	UpsertFeedback(ctx context.Context, fb *RecipeFeedback) (RecipeFeedback, error)

	// GetFeedback returns feedback for a user×recipe pair.
	GetFeedback(ctx context.Context, userID string, recipeID int64) (RecipeFeedback, bool, error)

	// ListFeedbackByUser returns all feedback records of a user.
	ListFeedbackByUser(ctx context.Context, userID string) ([]RecipeFeedback, error)

	// IncrementCooked bumps the cooked counter, creating the record when
	// missing.
	IncrementCooked(ctx context.Context, userID string, recipeID int64) (RecipeFeedback, error)

	// IncrementSkipped bumps the skip counter, creating the record when
	// missing.
	IncrementSkipped(ctx context.Context, userID string, recipeID int64) (RecipeFeedback, error)
}

// MealPlanRecord is a stored meal plan: header columns for listing plus
// the full plan payload in the wire JSON shape.
type MealPlanRecord struct {
	ID                string
	OwnerUserID       string
	Title             string
	Goal              string
	BaseDailyCalories int
	GenerationMethod  string
	PlanJSON          []byte
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MealPlansStorage handles stored meal plans.
type MealPlansStorage interface {
	// CreateMealPlan stores a finished plan, assigning an id when empty.
	// The plan payload is written in one atomic unit.
	CreateMealPlan(ctx context.Context, plan *MealPlanRecord) error

	// GetMealPlan returns a plan owned by the user.
	GetMealPlan(ctx context.Context, ownerUserID, id string) (MealPlanRecord, bool, error)

	// ListMealPlans returns the user's plans, newest first.
	ListMealPlans(ctx context.Context, ownerUserID string, limit, offset int) ([]MealPlanRecord, error)

	// ReplaceMealPlan swaps a stored plan's title, method and payload in
	// one atomic unit (used by optimization).
	ReplaceMealPlan(ctx context.Context, plan *MealPlanRecord) error

	// DeleteMealPlan deletes a plan owned by the user.
	DeleteMealPlan(ctx context.Context, ownerUserID, id string) error
}

// NutritionTargets are a user's stored generation defaults.
type NutritionTargets struct {
	OwnerUserID   string
	DailyCalories int
	Goal          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NutritionTargetsStorage handles per-user nutrition targets.
type NutritionTargetsStorage interface {
	// GetTargets returns the user's targets.
	GetTargets(ctx context.Context, ownerUserID string) (NutritionTargets, bool, error)

	// UpsertTargets creates or updates the user's targets.
	UpsertTargets(ctx context.Context, targets *NutritionTargets) (NutritionTargets, error)

	// DeleteTargets removes the user's targets.
	DeleteTargets(ctx context.Context, ownerUserID string) error
}

// ReportMeta is the metadata of a generated plan report. Data is only
// populated in memory mode; in S3 mode the body lives under ObjectKey.
type ReportMeta struct {
	ID          uuid.UUID
	OwnerUserID string
	PlanID      string
	Format      string // "pdf"
	ObjectKey   *string
	SizeBytes   int64
	Status      string // "ready" or "failed"
	Error       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Data        []byte
}

// ReportsStorage handles report metadata (and report bodies in memory
// mode).
type ReportsStorage interface {
	// CreateReport stores a report, assigning an id when nil.
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport returns a report by id.
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReports returns a user's reports, newest first.
	ListReports(ctx context.Context, ownerUserID string, limit, offset int) ([]ReportMeta, error)

	// DeleteReport deletes a report.
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// Storage bundles every per-domain storage behind one backend (memory or
// postgres).
type Storage interface {
	GetUsersStorage() UsersStorage
	GetRecipesStorage() RecipesStorage
	GetFeedbackStorage() FeedbackStorage
	GetMealPlansStorage() MealPlansStorage
	GetNutritionTargetsStorage() NutritionTargetsStorage
	GetReportsStorage() ReportsStorage

	// Close releases the backend's resources.
	Close() error
}
