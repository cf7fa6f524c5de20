package nutrition

import (
	"fmt"
	"time"

	"github.com/fdg312/meal-hub/internal/planner"
)

// TargetsDTO represents a user's stored generation defaults.
type TargetsDTO struct {
	DailyCalories int       `json:"daily_calories"`
	Goal          string    `json:"goal"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GetTargetsResponse contains targets and a flag indicating if they are defaults.
type GetTargetsResponse struct {
	Targets   TargetsDTO `json:"targets"`
	IsDefault bool       `json:"is_default"`
}

// UpsertTargetsRequest is the request body for PUT /v1/nutrition/targets.
type UpsertTargetsRequest struct {
	DailyCalories int    `json:"daily_calories"`
	Goal          string `json:"goal"`
}

var validGoals = map[string]bool{
	planner.GoalWeightLoss:  true,
	planner.GoalMuscleGain:  true,
	planner.GoalMaintenance: true,
}

// Validate validates the upsert request.
func (r *UpsertTargetsRequest) Validate() error {
	if r.DailyCalories < 800 || r.DailyCalories > 6000 {
		return fmt.Errorf("daily_calories must be between 800 and 6000")
	}

	if r.Goal != "" && !validGoals[r.Goal] {
		return fmt.Errorf("goal must be one of: weight_loss, muscle_gain, maintenance")
	}

	return nil
}

// GetDefaultTargets returns the defaults used when a user has not set
// targets yet.
func GetDefaultTargets() TargetsDTO {
	now := time.Now().UTC()
	return TargetsDTO{
		DailyCalories: 2000,
		Goal:          planner.GoalMaintenance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
