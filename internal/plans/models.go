package plans

import (
	"fmt"
	"time"

	"github.com/fdg312/meal-hub/internal/planner"
)

// GeneratePlanRequest is the request body for POST /v1/plans/generate.
// Zero DailyCalories and empty Goal fall back to the user's stored
// nutrition targets.
type GeneratePlanRequest struct {
	DailyCalories      int    `json:"daily_calories,omitempty"`
	Goal               string `json:"goal,omitempty"`
	ForceDeterministic bool   `json:"force_deterministic,omitempty"`
	Seed               int64  `json:"seed,omitempty"`
}

var validGoals = map[string]bool{
	planner.GoalWeightLoss:  true,
	planner.GoalMuscleGain:  true,
	planner.GoalMaintenance: true,
}

// Validate validates the generation request.
func (r *GeneratePlanRequest) Validate() error {
	if r.DailyCalories != 0 && (r.DailyCalories < 800 || r.DailyCalories > 6000) {
		return fmt.Errorf("daily_calories must be between 800 and 6000")
	}

	if r.Goal != "" && !validGoals[r.Goal] {
		return fmt.Errorf("goal must be one of: weight_loss, muscle_gain, maintenance")
	}

	return nil
}

// PlanSummaryDTO is the list view of a stored plan, without the payload.
type PlanSummaryDTO struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Goal              string    `json:"goal"`
	BaseDailyCalories int       `json:"base_daily_calories"`
	GenerationMethod  string    `json:"generation_method"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// PlanDTO is a stored plan with its full payload.
type PlanDTO struct {
	PlanSummaryDTO
	Plan *planner.Plan `json:"plan"`
}

// ListPlansResponse is the response for GET /v1/plans.
type ListPlansResponse struct {
	Plans  []PlanSummaryDTO `json:"plans"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
