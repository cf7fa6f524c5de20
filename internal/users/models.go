package users

import (
	"fmt"
	"time"
)

var validActivities = map[string]bool{
	"low":      true,
	"moderate": true,
	"high":     true,
}

type UserDTO struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	PhysicalActivity   string    `json:"physical_activity"`
	DietaryPreferences []string  `json:"dietary_preferences"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type UpdateUserRequest struct {
	Name               *string   `json:"name,omitempty"`
	PhysicalActivity   *string   `json:"physical_activity,omitempty"`
	DietaryPreferences *[]string `json:"dietary_preferences,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Name != nil && (len(*r.Name) < 1 || len(*r.Name) > 200) {
		return fmt.Errorf("name must be between 1 and 200 characters")
	}
	if r.PhysicalActivity != nil && !validActivities[*r.PhysicalActivity] {
		return fmt.Errorf("physical_activity must be one of: low, moderate, high")
	}
	if r.DietaryPreferences != nil {
		if len(*r.DietaryPreferences) > 20 {
			return fmt.Errorf("dietary_preferences cannot exceed 20 entries")
		}
		for i, tag := range *r.DietaryPreferences {
			if len(tag) < 1 || len(tag) > 100 {
				return fmt.Errorf("dietary_preferences[%d]: must be 1-100 chars", i)
			}
		}
	}
	return nil
}
