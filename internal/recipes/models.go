package recipes

import (
	"fmt"
	"time"
)

type RecipeDTO struct {
	ID                int64     `json:"id"`
	Title             string    `json:"title"`
	Tags              []string  `json:"tags"`
	Calories          float64   `json:"calories"`
	Protein           float64   `json:"protein"`
	Carbohydrate      float64   `json:"carbohydrate"`
	Fat               float64   `json:"fat"`
	AverageRating     float64   `json:"average_rating"`
	GlobalCookedCount int       `json:"global_cooked_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type UpsertRecipeRequest struct {
	Title        string   `json:"title"`
	Tags         []string `json:"tags"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbohydrate float64  `json:"carbohydrate"`
	Fat          float64  `json:"fat"`
}

type ListRecipesResponse struct {
	Recipes []RecipeDTO `json:"recipes"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

func (r *UpsertRecipeRequest) Validate() error {
	if len(r.Title) < 1 || len(r.Title) > 300 {
		return fmt.Errorf("title must be between 1 and 300 characters")
	}
	if len(r.Tags) == 0 {
		return fmt.Errorf("tags is required and must not be empty")
	}
	if len(r.Tags) > 30 {
		return fmt.Errorf("tags cannot exceed 30 entries")
	}
	for i, tag := range r.Tags {
		if len(tag) < 1 || len(tag) > 100 {
			return fmt.Errorf("tags[%d]: must be 1-100 chars", i)
		}
	}
	if r.Calories < 0 || r.Calories > 10000 {
		return fmt.Errorf("calories must be 0-10000")
	}
	if r.Protein < 0 || r.Carbohydrate < 0 || r.Fat < 0 {
		return fmt.Errorf("macros must not be negative")
	}
	return nil
}
