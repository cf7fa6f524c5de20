package feedback

import (
	"fmt"
	"time"
)

type FeedbackDTO struct {
	RecipeID    int64     `json:"recipe_id"`
	Rating      *int      `json:"rating,omitempty"`
	Liked       *bool     `json:"liked,omitempty"`
	CookedCount int       `json:"cooked_count"`
	SkipCount   int       `json:"skip_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UpsertFeedbackRequest struct {
	Rating *int  `json:"rating,omitempty"`
	Liked  *bool `json:"liked,omitempty"`
}

type ListFeedbackResponse struct {
	Feedback []FeedbackDTO `json:"feedback"`
}

func (r *UpsertFeedbackRequest) Validate() error {
	if r.Rating == nil && r.Liked == nil {
		return fmt.Errorf("rating or liked is required")
	}
	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		return fmt.Errorf("rating must be 1-5")
	}
	return nil
}
