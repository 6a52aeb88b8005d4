package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	TypeBug         = "bug"
	TypeFeature     = "feature"
	TypeImprovement = "improvement"
	TypeGeneral     = "general"
)

const (
	StatusNew       = "new"
	StatusReviewing = "reviewing"
	StatusPlanned   = "planned"
	StatusResolved  = "resolved"
	StatusClosed    = "closed"
)

type Feedback struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID snowflake.ID `json:"user_id" gorm:"index"`

	FeedbackType string `json:"feedback_type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PageURL      string `json:"page_url"`

	ScreenshotPath string `json:"screenshot_path,omitempty"`

	Status        string `json:"status" gorm:"default:'new'"`
	AdminResponse string `json:"admin_response,omitempty"`

	SubmittedAt time.Time  `json:"submitted_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

func ValidType(feedbackType string) bool {
	switch feedbackType {
	case TypeBug, TypeFeature, TypeImprovement, TypeGeneral:
		return true
	}
	return false
}

// allowedTransitions is the triage workflow. Resolved and closed are
// terminal.
var allowedTransitions = map[string][]string{
	StatusNew:       {StatusReviewing, StatusClosed},
	StatusReviewing: {StatusPlanned, StatusResolved, StatusClosed},
	StatusPlanned:   {StatusResolved, StatusClosed},
}

func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
