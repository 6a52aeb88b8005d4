package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Profile holds academic context, consent flags, and notification preferences
// for a user. Exactly one profile exists per user; it is provisioned on
// registration.
type Profile struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID     snowflake.ID `json:"user_id" gorm:"uniqueIndex"`
	StudentRef string       `json:"student_ref"`
	Department string       `json:"department"`

	EnrollmentDate time.Time `json:"enrollment_date"`

	DataCollectionConsent bool       `json:"data_collection_consent"`
	ConsentAt             *time.Time `json:"consent_at,omitempty"`
	AllowAnalytics        bool       `json:"allow_analytics"`

	EmailNotifications bool `json:"email_notifications"`
	WeeklySummary      bool `json:"weekly_summary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}
