package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var ErrProfileNotFound = errors.New("profile not found")

type UpdateRequest struct {
	StudentRef            *string `json:"student_ref"`
	Department            *string `json:"department"`
	DataCollectionConsent *bool   `json:"data_collection_consent"`
	AllowAnalytics        *bool   `json:"allow_analytics"`
	EmailNotifications    *bool   `json:"email_notifications"`
	WeeklySummary         *bool   `json:"weekly_summary"`
}

type Service interface {
	// EnsureFor returns the profile for the user, creating one with default
	// preferences if none exists yet.
	EnsureFor(ctx context.Context, userID snowflake.ID) (*Profile, error)
	Update(ctx context.Context, userID snowflake.ID, req UpdateRequest) (*Profile, error)
}

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	FindByUserID(ctx context.Context, userID snowflake.ID) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
}
