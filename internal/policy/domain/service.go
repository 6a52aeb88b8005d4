package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

var (
	ErrPolicyNotFound    = errors.New("policy not found")
	ErrInvalidTitle      = errors.New("policy title is required")
	ErrInvalidLimit      = errors.New("usage limits must be positive")
	ErrInvalidEffective  = errors.New("effective_until must not precede effective_from")
	ErrPolicyNotDraft    = errors.New("only draft policies can be activated")
	ErrPolicyArchived    = errors.New("archived policies cannot be modified")
)

type CreateRequest struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Version        string         `json:"version"`
	Rules          datatypes.JSON `json:"rules"`
	MaxDailyUsage  int            `json:"max_daily_usage"`
	MaxWeeklyUsage int            `json:"max_weekly_usage"`
	EffectiveFrom  time.Time      `json:"effective_from"`
	EffectiveUntil *time.Time     `json:"effective_until"`
}

type UpdateRequest struct {
	Title          *string         `json:"title"`
	Description    *string         `json:"description"`
	Version        *string         `json:"version"`
	Rules          *datatypes.JSON `json:"rules"`
	MaxDailyUsage  *int            `json:"max_daily_usage"`
	MaxWeeklyUsage *int            `json:"max_weekly_usage"`
	EffectiveFrom  *time.Time      `json:"effective_from"`
	EffectiveUntil *time.Time      `json:"effective_until"`
}

type Service interface {
	Create(ctx context.Context, createdBy snowflake.ID, req CreateRequest) (*Policy, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Policy, error)
	Activate(ctx context.Context, id snowflake.ID) (*Policy, error)
	Archive(ctx context.Context, id snowflake.ID) (*Policy, error)
	Get(ctx context.Context, id snowflake.ID) (*Policy, error)
	List(ctx context.Context) ([]Policy, error)
	// ActiveOn returns the policy governing events at t, or ErrPolicyNotFound.
	ActiveOn(ctx context.Context, t time.Time) (*Policy, error)
}

type Repository interface {
	Create(ctx context.Context, p *Policy) error
	Update(ctx context.Context, p *Policy) error
	FindByID(ctx context.Context, id snowflake.ID) (*Policy, error)
	List(ctx context.Context) ([]Policy, error)
	// FindActiveOn returns the oldest active policy whose effective range
	// covers t, or ErrPolicyNotFound.
	FindActiveOn(ctx context.Context, t time.Time) (*Policy, error)
	// ArchiveActiveExcept archives every active policy other than id.
	ArchiveActiveExcept(ctx context.Context, id snowflake.ID, at time.Time) error
}
