package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var ErrStatusNotFound = errors.New("compliance status not found")

type Service interface {
	// Recompute counts the user's logs inside [periodStart, periodEnd) and
	// upserts the snapshot for that period.
	Recompute(ctx context.Context, userID, policyID snowflake.ID, periodStart, periodEnd time.Time) (*ComplianceStatus, error)
	// CurrentWeekly recomputes the trailing seven-day snapshot against the
	// policy active now. Without an active policy it returns
	// ErrStatusNotFound.
	CurrentWeekly(ctx context.Context, userID snowflake.ID) (*ComplianceStatus, error)
}

type Repository interface {
	Upsert(ctx context.Context, status *ComplianceStatus) error
	FindByPeriod(ctx context.Context, userID, policyID snowflake.ID, periodStart time.Time) (*ComplianceStatus, error)
}
