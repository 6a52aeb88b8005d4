package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrInsightNotFound = errors.New("insight not found")

type Service interface {
	// List returns the user's non-dismissed insights ordered by priority
	// then recency, and marks the returned insights as read.
	List(ctx context.Context, userID snowflake.ID) ([]Insight, error)
	Unread(ctx context.Context, userID snowflake.ID, limit int) ([]Insight, error)
	Dismiss(ctx context.Context, userID, insightID snowflake.ID) error
}

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, insight *Insight) error
	ListActive(ctx context.Context, userID snowflake.ID) ([]Insight, error)
	AllByUser(ctx context.Context, userID snowflake.ID) ([]Insight, error)
	ListUnread(ctx context.Context, userID snowflake.ID, limit int) ([]Insight, error)
	MarkRead(ctx context.Context, ids []snowflake.ID) error
	FindByID(ctx context.Context, userID, insightID snowflake.ID) (*Insight, error)
	Update(ctx context.Context, insight *Insight) error
	// ExistsSince reports whether an insight of the given type was generated
	// for the user at or after since.
	ExistsSince(ctx context.Context, tx *gorm.DB, userID snowflake.ID, insightType string, since time.Time) (bool, error)
}
