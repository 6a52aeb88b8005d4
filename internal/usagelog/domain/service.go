package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrLogNotFound      = errors.New("usage log not found")
	ErrInvalidTool      = errors.New("unknown ai tool")
	ErrInvalidUsageType = errors.New("unknown usage type")
	ErrInvalidMetric    = errors.New("duration and tokens must not be negative")
)

type LogRequest struct {
	Tool            string `json:"tool"`
	UsageType       string `json:"usage_type"`
	Description     string `json:"description"`
	CourseCode      string `json:"course_code"`
	AssignmentRef   string `json:"assignment_ref"`
	DurationMinutes int    `json:"duration_minutes"`
	TokensUsed      int    `json:"tokens_used"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type ListRequest struct {
	Tool      string
	UsageType string
	From      *time.Time
	To        *time.Time

	Pagination pagination.Pagination
}

type ListResult struct {
	Logs     []UsageLog          `json:"usage_logs"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// ToolCount and TypeCount feed the dashboard breakdowns.
type ToolCount struct {
	Tool  string `json:"tool"`
	Count int64  `json:"count"`
}

type TypeCount struct {
	UsageType string `json:"usage_type"`
	Count     int64  `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type Service interface {
	Log(ctx context.Context, userID snowflake.ID, req LogRequest) (*UsageLog, error)
	List(ctx context.Context, userID snowflake.ID, req ListRequest) (*ListResult, error)
	Recent(ctx context.Context, userID snowflake.ID, limit int) ([]UsageLog, error)
	CountSince(ctx context.Context, userID snowflake.ID, since time.Time) (int64, error)
	CountAll(ctx context.Context, userID snowflake.ID) (int64, error)
	ByTool(ctx context.Context, userID snowflake.ID) ([]ToolCount, error)
	ByType(ctx context.Context, userID snowflake.ID) ([]TypeCount, error)
	DailySeries(ctx context.Context, userID snowflake.ID, from, to time.Time) ([]DayCount, error)
}

type Repository interface {
	Create(ctx context.Context, tx *gorm.DB, log *UsageLog) error
	List(ctx context.Context, userID snowflake.ID, req ListRequest) ([]UsageLog, *pagination.PageInfo, error)
	Recent(ctx context.Context, userID snowflake.ID, limit int) ([]UsageLog, error)
	CountSince(ctx context.Context, tx *gorm.DB, userID snowflake.ID, since time.Time) (int64, error)
	CountAll(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (int64, error)
	CountInRange(ctx context.Context, userID snowflake.ID, from, to time.Time) (total, compliant int64, err error)
	ByTool(ctx context.Context, userID snowflake.ID) ([]ToolCount, error)
	ByType(ctx context.Context, userID snowflake.ID) ([]TypeCount, error)
	DailySeries(ctx context.Context, userID snowflake.ID, from, to time.Time) ([]DayCount, error)
	FindByIDs(ctx context.Context, userID snowflake.ID, ids []snowflake.ID) ([]UsageLog, error)
	AllByUser(ctx context.Context, userID snowflake.ID) ([]UsageLog, error)
}
