package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"gorm.io/datatypes"
)

const (
	TypeUsagePattern   = "usage_pattern"
	TypeCompliance     = "compliance"
	TypeRecommendation = "recommendation"
	TypeAchievement    = "achievement"
	TypeWarning        = "warning"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Insight is a generated notification surfaced on the dashboard. Insights
// reference the usage logs that triggered them through the
// insight_usage_logs join table.
type Insight struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID snowflake.ID `json:"user_id" gorm:"index"`

	InsightType string `json:"insight_type"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Priority    string `json:"priority" gorm:"default:'low'"`

	Data datatypes.JSON `json:"data,omitempty"`

	IsRead      bool `json:"is_read"`
	IsDismissed bool `json:"is_dismissed"`

	GeneratedAt time.Time  `json:"generated_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`

	UsageLogs []usagedomain.UsageLog `json:"-" gorm:"many2many:insight_usage_logs;"`
}

func (Insight) TableName() string {
	return "insights"
}
