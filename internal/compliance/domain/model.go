package domain

import (
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	LevelExcellent = "excellent"
	LevelGood      = "good"
	LevelWarning   = "warning"
	LevelViolation = "violation"
)

// ComplianceStatus is a scored snapshot of a user's behaviour against a
// policy over a period. One row per (user, policy, period_start); recomputing
// the same period overwrites it.
type ComplianceStatus struct {
	ID       snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID   snowflake.ID `json:"user_id" gorm:"uniqueIndex:idx_compliance_period,priority:1"`
	PolicyID snowflake.ID `json:"policy_id" gorm:"uniqueIndex:idx_compliance_period,priority:2"`

	PeriodStart time.Time `json:"period_start" gorm:"uniqueIndex:idx_compliance_period,priority:3"`
	PeriodEnd   time.Time `json:"period_end"`

	TotalCount     int64 `json:"total_count"`
	CompliantCount int64 `json:"compliant_count"`
	ViolationCount int64 `json:"violation_count"`

	Score int    `json:"score"`
	Level string `json:"level"`
	Notes string `json:"notes"`

	CalculatedAt time.Time `json:"calculated_at"`
}

func (ComplianceStatus) TableName() string {
	return "compliance_statuses"
}

// Score maps counts to a 0..100 compliance score. An empty period is a
// perfect score.
func Score(total, compliant int64) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(compliant) / float64(total) * 100))
}

func LevelForScore(score int) string {
	switch {
	case score >= 90:
		return LevelExcellent
	case score >= 75:
		return LevelGood
	case score >= 50:
		return LevelWarning
	default:
		return LevelViolation
	}
}
