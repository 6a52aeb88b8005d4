package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	StatusDraft    = "draft"
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Policy defines the usage limits events are evaluated against. Limits apply
// per user: MaxDailyUsage events since local midnight, MaxWeeklyUsage events
// over a trailing seven days.
type Policy struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Version     string       `json:"version" gorm:"default:'1.0'"`
	Status      string       `json:"status" gorm:"index;default:'draft'"`

	Rules datatypes.JSON `json:"rules"`

	MaxDailyUsage  int `json:"max_daily_usage"`
	MaxWeeklyUsage int `json:"max_weekly_usage"`

	EffectiveFrom  time.Time  `json:"effective_from"`
	EffectiveUntil *time.Time `json:"effective_until,omitempty"`

	CreatedBy snowflake.ID `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Policy) TableName() string {
	return "policies"
}

// ActiveOn reports whether the policy governs events occurring at t.
func (p *Policy) ActiveOn(t time.Time) bool {
	if p.Status != StatusActive {
		return false
	}
	day := t.Truncate(24 * time.Hour)
	if day.Before(p.EffectiveFrom.Truncate(24 * time.Hour)) {
		return false
	}
	if p.EffectiveUntil != nil && day.After(p.EffectiveUntil.Truncate(24*time.Hour)) {
		return false
	}
	return true
}
