package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ToolChatGPT = "chatgpt"
	ToolCopilot = "copilot"
	ToolClaude  = "claude"
	ToolGemini  = "gemini"
	ToolOther   = "other"
)

const (
	TypeCodeGeneration  = "code_generation"
	TypeCodeExplanation = "code_explanation"
	TypeDebugging       = "debugging"
	TypeDocumentation   = "documentation"
	TypeLearning        = "learning"
	TypeResearch        = "research"
	TypeOther           = "other"
)

var Tools = []string{ToolChatGPT, ToolCopilot, ToolClaude, ToolGemini, ToolOther}

var UsageTypes = []string{
	TypeCodeGeneration, TypeCodeExplanation, TypeDebugging,
	TypeDocumentation, TypeLearning, TypeResearch, TypeOther,
}

func ValidTool(tool string) bool {
	for _, t := range Tools {
		if t == tool {
			return true
		}
	}
	return false
}

func ValidUsageType(usageType string) bool {
	for _, t := range UsageTypes {
		if t == usageType {
			return true
		}
	}
	return false
}

// UsageLog is a single recorded AI interaction. The compliance verdict is
// computed once, when the event is inserted, against the policy active at
// that moment. It is never recomputed.
type UsageLog struct {
	ID     snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID snowflake.ID `json:"user_id" gorm:"index:idx_usage_logs_user_recorded,priority:1"`

	Tool        string `json:"tool" gorm:"index"`
	UsageType   string `json:"usage_type"`
	Description string `json:"description"`

	CourseCode    string `json:"course_code"`
	AssignmentRef string `json:"assignment_ref"`

	DurationMinutes int `json:"duration_minutes"`
	TokensUsed      int `json:"tokens_used"`

	PolicyID        *snowflake.ID `json:"policy_id,omitempty"`
	IsCompliant     bool          `json:"is_compliant"`
	ComplianceNotes string        `json:"compliance_notes"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`

	RecordedAt time.Time `json:"recorded_at" gorm:"index:idx_usage_logs_user_recorded,priority:2,sort:desc"`
	CreatedAt  time.Time `json:"created_at"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}
