package migration

import (
	authdomain "github.com/campuskit/ethos/internal/auth/domain"
	compliancedomain "github.com/campuskit/ethos/internal/compliance/domain"
	feedbackdomain "github.com/campuskit/ethos/internal/feedback/domain"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	profiledomain "github.com/campuskit/ethos/internal/profile/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"gorm.io/gorm"
)

// AutoMigrate builds the schema from the models for sqlite and other dev
// stores where the SQL migrations do not apply.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&profiledomain.Profile{},
		&policydomain.Policy{},
		&usagedomain.UsageLog{},
		&compliancedomain.ComplianceStatus{},
		&insightdomain.Insight{},
		&feedbackdomain.Feedback{},
	)
}
