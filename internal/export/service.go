// Package export assembles a user's complete data bundle for download.
// Every query is scoped to the requesting user; nothing owned by another
// account can appear in the output.
package export

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/campuskit/ethos/internal/auth/domain"
	"github.com/campuskit/ethos/internal/clock"
	feedbackdomain "github.com/campuskit/ethos/internal/feedback/domain"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	profiledomain "github.com/campuskit/ethos/internal/profile/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/campuskit/ethos/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Bundle struct {
	ExportedAt time.Time                 `json:"exported_at"`
	User       map[string]any            `json:"user"`
	Profile    map[string]any            `json:"profile"`
	UsageLogs  []usagedomain.UsageLog    `json:"usage_logs"`
	Insights   []insightdomain.Insight   `json:"insights"`
	Feedback   []feedbackdomain.Feedback `json:"feedback"`
}

type Service struct {
	log      *zap.Logger
	users    authdomain.Repository
	profiles profiledomain.Service
	usage    usagedomain.Repository
	insights insightdomain.Repository
	feedback feedbackdomain.Repository
	metrics  *telemetry.Metrics
	clock    clock.Clock
}

func New(
	log *zap.Logger,
	users authdomain.Repository,
	profiles profiledomain.Service,
	usage usagedomain.Repository,
	insights insightdomain.Repository,
	feedback feedbackdomain.Repository,
	metrics *telemetry.Metrics,
	clk clock.Clock,
) *Service {
	return &Service{
		log:      log.Named("export.service"),
		users:    users,
		profiles: profiles,
		usage:    usage,
		insights: insights,
		feedback: feedback,
		metrics:  metrics,
		clock:    clk,
	}
}

func (s *Service) Export(ctx context.Context, userID snowflake.ID) (*Bundle, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.EnsureFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.usage.AllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	insights, err := s.insights.AllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	feedbacks, err := s.feedback.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if logs == nil {
		logs = []usagedomain.UsageLog{}
	}
	if insights == nil {
		insights = []insightdomain.Insight{}
	}
	if feedbacks == nil {
		feedbacks = []feedbackdomain.Feedback{}
	}

	bundle := &Bundle{
		ExportedAt: s.clock.Now().UTC(),
		User: map[string]any{
			"id":           user.ID.String(),
			"email":        user.Email,
			"display_name": user.DisplayName,
			"role":         user.Role,
			"created_at":   user.CreatedAt,
		},
		Profile: map[string]any{
			"student_ref":             profile.StudentRef,
			"department":              profile.Department,
			"enrollment_date":         profile.EnrollmentDate,
			"data_collection_consent": profile.DataCollectionConsent,
			"consent_at":              profile.ConsentAt,
			"allow_analytics":         profile.AllowAnalytics,
			"email_notifications":     profile.EmailNotifications,
			"weekly_summary":          profile.WeeklySummary,
		},
		UsageLogs: logs,
		Insights:  insights,
		Feedback:  feedbacks,
	}

	s.metrics.IncExport()
	s.log.Info("data export generated",
		zap.String("user_id", userID.String()),
		zap.Int("usage_logs", len(logs)),
	)
	return bundle, nil
}

var Module = fx.Module("export",
	fx.Provide(New),
)
