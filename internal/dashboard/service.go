// Package dashboard aggregates the per-user summary shown on the landing
// view.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	compliancedomain "github.com/campuskit/ethos/internal/compliance/domain"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	recentLogLimit     = 10
	unreadInsightLimit = 5
	trendDays          = 30
)

type Totals struct {
	Today   int64 `json:"today"`
	Week    int64 `json:"week"`
	Month   int64 `json:"month"`
	AllTime int64 `json:"all_time"`
}

type Summary struct {
	Totals       Totals                             `json:"totals"`
	ActivePolicy *policydomain.Policy               `json:"active_policy,omitempty"`
	Compliance   *compliancedomain.ComplianceStatus `json:"compliance,omitempty"`
	RecentLogs   []usagedomain.UsageLog             `json:"recent_logs"`
	Insights     []insightdomain.Insight            `json:"insights"`
	ByTool       []usagedomain.ToolCount            `json:"usage_by_tool"`
	ByType       []usagedomain.TypeCount            `json:"usage_by_type"`
	Trend        []usagedomain.DayCount             `json:"trend"`
}

type Service struct {
	log        *zap.Logger
	usage      usagedomain.Service
	insights   insightdomain.Service
	policies   policydomain.Service
	compliance compliancedomain.Service
	clock      clock.Clock
}

func New(
	log *zap.Logger,
	usage usagedomain.Service,
	insights insightdomain.Service,
	policies policydomain.Service,
	compliance compliancedomain.Service,
	clk clock.Clock,
) *Service {
	return &Service{
		log:        log.Named("dashboard.service"),
		usage:      usage,
		insights:   insights,
		policies:   policies,
		compliance: compliance,
		clock:      clk,
	}
}

func (s *Service) Summary(ctx context.Context, userID snowflake.ID) (*Summary, error) {
	now := s.clock.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	summary := &Summary{}

	var err error
	if summary.Totals.Today, err = s.usage.CountSince(ctx, userID, midnight); err != nil {
		return nil, err
	}
	if summary.Totals.Week, err = s.usage.CountSince(ctx, userID, now.AddDate(0, 0, -7)); err != nil {
		return nil, err
	}
	if summary.Totals.Month, err = s.usage.CountSince(ctx, userID, now.AddDate(0, -1, 0)); err != nil {
		return nil, err
	}
	if summary.Totals.AllTime, err = s.usage.CountAll(ctx, userID); err != nil {
		return nil, err
	}

	policy, err := s.policies.ActiveOn(ctx, now)
	switch {
	case err == nil:
		summary.ActivePolicy = policy
	case errors.Is(err, policydomain.ErrPolicyNotFound):
	default:
		return nil, err
	}

	status, err := s.compliance.CurrentWeekly(ctx, userID)
	switch {
	case err == nil:
		summary.Compliance = status
	case errors.Is(err, compliancedomain.ErrStatusNotFound):
	default:
		return nil, err
	}

	if summary.RecentLogs, err = s.usage.Recent(ctx, userID, recentLogLimit); err != nil {
		return nil, err
	}
	if summary.Insights, err = s.insights.Unread(ctx, userID, unreadInsightLimit); err != nil {
		return nil, err
	}
	if summary.ByTool, err = s.usage.ByTool(ctx, userID); err != nil {
		return nil, err
	}
	if summary.ByType, err = s.usage.ByType(ctx, userID); err != nil {
		return nil, err
	}

	trendFrom := midnight.AddDate(0, 0, -(trendDays - 1))
	if summary.Trend, err = s.usage.DailySeries(ctx, userID, trendFrom, midnight.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}

	if summary.RecentLogs == nil {
		summary.RecentLogs = []usagedomain.UsageLog{}
	}
	if summary.Insights == nil {
		summary.Insights = []insightdomain.Insight{}
	}
	if summary.ByTool == nil {
		summary.ByTool = []usagedomain.ToolCount{}
	}
	if summary.ByType == nil {
		summary.ByType = []usagedomain.TypeCount{}
	}
	if summary.Trend == nil {
		summary.Trend = []usagedomain.DayCount{}
	}

	return summary, nil
}

var Module = fx.Module("dashboard",
	fx.Provide(New),
)
