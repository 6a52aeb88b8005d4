package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	"github.com/campuskit/ethos/internal/insight/generator"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	"github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/campuskit/ethos/internal/usagelog/repository"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/campuskit/ethos/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T, start time.Time) (domain.Service, *gorm.DB, *snowflake.Node, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&policydomain.Policy{},
		&domain.UsageLog{},
		&insightdomain.Insight{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(start)
	svc := New(zap.NewNop(), conn, repository.New(conn), generator.New(node), nil, node, clk)
	return svc, conn, node, clk
}

func activatePolicy(t *testing.T, conn *gorm.DB, node *snowflake.Node, maxDaily, maxWeekly int, from time.Time) {
	t.Helper()

	policy := policydomain.Policy{
		ID:             node.Generate(),
		Title:          "Limits",
		Status:         policydomain.StatusActive,
		Rules:          []byte(`{}`),
		MaxDailyUsage:  maxDaily,
		MaxWeeklyUsage: maxWeekly,
		EffectiveFrom:  from,
		CreatedAt:      from,
		UpdatedAt:      from,
	}
	require.NoError(t, conn.Create(&policy).Error)
}

func TestLogRejectsInvalidInput(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc, _, node, _ := setup(t, start)
	userID := node.Generate()

	_, err := svc.Log(context.Background(), userID, domain.LogRequest{Tool: "skynet", UsageType: domain.TypeLearning})
	require.ErrorIs(t, err, domain.ErrInvalidTool)

	_, err = svc.Log(context.Background(), userID, domain.LogRequest{Tool: domain.ToolClaude, UsageType: "mining"})
	require.ErrorIs(t, err, domain.ErrInvalidUsageType)

	_, err = svc.Log(context.Background(), userID, domain.LogRequest{
		Tool: domain.ToolClaude, UsageType: domain.TypeLearning, DurationMinutes: -1,
	})
	require.ErrorIs(t, err, domain.ErrInvalidMetric)
}

func TestLogAppliesVerdictAtInsert(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc, conn, node, clk := setup(t, start)
	userID := node.Generate()
	activatePolicy(t, conn, node, 5, 100, start.AddDate(0, 0, -30))

	req := domain.LogRequest{Tool: domain.ToolCopilot, UsageType: domain.TypeDebugging}

	// The first five events of the day stay compliant.
	for i := 0; i < 5; i++ {
		entry, err := svc.Log(context.Background(), userID, req)
		require.NoError(t, err)
		require.True(t, entry.IsCompliant)
		require.Equal(t, "Usage within policy limits", entry.ComplianceNotes)
		require.NotNil(t, entry.PolicyID)
		clk.Advance(time.Minute)
	}

	// The sixth crosses the daily limit.
	sixth, err := svc.Log(context.Background(), userID, req)
	require.NoError(t, err)
	require.False(t, sixth.IsCompliant)
	require.Equal(t, "Exceeded daily usage limit of 5", sixth.ComplianceNotes)

	// Verdicts are frozen at insert; the sixth stays non-compliant and the
	// earlier five stay compliant even after more activity.
	var stored domain.UsageLog
	require.NoError(t, conn.First(&stored, "id = ?", sixth.ID).Error)
	require.False(t, stored.IsCompliant)

	var compliantCount int64
	require.NoError(t, conn.Model(&domain.UsageLog{}).
		Where("user_id = ? AND is_compliant = ?", userID, true).
		Count(&compliantCount).Error)
	require.EqualValues(t, 5, compliantCount)
}

func TestLogWithoutPolicyIsCompliant(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc, _, node, _ := setup(t, start)
	userID := node.Generate()

	entry, err := svc.Log(context.Background(), userID, domain.LogRequest{
		Tool:      domain.ToolGemini,
		UsageType: domain.TypeResearch,
	})
	require.NoError(t, err)
	require.True(t, entry.IsCompliant)
	require.Nil(t, entry.PolicyID)
	require.Empty(t, entry.ComplianceNotes)
}

func TestListFiltersAndPaginates(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc, _, node, clk := setup(t, start)
	userID := node.Generate()

	for i := 0; i < 3; i++ {
		_, err := svc.Log(context.Background(), userID, domain.LogRequest{Tool: domain.ToolClaude, UsageType: domain.TypeLearning})
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}
	for i := 0; i < 2; i++ {
		_, err := svc.Log(context.Background(), userID, domain.LogRequest{Tool: domain.ToolChatGPT, UsageType: domain.TypeDebugging})
		require.NoError(t, err)
		clk.Advance(time.Minute)
	}

	result, err := svc.List(context.Background(), userID, domain.ListRequest{Tool: domain.ToolClaude})
	require.NoError(t, err)
	require.Len(t, result.Logs, 3)
	for _, entry := range result.Logs {
		require.Equal(t, domain.ToolClaude, entry.Tool)
	}

	// Newest first, two pages of two.
	page1, err := svc.List(context.Background(), userID, domain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2},
	})
	require.NoError(t, err)
	require.Len(t, page1.Logs, 2)
	require.True(t, page1.PageInfo.HasMore)
	require.Equal(t, domain.ToolChatGPT, page1.Logs[0].Tool)
	require.True(t, page1.Logs[0].RecordedAt.After(page1.Logs[1].RecordedAt))

	page2, err := svc.List(context.Background(), userID, domain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: page1.PageInfo.NextPageToken},
	})
	require.NoError(t, err)
	require.Len(t, page2.Logs, 2)
	require.True(t, page1.Logs[1].RecordedAt.After(page2.Logs[0].RecordedAt) ||
		page1.Logs[1].RecordedAt.Equal(page2.Logs[0].RecordedAt))
}
