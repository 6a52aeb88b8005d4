package generator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&usagedomain.UsageLog{}, &insightdomain.Insight{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return conn, node
}

func insertLog(t *testing.T, conn *gorm.DB, node *snowflake.Node, userID snowflake.ID, at time.Time) *usagedomain.UsageLog {
	t.Helper()

	entry := &usagedomain.UsageLog{
		ID:         node.Generate(),
		UserID:     userID,
		Tool:       usagedomain.ToolClaude,
		UsageType:  usagedomain.TypeResearch,
		RecordedAt: at,
		CreatedAt:  at,
	}
	require.NoError(t, conn.Create(entry).Error)
	return entry
}

func TestMilestoneInsight(t *testing.T) {
	conn, node := setupDB(t)
	gen := New(node)
	userID := node.Generate()
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)

	// Nine historical events, then the tenth triggers the milestone.
	for i := 0; i < 9; i++ {
		insertLog(t, conn, node, userID, now.AddDate(0, 0, -9+i))
	}
	tenth := insertLog(t, conn, node, userID, now)

	created, err := gen.OnUsageLogged(context.Background(), conn, tenth)
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, insightdomain.TypeAchievement, created[0].InsightType)
	require.Equal(t, "Milestone: 10 AI Interactions!", created[0].Title)
	require.Equal(t, insightdomain.PriorityMedium, created[0].Priority)

	// The triggering log is linked through the join table.
	var joinCount int64
	require.NoError(t, conn.Table("insight_usage_logs").
		Where("insight_id = ? AND usage_log_id = ?", created[0].ID, tenth.ID).
		Count(&joinCount).Error)
	require.EqualValues(t, 1, joinCount)

	// The eleventh event is not a milestone.
	eleventh := insertLog(t, conn, node, userID, now.Add(time.Minute))
	created, err = gen.OnUsageLogged(context.Background(), conn, eleventh)
	require.NoError(t, err)
	require.Empty(t, created)
}

func TestDailyWarningInsight(t *testing.T) {
	conn, node := setupDB(t)
	gen := New(node)
	userID := node.Generate()
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 49; i++ {
		insertLog(t, conn, node, userID, now.Add(time.Duration(i)*time.Minute))
	}
	fiftieth := insertLog(t, conn, node, userID, now.Add(50*time.Minute))

	created, err := gen.OnUsageLogged(context.Background(), conn, fiftieth)
	require.NoError(t, err)

	var warning *insightdomain.Insight
	for i := range created {
		if created[i].InsightType == insightdomain.TypeWarning {
			warning = &created[i]
		}
	}
	require.NotNil(t, warning, "expected a high usage warning, got %v", created)
	require.Equal(t, "High AI Usage Today", warning.Title)
	require.Equal(t, insightdomain.PriorityHigh, warning.Priority)

	// Further events the same day do not raise a second warning.
	next := insertLog(t, conn, node, userID, now.Add(time.Hour))
	created, err = gen.OnUsageLogged(context.Background(), conn, next)
	require.NoError(t, err)
	for _, insight := range created {
		require.NotEqual(t, insightdomain.TypeWarning, insight.InsightType)
	}

	var warningCount int64
	require.NoError(t, conn.Model(&insightdomain.Insight{}).
		Where("user_id = ? AND insight_type = ?", userID, insightdomain.TypeWarning).
		Count(&warningCount).Error)
	require.EqualValues(t, 1, warningCount)
}

func TestMilestonesAreExact(t *testing.T) {
	conn, node := setupDB(t)
	gen := New(node)
	userID := node.Generate()
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		entry := insertLog(t, conn, node, userID, now.Add(time.Duration(i)*time.Hour).AddDate(0, 0, -12))
		_, err := gen.OnUsageLogged(context.Background(), conn, entry)
		require.NoError(t, err)
	}

	var achievements []insightdomain.Insight
	require.NoError(t, conn.
		Where("user_id = ? AND insight_type = ?", userID, insightdomain.TypeAchievement).
		Find(&achievements).Error)
	require.Len(t, achievements, 1)
	require.Equal(t, fmt.Sprintf("Milestone: %d AI Interactions!", 10), achievements[0].Title)
}
