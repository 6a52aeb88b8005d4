package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/insight/domain"
	"github.com/campuskit/ethos/internal/insight/repository"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Insight{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(zap.NewNop(), repository.New(conn))
	return svc, conn, node
}

func insertInsight(t *testing.T, conn *gorm.DB, node *snowflake.Node, userID snowflake.ID, priority string, at time.Time) domain.Insight {
	t.Helper()

	insight := domain.Insight{
		ID:          node.Generate(),
		UserID:      userID,
		InsightType: domain.TypeRecommendation,
		Title:       "Try summarizing before asking",
		Priority:    priority,
		GeneratedAt: at,
	}
	require.NoError(t, conn.Create(&insight).Error)
	return insight
}

func TestListOrdersByPriorityAndMarksRead(t *testing.T) {
	svc, conn, node := setup(t)
	userID := node.Generate()
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)

	low := insertInsight(t, conn, node, userID, domain.PriorityLow, now)
	high := insertInsight(t, conn, node, userID, domain.PriorityHigh, now.Add(-time.Hour))
	medium := insertInsight(t, conn, node, userID, domain.PriorityMedium, now.Add(-2*time.Hour))

	insights, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, insights, 3)
	require.Equal(t, high.ID, insights[0].ID)
	require.Equal(t, medium.ID, insights[1].ID)
	require.Equal(t, low.ID, insights[2].ID)

	var unreadCount int64
	require.NoError(t, conn.Model(&domain.Insight{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unreadCount).Error)
	require.EqualValues(t, 0, unreadCount)
}

func TestDismissExcludesFromListing(t *testing.T) {
	svc, conn, node := setup(t)
	userID := node.Generate()
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)

	keep := insertInsight(t, conn, node, userID, domain.PriorityLow, now)
	drop := insertInsight(t, conn, node, userID, domain.PriorityLow, now.Add(time.Minute))

	require.NoError(t, svc.Dismiss(context.Background(), userID, drop.ID))

	insights, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, insights, 1)
	require.Equal(t, keep.ID, insights[0].ID)
}

func TestDismissForeignInsightIsNotFound(t *testing.T) {
	svc, conn, node := setup(t)
	owner := node.Generate()
	intruder := node.Generate()

	insight := insertInsight(t, conn, node, owner, domain.PriorityLow, time.Now().UTC())

	err := svc.Dismiss(context.Background(), intruder, insight.ID)
	require.ErrorIs(t, err, domain.ErrInsightNotFound)
}
