package evaluator

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) (*gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&policydomain.Policy{}, &usagedomain.UsageLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return conn, node
}

func insertPolicy(t *testing.T, conn *gorm.DB, node *snowflake.Node, maxDaily, maxWeekly int, from time.Time) policydomain.Policy {
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
	return policy
}

func insertLog(t *testing.T, conn *gorm.DB, node *snowflake.Node, userID snowflake.ID, at time.Time) {
	t.Helper()

	entry := usagedomain.UsageLog{
		ID:         node.Generate(),
		UserID:     userID,
		Tool:       usagedomain.ToolChatGPT,
		UsageType:  usagedomain.TypeLearning,
		RecordedAt: at,
		CreatedAt:  at,
	}
	require.NoError(t, conn.Create(&entry).Error)
}

func TestEvaluateNoActivePolicy(t *testing.T) {
	conn, node := setupDB(t)
	userID := node.Generate()

	verdict, err := Evaluate(context.Background(), conn, userID, time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, verdict.Compliant)
	require.Nil(t, verdict.PolicyID)
	require.Empty(t, verdict.Notes)
}

func TestEvaluateDailyLimit(t *testing.T) {
	conn, node := setupDB(t)
	userID := node.Generate()

	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	policy := insertPolicy(t, conn, node, 5, 100, now.AddDate(0, 0, -30))

	// Five events earlier today. The event under evaluation is the sixth.
	for i := 0; i < 5; i++ {
		insertLog(t, conn, node, userID, now.Add(-time.Duration(i+1)*time.Hour))
	}

	verdict, err := Evaluate(context.Background(), conn, userID, now)
	require.NoError(t, err)
	require.False(t, verdict.Compliant)
	require.Equal(t, "Exceeded daily usage limit of 5", verdict.Notes)
	require.NotNil(t, verdict.PolicyID)
	require.Equal(t, policy.ID, *verdict.PolicyID)
}

func TestEvaluateUnderDailyLimit(t *testing.T) {
	conn, node := setupDB(t)
	userID := node.Generate()

	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	insertPolicy(t, conn, node, 5, 100, now.AddDate(0, 0, -30))

	// Four prior events today, so the fifth is still within the limit.
	for i := 0; i < 4; i++ {
		insertLog(t, conn, node, userID, now.Add(-time.Duration(i+1)*time.Hour))
	}
	// Yesterday's events do not count toward today.
	insertLog(t, conn, node, userID, now.AddDate(0, 0, -1))

	verdict, err := Evaluate(context.Background(), conn, userID, now)
	require.NoError(t, err)
	require.True(t, verdict.Compliant)
	require.Equal(t, "Usage within policy limits", verdict.Notes)
}

func TestEvaluateWeeklyLimit(t *testing.T) {
	conn, node := setupDB(t)
	userID := node.Generate()

	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	insertPolicy(t, conn, node, 100, 10, now.AddDate(0, 0, -30))

	// Ten events spread over the trailing week, none today.
	for i := 0; i < 10; i++ {
		insertLog(t, conn, node, userID, now.AddDate(0, 0, -1).Add(-time.Duration(i)*time.Hour))
	}

	verdict, err := Evaluate(context.Background(), conn, userID, now)
	require.NoError(t, err)
	require.False(t, verdict.Compliant)
	require.Equal(t, "Exceeded weekly usage limit of 10", verdict.Notes)
}

func TestEvaluateIgnoresOtherUsers(t *testing.T) {
	conn, node := setupDB(t)
	userID := node.Generate()
	otherID := node.Generate()

	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	insertPolicy(t, conn, node, 5, 100, now.AddDate(0, 0, -30))

	for i := 0; i < 10; i++ {
		insertLog(t, conn, node, otherID, now.Add(-time.Duration(i+1)*time.Minute))
	}

	verdict, err := Evaluate(context.Background(), conn, userID, now)
	require.NoError(t, err)
	require.True(t, verdict.Compliant)
}
