package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/profile/domain"
	"github.com/campuskit/ethos/internal/profile/repository"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T, start time.Time) (domain.Service, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Profile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(start)
	svc := New(zap.NewNop(), repository.New(conn), node, clk)
	return svc, clk, node
}

func TestEnsureForCreatesOnce(t *testing.T) {
	svc, _, node := setup(t, time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	userID := node.Generate()

	first, err := svc.EnsureFor(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, first.AllowAnalytics)
	require.True(t, first.EmailNotifications)
	require.False(t, first.DataCollectionConsent)

	second, err := svc.EnsureFor(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestUpdateStampsConsent(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc, clk, node := setup(t, start)
	userID := node.Generate()

	grant := true
	profile, err := svc.Update(context.Background(), userID, domain.UpdateRequest{DataCollectionConsent: &grant})
	require.NoError(t, err)
	require.True(t, profile.DataCollectionConsent)
	require.NotNil(t, profile.ConsentAt)
	require.Equal(t, start, *profile.ConsentAt)

	// Granting again later does not move the original stamp.
	clk.Advance(time.Hour)
	profile, err = svc.Update(context.Background(), userID, domain.UpdateRequest{DataCollectionConsent: &grant})
	require.NoError(t, err)
	require.Equal(t, start, *profile.ConsentAt)

	// Revoking clears it.
	revoke := false
	profile, err = svc.Update(context.Background(), userID, domain.UpdateRequest{DataCollectionConsent: &revoke})
	require.NoError(t, err)
	require.False(t, profile.DataCollectionConsent)
	require.Nil(t, profile.ConsentAt)
}

func TestUpdatePartialFields(t *testing.T) {
	svc, _, node := setup(t, time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	userID := node.Generate()

	dept := "Computer Science"
	profile, err := svc.Update(context.Background(), userID, domain.UpdateRequest{Department: &dept})
	require.NoError(t, err)
	require.Equal(t, "Computer Science", profile.Department)
	require.True(t, profile.WeeklySummary, "untouched preference keeps its default")
}
