package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/policy/domain"
	"github.com/campuskit/ethos/internal/policy/repository"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, *gorm.DB, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Policy{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	return New(zap.NewNop(), repository.New(conn), node, clk), conn, clk, node
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, node := setup(t)
	ctx := context.Background()
	admin := node.Generate()

	_, err := svc.Create(ctx, admin, domain.CreateRequest{Title: "  ", MaxDailyUsage: 5, MaxWeeklyUsage: 20})
	require.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = svc.Create(ctx, admin, domain.CreateRequest{Title: "p", MaxDailyUsage: 0, MaxWeeklyUsage: 20})
	require.ErrorIs(t, err, domain.ErrInvalidLimit)

	until := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.Create(ctx, admin, domain.CreateRequest{
		Title:          "p",
		MaxDailyUsage:  5,
		MaxWeeklyUsage: 20,
		EffectiveFrom:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		EffectiveUntil: &until,
	})
	require.ErrorIs(t, err, domain.ErrInvalidEffective)
}

func TestCreateStartsAsDraft(t *testing.T) {
	svc, _, clk, node := setup(t)

	policy, err := svc.Create(context.Background(), node.Generate(), domain.CreateRequest{
		Title:          "Fall 2026 Policy",
		MaxDailyUsage:  10,
		MaxWeeklyUsage: 50,
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, policy.Status)
	require.Equal(t, "1.0", policy.Version)
	require.Equal(t, clk.Now().UTC(), policy.EffectiveFrom)
}

func TestActivateArchivesOtherActive(t *testing.T) {
	svc, _, _, node := setup(t)
	ctx := context.Background()
	admin := node.Generate()

	first, err := svc.Create(ctx, admin, domain.CreateRequest{Title: "first", MaxDailyUsage: 5, MaxWeeklyUsage: 20})
	require.NoError(t, err)
	_, err = svc.Activate(ctx, first.ID)
	require.NoError(t, err)

	second, err := svc.Create(ctx, admin, domain.CreateRequest{Title: "second", MaxDailyUsage: 8, MaxWeeklyUsage: 40})
	require.NoError(t, err)
	_, err = svc.Activate(ctx, second.ID)
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusArchived, reloaded.Status)

	active, err := svc.ActiveOn(ctx, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)
}

func TestActivateRejectsNonDraft(t *testing.T) {
	svc, _, _, node := setup(t)
	ctx := context.Background()

	policy, err := svc.Create(ctx, node.Generate(), domain.CreateRequest{Title: "p", MaxDailyUsage: 5, MaxWeeklyUsage: 20})
	require.NoError(t, err)
	_, err = svc.Activate(ctx, policy.ID)
	require.NoError(t, err)

	_, err = svc.Activate(ctx, policy.ID)
	require.ErrorIs(t, err, domain.ErrPolicyNotDraft)

	archived, err := svc.Archive(ctx, policy.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusArchived, archived.Status)
	_, err = svc.Activate(ctx, policy.ID)
	require.ErrorIs(t, err, domain.ErrPolicyNotDraft)
}

func TestUpdateRejectsArchived(t *testing.T) {
	svc, _, _, node := setup(t)
	ctx := context.Background()

	policy, err := svc.Create(ctx, node.Generate(), domain.CreateRequest{Title: "p", MaxDailyUsage: 5, MaxWeeklyUsage: 20})
	require.NoError(t, err)
	_, err = svc.Archive(ctx, policy.ID)
	require.NoError(t, err)

	title := "renamed"
	_, err = svc.Update(ctx, policy.ID, domain.UpdateRequest{Title: &title})
	require.ErrorIs(t, err, domain.ErrPolicyArchived)
}

func TestUpdatePartialFields(t *testing.T) {
	svc, _, _, node := setup(t)
	ctx := context.Background()

	policy, err := svc.Create(ctx, node.Generate(), domain.CreateRequest{Title: "p", MaxDailyUsage: 5, MaxWeeklyUsage: 20})
	require.NoError(t, err)

	daily := 12
	updated, err := svc.Update(ctx, policy.ID, domain.UpdateRequest{MaxDailyUsage: &daily})
	require.NoError(t, err)
	require.Equal(t, 12, updated.MaxDailyUsage)
	require.Equal(t, "p", updated.Title)
	require.Equal(t, 20, updated.MaxWeeklyUsage)

	bad := -1
	_, err = svc.Update(ctx, policy.ID, domain.UpdateRequest{MaxWeeklyUsage: &bad})
	require.ErrorIs(t, err, domain.ErrInvalidLimit)
}
