package export

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/campuskit/ethos/internal/auth/domain"
	authrepo "github.com/campuskit/ethos/internal/auth/repository"
	"github.com/campuskit/ethos/internal/clock"
	feedbackdomain "github.com/campuskit/ethos/internal/feedback/domain"
	feedbackrepo "github.com/campuskit/ethos/internal/feedback/repository"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	insightrepo "github.com/campuskit/ethos/internal/insight/repository"
	profiledomain "github.com/campuskit/ethos/internal/profile/domain"
	profilerepo "github.com/campuskit/ethos/internal/profile/repository"
	profilesvc "github.com/campuskit/ethos/internal/profile/service"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	usagerepo "github.com/campuskit/ethos/internal/usagelog/repository"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&authdomain.User{},
		&profiledomain.Profile{},
		&usagedomain.UsageLog{},
		&insightdomain.Insight{},
		&feedbackdomain.Feedback{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	profiles := profilesvc.New(zap.NewNop(), profilerepo.New(conn), node, clk)
	svc := New(
		zap.NewNop(),
		authrepo.NewUserRepository(conn),
		profiles,
		usagerepo.New(conn),
		insightrepo.New(conn),
		feedbackrepo.New(conn),
		nil,
		clk,
	)
	return svc, conn, node
}

func insertUser(t *testing.T, conn *gorm.DB, node *snowflake.Node, email string) *authdomain.User {
	t.Helper()

	user := &authdomain.User{
		ID:           node.Generate(),
		Email:        email,
		DisplayName:  email,
		PasswordHash: "x",
		Role:         authdomain.RoleStudent,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func TestExportContainsOnlyOwnRecords(t *testing.T) {
	svc, conn, node := setup(t)
	ctx := context.Background()

	alice := insertUser(t, conn, node, "alice@example.edu")
	bob := insertUser(t, conn, node, "bob@example.edu")

	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	for _, owner := range []*authdomain.User{alice, bob} {
		require.NoError(t, conn.Create(&usagedomain.UsageLog{
			ID:         node.Generate(),
			UserID:     owner.ID,
			Tool:       usagedomain.ToolClaude,
			UsageType:  usagedomain.TypeLearning,
			RecordedAt: now,
			CreatedAt:  now,
		}).Error)
		require.NoError(t, conn.Create(&insightdomain.Insight{
			ID:          node.Generate(),
			UserID:      owner.ID,
			InsightType: insightdomain.TypeRecommendation,
			Title:       "t",
			GeneratedAt: now,
		}).Error)
		require.NoError(t, conn.Create(&feedbackdomain.Feedback{
			ID:           node.Generate(),
			UserID:       owner.ID,
			FeedbackType: feedbackdomain.TypeGeneral,
			Title:        "t",
			Status:       feedbackdomain.StatusNew,
			SubmittedAt:  now,
			UpdatedAt:    now,
		}).Error)
	}

	bundle, err := svc.Export(ctx, alice.ID)
	require.NoError(t, err)

	require.Equal(t, alice.Email, bundle.User["email"])
	require.Len(t, bundle.UsageLogs, 1)
	require.Len(t, bundle.Insights, 1)
	require.Len(t, bundle.Feedback, 1)
	require.Equal(t, alice.ID, bundle.UsageLogs[0].UserID)
	require.Equal(t, alice.ID, bundle.Insights[0].UserID)
	require.Equal(t, alice.ID, bundle.Feedback[0].UserID)
}

func TestExportEmptyAccount(t *testing.T) {
	svc, conn, node := setup(t)

	user := insertUser(t, conn, node, "new@example.edu")
	bundle, err := svc.Export(context.Background(), user.ID)
	require.NoError(t, err)

	require.NotNil(t, bundle.UsageLogs)
	require.Empty(t, bundle.UsageLogs)
	require.NotNil(t, bundle.Profile)
	require.Equal(t, false, bundle.Profile["data_collection_consent"])
}
