package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/auth/domain"
	"github.com/campuskit/ethos/internal/auth/repository"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/config"
	"github.com/campuskit/ethos/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T, start time.Time) (domain.Service, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	clk := clock.NewFakeClock(start)
	cfg := config.Config{SessionTTLHours: 24}
	svc := New(zap.NewNop(), cfg, repository.NewUserRepository(conn), repository.NewSessionRepository(conn), node, clk)
	return svc, clk
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setup(t, time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "not-an-email", Password: "longenough"})
	require.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "a@example.edu", Password: "short"})
	require.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestRegisterNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	svc, _ := setup(t, time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	user, err := svc.Register(ctx, domain.RegisterRequest{Email: "  Student@Example.EDU ", Password: "correcthorse"})
	require.NoError(t, err)
	require.Equal(t, "student@example.edu", user.Email)
	require.Equal(t, "student", user.DisplayName)
	require.Equal(t, domain.RoleStudent, user.Role)

	_, err = svc.Register(ctx, domain.RegisterRequest{Email: "student@example.edu", Password: "correcthorse"})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLoginAndAuthenticate(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc, clk := setup(t, start)
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "student@example.edu", Password: "correcthorse"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "student@example.edu", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "student@example.edu", Password: "correcthorse"})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)
	require.Equal(t, start.Add(24*time.Hour), result.ExpiresAt)

	session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, session.UserID)

	// An expired session is rejected.
	clk.Advance(25 * time.Hour)
	_, err = svc.Authenticate(ctx, result.RawToken)
	require.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := setup(t, time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.Register(ctx, domain.RegisterRequest{Email: "student@example.edu", Password: "correcthorse"})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "student@example.edu", Password: "correcthorse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	require.ErrorIs(t, err, domain.ErrSessionRevoked)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := setup(t, time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC))

	_, err := svc.Authenticate(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrInvalidSession)

	_, err = svc.Authenticate(context.Background(), "never-issued")
	require.ErrorIs(t, err, domain.ErrInvalidSession)
}
