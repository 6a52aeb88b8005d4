package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/compliance/domain"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"go.uber.org/zap"
)

type Service struct {
	log      *zap.Logger
	repo     domain.Repository
	usage    usagedomain.Repository
	policies policydomain.Repository
	genID    *snowflake.Node
	clock    clock.Clock
}

func New(
	log *zap.Logger,
	repo domain.Repository,
	usage usagedomain.Repository,
	policies policydomain.Repository,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &Service{
		log:      log.Named("compliance.service"),
		repo:     repo,
		usage:    usage,
		policies: policies,
		genID:    genID,
		clock:    clk,
	}
}

func (s *Service) Recompute(ctx context.Context, userID, policyID snowflake.ID, periodStart, periodEnd time.Time) (*domain.ComplianceStatus, error) {
	total, compliant, err := s.usage.CountInRange(ctx, userID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	score := domain.Score(total, compliant)
	status := &domain.ComplianceStatus{
		ID:             s.genID.Generate(),
		UserID:         userID,
		PolicyID:       policyID,
		PeriodStart:    periodStart,
		PeriodEnd:      periodEnd,
		TotalCount:     total,
		CompliantCount: compliant,
		ViolationCount: total - compliant,
		Score:          score,
		Level:          domain.LevelForScore(score),
		Notes:          fmt.Sprintf("%d of %d events compliant", compliant, total),
		CalculatedAt:   s.clock.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, status); err != nil {
		return nil, err
	}
	return s.repo.FindByPeriod(ctx, userID, policyID, periodStart)
}

func (s *Service) CurrentWeekly(ctx context.Context, userID snowflake.ID) (*domain.ComplianceStatus, error) {
	now := s.clock.Now().UTC()
	policy, err := s.policies.FindActiveOn(ctx, now)
	if err != nil {
		if errors.Is(err, policydomain.ErrPolicyNotFound) {
			return nil, domain.ErrStatusNotFound
		}
		return nil, err
	}

	periodEnd := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	periodStart := periodEnd.AddDate(0, 0, -7)
	return s.Recompute(ctx, userID, policy.ID, periodStart, periodEnd)
}
