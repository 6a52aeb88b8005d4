package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/policy/domain"
	"go.uber.org/zap"
)

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:   log.Named("policy.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *Service) Create(ctx context.Context, createdBy snowflake.ID, req domain.CreateRequest) (*domain.Policy, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	if req.MaxDailyUsage <= 0 || req.MaxWeeklyUsage <= 0 {
		return nil, domain.ErrInvalidLimit
	}
	if req.EffectiveUntil != nil && req.EffectiveUntil.Before(req.EffectiveFrom) {
		return nil, domain.ErrInvalidEffective
	}

	now := s.clock.Now().UTC()
	version := strings.TrimSpace(req.Version)
	if version == "" {
		version = "1.0"
	}
	effectiveFrom := req.EffectiveFrom
	if effectiveFrom.IsZero() {
		effectiveFrom = now
	}

	policy := &domain.Policy{
		ID:             s.genID.Generate(),
		Title:          title,
		Description:    strings.TrimSpace(req.Description),
		Version:        version,
		Status:         domain.StatusDraft,
		Rules:          req.Rules,
		MaxDailyUsage:  req.MaxDailyUsage,
		MaxWeeklyUsage: req.MaxWeeklyUsage,
		EffectiveFrom:  effectiveFrom,
		EffectiveUntil: req.EffectiveUntil,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Policy, error) {
	policy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.Status == domain.StatusArchived {
		return nil, domain.ErrPolicyArchived
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		policy.Title = title
	}
	if req.Description != nil {
		policy.Description = strings.TrimSpace(*req.Description)
	}
	if req.Version != nil {
		policy.Version = strings.TrimSpace(*req.Version)
	}
	if req.Rules != nil {
		policy.Rules = *req.Rules
	}
	if req.MaxDailyUsage != nil {
		if *req.MaxDailyUsage <= 0 {
			return nil, domain.ErrInvalidLimit
		}
		policy.MaxDailyUsage = *req.MaxDailyUsage
	}
	if req.MaxWeeklyUsage != nil {
		if *req.MaxWeeklyUsage <= 0 {
			return nil, domain.ErrInvalidLimit
		}
		policy.MaxWeeklyUsage = *req.MaxWeeklyUsage
	}
	if req.EffectiveFrom != nil {
		policy.EffectiveFrom = *req.EffectiveFrom
	}
	if req.EffectiveUntil != nil {
		policy.EffectiveUntil = req.EffectiveUntil
	}
	if policy.EffectiveUntil != nil && policy.EffectiveUntil.Before(policy.EffectiveFrom) {
		return nil, domain.ErrInvalidEffective
	}

	policy.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

// Activate promotes a draft policy and archives any other active policy so
// the evaluator sees at most one.
func (s *Service) Activate(ctx context.Context, id snowflake.ID) (*domain.Policy, error) {
	policy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.Status != domain.StatusDraft {
		return nil, domain.ErrPolicyNotDraft
	}

	now := s.clock.Now().UTC()
	if err := s.repo.ArchiveActiveExcept(ctx, policy.ID, now); err != nil {
		return nil, err
	}

	policy.Status = domain.StatusActive
	policy.UpdatedAt = now
	if err := s.repo.Update(ctx, policy); err != nil {
		return nil, err
	}

	s.log.Info("policy activated",
		zap.String("policy_id", policy.ID.String()),
		zap.String("title", policy.Title),
	)
	return policy, nil
}

func (s *Service) Archive(ctx context.Context, id snowflake.ID) (*domain.Policy, error) {
	policy, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy.Status == domain.StatusArchived {
		return policy, nil
	}

	policy.Status = domain.StatusArchived
	policy.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Policy, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Policy, error) {
	return s.repo.List(ctx)
}

func (s *Service) ActiveOn(ctx context.Context, t time.Time) (*domain.Policy, error) {
	return s.repo.FindActiveOn(ctx, t)
}
