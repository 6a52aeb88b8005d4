package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/profile/domain"
	"github.com/campuskit/ethos/pkg/db"
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
		log:   log.Named("profile.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *Service) EnsureFor(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrProfileNotFound) {
		return nil, err
	}

	now := s.clock.Now().UTC()
	profile = &domain.Profile{
		ID:                 s.genID.Generate(),
		UserID:             userID,
		EnrollmentDate:     now,
		AllowAnalytics:     true,
		EmailNotifications: true,
		WeeklySummary:      true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		// Concurrent registration of the same user can race the insert.
		if db.IsDuplicateKeyErr(err) {
			return s.repo.FindByUserID(ctx, userID)
		}
		return nil, err
	}
	return profile, nil
}

func (s *Service) Update(ctx context.Context, userID snowflake.ID, req domain.UpdateRequest) (*domain.Profile, error) {
	profile, err := s.EnsureFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	if req.StudentRef != nil {
		profile.StudentRef = strings.TrimSpace(*req.StudentRef)
	}
	if req.Department != nil {
		profile.Department = strings.TrimSpace(*req.Department)
	}
	if req.DataCollectionConsent != nil && *req.DataCollectionConsent != profile.DataCollectionConsent {
		profile.DataCollectionConsent = *req.DataCollectionConsent
		if *req.DataCollectionConsent {
			profile.ConsentAt = &now
		} else {
			profile.ConsentAt = nil
		}
	}
	if req.AllowAnalytics != nil {
		profile.AllowAnalytics = *req.AllowAnalytics
	}
	if req.EmailNotifications != nil {
		profile.EmailNotifications = *req.EmailNotifications
	}
	if req.WeeklySummary != nil {
		profile.WeeklySummary = *req.WeeklySummary
	}
	profile.UpdatedAt = now

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
