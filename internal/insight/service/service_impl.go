package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/insight/domain"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo domain.Repository
}

func New(log *zap.Logger, repo domain.Repository) domain.Service {
	return &Service{
		log:  log.Named("insight.service"),
		repo: repo,
	}
}

func (s *Service) List(ctx context.Context, userID snowflake.ID) ([]domain.Insight, error) {
	insights, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	var unreadIDs []snowflake.ID
	for i := range insights {
		if !insights[i].IsRead {
			unreadIDs = append(unreadIDs, insights[i].ID)
			insights[i].IsRead = true
		}
	}
	if err := s.repo.MarkRead(ctx, unreadIDs); err != nil {
		return nil, err
	}

	return insights, nil
}

func (s *Service) Unread(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Insight, error) {
	return s.repo.ListUnread(ctx, userID, limit)
}

func (s *Service) Dismiss(ctx context.Context, userID, insightID snowflake.ID) error {
	insight, err := s.repo.FindByID(ctx, userID, insightID)
	if err != nil {
		return err
	}
	if insight.IsDismissed {
		return nil
	}
	insight.IsDismissed = true
	return s.repo.Update(ctx, insight)
}
