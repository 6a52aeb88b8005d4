package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/insight/domain"
	"gorm.io/gorm"
)

type insightRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &insightRepo{db: db}
}

func (r *insightRepo) Create(ctx context.Context, tx *gorm.DB, insight *domain.Insight) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(insight).Error
}

// priorityRank orders high before medium before low across dialects.
const priorityRank = "CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"

func (r *insightRepo) ListActive(ctx context.Context, userID snowflake.ID) ([]domain.Insight, error) {
	var insights []domain.Insight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_dismissed = ?", userID, false).
		Order(priorityRank).
		Order("generated_at DESC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *insightRepo) AllByUser(ctx context.Context, userID snowflake.ID) ([]domain.Insight, error) {
	var insights []domain.Insight
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at ASC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *insightRepo) ListUnread(ctx context.Context, userID snowflake.ID, limit int) ([]domain.Insight, error) {
	var insights []domain.Insight
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_dismissed = ? AND is_read = ?", userID, false, false).
		Order(priorityRank).
		Order("generated_at DESC").
		Limit(limit).
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

func (r *insightRepo) MarkRead(ctx context.Context, ids []snowflake.ID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Insight{}).
		Where("id IN ?", ids).
		Update("is_read", true).Error
}

func (r *insightRepo) FindByID(ctx context.Context, userID, insightID snowflake.ID) (*domain.Insight, error) {
	var insight domain.Insight
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", insightID, userID).
		First(&insight).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInsightNotFound
		}
		return nil, err
	}
	return &insight, nil
}

func (r *insightRepo) Update(ctx context.Context, insight *domain.Insight) error {
	return r.db.WithContext(ctx).Save(insight).Error
}

func (r *insightRepo) ExistsSince(ctx context.Context, tx *gorm.DB, userID snowflake.ID, insightType string, since time.Time) (bool, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&domain.Insight{}).
		Where("user_id = ? AND insight_type = ? AND generated_at >= ?", userID, insightType, since).
		Count(&count).Error
	return count > 0, err
}
