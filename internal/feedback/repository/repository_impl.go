package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/feedback/domain"
	"gorm.io/gorm"
)

type feedbackRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, f *domain.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *feedbackRepo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Feedback, error) {
	var f domain.Feedback
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *feedbackRepo) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Feedback, error) {
	var feedbacks []domain.Feedback
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&feedbacks).Error
	if err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepo) List(ctx context.Context, status string) ([]domain.Feedback, error) {
	q := r.db.WithContext(ctx)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var feedbacks []domain.Feedback
	if err := q.Order("submitted_at DESC").Find(&feedbacks).Error; err != nil {
		return nil, err
	}
	return feedbacks, nil
}

func (r *feedbackRepo) Update(ctx context.Context, f *domain.Feedback) error {
	return r.db.WithContext(ctx).Save(f).Error
}
