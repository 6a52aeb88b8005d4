package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/policy/domain"
	"gorm.io/gorm"
)

type policyRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &policyRepo{db: db}
}

func (r *policyRepo) Create(ctx context.Context, p *domain.Policy) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *policyRepo) Update(ctx context.Context, p *domain.Policy) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *policyRepo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Policy, error) {
	var p domain.Policy
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *policyRepo) List(ctx context.Context) ([]domain.Policy, error) {
	var policies []domain.Policy
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&policies).Error; err != nil {
		return nil, err
	}
	return policies, nil
}

func (r *policyRepo) FindActiveOn(ctx context.Context, t time.Time) (*domain.Policy, error) {
	var p domain.Policy
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusActive).
		Where("effective_from <= ?", t).
		Where("effective_until IS NULL OR effective_until >= ?", t.Truncate(24*time.Hour)).
		Order("effective_from ASC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPolicyNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *policyRepo) ArchiveActiveExcept(ctx context.Context, id snowflake.ID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Policy{}).
		Where("status = ? AND id <> ?", domain.StatusActive, id).
		Updates(map[string]any{"status": domain.StatusArchived, "updated_at": at}).Error
}
