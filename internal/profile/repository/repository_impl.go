package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/profile/domain"
	"gorm.io/gorm"
)

type profileRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, p *domain.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *profileRepo) FindByUserID(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *profileRepo) Update(ctx context.Context, p *domain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}
