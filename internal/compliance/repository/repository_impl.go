package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/compliance/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type complianceRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &complianceRepo{db: db}
}

func (r *complianceRepo) Upsert(ctx context.Context, status *domain.ComplianceStatus) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "policy_id"}, {Name: "period_start"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"period_end", "total_count", "compliant_count", "violation_count",
				"score", "level", "notes", "calculated_at",
			}),
		}).
		Create(status).Error
}

func (r *complianceRepo) FindByPeriod(ctx context.Context, userID, policyID snowflake.ID, periodStart time.Time) (*domain.ComplianceStatus, error) {
	var status domain.ComplianceStatus
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND policy_id = ? AND period_start = ?", userID, policyID, periodStart).
		First(&status).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStatusNotFound
		}
		return nil, err
	}
	return &status, nil
}
