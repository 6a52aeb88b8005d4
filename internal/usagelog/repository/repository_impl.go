package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/campuskit/ethos/pkg/db/pagination"
	"gorm.io/gorm"
)

type usageLogRepo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &usageLogRepo{db: db}
}

func (r *usageLogRepo) Create(ctx context.Context, tx *gorm.DB, log *domain.UsageLog) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(log).Error
}

func (r *usageLogRepo) List(ctx context.Context, userID snowflake.ID, req domain.ListRequest) ([]domain.UsageLog, *pagination.PageInfo, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Where("user_id = ?", userID)

	if req.Tool != "" {
		q = q.Where("tool = ?", req.Tool)
	}
	if req.UsageType != "" {
		q = q.Where("usage_type = ?", req.UsageType)
	}
	if req.From != nil {
		q = q.Where("recorded_at >= ?", *req.From)
	}
	if req.To != nil {
		q = q.Where("recorded_at <= ?", *req.To)
	}

	if req.Pagination.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.Pagination.PageToken)
		if err != nil {
			return nil, nil, err
		}
		q = q.Where(
			"recorded_at < ? OR (recorded_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	size := req.Pagination.Limit()
	var logs []domain.UsageLog
	if err := q.Order("recorded_at DESC, id DESC").Limit(size + 1).Find(&logs).Error; err != nil {
		return nil, nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(logs, size, func(l domain.UsageLog) pagination.Cursor {
		return pagination.Cursor{ID: l.ID.Int64(), CreatedAt: l.RecordedAt}
	})
	if len(logs) > size {
		logs = logs[:size]
	}
	return logs, pageInfo, nil
}

func (r *usageLogRepo) Recent(ctx context.Context, userID snowflake.ID, limit int) ([]domain.UsageLog, error) {
	var logs []domain.UsageLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *usageLogRepo) CountSince(ctx context.Context, tx *gorm.DB, userID snowflake.ID, since time.Time) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Where("user_id = ? AND recorded_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (r *usageLogRepo) CountAll(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	var count int64
	err := tx.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *usageLogRepo) CountInRange(ctx context.Context, userID snowflake.ID, from, to time.Time) (total, compliant int64, err error) {
	base := r.db.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, from, to)

	if err = base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = base.Session(&gorm.Session{}).Where("is_compliant = ?", true).Count(&compliant).Error; err != nil {
		return 0, 0, err
	}
	return total, compliant, nil
}

func (r *usageLogRepo) ByTool(ctx context.Context, userID snowflake.ID) ([]domain.ToolCount, error) {
	var counts []domain.ToolCount
	err := r.db.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Select("tool, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("tool").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *usageLogRepo) ByType(ctx context.Context, userID snowflake.ID) ([]domain.TypeCount, error) {
	var counts []domain.TypeCount
	err := r.db.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Select("usage_type, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("usage_type").
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *usageLogRepo) DailySeries(ctx context.Context, userID snowflake.ID, from, to time.Time) ([]domain.DayCount, error) {
	var counts []domain.DayCount
	err := r.db.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Select("DATE(recorded_at) AS day, COUNT(*) AS count").
		Where("user_id = ? AND recorded_at >= ? AND recorded_at < ?", userID, from, to).
		Group("DATE(recorded_at)").
		Order("day ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *usageLogRepo) AllByUser(ctx context.Context, userID snowflake.ID) ([]domain.UsageLog, error) {
	var logs []domain.UsageLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at ASC, id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *usageLogRepo) FindByIDs(ctx context.Context, userID snowflake.ID, ids []snowflake.ID) ([]domain.UsageLog, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var logs []domain.UsageLog
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
