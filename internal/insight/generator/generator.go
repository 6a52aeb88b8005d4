// Package generator creates insights as a side effect of recording usage.
// It runs inside the usage-log insert transaction, after the new row exists,
// so every count below includes the triggering event.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/insight/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// dailyWarningThreshold is the same-day event count at which a high usage
// warning is raised, at most once per day.
const dailyWarningThreshold = 50

var milestones = []int64{10, 50, 100, 250, 500, 1000}

type Generator struct {
	genID *snowflake.Node
}

func New(genID *snowflake.Node) *Generator {
	return &Generator{genID: genID}
}

// OnUsageLogged inspects the user's counts after log was inserted and creates
// any triggered insights. Deduplication is read-then-write inside the same
// transaction.
func (g *Generator) OnUsageLogged(ctx context.Context, tx *gorm.DB, log *usagedomain.UsageLog) ([]domain.Insight, error) {
	var created []domain.Insight

	now := log.RecordedAt
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayCount, err := g.countSince(ctx, tx, log.UserID, midnight)
	if err != nil {
		return nil, err
	}
	if todayCount >= dailyWarningThreshold {
		exists, err := g.warningExistsSince(ctx, tx, log.UserID, midnight)
		if err != nil {
			return nil, err
		}
		if !exists {
			insight, err := g.create(ctx, tx, log, domain.Insight{
				UserID:      log.UserID,
				InsightType: domain.TypeWarning,
				Title:       "High AI Usage Today",
				Message:     fmt.Sprintf("You have recorded %d AI interactions today. Consider whether each use supports your learning goals.", todayCount),
				Priority:    domain.PriorityHigh,
				Data:        mustJSON(map[string]any{"count": todayCount}),
				GeneratedAt: now,
			})
			if err != nil {
				return nil, err
			}
			created = append(created, *insight)
		}
	}

	totalCount, err := g.countAll(ctx, tx, log.UserID)
	if err != nil {
		return nil, err
	}
	for _, milestone := range milestones {
		if totalCount != milestone {
			continue
		}
		insight, err := g.create(ctx, tx, log, domain.Insight{
			UserID:      log.UserID,
			InsightType: domain.TypeAchievement,
			Title:       fmt.Sprintf("Milestone: %d AI Interactions!", milestone),
			Message:     fmt.Sprintf("You have logged %d AI interactions. Keeping a record like this is a core part of responsible AI use.", milestone),
			Priority:    domain.PriorityMedium,
			Data:        mustJSON(map[string]any{"milestone": milestone}),
			GeneratedAt: now,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, *insight)
		break
	}

	return created, nil
}

func (g *Generator) create(ctx context.Context, tx *gorm.DB, log *usagedomain.UsageLog, insight domain.Insight) (*domain.Insight, error) {
	insight.ID = g.genID.Generate()
	insight.UsageLogs = []usagedomain.UsageLog{*log}
	if err := tx.WithContext(ctx).Create(&insight).Error; err != nil {
		return nil, err
	}
	return &insight, nil
}

func (g *Generator) countSince(ctx context.Context, tx *gorm.DB, userID snowflake.ID, since time.Time) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&usagedomain.UsageLog{}).
		Where("user_id = ? AND recorded_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}

func (g *Generator) countAll(ctx context.Context, tx *gorm.DB, userID snowflake.ID) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&usagedomain.UsageLog{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (g *Generator) warningExistsSince(ctx context.Context, tx *gorm.DB, userID snowflake.ID, since time.Time) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&domain.Insight{}).
		Where("user_id = ? AND insight_type = ? AND generated_at >= ?", userID, domain.TypeWarning, since).
		Count(&count).Error
	return count > 0, err
}

func mustJSON(v map[string]any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
