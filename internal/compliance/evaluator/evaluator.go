// Package evaluator decides whether a usage event being inserted complies
// with the policy in force at that moment. It runs inside the insert
// transaction and only ever sees events recorded strictly before the one
// under evaluation, so with a daily limit of N the N+1th event of the day is
// the first one marked non-compliant.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"gorm.io/gorm"
)

type Verdict struct {
	PolicyID  *snowflake.ID
	Compliant bool
	Notes     string
}

// Evaluate computes the verdict for an event occurring at now. With no
// active policy the event is compliant and carries no notes.
func Evaluate(ctx context.Context, tx *gorm.DB, userID snowflake.ID, now time.Time) (Verdict, error) {
	policy, err := activePolicy(ctx, tx, now)
	if err != nil {
		return Verdict{}, err
	}
	if policy == nil {
		return Verdict{Compliant: true}, nil
	}

	verdict := Verdict{PolicyID: &policy.ID}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dailyCount, err := countSince(ctx, tx, userID, midnight)
	if err != nil {
		return Verdict{}, err
	}
	if dailyCount >= int64(policy.MaxDailyUsage) {
		verdict.Notes = fmt.Sprintf("Exceeded daily usage limit of %d", policy.MaxDailyUsage)
		return verdict, nil
	}

	weeklyCount, err := countSince(ctx, tx, userID, now.AddDate(0, 0, -7))
	if err != nil {
		return Verdict{}, err
	}
	if weeklyCount >= int64(policy.MaxWeeklyUsage) {
		verdict.Notes = fmt.Sprintf("Exceeded weekly usage limit of %d", policy.MaxWeeklyUsage)
		return verdict, nil
	}

	verdict.Compliant = true
	verdict.Notes = "Usage within policy limits"
	return verdict, nil
}

func activePolicy(ctx context.Context, tx *gorm.DB, now time.Time) (*policydomain.Policy, error) {
	var p policydomain.Policy
	err := tx.WithContext(ctx).
		Where("status = ?", policydomain.StatusActive).
		Where("effective_from <= ?", now).
		Where("effective_until IS NULL OR effective_until >= ?", now.Truncate(24*time.Hour)).
		Order("effective_from ASC").
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func countSince(ctx context.Context, tx *gorm.DB, userID snowflake.ID, since time.Time) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&usagedomain.UsageLog{}).
		Where("user_id = ? AND recorded_at >= ?", userID, since).
		Count(&count).Error
	return count, err
}
