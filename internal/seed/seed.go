// Package seed provisions the default admin account and a default active
// policy so a fresh install is usable without manual setup.
package seed

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/campuskit/ethos/internal/auth/domain"
	"github.com/campuskit/ethos/internal/auth/password"
	"github.com/campuskit/ethos/internal/config"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	"gorm.io/gorm"
)

const (
	defaultPolicyTitle    = "Responsible AI Usage Policy"
	defaultMaxDailyUsage  = 20
	defaultMaxWeeklyUsage = 100
)

func EnsureDefaultAdmin(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
	var existing authdomain.User
	err := conn.Where("role = ?", authdomain.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := password.Hash(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := authdomain.User{
		ID:           genID.Generate(),
		Email:        cfg.SeedAdminEmail,
		DisplayName:  "Administrator",
		PasswordHash: hashed,
		Role:         authdomain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return conn.Create(&admin).Error
}

func EnsureDefaultPolicy(conn *gorm.DB, genID *snowflake.Node) error {
	var count int64
	if err := conn.Model(&policydomain.Policy{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var admin authdomain.User
	if err := conn.Where("role = ?", authdomain.RoleAdmin).First(&admin).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	now := time.Now().UTC()
	policy := policydomain.Policy{
		ID:             genID.Generate(),
		Title:          defaultPolicyTitle,
		Description:    "Baseline limits on AI tool usage for coursework.",
		Version:        "1.0",
		Status:         policydomain.StatusActive,
		Rules:          []byte(`{}`),
		MaxDailyUsage:  defaultMaxDailyUsage,
		MaxWeeklyUsage: defaultMaxWeeklyUsage,
		EffectiveFrom:  now,
		CreatedBy:      admin.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return conn.Create(&policy).Error
}
