package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/config"
	"github.com/campuskit/ethos/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if !cfg.SeedEnabled {
			return nil
		}
		if err := seed.EnsureDefaultAdmin(conn, cfg, genID); err != nil {
			return err
		}
		return seed.EnsureDefaultPolicy(conn, genID)
	}),
)
