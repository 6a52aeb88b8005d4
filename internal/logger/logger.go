package logger

import (
	"fmt"

	"github.com/campuskit/ethos/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the application logger. Development gets a console encoder,
// everything else structured JSON with the service identity attached.
func New(appCfg config.Config) (*zap.Logger, error) {
	var cfg zap.Config
	if appCfg.Environment == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	level := appCfg.LogLevel
	if level == "" {
		level = "info"
	}
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	logger = logger.With(
		zap.String("service", appCfg.AppName),
		zap.String("version", appCfg.AppVersion),
	)

	zap.ReplaceGlobals(logger)
	return logger, nil
}
