package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyUsageLogUser = "usage:log:user:%s"

// UsageLimiter throttles usage-log submissions per user. A nil limiter
// allows everything, so the feature is inert unless redis is configured.
type UsageLimiter struct {
	enabled bool

	bucket *TokenBucket

	userRate  float64
	userBurst int
}

func NewUsageLimiter(cfg config.Config) (*UsageLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.UserRate <= 0 || limitCfg.UserBurst <= 0 {
		return nil, errors.New("usage log user rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &UsageLimiter{
		enabled:   true,
		bucket:    NewTokenBucket(client),
		userRate:  limitCfg.UserRate,
		userBurst: limitCfg.UserBurst,
	}, nil
}

func (l *UsageLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *UsageLimiter) AllowUser(ctx context.Context, userID snowflake.ID) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyUsageLogUser, userID.String()), l.userRate, l.userBurst)
}
