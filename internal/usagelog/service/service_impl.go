package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/compliance/evaluator"
	"github.com/campuskit/ethos/internal/insight/generator"
	"github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/campuskit/ethos/pkg/telemetry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log       *zap.Logger
	db        *gorm.DB
	repo      domain.Repository
	generator *generator.Generator
	metrics   *telemetry.Metrics
	genID     *snowflake.Node
	clock     clock.Clock
}

func New(
	log *zap.Logger,
	db *gorm.DB,
	repo domain.Repository,
	gen *generator.Generator,
	metrics *telemetry.Metrics,
	genID *snowflake.Node,
	clk clock.Clock,
) domain.Service {
	return &Service{
		log:       log.Named("usagelog.service"),
		db:        db,
		repo:      repo,
		generator: gen,
		metrics:   metrics,
		genID:     genID,
		clock:     clk,
	}
}

// Log records a usage event. The compliance verdict, the insert, and insight
// generation all run in one transaction so the verdict reflects exactly the
// events committed before this one.
func (s *Service) Log(ctx context.Context, userID snowflake.ID, req domain.LogRequest) (*domain.UsageLog, error) {
	if !domain.ValidTool(req.Tool) {
		return nil, domain.ErrInvalidTool
	}
	if !domain.ValidUsageType(req.UsageType) {
		return nil, domain.ErrInvalidUsageType
	}
	if req.DurationMinutes < 0 || req.TokensUsed < 0 {
		return nil, domain.ErrInvalidMetric
	}

	now := s.clock.Now().UTC()
	entry := &domain.UsageLog{
		ID:              s.genID.Generate(),
		UserID:          userID,
		Tool:            req.Tool,
		UsageType:       req.UsageType,
		Description:     strings.TrimSpace(req.Description),
		CourseCode:      strings.TrimSpace(req.CourseCode),
		AssignmentRef:   strings.TrimSpace(req.AssignmentRef),
		DurationMinutes: req.DurationMinutes,
		TokensUsed:      req.TokensUsed,
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
		RecordedAt:      now,
		CreatedAt:       now,
	}

	var generated int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		verdict, err := evaluator.Evaluate(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		entry.PolicyID = verdict.PolicyID
		entry.IsCompliant = verdict.Compliant
		entry.ComplianceNotes = verdict.Notes

		if err := s.repo.Create(ctx, tx, entry); err != nil {
			return err
		}

		insights, err := s.generator.OnUsageLogged(ctx, tx, entry)
		if err != nil {
			return err
		}
		generated = len(insights)
		for _, insight := range insights {
			s.metrics.IncInsight(insight.InsightType)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncUsageLog(entry.Tool, entry.IsCompliant)
	s.log.Info("usage log recorded",
		zap.String("user_id", userID.String()),
		zap.String("tool", entry.Tool),
		zap.Bool("compliant", entry.IsCompliant),
		zap.Int("insights_generated", generated),
	)
	return entry, nil
}

func (s *Service) List(ctx context.Context, userID snowflake.ID, req domain.ListRequest) (*domain.ListResult, error) {
	if req.Tool != "" && !domain.ValidTool(req.Tool) {
		return nil, domain.ErrInvalidTool
	}
	if req.UsageType != "" && !domain.ValidUsageType(req.UsageType) {
		return nil, domain.ErrInvalidUsageType
	}

	logs, pageInfo, err := s.repo.List(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []domain.UsageLog{}
	}
	return &domain.ListResult{Logs: logs, PageInfo: *pageInfo}, nil
}

func (s *Service) Recent(ctx context.Context, userID snowflake.ID, limit int) ([]domain.UsageLog, error) {
	return s.repo.Recent(ctx, userID, limit)
}

func (s *Service) CountSince(ctx context.Context, userID snowflake.ID, since time.Time) (int64, error) {
	return s.repo.CountSince(ctx, nil, userID, since)
}

func (s *Service) CountAll(ctx context.Context, userID snowflake.ID) (int64, error) {
	return s.repo.CountAll(ctx, nil, userID)
}

func (s *Service) ByTool(ctx context.Context, userID snowflake.ID) ([]domain.ToolCount, error) {
	return s.repo.ByTool(ctx, userID)
}

func (s *Service) ByType(ctx context.Context, userID snowflake.ID) ([]domain.TypeCount, error) {
	return s.repo.ByType(ctx, userID)
}

func (s *Service) DailySeries(ctx context.Context, userID snowflake.ID, from, to time.Time) ([]domain.DayCount, error) {
	return s.repo.DailySeries(ctx, userID, from, to)
}
