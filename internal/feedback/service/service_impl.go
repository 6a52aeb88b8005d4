package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/campuskit/ethos/internal/clock"
	"github.com/campuskit/ethos/internal/config"
	"github.com/campuskit/ethos/internal/feedback/domain"
	"go.uber.org/zap"
)

const maxScreenshotBytes = 5 << 20

type Service struct {
	log       *zap.Logger
	repo      domain.Repository
	genID     *snowflake.Node
	clock     clock.Clock
	uploadDir string
}

func New(log *zap.Logger, cfg config.Config, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:       log.Named("feedback.service"),
		repo:      repo,
		genID:     genID,
		clock:     clk,
		uploadDir: cfg.UploadDir,
	}
}

func (s *Service) Create(ctx context.Context, userID snowflake.ID, req domain.CreateRequest) (*domain.Feedback, error) {
	if !domain.ValidType(req.FeedbackType) {
		return nil, domain.ErrInvalidType
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}

	now := s.clock.Now().UTC()
	feedback := &domain.Feedback{
		ID:           s.genID.Generate(),
		UserID:       userID,
		FeedbackType: req.FeedbackType,
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		PageURL:      strings.TrimSpace(req.PageURL),
		Status:       domain.StatusNew,
		SubmittedAt:  now,
		UpdatedAt:    now,
	}

	if req.Screenshot != nil {
		path, err := s.storeScreenshot(feedback.ID, req.ScreenshotFilename, req.Screenshot)
		if err != nil {
			return nil, err
		}
		feedback.ScreenshotPath = path
	}

	if err := s.repo.Create(ctx, feedback); err != nil {
		if feedback.ScreenshotPath != "" {
			os.Remove(filepath.Join(s.uploadDir, feedback.ScreenshotPath))
		}
		return nil, err
	}

	s.log.Info("feedback submitted",
		zap.String("feedback_id", feedback.ID.String()),
		zap.String("type", feedback.FeedbackType),
	)
	return feedback, nil
}

func (s *Service) ListOwn(ctx context.Context, userID snowflake.ID) ([]domain.Feedback, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context, status string) ([]domain.Feedback, error) {
	if status != "" {
		switch status {
		case domain.StatusNew, domain.StatusReviewing, domain.StatusPlanned, domain.StatusResolved, domain.StatusClosed:
		default:
			return nil, domain.ErrInvalidStatus
		}
	}
	return s.repo.List(ctx, status)
}

func (s *Service) Triage(ctx context.Context, feedbackID snowflake.ID, req domain.TriageRequest) (*domain.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, feedbackID)
	if err != nil {
		return nil, err
	}

	switch req.Status {
	case domain.StatusNew, domain.StatusReviewing, domain.StatusPlanned, domain.StatusResolved, domain.StatusClosed:
	default:
		return nil, domain.ErrInvalidStatus
	}
	if !domain.CanTransition(feedback.Status, req.Status) {
		return nil, domain.ErrInvalidTransition
	}

	now := s.clock.Now().UTC()
	feedback.Status = req.Status
	if response := strings.TrimSpace(req.AdminResponse); response != "" {
		feedback.AdminResponse = response
	}
	if req.Status == domain.StatusResolved || req.Status == domain.StatusClosed {
		feedback.ResolvedAt = &now
	}
	feedback.UpdatedAt = now

	if err := s.repo.Update(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// storeScreenshot writes the upload under the configured directory and
// returns the stored path relative to it.
func (s *Service) storeScreenshot(feedbackID snowflake.ID, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		ext = ".png"
	}

	dir := filepath.Join(s.uploadDir, "feedback")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s%s", feedbackID.String(), ext)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(r, maxScreenshotBytes+1))
	if err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	if written > maxScreenshotBytes {
		os.Remove(dst.Name())
		return "", domain.ErrScreenshotTooBig
	}

	return filepath.Join("feedback", name), nil
}
