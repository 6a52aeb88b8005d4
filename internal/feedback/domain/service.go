package domain

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrFeedbackNotFound  = errors.New("feedback not found")
	ErrInvalidType       = errors.New("unknown feedback type")
	ErrInvalidTitle      = errors.New("feedback title is required")
	ErrInvalidStatus     = errors.New("unknown feedback status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrScreenshotTooBig  = errors.New("screenshot exceeds size limit")
)

type CreateRequest struct {
	FeedbackType string `json:"feedback_type"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PageURL      string `json:"page_url"`

	// Screenshot, when set, is streamed to the upload directory.
	Screenshot         io.Reader `json:"-"`
	ScreenshotFilename string    `json:"-"`
}

type TriageRequest struct {
	Status        string `json:"status"`
	AdminResponse string `json:"admin_response"`
}

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateRequest) (*Feedback, error)
	ListOwn(ctx context.Context, userID snowflake.ID) ([]Feedback, error)
	ListAll(ctx context.Context, status string) ([]Feedback, error)
	Triage(ctx context.Context, feedbackID snowflake.ID, req TriageRequest) (*Feedback, error)
}

type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	FindByID(ctx context.Context, id snowflake.ID) (*Feedback, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Feedback, error)
	List(ctx context.Context, status string) ([]Feedback, error)
	Update(ctx context.Context, f *Feedback) error
}
