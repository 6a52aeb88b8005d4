package server

import (
	"errors"
	"net/http"

	authdomain "github.com/campuskit/ethos/internal/auth/domain"
	compliancedomain "github.com/campuskit/ethos/internal/compliance/domain"
	feedbackdomain "github.com/campuskit/ethos/internal/feedback/domain"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	profiledomain "github.com/campuskit/ethos/internal/profile/domain"
	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if field, ok := validationField(err); ok {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   field,
					Code:    "invalid_" + field,
					Message: err.Error(),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

// validationField maps domain validation sentinels to the request field they
// concern.
func validationField(err error) (string, bool) {
	switch {
	case errors.Is(err, authdomain.ErrInvalidEmail):
		return "email", true
	case errors.Is(err, authdomain.ErrWeakPassword):
		return "password", true
	case errors.Is(err, usagedomain.ErrInvalidTool):
		return "tool", true
	case errors.Is(err, usagedomain.ErrInvalidUsageType):
		return "usage_type", true
	case errors.Is(err, usagedomain.ErrInvalidMetric):
		return "metrics", true
	case errors.Is(err, policydomain.ErrInvalidTitle):
		return "title", true
	case errors.Is(err, policydomain.ErrInvalidLimit):
		return "limits", true
	case errors.Is(err, policydomain.ErrInvalidEffective):
		return "effective_until", true
	case errors.Is(err, policydomain.ErrPolicyNotDraft),
		errors.Is(err, policydomain.ErrPolicyArchived):
		return "status", true
	case errors.Is(err, feedbackdomain.ErrInvalidType):
		return "feedback_type", true
	case errors.Is(err, feedbackdomain.ErrInvalidTitle):
		return "title", true
	case errors.Is(err, feedbackdomain.ErrInvalidStatus),
		errors.Is(err, feedbackdomain.ErrInvalidTransition):
		return "status", true
	case errors.Is(err, feedbackdomain.ErrScreenshotTooBig):
		return "screenshot", true
	default:
		return "", false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, profiledomain.ErrProfileNotFound),
		errors.Is(err, policydomain.ErrPolicyNotFound),
		errors.Is(err, usagedomain.ErrLogNotFound),
		errors.Is(err, insightdomain.ErrInsightNotFound),
		errors.Is(err, compliancedomain.ErrStatusNotFound),
		errors.Is(err, feedbackdomain.ErrFeedbackNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}
