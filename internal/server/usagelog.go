package server

import (
	"net/http"
	"time"

	usagedomain "github.com/campuskit/ethos/internal/usagelog/domain"
	"github.com/campuskit/ethos/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createUsageLogRequest struct {
	Tool            string `json:"tool"`
	UsageType       string `json:"usage_type"`
	Description     string `json:"description"`
	CourseCode      string `json:"course_code"`
	AssignmentRef   string `json:"assignment_ref"`
	DurationMinutes int    `json:"duration_minutes"`
	TokensUsed      int    `json:"tokens_used"`
}

func (s *Server) CreateUsageLog(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if s.usageLimiter.Enabled() {
		allowed, err := s.usageLimiter.AllowUser(c.Request.Context(), user.ID)
		if err != nil {
			s.log.Warn("usage rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			s.metrics.IncRateLimited()
			AbortWithError(c, ErrRateLimited)
			return
		}
	}

	var req createUsageLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entry, err := s.usageSvc.Log(c.Request.Context(), user.ID, usagedomain.LogRequest{
		Tool:            req.Tool,
		UsageType:       req.UsageType,
		Description:     req.Description,
		CourseCode:      req.CourseCode,
		AssignmentRef:   req.AssignmentRef,
		DurationMinutes: req.DurationMinutes,
		TokensUsed:      req.TokensUsed,
		IPAddress:       c.ClientIP(),
		UserAgent:       c.Request.UserAgent(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"usage_log": entry})
}

func (s *Server) ListUsageLogs(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	req := usagedomain.ListRequest{
		Tool:       c.Query("tool"),
		UsageType:  c.Query("usage_type"),
		Pagination: page,
	}
	var ok bool
	if req.From, ok = parseTimeQuery(c, "from"); !ok {
		return
	}
	if req.To, ok = parseTimeQuery(c, "to"); !ok {
		return
	}

	result, err := s.usageSvc.List(c.Request.Context(), user.ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTimeQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}

	AbortWithError(c, newValidationError(key, "invalid_"+key, "expected RFC 3339 timestamp or YYYY-MM-DD date"))
	return nil, false
}
