package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	insightdomain "github.com/campuskit/ethos/internal/insight/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListInsights(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	insights, err := s.insightSvc.List(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if insights == nil {
		insights = []insightdomain.Insight{}
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func (s *Server) DismissInsight(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	insightID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.insightSvc.Dismiss(c.Request.Context(), user.ID, insightID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "dismissed"})
}

func parseIDParam(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil {
		AbortWithError(c, newValidationError(name, "invalid_"+name, "invalid identifier"))
		return 0, false
	}
	return id, true
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(raw)
}
