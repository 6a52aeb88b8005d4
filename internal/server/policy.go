package server

import (
	"net/http"
	"time"

	policydomain "github.com/campuskit/ethos/internal/policy/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListPolicies(c *gin.Context) {
	policies, err := s.policySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if policies == nil {
		policies = []policydomain.Policy{}
	}

	c.JSON(http.StatusOK, gin.H{"policies": policies})
}

func (s *Server) CreatePolicy(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req policydomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	policy, err := s.policySvc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"policy": policy})
}

func (s *Server) UpdatePolicy(c *gin.Context) {
	policyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req policydomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	policy, err := s.policySvc.Update(c.Request.Context(), policyID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": policy})
}

func (s *Server) ActivatePolicy(c *gin.Context) {
	policyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	policy, err := s.policySvc.Activate(c.Request.Context(), policyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": policy})
}

func (s *Server) ArchivePolicy(c *gin.Context) {
	policyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	policy, err := s.policySvc.Archive(c.Request.Context(), policyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"policy": policy})
}

type recomputeRequest struct {
	UserID      string     `json:"user_id"`
	PolicyID    string     `json:"policy_id"`
	PeriodStart *time.Time `json:"period_start"`
	PeriodEnd   *time.Time `json:"period_end"`
}

// RecomputeCompliance rebuilds a compliance snapshot on demand. Without an
// explicit period it recomputes the user's trailing week.
func (s *Server) RecomputeCompliance(c *gin.Context) {
	var req recomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	userID, err := parseID(req.UserID)
	if err != nil {
		AbortWithError(c, newValidationError("user_id", "invalid_user_id", "invalid identifier"))
		return
	}

	if req.PolicyID == "" || req.PeriodStart == nil || req.PeriodEnd == nil {
		status, err := s.complianceSvc.CurrentWeekly(c.Request.Context(), userID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"compliance": status})
		return
	}

	policyID, err := parseID(req.PolicyID)
	if err != nil {
		AbortWithError(c, newValidationError("policy_id", "invalid_policy_id", "invalid identifier"))
		return
	}

	status, err := s.complianceSvc.Recompute(c.Request.Context(), userID, policyID, *req.PeriodStart, *req.PeriodEnd)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"compliance": status})
}
