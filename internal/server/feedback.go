package server

import (
	"net/http"
	"strings"

	feedbackdomain "github.com/campuskit/ethos/internal/feedback/domain"
	"github.com/gin-gonic/gin"
)

type createFeedbackRequest struct {
	FeedbackType string `json:"feedback_type" form:"feedback_type"`
	Title        string `json:"title" form:"title"`
	Description  string `json:"description" form:"description"`
	PageURL      string `json:"page_url" form:"page_url"`
}

// CreateFeedback accepts either a JSON body or a multipart form with an
// optional screenshot file.
func (s *Server) CreateFeedback(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createFeedbackRequest
	createReq := feedbackdomain.CreateRequest{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		if header, err := c.FormFile("screenshot"); err == nil && header != nil {
			file, err := header.Open()
			if err != nil {
				AbortWithError(c, invalidRequestError())
				return
			}
			defer file.Close()
			createReq.Screenshot = file
			createReq.ScreenshotFilename = header.Filename
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createReq.FeedbackType = req.FeedbackType
	createReq.Title = req.Title
	createReq.Description = req.Description
	createReq.PageURL = req.PageURL

	feedback, err := s.feedbackSvc.Create(c.Request.Context(), user.ID, createReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}

func (s *Server) ListFeedback(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	feedbacks, err := s.feedbackSvc.ListOwn(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if feedbacks == nil {
		feedbacks = []feedbackdomain.Feedback{}
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedbacks})
}

func (s *Server) AdminListFeedback(c *gin.Context) {
	feedbacks, err := s.feedbackSvc.ListAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if feedbacks == nil {
		feedbacks = []feedbackdomain.Feedback{}
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedbacks})
}

func (s *Server) TriageFeedback(c *gin.Context) {
	feedbackID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req feedbackdomain.TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	feedback, err := s.feedbackSvc.Triage(c.Request.Context(), feedbackID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}
