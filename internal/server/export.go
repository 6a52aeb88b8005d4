package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExportData streams the caller's complete data bundle as a JSON download.
func (s *Server) ExportData(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	bundle, err := s.exportSvc.Export(c.Request.Context(), user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("ethos-export-%s.json", bundle.ExportedAt.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, bundle)
}
