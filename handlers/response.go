package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper/backend/go-services/internal/apperrors"
	"github.com/devcamper/devcamper/backend/go-services/internal/query"
)

// Success bodies: { success, data } or, for lists, { success, count,
// pagination, data }. Error bodies are written by middleware.ErrorHandler.

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondPage(c *gin.Context, status int, p *query.Page) {
	c.JSON(status, gin.H{
		"success":    true,
		"count":      p.Count,
		"pagination": p.Pagination,
		"data":       p.Data,
	})
}

// fail hands err to the error middleware.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// bindJSON decodes the request body into v.
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, apperrors.BadRequest("invalid JSON body"))
		return false
	}
	return true
}
