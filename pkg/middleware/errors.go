package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devcamper/devcamper/backend/go-services/internal/apperrors"
	"github.com/devcamper/devcamper/backend/go-services/pkg/logger"
)

// ErrorHandler translates the last error a handler attached with c.Error into
// the uniform { success: false, error } response. Handlers only signal errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperrors.Status(err)
		if status >= http.StatusInternalServerError {
			logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		} else {
			logger.Debugf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
		c.JSON(status, gin.H{"success": false, "error": apperrors.Message(err)})
	}
}

// NotFound answers unmatched routes in the same envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Route not found: " + c.Request.Method + " " + c.Request.URL.Path})
}
