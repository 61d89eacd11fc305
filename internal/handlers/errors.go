package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkstream/blog-backend/internal/core/comments"
	"github.com/inkstream/blog-backend/internal/core/interactions"
	"github.com/inkstream/blog-backend/internal/core/notifications"
)

// respondError maps core-service errors to the HTTP error contract: a stable
// error kind plus a human-readable message. Unexpected errors become a
// generic 500; their detail is only exposed outside release mode.
func respondError(c *gin.Context, err error) {
	switch {
	case comments.IsValidationError(err) || interactions.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "InvalidRequest", "message": err.Error()})

	case comments.IsNotFound(err) || interactions.IsNotFound(err) || notifications.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "NotFound", "message": err.Error()})

	case interactions.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": err.Error()})

	case comments.IsForbidden(err):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden", "message": err.Error()})

	default:
		log.Printf("Unexpected error: %v", err)
		body := gin.H{"error": "InternalServerError", "message": "An internal error occurred"}
		if gin.Mode() != gin.ReleaseMode {
			body["detail"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
