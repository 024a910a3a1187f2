package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"brew-backend/internal/shared/server/respond"
	"brew-backend/internal/shared/telemetry"
)

// InternalErrorMessage is the only text a client sees for unexpected failures.
const InternalErrorMessage = "Internal server error"

// Recovery recovers from panics and returns the generic failure envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				reqID := RequestIDFromContext(c)
				telemetry.Error("panic", map[string]any{
					"request_id": reqID,
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, InternalErrorMessage, nil)
			}
		}()
		c.Next()
	}
}
