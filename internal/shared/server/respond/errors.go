package respond

import (
	"github.com/gin-gonic/gin"

	"brew-backend/internal/shared/telemetry"
)

// ErrorResponse is the failure envelope returned to clients.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Error sends a failure envelope. Message must be safe to show to clients;
// internal detail belongs in cause, which is only logged.
func Error(c *gin.Context, status int, message string, cause error) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if cause != nil {
		fields["error"] = cause.Error()
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   message,
	})
}
