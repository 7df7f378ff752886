// internal/pkg/response/response.go
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire format for every JSON API error.
type ErrorBody struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// Success sends a successful response with optional data.
func Success(c *gin.Context, status int, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, data)
}

// Error sends a standardized error response and aborts the chain.
func Error(c *gin.Context, code int, message string, details ...interface{}) {
	c.Abort()

	body := ErrorBody{Error: message}
	if len(details) > 0 {
		body.Details = details[0]
	}

	c.JSON(code, body)
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	if err != nil {
		Error(c, http.StatusBadRequest, message, gin.H{"reason": err.Error()})
		return
	}
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Internal sends a generic 500 without leaking internal error detail.
func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error")
}
