package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string            `json:"error"`
	RequestID string            `json:"request_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// OK writes {"ok": true} merged with fields.
func OK(c *gin.Context, status int, fields gin.H) {
	if status == 0 {
		status = http.StatusOK
	}
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}

func Error(c *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorBody{Error: message, RequestID: c.GetString("request_id")})
}

// Abort writes an error body and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	Error(c, status, message)
	c.Abort()
}

// Invalid writes a 400 with per-field validation details.
func Invalid(c *gin.Context, details map[string]string) {
	c.JSON(http.StatusBadRequest, ErrorBody{
		Error:     "invalid input",
		RequestID: c.GetString("request_id"),
		Details:   details,
	})
}
