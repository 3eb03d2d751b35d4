package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pharmadocs/pkg/response"
)

// Ready rejects requests with 503 until ready reports true.
func Ready(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil && !ready() {
			response.Abort(c, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
		c.Next()
	}
}
