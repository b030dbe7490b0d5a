// internal/middleware/timeout.go
package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spicepop/storefront/internal/utils"
)

// Timeout puts a deadline on the request context. Storage calls observe it
// and fail with context.DeadlineExceeded, which handlers map to 504. The
// handler runs on the request goroutine, so a handler that ignores the
// context is not cut off; if it returns past the deadline without writing,
// the 504 is written here.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !c.Writer.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			utils.GatewayTimeoutResponse(c)
		}
	}
}
