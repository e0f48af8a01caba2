package ratelimit

import (
	"net/http"

	"edumee-backend/pkg/httpx"

	"github.com/gin-gonic/gin"
)

// Middleware rejects clients that exceed the limiter with 429.
func Middleware(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			httpx.Abort(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
