package middleware

import (
	"net/http"

	"sealgate/logging"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// OriginGate rejects requests whose Origin header is not on the allow-list.
// The check runs before any message parsing, so untrusted pages never reach
// the dispatch logic regardless of what they send.
func OriginGate(allowedOrigins []string) gin.HandlerFunc {
	logger := logging.GetLogger()

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !lo.Contains(allowedOrigins, origin) {
			logger.Warn("Rejected external request from origin %q", origin)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "origin not allowed",
			})
			return
		}

		c.Next()
	}
}
