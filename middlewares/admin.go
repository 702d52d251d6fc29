package middlewares

import (
	"net/http"

	"Longshot/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// AdminOnlyMiddleware rejects requests whose token does not belong to an
// admin account. It must run after TokenAuthMiddleware, which sets the
// admin flag on the context.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !httpctx.IsAdminRequest(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
