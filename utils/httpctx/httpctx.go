// Package httpctx reads the request identity that TokenAuthMiddleware stores
// on the Gin context after validating a bearer token.
package httpctx

import "github.com/gin-gonic/gin"

// CurrentUserID returns the authenticated bettor's ID. The bool is false when
// the route ran without TokenAuthMiddleware or the token was rejected.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// IsAdminRequest reports whether the token belongs to an admin account.
// Regular bettors get visibility-filtered games and read-only brackets;
// admins see and manage everything.
func IsAdminRequest(c *gin.Context) bool {
	val, ok := c.Get("isAdmin")
	if !ok {
		return false
	}
	admin, ok := val.(bool)
	return ok && admin
}
