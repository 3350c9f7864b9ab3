package middlewares

import (
	"github.com/fitnessbud/backend/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const (
	CtxUserKey      = "auth.user"
	CtxRequestIDKey = "request_id"
)

// CurrentUser returns the user resolved by RequireAuth, if any.
func CurrentUser(c *gin.Context) (user.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return user.User{}, false
	}

	u, ok := v.(user.User)
	return u, ok
}

// UserIDFromContext is a shortcut for handlers that only need the owner id.
func UserIDFromContext(c *gin.Context) (int64, bool) {
	u, ok := CurrentUser(c)
	if !ok {
		return 0, false
	}
	return u.ID, true
}
