package middleware

import (
	"net/http"
	"strings"

	"github.com/ayberk/groupora/internal/utils"
	"github.com/gin-gonic/gin"
)

// AnonymousID is the actor id stored when no valid bearer credential is
// presented. Routes decide what that means: profile routes answer 400,
// message and reaction routes fall through to user-not-found.
const AnonymousID int64 = -1

const (
	actorIDKey = "actor_id"
	isAdminKey = "is_admin"
)

// Identity resolves the Authorization bearer token to an actor id without
// rejecting the request. Handlers read the result via ActorID.
func Identity(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := AnonymousID
		isAdmin := false

		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString != "" && tokenString != authHeader {
			if claims, err := utils.ValidateToken(tokenString, jwtSecret); err == nil {
				actorID = int64(claims.UserID)
				isAdmin = claims.IsAdmin
			}
		}

		c.Set(actorIDKey, actorID)
		c.Set(isAdminKey, isAdmin)
		c.Next()
	}
}

// ActorID returns the resolved actor id, AnonymousID when identity could not
// be asserted.
func ActorID(c *gin.Context) int64 {
	if v, ok := c.Get(actorIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return AnonymousID
}

// AdminOnly gates a route on an asserted admin identity.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorID(c) == AnonymousID {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			c.Abort()
			return
		}

		if isAdmin, ok := c.Get(isAdminKey); !ok || isAdmin != true {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
