package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/session"
)

const (
	CtxUserID    = "userID"
	CtxSessionID = "sessionID"
)

func AuthMiddleware(auth ports.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "missing Authorization header"},
			)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "invalid token format"},
			)
			return
		}

		p, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, session.ErrInvalidSession) {
				c.AbortWithStatusJSON(
					http.StatusUnauthorized,
					gin.H{"error": "invalid token"},
				)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to authenticate"},
			)
			return
		}

		setPrincipal(c, p)

		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid bearer token is present
// and lets anonymous requests through otherwise.
func OptionalAuth(auth ports.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if ok {
			if p, err := auth.Authenticate(c.Request.Context(), tokenStr); err == nil {
				setPrincipal(c, p)
			}
		}

		c.Next()
	}
}

func setPrincipal(c *gin.Context, p *ports.Principal) {
	c.Set(CtxUserID, p.UserID.String())
	c.Set(CtxSessionID, p.SessionID.String())
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(CtxUserID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
