package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmarket/console/internal/models"
	"farmmarket/console/internal/nav"
	"farmmarket/console/internal/session"
)

const sessionKey = "console_session"

type SessionLoader interface {
	Load(ctx context.Context) (models.Session, error)
}

// RequireSession loads the signed-in session. Without one the request is
// answered 401 with a redirect to the entry view.
func RequireSession(sessions SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.Load(c.Request.Context())
		if errors.Is(err, session.ErrNoSession) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "unauthorized",
				"redirect": nav.EntryPath,
			})
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session_unavailable"})
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

func CurrentSession(c *gin.Context) (models.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return models.Session{}, false
	}
	sess, ok := v.(models.Session)
	return sess, ok
}

// RequireView rejects roles that may not open view, redirecting them to the
// dashboard.
func RequireView(view nav.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "unauthorized",
				"redirect": nav.EntryPath,
			})
			return
		}

		if !nav.Allowed(view, sess.User.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"redirect": nav.DefaultPath,
			})
			return
		}

		c.Next()
	}
}

// RequireCapability guards a single action the same way.
func RequireCapability(capability nav.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := CurrentSession(c)
		if !ok || !nav.Can(sess.User.Role, capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
