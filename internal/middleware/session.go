package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/config"
	"taxiweb/internal/session"
)

const sessionContextKey = "taxiweb.session"

// Session attaches the browser session named by the session cookie, creating
// a new one when the cookie is missing or unknown.
func Session(registry *session.Registry, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cfg.CookieName)
		sess := registry.Get(id)

		if sess.ID != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, sess.ID, int(cfg.TokenTTL.Seconds()), "/", "", cfg.CookieSecure, true)
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session attached by Session, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
