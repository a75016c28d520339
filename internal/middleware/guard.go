package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/service"
)

// ClientPathHeader carries the browser route that triggered an API call.
const ClientPathHeader = "X-Client-Path"

const msgCheckingSession = "Checking session..."

// RequireAuth lets a request through only once its session check has
// finished and found a signed-in user. While the check is still running
// after wait, it answers 503 with Retry-After; a signed-out session is sent
// to the login screen with the requested path recorded.
func RequireAuth(auth *service.AuthService, wait time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		err := auth.EnsureBootstrapped(ctx, sess)
		cancel()
		if err != nil {
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": msgCheckingSession,
				"code":  "session_pending",
			})
			return
		}

		if !sess.IsAuthenticated() {
			c.Redirect(http.StatusFound, LoginURL(requestedPath(c)))
			c.Abort()
			return
		}

		c.Next()
	}
}

// LoginURL builds the login location recording from.
func LoginURL(from string) string {
	return "/login?from=" + url.QueryEscape(from)
}

func requestedPath(c *gin.Context) string {
	if p := c.GetHeader(ClientPathHeader); p != "" {
		return service.SafeRedirect(p, c.Request.URL.Path)
	}
	return c.Request.URL.Path
}

func retryAfterSeconds(wait time.Duration) int {
	if s := int(wait.Seconds()); s > 0 {
		return s
	}
	return 1
}
