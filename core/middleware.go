package core

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// DevOriginMiddleware grants credentialed CORS to the configured development
// origin. Same-origin requests always pass: browsers attach an Origin header
// to every POST, so one matching the request's own scheme+host must not be
// treated as cross-origin. Unrecognized cross-origin requests pass through
// without CORS headers; the browser enforces the denial.
func DevOriginMiddleware(cfg Config) gin.HandlerFunc {
	allowed := strings.ToLower(cfg.DevOrigin)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || isSameOrigin(c.Request, origin) {
			c.Next()
			return
		}

		if allowed != "" && strings.ToLower(origin) == allowed {
			setCORSHeaders(c, origin)
			if c.Request.Method == http.MethodOptions {
				c.Status(http.StatusNoContent)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		if c.Request.Method == http.MethodOptions {
			// Preflight from a foreign origin: answer without allow headers.
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

// isSameOrigin reports whether origin names this server itself.
func isSameOrigin(r *http.Request, origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return u.Scheme == scheme && strings.EqualFold(u.Host, r.Host)
}

// setCORSHeaders reflects the allowed origin with credentials enabled, since
// the refresh token travels in a cookie.
func setCORSHeaders(c *gin.Context, origin string) {
	h := c.Writer.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	h.Set("Vary", "Origin")
}
