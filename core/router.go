package core

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "rt"
const accessCookieName = "at"

// NewRouter constructs the Gin engine with routes wired. Handlers delegate to
// the session service and translate its errors through respondTaxonomy; the
// gin recovery middleware turns panics into bare 500s.
func NewRouter(cfg Config, sessions *SessionService) *gin.Engine {
	r := gin.Default()

	r.Use(DevOriginMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/sign-up", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}
		if err := sessions.SignUp(c.Request.Context(), req.Username, req.Password); err != nil {
			respondTaxonomy(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"msg": "user creation succeeded"})
	})

	r.POST("/sign-in", func(c *gin.Context) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
			return
		}
		pair, err := sessions.SignIn(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondTaxonomy(c, err)
			return
		}
		setRefreshCookie(c, cfg, pair.Refresh)
		c.JSON(http.StatusOK, gin.H{"at": pair.Access})
	})

	// The refresh token rides in an HTTP-only cookie; every successful call
	// replaces it with a freshly rotated one.
	refresh := func(c *gin.Context) {
		rt, err := c.Cookie(refreshCookieName)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing refresh token")
			return
		}
		pair, err := sessions.Refresh(c.Request.Context(), rt)
		if err != nil {
			respondTaxonomy(c, err)
			return
		}
		setRefreshCookie(c, cfg, pair.Refresh)
		c.JSON(http.StatusOK, gin.H{"at": pair.Access})
	}
	r.POST("/refresh", refresh)
	r.POST("/refresh-tokens", refresh)

	r.POST("/sign-out", func(c *gin.Context) {
		rt, _ := c.Cookie(refreshCookieName)
		sessions.SignOut(c.Request.Context(), rt)
		clearRefreshCookie(c, cfg)
		c.JSON(http.StatusOK, gin.H{"msg": "sign out succeeded"})
	})

	verify := func(c *gin.Context) {
		at := accessTokenFromRequest(c)
		rt, _ := c.Cookie(refreshCookieName)
		validity, err := sessions.Verify(at, rt)
		if err != nil {
			respondTaxonomy(c, err)
			return
		}
		c.JSON(http.StatusOK, validity)
	}
	r.POST("/verify", verify)
	r.POST("/verify-tokens", verify)

	return r
}

// accessTokenFromRequest accepts the access token either as a bearer header
// (the body-delivered token presented back) or as an `at` cookie.
func accessTokenFromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	at, _ := c.Cookie(accessCookieName)
	return at
}

func setRefreshCookie(c *gin.Context, cfg Config, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, int(cfg.RefreshTTL.Seconds()), "/", "", cfg.CookieSecure, true)
}

func clearRefreshCookie(c *gin.Context, cfg Config) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, "/", "", cfg.CookieSecure, true)
}
