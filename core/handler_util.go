package core

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends unified error payload {"error": {"code", "message"}}.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// respondTaxonomy maps an expected session-layer error to its transport status
// and short message. Unexpected errors are logged and rendered as a bare 500
// with nothing internal leaked.
func respondTaxonomy(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMissingFields):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing credentials")
	case errors.Is(err, ErrPasswordPolicy):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "password does not meet requirements")
	case errors.Is(err, ErrMissingToken):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "missing refresh and/or access tokens")
	case errors.Is(err, ErrUsernameTaken):
		respondError(c, http.StatusConflict, "CONFLICT", "user already exists")
	case errors.Is(err, ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	case errors.Is(err, ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, "INVALID_TOKEN", "token is invalid or expired")
	default:
		log.Printf("unexpected handler error: %v", err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}
