package middleware

import (
	"context"
	"net/http"
	"strings"

	pkgzerolog "github.com/duynhne/pkg/logger/zerolog"
	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeader = "Authorization"
	AuthorizationBearer = "bearer"

	// UserIDKey is the gin context key holding the authenticated user id.
	UserIDKey = "user_id"
)

// TokenVerifier decodes a bearer token into a user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// APIUserChecker reports whether an account carries the API-user flag.
// A missing account must be reported as (false, nil) or an error.
type APIUserChecker interface {
	IsAPIUser(ctx context.Context, userID int64) (bool, error)
}

// bearerToken returns the token from the Authorization header and whether the
// header was present at all. A present but malformed header yields ("", true)
// so it is treated as an invalid token rather than a missing one.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		return "", false
	}
	fields := strings.Fields(header)
	if len(fields) != 2 || strings.ToLower(fields[0]) != AuthorizationBearer {
		return "", true
	}
	return fields[1], true
}

// RequireToken rejects requests without a valid bearer token and stores the
// decoded user id under UserIDKey.
//
// Missing header: 401. Invalid or expired token: 400.
func RequireToken(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, present := bearerToken(c)
		if !present {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access denied. No token provided."})
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			pkgzerolog.FromContext(c.Request.Context()).Warn().Err(err).Msg("Token verification failed")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid token."})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// RequireAPIUser gates administrative listing endpoints. Each stage
// short-circuits: missing header (401), bad token (403), lookup failure or
// account without the API-user flag (403).
func RequireAPIUser(verifier TokenVerifier, users APIUserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := pkgzerolog.FromContext(c.Request.Context())

		token, present := bearerToken(c)
		if !present {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token required."})
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			logger.Warn().Err(err).Msg("Token verification failed")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token."})
			return
		}

		ok, err := users.IsAPIUser(c.Request.Context(), userID)
		if err != nil || !ok {
			logger.Warn().Err(err).Int64("user_id", userID).Msg("API user check denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied."})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user id set by RequireToken or RequireAPIUser.
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
