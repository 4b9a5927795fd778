package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasklists/tasklists-api/internal/models"
	"github.com/tasklists/tasklists-api/internal/sessions"
	"github.com/tasklists/tasklists-api/internal/tokens"
	"github.com/tasklists/tasklists-api/pkg/apierror"
	"github.com/tasklists/tasklists-api/pkg/metrics"
)

// Header and context keys used by the auth gates.
const (
	HeaderAccessToken  = "x-access-token"
	HeaderRefreshToken = "x-refresh-token"
	HeaderUserID       = "_id"

	ContextUserID       = "userId"
	ContextUser         = "user"
	ContextRefreshToken = "refreshToken"
)

// AccessVerifier checks access tokens. Implemented by *tokens.Codec.
type AccessVerifier interface {
	Verify(raw string) (*tokens.Claims, error)
}

// SessionVerifier checks refresh sessions. Implemented by *sessions.Service.
type SessionVerifier interface {
	VerifySession(ctx context.Context, userID, token string) (*models.User, error)
}

// Authenticate admits requests carrying a valid x-access-token and exposes
// the token's user id under ContextUserID. The session store is not consulted.
func Authenticate(v AccessVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := v.Verify(c.GetHeader(HeaderAccessToken))
		if err != nil {
			name, message := tokens.Describe(err)
			reason := "invalid"
			if name == "TokenExpiredError" {
				reason = "expired"
			}
			metrics.AuthRejected.WithLabelValues("access", reason).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"name": name, "message": message})
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Next()
	}
}

// VerifySession admits requests whose x-refresh-token names an unexpired
// session of the user in the _id header.
func VerifySession(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		refresh := c.GetHeader(HeaderRefreshToken)
		u, err := v.VerifySession(c.Request.Context(), c.GetHeader(HeaderUserID), refresh)
		switch {
		case errors.Is(err, sessions.ErrSessionNotFound):
			metrics.AuthRejected.WithLabelValues("session", "not_found").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		case errors.Is(err, sessions.ErrSessionExpired):
			metrics.AuthRejected.WithLabelValues("session", "expired").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		case err != nil:
			apierror.Internal(c, err)
			return
		}
		c.Set(ContextUserID, u.ID.Hex())
		c.Set(ContextUser, u)
		c.Set(ContextRefreshToken, refresh)
		c.Next()
	}
}

// UserID returns the id set by either auth gate.
func UserID(c *gin.Context) string { return c.GetString(ContextUserID) }

// SessionUser returns the user loaded by VerifySession, or nil.
func SessionUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ContextUser); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

// RefreshToken returns the refresh token accepted by VerifySession.
func RefreshToken(c *gin.Context) string { return c.GetString(ContextRefreshToken) }
