package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasklists/tasklists-api/internal/models"
	"github.com/tasklists/tasklists-api/internal/sessions"
	"github.com/tasklists/tasklists-api/internal/tokens"
	"github.com/tasklists/tasklists-api/internal/users"
	"github.com/tasklists/tasklists-api/pkg/apierror"
	"github.com/tasklists/tasklists-api/pkg/logger"
	"github.com/tasklists/tasklists-api/pkg/middleware"
)

// CredentialsRequest is the body of signup and login.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	codec       *tokens.Codec
}

func NewAuthHandler(u *users.Service, s *sessions.Service, codec *tokens.Codec) *AuthHandler {
	return &AuthHandler{usersSvc: u, sessionsSvc: s, codec: codec}
}

// Register routes under /users
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	u := rg.Group("/users")
	u.POST("", h.Signup)
	u.POST("/login", h.Login)

	me := u.Group("/me", middleware.VerifySession(h.sessionsSvc))
	me.GET("/access-token", h.AccessToken)
	me.POST("/logout", h.Logout)
}

// Signup creates the account and opens its first session.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	u, err := h.usersSvc.Signup(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, users.ErrDuplicateEmail):
		apierror.Invalid(c, "email", err)
		return
	case errors.Is(err, users.ErrPasswordTooLong):
		apierror.Invalid(c, "password", err)
		return
	}
	if err != nil {
		apierror.Internal(c, err)
		return
	}
	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), u)
	if err != nil {
		// drop the half-created account so the email can be used again
		if derr := h.usersSvc.Delete(context.WithoutCancel(c.Request.Context()), u.ID); derr != nil {
			logger.Warnf("signup rollback for %s: %v", u.ID.Hex(), derr)
		}
		apierror.Internal(c, err)
		return
	}
	h.writeTokens(c, u, refresh)
}

// Login checks the credentials and opens a new session. Earlier sessions stay valid.
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.BadRequest(c, err)
		return
	}
	u, err := h.usersSvc.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, users.ErrInvalidCredentials) {
		logger.Debugf("login rejected for %q", req.Email)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		apierror.Internal(c, err)
		return
	}
	refresh, err := h.sessionsSvc.CreateSession(c.Request.Context(), u)
	if err != nil {
		apierror.Internal(c, err)
		return
	}
	h.writeTokens(c, u, refresh)
}

func (h *AuthHandler) writeTokens(c *gin.Context, u *models.User, refresh string) {
	access, err := h.codec.Sign(u.ID.Hex())
	if err != nil {
		apierror.Internal(c, err)
		return
	}
	c.Header(middleware.HeaderRefreshToken, refresh)
	c.Header(middleware.HeaderAccessToken, access)
	c.JSON(http.StatusOK, u)
}

// AccessToken issues a fresh access token for the verified session.
func (h *AuthHandler) AccessToken(c *gin.Context) {
	access, err := h.codec.Sign(middleware.UserID(c))
	if err != nil {
		apierror.Internal(c, err)
		return
	}
	c.Header(middleware.HeaderAccessToken, access)
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// Logout revokes the refresh session used for the request. Access tokens
// already issued remain valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	u := middleware.SessionUser(c)
	if u == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": sessions.ErrSessionNotFound.Error()})
		return
	}
	if err := h.sessionsSvc.RevokeSession(c.Request.Context(), u, middleware.RefreshToken(c)); err != nil {
		apierror.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
