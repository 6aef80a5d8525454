package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/scaling-advisor/api/middleware"
	"github.com/OldStager01/scaling-advisor/internal/auth"
	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/validation"
)

// AuthHandler exchanges operator credentials for tokens.
type AuthHandler struct {
	users       auth.UserStore
	authService *auth.Service
}

func NewAuthHandler(users auth.UserStore, authService *auth.Service) *AuthHandler {
	return &AuthHandler{users: users, authService: authService}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	Username  string `json:"username"`
}

// Login godoc
// @Summary Log in
// @Description Exchange operator credentials for a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Operator credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 429 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	req.Username = validation.SanitizeString(req.Username)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.users.GetByUsername(ctx, req.Username)
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
	case err != nil:
		logger.FromContext(ctx).WithError(err).Error("Operator lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	case auth.CheckPassword(req.Password, user.PasswordHash):
		h.issueToken(c, user)
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
}

// issueToken answers with a signed token and mirrors it into an HttpOnly
// cookie for browser clients of /ws.
func (h *AuthHandler) issueToken(c *gin.Context, user *auth.User) {
	token, err := h.authService.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	ttl := int(h.authService.Duration() / time.Second)
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthCookieName, token, ttl, "/", "", true, true)
	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresIn: ttl, Username: user.Username})
}
