package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
)

// AuthHandler handles HTTP requests for registration and tokens
type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Request DTOs
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,max=150,username"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// VerifyRequest accepts the token under either key
type VerifyRequest struct {
	Token  string `json:"token"`
	Access string `json:"access"`
}

// Register handles POST /users/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid registration request", "error", err)
		respondBindError(c, err)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, newUserResponse(user))
}

// Login handles POST /users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid login request", "error", err)
		respondBindError(c, err)
		return
	}

	tokens, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Access:  tokens.AccessToken,
		Refresh: tokens.RefreshToken,
	})
}

// RefreshToken handles POST /users/token/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid refresh request", "error", err)
		respondBindError(c, err)
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Access:  tokens.AccessToken,
		Refresh: tokens.RefreshToken,
	})
}

// VerifyToken handles POST /users/token/verify. It applies the same checks
// as the bearer middleware and never issues tokens.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token := req.Token
	if token == "" {
		token = req.Access
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "fields": gin.H{"token": "This field is required."}})
		return
	}

	if _, err := h.service.Authenticate(c.Request.Context(), token); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// Logout handles POST /users/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid logout request", "error", err)
		respondBindError(c, err)
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.Refresh); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
