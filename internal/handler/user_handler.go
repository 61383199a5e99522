package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
)

// UserHandler handles user profile requests
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// GetMe handles GET /users/me - returns the caller's own profile
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		h.logger.Error("❌ [UserHandler] User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// GetByUsername handles GET /users/:username - public profile, exact match
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
