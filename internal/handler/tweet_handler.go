package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
)

// TweetHandler handles tweet API requests
type TweetHandler struct {
	tweetService service.TweetService
	logger       *slog.Logger
}

// NewTweetHandler creates a new tweet handler
func NewTweetHandler(tweetService service.TweetService, logger *slog.Logger) *TweetHandler {
	return &TweetHandler{
		tweetService: tweetService,
		logger:       logger,
	}
}

// TweetRequest is the writable part of a tweet. Fields such as author,
// likes or uuid are read-only and ignored when present.
type TweetRequest struct {
	Text *string `json:"text"`
}

// ListOwn handles GET /tweets/
func (h *TweetHandler) ListOwn(c *gin.Context) {
	userID, ok := h.requireCaller(c)
	if !ok {
		return
	}

	tweets, err := h.tweetService.ListOwn(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newTweetListResponse(tweets))
}

// ListRecent handles GET /tweets/recent/
func (h *TweetHandler) ListRecent(c *gin.Context) {
	tweets, err := h.tweetService.ListRecent(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newTweetListResponse(tweets))
}

// ListByUser handles GET /tweets/user/:uuid/
func (h *TweetHandler) ListByUser(c *gin.Context) {
	tweets, err := h.tweetService.ListByUser(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newTweetListResponse(tweets))
}

// Create handles POST /tweets/
func (h *TweetHandler) Create(c *gin.Context) {
	userID, ok := h.requireCaller(c)
	if !ok {
		return
	}

	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [TweetHandler] Invalid create request", "error", err)
		respondBindError(c, err)
		return
	}

	text := ""
	if req.Text != nil {
		text = *req.Text
	}

	tweet, err := h.tweetService.Create(c.Request.Context(), userID, text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, newTweetResponse(tweet))
}

// Get handles GET /tweets/:uuid/ - readable by anyone
func (h *TweetHandler) Get(c *gin.Context) {
	tweet, err := h.tweetService.Get(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newTweetResponse(tweet))
}

// Update handles PUT /tweets/:uuid/
func (h *TweetHandler) Update(c *gin.Context) {
	userID, ok := h.requireCaller(c)
	if !ok {
		return
	}

	// A body that does not decode counts as carrying no text; the service
	// reports that only after the existence and ownership checks.
	var req TweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [TweetHandler] Invalid update request", "error", err)
		req.Text = nil
	}

	tweet, err := h.tweetService.Update(c.Request.Context(), userID, c.Param("uuid"), req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newTweetResponse(tweet))
}

// Delete handles DELETE /tweets/:uuid/
func (h *TweetHandler) Delete(c *gin.Context) {
	userID, ok := h.requireCaller(c)
	if !ok {
		return
	}

	if err := h.tweetService.Delete(c.Request.Context(), userID, c.Param("uuid")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Like handles PUT /tweets/:uuid/tweet/ and its /like/ alias
func (h *TweetHandler) Like(c *gin.Context) {
	if _, ok := h.requireCaller(c); !ok {
		return
	}

	tweet, err := h.tweetService.Like(c.Request.Context(), c.Param("uuid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newTweetResponse(tweet))
}

func (h *TweetHandler) requireCaller(c *gin.Context) (uint, bool) {
	userID, ok := callerID(c)
	if !ok {
		h.logger.Error("❌ [TweetHandler] User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
		return 0, false
	}
	return userID, true
}
