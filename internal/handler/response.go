package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/middleware"
)

// UserResponse is the public profile of a user
type UserResponse struct {
	UUID       uuid.UUID `json:"uuid"`
	Username   string    `json:"username"`
	DateJoined time.Time `json:"date_joined"`
}

// TweetResponse is the public representation of a tweet; author is the username
type TweetResponse struct {
	UUID        uuid.UUID `json:"uuid"`
	Text        string    `json:"text"`
	Author      string    `json:"author"`
	Likes       int64     `json:"likes"`
	DateCreated time.Time `json:"date_created"`
	Edited      bool      `json:"edited"`
}

// TokenResponse is returned by login and refresh
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		UUID:       user.UUID,
		Username:   user.Username,
		DateJoined: user.DateJoined,
	}
}

func newTweetResponse(tweet *models.Tweet) TweetResponse {
	return TweetResponse{
		UUID:        tweet.UUID,
		Text:        tweet.Text,
		Author:      tweet.Author.Username,
		Likes:       tweet.Likes,
		DateCreated: tweet.DateCreated,
		Edited:      tweet.Edited,
	}
}

func newTweetListResponse(tweets []models.Tweet) []TweetResponse {
	out := make([]TweetResponse, 0, len(tweets))
	for i := range tweets {
		out = append(out, newTweetResponse(&tweets[i]))
	}
	return out
}

// respondError maps a service error to its status code. Anything outside the
// error taxonomy is logged and reported as a 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Error("❌ [Handler] Internal server error", "error", err, "path", c.FullPath())
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}

	// Strip the kind prefix, clients only need the specific message
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	c.JSON(status, gin.H{"error": msg})
}

// respondBindError reports a request body that failed binding or validation
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = describeFieldError(fe)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this field has no more than " + fe.Param() + " characters."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	default:
		return "Invalid value."
	}
}

// callerID returns the authenticated user id set by the auth middleware
func callerID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
