package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/api"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/config"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/database/service"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/middleware"
)

// App is the whole HTTP stack wired against SQLite and an in-process Redis
type App struct {
	DB     *gorm.DB
	Redis  *miniredis.Miniredis
	Config *config.Config
	Router *gin.Engine

	AuthService  service.AuthService
	UserService  service.UserService
	TweetService service.TweetService
}

// NewApp builds a fresh stack per test
func NewApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := NewTestDB(t)
	cfg := Config()
	logger := Logger()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	timeline := database.NewTimelineCacheWithClient(client, time.Duration(cfg.RecentTweetsCacheTTL)*time.Second, logger)

	t.Cleanup(func() {
		timeline.Close()
		mr.Close()
	})

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	tweetRepo := repository.NewTweetRepository(db)

	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, logger)
	userService := service.NewUserService(userRepo, logger)
	tweetService := service.NewTweetService(tweetRepo, timeline, logger)

	router := api.SetupRouter(
		handler.NewAuthHandler(authService, logger),
		handler.NewUserHandler(userService, logger),
		handler.NewTweetHandler(tweetService, logger),
		middleware.NewAuthMiddleware(authService, logger),
	)

	return &App{
		DB:           db,
		Redis:        mr,
		Config:       cfg,
		Router:       router,
		AuthService:  authService,
		UserService:  userService,
		TweetService: tweetService,
	}
}

// Do sends a request through the router. body is JSON-encoded unless it is
// already a string; token, when set, is sent as a bearer token.
func (a *App) Do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

// RegisterAndLogin creates an account through the API and returns its access token
func (a *App) RegisterAndLogin(t *testing.T, username, password string) string {
	t.Helper()

	w := a.Do(http.MethodPost, "/users/register", map[string]string{
		"username":         username,
		"password":         password,
		"confirm_password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return a.Login(t, username, password).Access
}

// Login returns the token pair for an existing account
func (a *App) Login(t *testing.T, username, password string) handler.TokenResponse {
	t.Helper()

	w := a.Do(http.MethodPost, "/users/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tokens handler.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	return tokens
}

// Decode unmarshals a recorded JSON response into out
func Decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
