package api

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/speertweet/backend-go/internal/validation"
)

var registerRulesOnce sync.Once

// registerBindingRules makes the custom validation tags available to gin's binding
func registerBindingRules() {
	registerRulesOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := validation.RegisterRules(v); err != nil {
				panic(err)
			}
		}
	})
}

func SetupRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	tweetHandler *handler.TweetHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	registerBindingRules()

	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.Use(middleware.Metrics())

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := authMiddleware.RequireAuth()

	users := r.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", authHandler.Login)
		users.POST("/logout", authHandler.Logout)
		users.POST("/token/refresh", authHandler.RefreshToken)
		users.POST("/token/verify", authHandler.VerifyToken)

		users.GET("/me", requireAuth, userHandler.GetMe)
		users.GET("/:username", userHandler.GetByUsername)
	}

	tweets := r.Group("/tweets")
	{
		tweets.GET("/", requireAuth, tweetHandler.ListOwn)
		tweets.POST("/", requireAuth, tweetHandler.Create)

		tweets.GET("/recent/", tweetHandler.ListRecent)
		tweets.GET("/user/:uuid/", tweetHandler.ListByUser)

		tweets.GET("/:uuid/", tweetHandler.Get)
		tweets.PUT("/:uuid/", requireAuth, tweetHandler.Update)
		tweets.DELETE("/:uuid/", requireAuth, tweetHandler.Delete)
		tweets.PUT("/:uuid/tweet/", requireAuth, tweetHandler.Like)
		tweets.PUT("/:uuid/like/", requireAuth, tweetHandler.Like)
	}

	return r
}
