package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/api"
	"github.com/ecochef/ecochef/backend/internal/middleware"
)

// Dependencies are the handlers and cross-cutting pieces the routes need.
type Dependencies struct {
	Auth     *api.AuthHandler
	LLM      *api.LLMHandler
	Recipes  *api.RecipeHandler
	Feedback *api.FeedbackHandler

	Validator   middleware.TokenValidator
	GuestQuota  *middleware.RateLimiter
	Health      map[string]api.Pinger
	CORSOrigins []string
	Logger      *zap.Logger
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS(deps.CORSOrigins))

	router.GET("/health", api.HealthCheck(deps.Health))
	router.POST("/api/finetune", deps.LLM.Finetune)

	required := middleware.AuthMiddleware(deps.Validator, deps.Logger)
	optional := middleware.OptionalAuth(deps.Validator, deps.Logger)
	var quota gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if deps.GuestQuota != nil {
		quota = deps.GuestQuota.GuestQuotaMiddleware()
	}

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/signup", deps.Auth.SignUp)
		auth.POST("/signin", deps.Auth.SignIn)
		auth.POST("/signout", required, deps.Auth.SignOut)
		auth.GET("/me", required, deps.Auth.Me)
	}

	generations := v1.Group("/generations", optional)
	{
		generations.POST("", quota, deps.LLM.Generate)
		generations.POST("/:id/confirm", quota, deps.LLM.Confirm)
		generations.POST("/:id/dismiss", deps.LLM.Dismiss)
	}

	recipes := v1.Group("/recipes")
	{
		recipes.GET("", optional, deps.Recipes.ListRecipes)
		recipes.GET("/:id", optional, deps.Recipes.GetRecipe)
		recipes.GET("/:id/summary", deps.Recipes.GetSummary)
		recipes.GET("/:id/feedback", deps.Feedback.ListRecipeFeedback)
		recipes.POST("/:id/feedback", optional, deps.Feedback.CreateFeedback)
		recipes.POST("/:id/favorite", required, deps.Recipes.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", required, deps.Recipes.UnfavoriteRecipe)
		recipes.POST("/:id/favorite/toggle", required, deps.Recipes.ToggleFavorite)
	}

	v1.GET("/favorites", required, deps.Recipes.ListFavorites)

	admin := v1.Group("/admin", required, middleware.RequireAdmin())
	{
		admin.POST("/recipes", deps.Recipes.CreateRecipe)
		admin.DELETE("/recipes/:id", deps.Recipes.DeleteRecipe)
		admin.GET("/feedback", deps.Feedback.ListFeedback)
	}

	return router
}
