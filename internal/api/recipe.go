package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/middleware"
	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/service"
	"github.com/ecochef/ecochef/backend/internal/types"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	logger        *zap.Logger
}

func NewRecipeHandler(recipeService *service.RecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService, logger: logger}
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ListRecipes supports ?mine=true, tag, dietary, q, limit and offset.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	claims := middleware.GetClaims(c)
	filters := models.RecipeFilters{
		Tag:     c.Query("tag"),
		Dietary: c.Query("dietary"),
		Search:  c.Query("q"),
		Limit:   queryInt(c, "limit"),
		Offset:  queryInt(c, "offset"),
	}
	if c.Query("mine") == "true" {
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to list your recipes"})
			return
		}
		filters.UserID = claims.UserID
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), filters, claims)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.RecipeListResponse{Recipes: recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("id"), middleware.GetClaims(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) GetSummary(c *gin.Context) {
	summary, err := h.recipeService.Summarize(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe_id": c.Param("id"), "summary": summary})
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	created, err := h.recipeService.FavoriteRecipe(c.Request.Context(), middleware.GetClaims(c).UserID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.FavoriteToggleResponse{RecipeID: c.Param("id"), IsFavorited: true})
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	removed, err := h.recipeService.UnfavoriteRecipe(c.Request.Context(), middleware.GetClaims(c).UserID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe is not in your favorites"})
		return
	}
	c.JSON(http.StatusOK, types.FavoriteToggleResponse{RecipeID: c.Param("id"), IsFavorited: false})
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	on, err := h.recipeService.ToggleFavorite(c.Request.Context(), middleware.GetClaims(c).UserID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.FavoriteToggleResponse{RecipeID: c.Param("id"), IsFavorited: on})
}

func (h *RecipeHandler) ListFavorites(c *gin.Context) {
	recipes, err := h.recipeService.GetFavoriteRecipes(c.Request.Context(), middleware.GetClaims(c).UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.RecipeListResponse{Recipes: recipes})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), req, middleware.GetClaims(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), c.Param("id"), middleware.GetClaims(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
