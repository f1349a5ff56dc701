package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/middleware"
	"github.com/ecochef/ecochef/backend/internal/models"
	"github.com/ecochef/ecochef/backend/internal/service"
	"github.com/ecochef/ecochef/backend/internal/types"
)

type FeedbackHandler struct {
	feedbackService *service.FeedbackService
	logger          *zap.Logger
}

func NewFeedbackHandler(feedbackService *service.FeedbackService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService, logger: logger}
}

// CreateFeedback accepts ratings from guests and signed-in users alike.
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req types.CreateFeedbackRequest
	if !bindJSON(c, &req) {
		return
	}
	feedback, err := h.feedbackService.CreateFeedback(c.Request.Context(), c.Param("id"), req, middleware.GetClaims(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

func (h *FeedbackHandler) ListRecipeFeedback(c *gin.Context) {
	h.list(c, models.FeedbackFilters{
		RecipeID: c.Param("id"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	})
}

// ListFeedback is the admin view across all recipes.
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	h.list(c, models.FeedbackFilters{
		RecipeID: c.Query("recipe_id"),
		Limit:    queryInt(c, "limit"),
		Offset:   queryInt(c, "offset"),
	})
}

func (h *FeedbackHandler) list(c *gin.Context, filters models.FeedbackFilters) {
	feedback, err := h.feedbackService.ListFeedback(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.FeedbackListResponse{Feedback: feedback})
}
