package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ecochef/ecochef/backend/internal/middleware"
	"github.com/ecochef/ecochef/backend/internal/service"
	"github.com/ecochef/ecochef/backend/internal/types"
)

// LLMHandler serves recipe generation and the mock fine-tuned model.
type LLMHandler struct {
	generation *service.GenerationService
	finetune   *service.FinetuneService
	logger     *zap.Logger
}

func NewLLMHandler(generation *service.GenerationService, finetune *service.FinetuneService, logger *zap.Logger) *LLMHandler {
	return &LLMHandler{generation: generation, finetune: finetune, logger: logger}
}

func (h *LLMHandler) respond(c *gin.Context, result *service.GenerationResult, err error) {
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := http.StatusCreated
	if result.Status == service.StatusConfirmationRequired {
		status = http.StatusAccepted
	}
	c.JSON(status, result)
}

// Generate answers 201 with stored recipes, or 202 with a draft when the
// user has to confirm extra ingredients first.
func (h *LLMHandler) Generate(c *gin.Context) {
	var req types.GenerateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.generation.Generate(c.Request.Context(), service.GenerationRequest{
		Ingredients:         req.Ingredients,
		DietaryRestrictions: req.DietaryRestrictions,
		CookingTime:         req.CookingTime,
		Strict:              req.Strict,
	}, middleware.GetClaims(c))
	h.respond(c, result, err)
}

func (h *LLMHandler) Confirm(c *gin.Context) {
	var req types.ConfirmGenerationRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	result, err := h.generation.Confirm(c.Request.Context(), c.Param("id"), req.Accepted, middleware.GetClaims(c))
	h.respond(c, result, err)
}

func (h *LLMHandler) Dismiss(c *gin.Context) {
	result, err := h.generation.Dismiss(c.Request.Context(), c.Param("id"), middleware.GetClaims(c))
	h.respond(c, result, err)
}

// Finetune answers with a canned prediction.
func (h *LLMHandler) Finetune(c *gin.Context) {
	var req types.FinetuneRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.finetune.Predict(req.Prompt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
