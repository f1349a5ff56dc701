package service

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ecochef/ecochef/backend/internal/types"
)

const FinetunedModelName = "eco-chef-finetuned-model-v1"

// FinetuneService stands in for a fine-tuned model. It does not call any
// model; the prediction only echoes the prompt.
type FinetuneService struct {
	rand func() float64
}

func NewFinetuneService() *FinetuneService {
	return &FinetuneService{rand: rand.Float64}
}

func (s *FinetuneService) Predict(prompt string) (*types.FinetuneResponse, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fieldError("prompt", "Prompt is required")
	}
	return &types.FinetuneResponse{
		Prediction: fmt.Sprintf("This is a fine-tuned response for the prompt: \"%s\". The model has successfully processed your request.", prompt),
		Confidence: 0.85 + s.rand()*0.14,
		Model:      FinetunedModelName,
	}, nil
}
