package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const defaultDeepSeekURL = "https://api.deepseek.com/v1/chat/completions"

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the DeepSeek API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

type DeepSeekConfig struct {
	APIKey string
	APIURL string
	Model  string
}

type deepSeekCompleter struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewDeepSeekGenerator builds a RecipeGenerator on an OpenAI-compatible chat
// completions endpoint. The JSON example from the prompt is appended to the
// system message since the endpoint has no schema support.
func NewDeepSeekGenerator(cfg DeepSeekConfig, logger *zap.Logger) (RecipeGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("DEEPSEEK_API_KEY must be set")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultDeepSeekURL
	}
	if cfg.Model == "" {
		cfg.Model = "deepseek-chat"
	}
	return &structuredGenerator{
		completer: &deepSeekCompleter{
			apiKey: cfg.APIKey,
			apiURL: cfg.APIURL,
			model:  cfg.Model,
			client: &http.Client{Timeout: 90 * time.Second},
		},
		logger: logger.Named("deepseek"),
	}, nil
}

func (d *deepSeekCompleter) complete(ctx context.Context, prompt Prompt) (string, error) {
	system := prompt.System
	if prompt.Example != "" {
		system += "\n\nRespond with a single JSON object shaped exactly like this example:\n" + prompt.Example
	}
	reqBody := Request{
		Model: d.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt.User},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.8,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: API request failed with status %d: %s", ErrUpstream, resp.StatusCode, body)
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrDataContract, err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no response from API", ErrDataContract)
	}
	return result.Choices[0].Message.Content, nil
}
