package compute

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"triggerOracle/internal/model"
)

const (
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultOllamaModel  = "llama3.1"
	DefaultSystemPrompt = "You are an Avante Garde philosopher, Gilles Deleuze."
)

// OllamaConfig configures the artist's LLM collaborator.
type OllamaConfig struct {
	BaseURL      string
	Model        string
	SystemPrompt string
	// MaxTokens caps the generated description (num_predict).
	MaxTokens int
	Seed      int64
}

// OllamaClient queries an Ollama chat endpoint with deterministic sampling.
type OllamaClient struct {
	cfg    OllamaConfig
	http   HTTPClient
	logger *zap.Logger
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopK        int     `json:"top_k"`
	TopP        float64 `json:"top_p"`
	MinP        float64 `json:"min_p"`
	NumCtx      int     `json:"num_ctx"`
	NumPredict  int     `json:"num_predict"`
	Seed        int64   `json:"seed"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Options  ollamaOptions   `json:"options"`
	Stream   bool            `json:"stream"`
}

// The endpoint answers either {"message":{...}} or {"error":"..."}.
type ollamaChatResponse struct {
	Message *ollamaMessage `json:"message"`
	Error   *string        `json:"error"`
}

func NewOllamaClient(cfg OllamaConfig, httpClient HTTPClient, logger *zap.Logger) *OllamaClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOllamaURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 25
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaClient{cfg: cfg, http: httpClient, logger: logger}
}

// Describe sends prompt to the chat endpoint and returns the reply content.
func (c *OllamaClient) Describe(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model: c.cfg.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: c.cfg.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Options: ollamaOptions{
			Temperature: 0.0,
			TopK:        1,
			TopP:        0.1,
			MinP:        0.0,
			NumCtx:      4096,
			NumPredict:  c.cfg.MaxTokens,
			Seed:        c.cfg.Seed,
		},
		Stream: false,
	})
	if err != nil {
		return "", model.NewComputationError("marshal ollama request: %v", err)
	}

	resp, err := c.http.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    strings.TrimRight(c.cfg.BaseURL, "/") + "/api/chat",
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	})
	if err != nil {
		return "", model.NewComputationError("ollama request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", model.NewComputationError("ollama api error: status %d", resp.StatusCode)
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return "", model.NewComputationError("failed to parse response: %v", err)
	}
	switch {
	case parsed.Error != nil:
		return "", &model.ComputationError{Reason: *parsed.Error}
	case parsed.Message != nil:
		c.logger.Debug("ollama reply", zap.String("model", c.cfg.Model), zap.Int("chars", len(parsed.Message.Content)))
		return parsed.Message.Content, nil
	default:
		return "", model.NewComputationError("failed to parse response: missing message")
	}
}
