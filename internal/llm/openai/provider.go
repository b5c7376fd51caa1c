package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lunaryss/tarot-ai/internal/llm"
)

// Provider implements llm.Provider against any OpenAI-compatible
// chat-completions endpoint; the base URL is configurable so
// Azure/OpenRouter/DeepSeek style gateways all work through it.
type Provider struct {
	apiKey       string
	baseURL      string
	defaultModel string
	client       *http.Client
}

// NewProvider creates a new OpenAI-compatible provider.
func NewProvider(apiKey, baseURL, defaultModel string, timeout time.Duration) llm.Provider {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		apiKey:       apiKey,
		baseURL:      baseURL,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "openai"
}

// AvailableModels returns list of supported models.
func (p *Provider) AvailableModels() []string {
	return []string{
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
		"gpt-3.5-turbo",
	}
}

// DefaultModel returns the default model.
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials.
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateReading interprets a completed spread.
func (p *Provider) GenerateReading(ctx context.Context, req llm.ReadingRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	return p.complete(ctx, chatRequest{
		Model:       model,
		Messages:    toMessages(llm.BuildReadingMessages(req)),
		Temperature: 0.7,
		MaxTokens:   2000,
	})
}

// GenerateChatResponse answers one conversational turn.
func (p *Provider) GenerateChatResponse(ctx context.Context, req llm.ChatRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}
	return p.complete(ctx, chatRequest{
		Model:       model,
		Messages:    toMessages(llm.BuildChatMessages(req)),
		Temperature: 0.8,
		MaxTokens:   1000,
	})
}

func toMessages(turns []llm.ChatTurn) []chatMessage {
	msgs := make([]chatMessage, len(turns))
	for i, t := range turns {
		msgs[i] = chatMessage{Role: t.Role, Content: t.Content}
	}
	return msgs
}

func (p *Provider) complete(ctx context.Context, chatReq chatRequest) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("openai: %w", llm.ErrNotConfigured)
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &llm.RequestError{Provider: "openai", Status: resp.StatusCode, Body: string(errBody)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return chatResp.Choices[0].Message.Content, nil
}
