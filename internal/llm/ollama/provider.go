package ollama

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

// Provider implements llm.Provider for a local Ollama instance.
type Provider struct {
	host         string
	defaultModel string
	client       *http.Client
}

// NewProvider creates a new Ollama provider.
func NewProvider(host, defaultModel string, timeout time.Duration) llm.Provider {
	if defaultModel == "" {
		defaultModel = "llama3"
	}
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	return &Provider{
		host:         host,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "ollama"
}

// AvailableModels returns list of supported models.
func (p *Provider) AvailableModels() []string {
	return []string{
		"llama3",
		"llama3.1",
		"llama3.2",
		"mistral",
		"mixtral",
		"qwen2",
	}
}

// DefaultModel returns the default model.
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials.
func (p *Provider) IsConfigured() bool {
	return p.host != ""
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// GenerateReading interprets a completed spread.
func (p *Provider) GenerateReading(ctx context.Context, req llm.ReadingRequest) (string, error) {
	return p.chat(ctx, req.Model, llm.BuildReadingMessages(req), 0.7)
}

// GenerateChatResponse answers one conversational turn.
func (p *Provider) GenerateChatResponse(ctx context.Context, req llm.ChatRequest) (string, error) {
	return p.chat(ctx, req.Model, llm.BuildChatMessages(req), 0.8)
}

func (p *Provider) chat(ctx context.Context, model string, turns []llm.ChatTurn, temperature float64) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("ollama: %w", llm.ErrNotConfigured)
	}
	if model == "" {
		model = p.defaultModel
	}

	messages := make([]ollamaMessage, len(turns))
	for i, t := range turns {
		messages[i] = ollamaMessage{Role: t.Role, Content: t.Content}
	}

	body, err := json.Marshal(ollamaRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options:  map[string]any{"temperature": temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &llm.RequestError{Provider: "ollama", Status: resp.StatusCode, Body: string(errBody)}
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return ollamaResp.Message.Content, nil
}
