package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lunaryss/tarot-ai/internal/llm"
	"google.golang.org/api/option"
)

// Provider implements llm.Provider for Google Gemini.
type Provider struct {
	apiKey string
	model  string
}

// NewProvider creates a new Gemini provider.
func NewProvider(apiKey, model string) *Provider {
	return &Provider{apiKey: apiKey, model: model}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return "gemini"
}

// AvailableModels returns list of supported models.
func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

// DefaultModel returns the default model.
func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

// IsConfigured checks if provider has valid credentials.
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// GenerateReading interprets a completed spread.
func (p *Provider) GenerateReading(ctx context.Context, req llm.ReadingRequest) (string, error) {
	return p.generate(ctx, req.Model, llm.BuildReadingMessages(req), 0.7)
}

// GenerateChatResponse answers one conversational turn.
func (p *Provider) GenerateChatResponse(ctx context.Context, req llm.ChatRequest) (string, error) {
	return p.generate(ctx, req.Model, llm.BuildChatMessages(req), 0.8)
}

func (p *Provider) generate(ctx context.Context, model string, turns []llm.ChatTurn, temperature float32) (string, error) {
	if !p.IsConfigured() {
		return "", fmt.Errorf("gemini: %w", llm.ErrNotConfigured)
	}
	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	generativeModel.Temperature = &temperature

	// Gemini has no message-array API on GenerateContent; fold the system
	// prompt into the instruction slot and the rest into one prompt.
	var prompt strings.Builder
	for _, t := range turns {
		switch t.Role {
		case "system":
			generativeModel.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(t.Content)},
			}
		case "assistant":
			fmt.Fprintf(&prompt, "Reader: %s\n\n", t.Content)
		default:
			fmt.Fprintf(&prompt, "User: %s\n\n", t.Content)
		}
	}

	resp, err := generativeModel.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output.WriteString(string(text))
		}
	}
	return output.String(), nil
}
