package llm

import (
	"context"

	"github.com/lunaryss/tarot-ai/internal/domain"
)

// ChatTurn is one prior exchange entry passed as generation context.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ReadingRequest contains everything needed to interpret a completed
// spread.
type ReadingRequest struct {
	Cards      []domain.DrawnCard
	SpreadName string
	Question   string
	Model      string
}

// ChatRequest contains a conversational turn plus optional context.
// History is additionally capped to the most recent 10 turns by the
// prompt builder, independent of any windowing the caller applies.
type ChatRequest struct {
	Message     string
	Context     string
	History     []ChatTurn
	CardContext string
	Model       string
}

// Provider defines the interface for text generators.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// AvailableModels returns list of supported models.
	AvailableModels() []string

	// DefaultModel returns the default model.
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials.
	IsConfigured() bool

	// GenerateReading interprets a completed spread.
	GenerateReading(ctx context.Context, req ReadingRequest) (string, error)

	// GenerateChatResponse answers one conversational turn.
	GenerateChatResponse(ctx context.Context, req ChatRequest) (string, error)
}
