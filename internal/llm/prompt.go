package llm

import (
	"fmt"
	"strings"
)

// readerPersona is the fixed system prompt for spread interpretation.
const readerPersona = "You are a professional tarot reader with deep knowledge of the cards " +
	"and years of reading experience. Speak in a warm, professional tone, avoid absolute " +
	"predictions, and focus on constructive, empowering guidance."

// chatPersona extends the reader role for free-form conversation.
const chatPersona = "You are a professional tarot reader and spiritual mentor with deep " +
	"knowledge of the tarot, psychological insight and broad life experience. Converse in a " +
	"warm, understanding and supportive tone, offer practical guidance, avoid absolute " +
	"predictions, and help the user find their own inner wisdom."

// maxHistoryTurns caps the conversation history the generator accepts,
// regardless of how much the caller passes in.
const maxHistoryTurns = 10

// orientationLabel renders a card's orientation for prompts.
func orientationLabel(reversed bool) string {
	if reversed {
		return "reversed"
	}
	return "upright"
}

// BuildCardContext renders a deterministic textual summary of a spread's
// drawn cards, used both to seed readings and as chat context. Identical
// input always yields identical output.
func BuildCardContext(req ReadingRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "These are the tarot cards the user has drawn.\n\nSpread: %s\n\n", req.SpreadName)
	for i, dc := range req.Cards {
		fmt.Fprintf(&b, "%d. Position %q: %s (%s)\n", i+1, dc.PositionID, dc.Card.Name, orientationLabel(dc.IsReversed))
		fmt.Fprintf(&b, "   Meaning: %s\n", dc.Card.Meaning(dc.IsReversed))
		fmt.Fprintf(&b, "   Keywords: %s\n\n", strings.Join(dc.Card.Keywords, ", "))
	}
	return b.String()
}

// BuildReadingPrompt composes the user prompt for a full spread
// interpretation.
func BuildReadingPrompt(req ReadingRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a professional tarot reader, give a detailed interpretation of this %s:\n\n", req.SpreadName)
	for i, dc := range req.Cards {
		fmt.Fprintf(&b, "%d. Position %q: %s (%s)\n", i+1, dc.PositionID, dc.Card.Name, orientationLabel(dc.IsReversed))
		fmt.Fprintf(&b, "   Meaning: %s\n", dc.Card.Meaning(dc.IsReversed))
		fmt.Fprintf(&b, "   Keywords: %s\n\n", strings.Join(dc.Card.Keywords, ", "))
	}
	if req.Question != "" {
		fmt.Fprintf(&b, "The user's question: %s\n\n", req.Question)
	}
	b.WriteString(`Please provide:
1. An overall interpretation and guidance
2. How the cards relate to one another
3. Specific guidance for the user's question, if one was asked
4. Practical suggestions for action

Use a warm, professional tone, avoid absolute predictions, and focus on positive guidance.`)
	return b.String()
}

// BuildReadingMessages assembles the message sequence for a reading call.
func BuildReadingMessages(req ReadingRequest) []ChatTurn {
	return []ChatTurn{
		{Role: "system", Content: readerPersona},
		{Role: "user", Content: BuildReadingPrompt(req)},
	}
}

// BuildChatMessages assembles the message sequence for a conversational
// turn: persona (extended with card context when present), the most
// recent history turns, then the new user content.
func BuildChatMessages(req ChatRequest) []ChatTurn {
	system := chatPersona
	if req.CardContext != "" {
		system += "\n\nCurrent spread on the table:\n" + req.CardContext +
			"\n\nGround your interpretation and guidance in these cards."
	}

	msgs := []ChatTurn{{Role: "system", Content: system}}

	history := req.History
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	msgs = append(msgs, history...)

	content := req.Message
	if req.Context != "" {
		content = req.Context + "\n\nUser message: " + req.Message
	}
	return append(msgs, ChatTurn{Role: "user", Content: content})
}
