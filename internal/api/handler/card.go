package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lunaryss/tarot-ai/internal/api/response"
	"github.com/lunaryss/tarot-ai/internal/deck"
)

// ListCards returns the full 78-card catalog.
func ListCards(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"cards": deck.AllCards(),
		"total": deck.DeckSize,
	})
}

// GetCard returns one card by id.
func GetCard(w http.ResponseWriter, r *http.Request) {
	card, ok := deck.CardByID(chi.URLParam(r, "cardID"))
	if !ok {
		response.NotFound(w, "card not found")
		return
	}
	response.OK(w, card)
}
