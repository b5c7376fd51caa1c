package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lunaryss/tarot-ai/internal/api/response"
	"github.com/lunaryss/tarot-ai/internal/deck"
)

// ListSpreads returns all available spreads.
func ListSpreads(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"spreads": deck.AllSpreads(),
	})
}

// GetSpread returns one spread by id.
func GetSpread(w http.ResponseWriter, r *http.Request) {
	spread, ok := deck.SpreadByID(chi.URLParam(r, "spreadID"))
	if !ok {
		response.NotFound(w, "spread not found")
		return
	}
	response.OK(w, spread)
}
