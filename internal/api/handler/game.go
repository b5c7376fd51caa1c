package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lunaryss/tarot-ai/internal/api/response"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/lunaryss/tarot-ai/internal/service"
)

// GameHandler handles game session endpoints.
type GameHandler struct {
	gameService *service.GameService
}

// NewGameHandler creates a new game handler.
func NewGameHandler(gameService *service.GameService) *GameHandler {
	return &GameHandler{gameService: gameService}
}

type startSessionRequest struct {
	SpreadID string `json:"spread_id" validate:"required"`
}

// Start creates a session for the requested spread.
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	state, err := h.gameService.StartSession(r.Context(), req.SpreadID)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, state)
}

// Get returns the current session state.
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.GetSession(id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Shuffle reshuffles the remaining deck.
func (h *GameHandler) Shuffle(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.ShuffleDeck(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Draw places the top card into a position. Drawing into an occupied
// position is idempotent: the unchanged state comes back with 200.
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.DrawCard(r.Context(), id, chi.URLParam(r, "positionID"))
	if err != nil && !errors.Is(err, domain.ErrPositionOccupied) {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Remove returns a position's card to the deck.
func (h *GameHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.RemoveCard(r.Context(), id, chi.URLParam(r, "positionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Cut takes a position's card out of play for the rest of the session.
func (h *GameHandler) Cut(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.CutCard(r.Context(), id, chi.URLParam(r, "positionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Reverse flips a placed card's orientation.
func (h *GameHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.ToggleReverse(r.Context(), id, chi.URLParam(r, "positionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Reveal turns a placed card face up.
func (h *GameHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.RevealCard(id, chi.URLParam(r, "positionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// RevealAll turns every placed card face up.
func (h *GameHandler) RevealAll(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.RevealAll(id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// HideAll turns every placed card face down.
func (h *GameHandler) HideAll(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.HideAll(id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

type generateReadingRequest struct {
	Question string `json:"question"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Reading generates an interpretation for the completed spread.
func (h *GameHandler) Reading(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}

	var req generateReadingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body")
			return
		}
	}

	state, err := h.gameService.GenerateReading(r.Context(), id, req.Question, req.Provider, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Save persists the session regardless of the history setting.
func (h *GameHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.SaveSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Load rehydrates a saved session into the live registry.
func (h *GameHandler) Load(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	state, err := h.gameService.LoadSession(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, state)
}

// Reset discards the session.
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	h.gameService.ResetSession(r.Context(), id)
	response.NoContent(w)
}
