package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/api/response"
	"github.com/lunaryss/tarot-ai/internal/service"
)

// HistoryHandler handles saved-history endpoints.
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// ListSessions returns saved game sessions, newest first.
func (h *HistoryHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.historyService.RecentSessions(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]any{"sessions": sessions})
}

// ListConversations returns conversations by last activity, optionally
// filtered to one game session via ?session_id=.
func (h *HistoryHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("session_id"); raw != "" {
		sessionID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "invalid session ID")
			return
		}
		conversations, err := h.historyService.SessionConversations(r.Context(), sessionID)
		if err != nil {
			writeError(w, err)
			return
		}
		response.OK(w, map[string]any{"conversations": conversations})
		return
	}

	conversations, err := h.historyService.RecentConversations(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]any{"conversations": conversations})
}

// GetSession returns one saved game session.
func (h *HistoryHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	sess, err := h.historyService.Session(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, sess)
}

// SessionConversations returns the conversations linked to one session.
func (h *HistoryHandler) SessionConversations(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	conversations, err := h.historyService.SessionConversations(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]any{"conversations": conversations})
}

// ConversationMessages returns a conversation's messages in order.
func (h *HistoryHandler) ConversationMessages(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "conversationID")
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}
	messages, err := h.historyService.ConversationMessages(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]any{"messages": messages})
}

// DeleteSession cascade-deletes a saved session.
func (h *HistoryHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "sessionID")
	if err != nil {
		response.BadRequest(w, "invalid session ID")
		return
	}
	if err := h.historyService.DeleteSession(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// Search finds sessions and conversations matching a query string.
func (h *HistoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.historyService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, results)
}

// Statistics summarizes the saved history.
func (h *HistoryHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.historyService.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, stats)
}

// Export returns the whole history as a portable document.
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.historyService.Export(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="tarot-history.json"`)
	response.OK(w, data)
}

// Import merges a previously exported document into the store.
func (h *HistoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	var data service.ExportData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		response.BadRequest(w, "invalid import payload")
		return
	}
	stats, err := h.historyService.Import(r.Context(), &data)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.OK(w, stats)
}

// Clear wipes the entire history.
func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.historyService.ClearAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
