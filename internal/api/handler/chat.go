package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/api/response"
	"github.com/lunaryss/tarot-ai/internal/service"
)

// ChatHandler handles conversation endpoints.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type createConversationRequest struct {
	SessionID *uuid.UUID `json:"session_id,omitempty"`
	Title     string     `json:"title"`
}

// Create starts a new conversation and makes it active.
func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "invalid request body")
			return
		}
	}

	conv, err := h.chatService.CreateConversation(r.Context(), req.SessionID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, conv)
}

// Load makes an existing conversation active and returns its messages.
func (h *ChatHandler) Load(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "conversationID")
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}

	conv, messages, err := h.chatService.LoadConversation(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]any{
		"conversation": conv,
		"messages":     messages,
	})
}

type sendMessageRequest struct {
	Content  string `json:"content" validate:"required"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Send appends a user turn and returns the generated reply.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	msg, err := h.chatService.SendMessage(r.Context(), req.Content, req.Provider, req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, msg)
}

// Close clears the active conversation without deleting it.
func (h *ChatHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.chatService.CloseConversation()
	response.NoContent(w)
}

// DeleteMessage removes a single message.
func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "messageID")
	if err != nil {
		response.BadRequest(w, "invalid message ID")
		return
	}
	if err := h.chatService.DeleteMessage(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}

// Delete removes a conversation and its messages.
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "conversationID")
	if err != nil {
		response.BadRequest(w, "invalid conversation ID")
		return
	}
	if err := h.chatService.DeleteConversation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	response.NoContent(w)
}
