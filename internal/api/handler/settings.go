package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lunaryss/tarot-ai/internal/api/response"
	"github.com/lunaryss/tarot-ai/internal/llm"
	"github.com/lunaryss/tarot-ai/internal/service"
)

// SettingsHandler exposes the runtime settings and provider catalog.
type SettingsHandler struct {
	settings  *service.Settings
	llmRouter *llm.Router
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settings *service.Settings, llmRouter *llm.Router) *SettingsHandler {
	return &SettingsHandler{settings: settings, llmRouter: llmRouter}
}

// Get returns the current runtime settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.settings.View())
}

// Update applies a partial settings change and returns the result.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var update service.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(update); err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	response.OK(w, h.settings.Apply(update))
}

// ListProviders returns the registered text-generation providers.
func (h *SettingsHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]any{
		"providers":        h.llmRouter.GetProvidersInfo(),
		"default_provider": h.llmRouter.DefaultProvider(),
	})
}
