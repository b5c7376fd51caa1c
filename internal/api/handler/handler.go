package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/api/response"
	"github.com/lunaryss/tarot-ai/internal/domain"
	"github.com/lunaryss/tarot-ai/internal/llm"
)

var validate = validator.New()

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, domain.ErrInvalidPosition),
		errors.Is(err, domain.ErrNoSpread),
		errors.Is(err, domain.ErrNoActiveConversation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrDeckEmpty),
		errors.Is(err, domain.ErrReadingNotReady),
		errors.Is(err, domain.ErrSendInProgress):
		response.Conflict(w, err.Error())
	case errors.Is(err, llm.ErrNotConfigured):
		response.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		if reqErr, ok := llm.AsRequestError(err); ok {
			response.Error(w, http.StatusBadGateway, reqErr.Error())
			return
		}
		response.InternalError(w, err.Error())
	}
}

// pathUUID parses a uuid URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
