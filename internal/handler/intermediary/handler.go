package intermediary

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	intermediaryService "github.com/PetarSt98/SmartAllies/internal/service/intermediary"
	"github.com/PetarSt98/SmartAllies/internal/service/reasoning"
	"github.com/PetarSt98/SmartAllies/pkg/utils"
)

// Handler exposes one intermediary service (HR or samaritan) over HTTP.
type Handler struct {
	svc *intermediaryService.Service
}

// New creates an intermediary handler.
func New(svc *intermediaryService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the connect/message/session routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/connect", h.handleConnect)
	r.Post("/message", h.handleMessage)
	r.Get("/session/{sessionID}", h.handleGetSession)
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	result, err := h.svc.Connect(r.Context(), payload.SessionID)
	if err != nil {
		if errors.Is(err, intermediaryService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"sessionId"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" || payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId and message are required")
		return
	}

	result, err := h.svc.SendMessage(r.Context(), payload.SessionID, payload.Message)
	if err != nil {
		utils.RespondError(w, statusForChatError(err), err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, ok := h.svc.GetSession(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, session)
}

// statusForChatError maps turn failures: precondition violations are client
// errors, reasoning outages surface as a bad gateway so callers retry.
func statusForChatError(err error) int {
	switch {
	case errors.Is(err, intermediaryService.ErrNoActiveSession):
		return http.StatusBadRequest
	case errors.Is(err, reasoning.ErrUnavailable), errors.Is(err, reasoning.ErrMalformedOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
