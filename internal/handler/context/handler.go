package context

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/PetarSt98/SmartAllies/internal/model/incident"
	"github.com/PetarSt98/SmartAllies/pkg/utils"
)

// Handler is a thin surface over the shared conversation-context store. The
// intake workflow that classifies incidents lives outside this service; this
// handler lets it (and integration setups) seed and inspect contexts.
type Handler struct {
	store incident.ContextStore
}

// New creates a context handler.
func New(store incident.ContextStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the context routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/{sessionID}", h.handleGet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID    string            `json:"sessionId"`
		Message      string            `json:"message"`
		IncidentType incident.Type     `json:"incidentType"`
		Fields       map[string]string `json:"fields"`
		ImageURL     string            `json:"imageUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	if payload.SessionID == "" {
		payload.SessionID = uuid.NewString()
	}
	if payload.Fields == nil {
		payload.Fields = make(map[string]string)
	}

	ictx := &incident.Context{
		SessionID:       payload.SessionID,
		InitialMessage:  payload.Message,
		IncidentType:    payload.IncidentType,
		CollectedFields: payload.Fields,
		ImageURL:        payload.ImageURL,
		WorkflowState:   incident.StateGreeting,
	}
	h.store.UpdateContext(ictx)

	utils.RespondJSON(w, http.StatusCreated, ictx)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	ictx, ok := h.store.GetContext(sessionID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "context not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, ictx)
}
