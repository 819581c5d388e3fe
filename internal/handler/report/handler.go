package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/PetarSt98/SmartAllies/internal/model/incident"
	reportService "github.com/PetarSt98/SmartAllies/internal/service/report"
	"github.com/PetarSt98/SmartAllies/pkg/utils"
)

// Handler exposes the report store over HTTP.
type Handler struct {
	svc *reportService.Service
}

// New creates a report handler.
func New(svc *reportService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/submit", h.handleSubmit)
	r.Get("/", h.handleList)
	r.Get("/{reportID}", h.handleGet)
	r.Put("/{reportID}/status", h.handleUpdateStatus)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload reportService.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	rep, err := h.svc.Submit(r.Context(), payload)
	if err != nil {
		if errors.Is(err, reportService.ErrContextNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.svc.List())
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")

	rep, ok := h.svc.Get(reportID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "report not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, rep)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportID")
	status := incident.ReportStatus(r.URL.Query().Get("status"))
	if status == "" {
		utils.RespondError(w, http.StatusBadRequest, "status query parameter is required")
		return
	}

	rep, err := h.svc.UpdateStatus(reportID, status)
	if err != nil {
		if errors.Is(err, reportService.ErrReportNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, rep)
}
