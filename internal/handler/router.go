package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	contextHandler "github.com/PetarSt98/SmartAllies/internal/handler/context"
	intermediaryHandler "github.com/PetarSt98/SmartAllies/internal/handler/intermediary"
	reportHandler "github.com/PetarSt98/SmartAllies/internal/handler/report"
	middlewarePkg "github.com/PetarSt98/SmartAllies/internal/middleware"
	"github.com/PetarSt98/SmartAllies/internal/model/incident"
	intermediaryService "github.com/PetarSt98/SmartAllies/internal/service/intermediary"
	reportService "github.com/PetarSt98/SmartAllies/internal/service/report"
	"github.com/PetarSt98/SmartAllies/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(contexts incident.ContextStore, hrSvc, samaritanSvc *intermediaryService.Service, reportSvc *reportService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	hr := intermediaryHandler.New(hrSvc)
	hrSocket := intermediaryHandler.NewWebSocketHandler(hrSvc)
	samaritan := intermediaryHandler.New(samaritanSvc)
	samaritanSocket := intermediaryHandler.NewWebSocketHandler(samaritanSvc)
	reports := reportHandler.New(reportSvc)
	ctxHandler := contextHandler.New(contexts)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		api.Route("/hr", func(sub chi.Router) {
			hr.RegisterRoutes(sub)
			hrSocket.RegisterWebSocketRoutes(sub)
		})

		api.Route("/samaritan", func(sub chi.Router) {
			samaritan.RegisterRoutes(sub)
			samaritanSocket.RegisterWebSocketRoutes(sub)
		})

		api.Route("/reports", func(sub chi.Router) {
			reports.RegisterRoutes(sub)
		})

		api.Route("/context", func(sub chi.Router) {
			ctxHandler.RegisterRoutes(sub)
		})
	})

	return r
}
