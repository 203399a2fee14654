package handler

import (
	"net/http"

	"github.com/Dan9191/wellness-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route of the service
func NewRouter(h *Handler, jwtSecret string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(h.log))

	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/insights", h.ListInsights).Methods(http.MethodGet)
	r.HandleFunc("/key-rate", h.KeyRate).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(jwtSecret))
	authRouter.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	authRouter.HandleFunc("/scenarios", h.ListScenarios).Methods(http.MethodGet)
	authRouter.HandleFunc("/scenarios/save", h.SaveScenarios).Methods(http.MethodPost)
	authRouter.HandleFunc("/scenarios/reset", h.ResetScenarios).Methods(http.MethodPost)
	authRouter.HandleFunc("/scenarios/{type}", h.GetScenario).Methods(http.MethodGet)
	authRouter.HandleFunc("/scenarios/{type}/parameters", h.UpdateParameter).Methods(http.MethodPatch)

	return r
}
