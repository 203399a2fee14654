package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/wellness-service/internal/insights"
	"github.com/Dan9191/wellness-service/internal/middleware"
	"github.com/Dan9191/wellness-service/internal/models"
	"github.com/Dan9191/wellness-service/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// ScenarioService is the scenario behaviour the handlers need
type ScenarioService interface {
	GetScenarios(ctx context.Context, userID int64) ([]*models.Scenario, error)
	GetScenario(ctx context.Context, userID int64, id string) (*models.Scenario, error)
	UpdateParameter(ctx context.Context, userID int64, id, parameter string, value float64) (*models.Scenario, error)
	Save(ctx context.Context, userID int64) error
	Reset(ctx context.Context, userID int64) ([]*models.Scenario, error)
	Dashboard(ctx context.Context, userID int64) (*models.DashboardSummary, error)
}

// AuthService is the account behaviour the handlers need
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// InsightSource supplies the insight library
type InsightSource interface {
	Insights() ([]models.Insight, error)
}

type Handler struct {
	scenarios ScenarioService
	auth      AuthService
	library   InsightSource
	rates     service.KeyRateProvider
	log       *logrus.Logger
}

func NewHandler(scenarios ScenarioService, auth AuthService, library InsightSource, rates service.KeyRateProvider, log *logrus.Logger) *Handler {
	return &Handler{scenarios: scenarios, auth: auth, library: library, rates: rates, log: log}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type parameterUpdateRequest struct {
	Parameter string   `json:"parameter"`
	Value     *float64 `json:"value"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ListScenarios returns the three scenarios of the authenticated user
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	scenarios, err := h.scenarios.GetScenarios(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, scenarios)
}

// GetScenario returns one scenario of the authenticated user
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	sc, err := h.scenarios.GetScenario(r.Context(), userID, mux.Vars(r)["type"])
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sc)
}

// UpdateParameter applies one parameter change and returns the updated scenario
func (h *Handler) UpdateParameter(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req parameterUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Parameter == "" || req.Value == nil {
		h.writeError(w, http.StatusBadRequest, "parameter and value are required")
		return
	}
	sc, err := h.scenarios.UpdateParameter(r.Context(), userID, mux.Vars(r)["type"], req.Parameter, *req.Value)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sc)
}

// SaveScenarios persists the authenticated user's scenarios
func (h *Handler) SaveScenarios(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := h.scenarios.Save(r.Context(), userID); err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// ResetScenarios restores the seed scenarios for the authenticated user
func (h *Handler) ResetScenarios(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	scenarios, err := h.scenarios.Reset(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, scenarios)
}

// Dashboard returns the financial health summary
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	summary, err := h.scenarios.Dashboard(r.Context(), userID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// ListInsights filters and sorts the insight library
func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := insights.ParseQuery(q.Get("category"), q.Get("q"), q.Get("sort"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	items, err := h.library.Insights()
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, insights.Filter(items, query))
}

// KeyRate returns the current central bank key rate
func (h *Handler) KeyRate(w http.ResponseWriter, r *http.Request) {
	rate, err := h.rates.GetKeyRate(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to get key rate")
		h.writeError(w, http.StatusBadGateway, "key rate unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"key_rate": rate})
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "unauthenticated")
	}
	return id, ok
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidScenario):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidParameter),
		errors.Is(err, service.ErrOutOfRange),
		errors.Is(err, service.ErrInvalidUser):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, err.Error())
	default:
		h.log.WithError(err).Error("Request failed")
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("Failed to encode response")
	}
}
