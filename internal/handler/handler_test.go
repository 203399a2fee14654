package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dan9191/wellness-service/internal/fixtures"
	"github.com/Dan9191/wellness-service/internal/models"
	"github.com/Dan9191/wellness-service/internal/repository"
	"github.com/Dan9191/wellness-service/internal/service"
	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "handler-secret"

// ==========================
// Test Helper Functions
// ==========================

type stubAuth struct{}

func (stubAuth) Register(_ context.Context, username, email, password string) (*models.User, error) {
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password too short", service.ErrInvalidUser)
	}
	return &models.User{ID: 1, Username: username, Email: email}, nil
}

func (stubAuth) Login(_ context.Context, email, password string) (string, error) {
	if password != "correct horse" {
		return "", service.ErrInvalidCredentials
	}
	return "token-for-" + email, nil
}

type stubRates struct {
	rate float64
	err  error
}

func (s stubRates) GetKeyRate(context.Context) (float64, error) {
	return s.rate, s.err
}

type testEnv struct {
	router http.Handler
	redis  *miniredis.Miniredis
}

func newTestEnv(t *testing.T, rates stubRates) *testEnv {
	log := logrus.New()
	log.SetOutput(io.Discard)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	seed, err := fixtures.NewDefaultProvider()
	require.NoError(t, err)
	store := repository.NewRedisStore(client, "snapshot-secret", time.Hour)
	scenarios := service.NewScenarioService(seed, store, rates, log)

	h := NewHandler(scenarios, stubAuth{}, seed, rates, log)
	return &testEnv{router: NewRouter(h, testJWTSecret), redis: mr}
}

func bearer(t *testing.T, userID int64) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (e *testEnv) do(t *testing.T, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// ==========================
// Core Functionality Tests
// ==========================

func TestListScenarios(t *testing.T) {
	env := newTestEnv(t, stubRates{})
	rec := env.do(t, http.MethodGet, "/scenarios", bearer(t, 1), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	scenarios := decode[[]models.Scenario](t, rec)
	require.Len(t, scenarios, 3)
	assert.Equal(t, models.ScenarioCurrent, scenarios[0].Type)
	assert.Equal(t, 1348, scenarios[1].MonthlySavings)
}

func TestUpdateParameter(t *testing.T) {
	env := newTestEnv(t, stubRates{})
	auth := bearer(t, 1)

	rec := env.do(t, http.MethodPatch, "/scenarios/optimistic/parameters", auth,
		map[string]interface{}{"parameter": "savingsRate", "value": 15})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	sc := decode[models.Scenario](t, rec)
	assert.Equal(t, models.ScenarioOptimistic, sc.Type)
	assert.Equal(t, 15.0, sc.Parameters.SavingsRate)
	assert.Equal(t, 1148, sc.MonthlySavings)

	rec = env.do(t, http.MethodGet, "/scenarios/optimistic", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1148, decode[models.Scenario](t, rec).MonthlySavings)
}

func TestUpdateParameter_Errors(t *testing.T) {
	env := newTestEnv(t, stubRates{})
	auth := bearer(t, 1)

	tests := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"unknown scenario", "/scenarios/pessimistic/parameters", map[string]interface{}{"parameter": "savingsRate", "value": 10}, http.StatusNotFound},
		{"unknown parameter", "/scenarios/current/parameters", map[string]interface{}{"parameter": "bonus", "value": 10}, http.StatusBadRequest},
		{"out of range", "/scenarios/current/parameters", map[string]interface{}{"parameter": "goalTimeline", "value": 61}, http.StatusBadRequest},
		{"missing value", "/scenarios/current/parameters", map[string]interface{}{"parameter": "savingsRate"}, http.StatusBadRequest},
		{"malformed body", "/scenarios/current/parameters", "not an object", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPatch, tt.path, auth, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, stubRates{})

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"})
	forged, err := other.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	for _, auth := range []string{"", "Bearer ", "Basic abc", "Bearer " + forged} {
		rec := env.do(t, http.MethodGet, "/scenarios", auth, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "auth=%q", auth)
	}
}

func TestSaveAndReset(t *testing.T) {
	env := newTestEnv(t, stubRates{})
	auth := bearer(t, 42)

	rec := env.do(t, http.MethodPatch, "/scenarios/current/parameters", auth,
		map[string]interface{}{"parameter": "expenseChange", "value": -20})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/scenarios/save", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, env.redis.Exists("scenarios:42"))

	rec = env.do(t, http.MethodPost, "/scenarios/reset", auth, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	scenarios := decode[[]models.Scenario](t, rec)
	assert.Equal(t, 0.0, scenarios[0].Parameters.ExpenseChange)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, stubRates{rate: 16})
	rec := env.do(t, http.MethodGet, "/dashboard", bearer(t, 1), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[models.DashboardSummary](t, rec)
	assert.Equal(t, 68, summary.HealthIndex)
	assert.Equal(t, models.ScenarioOptimistic, summary.BestScenario)
	require.NotNil(t, summary.KeyRate)
	assert.Equal(t, 16.0, *summary.KeyRate)
}

func TestListInsights(t *testing.T) {
	env := newTestEnv(t, stubRates{})

	rec := env.do(t, http.MethodGet, "/insights?category=decisions&sort=readTime", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]models.Insight](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, "decision-fatigue", items[0].ID)
	assert.Equal(t, "present-bias", items[1].ID)

	rec = env.do(t, http.MethodGet, "/insights?q=dopamine", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items = decode[[]models.Insight](t, rec)
	require.Len(t, items, 1)
	assert.Equal(t, "dopamine-goals", items[0].ID)

	rec = env.do(t, http.MethodGet, "/insights?sort=popular", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKeyRate(t *testing.T) {
	env := newTestEnv(t, stubRates{rate: 21})
	rec := env.do(t, http.MethodGet, "/key-rate", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 21.0, decode[map[string]float64](t, rec)["key_rate"])

	env = newTestEnv(t, stubRates{err: errors.New("soap fault")})
	rec = env.do(t, http.MethodGet, "/key-rate", "", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestAuthRoutes(t *testing.T) {
	env := newTestEnv(t, stubRates{})

	rec := env.do(t, http.MethodPost, "/register", "", map[string]string{"username": "ann", "email": "ann@example.com", "password": "correct horse"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/register", "", map[string]string{"username": "ann", "email": "ann@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ann@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "token-for-ann@example.com", decode[map[string]string](t, rec)["token"])

	rec = env.do(t, http.MethodPost, "/login", "", map[string]string{"email": "ann@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, stubRates{})

	rec := env.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wellness_http_request_duration_seconds")
}
