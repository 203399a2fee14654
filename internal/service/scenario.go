package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Dan9191/wellness-service/internal/engine"
	"github.com/Dan9191/wellness-service/internal/fixtures"
	"github.com/Dan9191/wellness-service/internal/metrics"
	"github.com/Dan9191/wellness-service/internal/models"
	"github.com/Dan9191/wellness-service/internal/repository"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidScenario  = errors.New("invalid scenario")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrOutOfRange       = errors.New("value out of range")
)

// KeyRateProvider supplies the reference interest rate shown on the dashboard
type KeyRateProvider interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

// session holds one user's scenarios. Updates to a session are serialized.
type session struct {
	mu        sync.Mutex
	scenarios models.ScenarioSet
}

// ScenarioService manages per-user scenario sessions
type ScenarioService struct {
	seed  fixtures.Provider
	store repository.ScenarioStore
	rates KeyRateProvider
	log   *logrus.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewScenarioService initializes the scenario service. rates may be nil.
func NewScenarioService(seed fixtures.Provider, store repository.ScenarioStore, rates KeyRateProvider, log *logrus.Logger) *ScenarioService {
	return &ScenarioService{
		seed:     seed,
		store:    store,
		rates:    rates,
		log:      log,
		sessions: make(map[int64]*session),
	}
}

// session returns the user's session, creating it from the saved snapshot or
// the seed fixtures on first access
func (s *ScenarioService) session(ctx context.Context, userID int64) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess, nil
	}

	set, err := s.store.LoadScenarios(ctx, userID)
	switch {
	case err == nil:
		// Derived fields are recomputed rather than trusted from storage.
		for _, sc := range set {
			engine.Recompute(sc)
		}
		s.log.WithField("user_id", userID).Debug("Restored scenarios from snapshot")
	case errors.Is(err, repository.ErrNotFound):
		set, err = s.seed.Scenarios()
		if err != nil {
			return nil, fmt.Errorf("failed to seed scenarios: %w", err)
		}
	default:
		return nil, err
	}

	sess := &session{scenarios: set}
	s.sessions[userID] = sess
	return sess, nil
}

// GetScenarios returns a copy of all three scenarios of the user in display order
func (s *ScenarioService) GetScenarios(ctx context.Context, userID int64) ([]*models.Scenario, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.scenarios.Clone().Ordered(), nil
}

// GetScenario returns a copy of one scenario of the user
func (s *ScenarioService) GetScenario(ctx context.Context, userID int64, id string) (*models.Scenario, error) {
	t, err := models.ParseScenarioType(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.scenarios[t].Clone(), nil
}

// UpdateParameter applies a single parameter change to one scenario and
// returns the updated record. Unknown identifiers and out-of-range values are
// rejected without touching the scenario.
func (s *ScenarioService) UpdateParameter(ctx context.Context, userID int64, id, parameter string, value float64) (*models.Scenario, error) {
	t, err := models.ParseScenarioType(id)
	if err != nil {
		metrics.ParameterRejections.WithLabelValues("scenario").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	name, err := models.ParseParameterName(parameter)
	if err != nil {
		metrics.ParameterRejections.WithLabelValues("parameter").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	lo, hi, _ := name.Range()
	if math.IsNaN(value) || value < lo || value > hi {
		metrics.ParameterRejections.WithLabelValues("range").Inc()
		return nil, fmt.Errorf("%w: %s must be within [%g, %g], got %g", ErrOutOfRange, name, lo, hi, value)
	}

	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sc := sess.scenarios[t]
	if err := engine.Apply(sc, name, value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	metrics.ParameterUpdates.WithLabelValues(string(t), string(name)).Inc()

	s.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"scenario":  t,
		"parameter": name,
		"value":     value,
	}).Debug("Scenario parameter updated")
	return sc.Clone(), nil
}

// Save writes the user's three scenarios to the snapshot store
func (s *ScenarioService) Save(ctx context.Context, userID int64) error {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	snapshot := sess.scenarios.Clone()
	sess.mu.Unlock()

	if err := s.store.SaveScenarios(ctx, userID, snapshot); err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to save scenarios: %w", err)
	}
	metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	s.log.Infof("Scenarios saved for user %d", userID)
	return nil
}

// Reset discards the user's edits and restores the seed scenarios in memory
func (s *ScenarioService) Reset(ctx context.Context, userID int64) ([]*models.Scenario, error) {
	set, err := s.seed.Scenarios()
	if err != nil {
		return nil, fmt.Errorf("failed to seed scenarios: %w", err)
	}

	s.mu.Lock()
	s.sessions[userID] = &session{scenarios: set}
	s.mu.Unlock()

	s.log.Infof("Scenarios reset for user %d", userID)
	return set.Clone().Ordered(), nil
}

// Dashboard summarizes the user's current scenario against the best alternative
func (s *ScenarioService) Dashboard(ctx context.Context, userID int64) (*models.DashboardSummary, error) {
	scenarios, err := s.GetScenarios(ctx, userID)
	if err != nil {
		return nil, err
	}

	var current, best *models.Scenario
	for _, sc := range scenarios {
		if sc.Type == models.ScenarioCurrent {
			current = sc
		}
		if best == nil || sc.OverallHealthIndex > best.OverallHealthIndex ||
			(sc.OverallHealthIndex == best.OverallHealthIndex && sc.MonthlySavings > best.MonthlySavings) {
			best = sc
		}
	}

	summary := &models.DashboardSummary{
		HealthIndex:     current.OverallHealthIndex,
		MonthlySavings:  current.MonthlySavings,
		GoalAchievement: current.GoalAchievement,
		TimeToGoal:      current.TimeToGoal,
		BestScenario:    best.Type,
		SavingsUpside:   max(0, best.MonthlySavings-current.MonthlySavings),
	}

	if s.rates != nil {
		rate, err := s.rates.GetKeyRate(ctx)
		if err != nil {
			s.log.WithError(err).Warn("Key rate unavailable, dashboard served without it")
		} else {
			summary.KeyRate = &rate
		}
	}
	return summary, nil
}
