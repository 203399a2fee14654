// Package engine derives the displayed financial metrics of a scenario from
// its parameters. Every function is pure: no validation, no I/O.
package engine

import (
	"math"

	"github.com/Dan9191/wellness-service/internal/models"
)

// Baseline values of the unmodified current scenario
const (
	BaseSavings     = 850.0
	BaseHealth      = 68.0
	BaseGoal        = 75.0
	BaseTimeline    = 24.0
	BaselineSavings = 850.0
)

// neutralSavingsRate is the savings rate at which no rate bonus applies
const neutralSavingsRate = 15.0

// round rounds half up toward positive infinity.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// MonthlySavings returns the projected monthly savings in whole currency units, never negative
func MonthlySavings(p models.ScenarioParameters) int {
	incomeEffect := (p.IncomeChange / 100) * BaseSavings
	expenseEffect := -(p.ExpenseChange / 100) * BaseSavings
	rateEffect := (p.SavingsRate - neutralSavingsRate) * 20
	result := BaseSavings + incomeEffect + expenseEffect + rateEffect
	return max(0, round(result))
}

// HealthIndex returns the composite wellness score, capped at 100.
// Every bonus is gated at zero so the score never drops below BaseHealth.
func HealthIndex(p models.ScenarioParameters) int {
	incomeBonus := math.Max(0, p.IncomeChange) * 0.3
	expenseBonus := math.Max(0, -p.ExpenseChange) * 0.4
	savingsBonus := math.Max(0, p.SavingsRate-neutralSavingsRate) * 0.8
	result := BaseHealth + incomeBonus + expenseBonus + savingsBonus
	return min(100, round(result))
}

// GoalAchievement returns the goal achievement percentage clamped to [0, 100]
func GoalAchievement(p models.ScenarioParameters) int {
	timelineEffect := (BaseTimeline - p.GoalTimeline) * 1.2
	savingsEffect := (p.SavingsRate - neutralSavingsRate) * 1.5
	result := BaseGoal + timelineEffect + savingsEffect
	return min(100, max(0, round(result)))
}

// TimeToGoal returns the months needed to reach the goal, at least 1
func TimeToGoal(goalAchievement int) int {
	return max(1, round(36-(float64(goalAchievement)/100)*24))
}

// Improvement returns the signed percentage change of savings over the baseline
func Improvement(monthlySavings int) float64 {
	return ((float64(monthlySavings) - BaselineSavings) / BaselineSavings) * 100
}

// Recompute refreshes every derived field of s from its parameters.
// TimeToGoal and Improvement read the freshly computed goal and savings.
func Recompute(s *models.Scenario) {
	s.MonthlySavings = MonthlySavings(s.Parameters)
	s.OverallHealthIndex = HealthIndex(s.Parameters)
	s.GoalAchievement = GoalAchievement(s.Parameters)
	s.TimeToGoal = TimeToGoal(s.GoalAchievement)
	s.Improvement = Improvement(s.MonthlySavings)
}

// Apply sets a single parameter on s and recomputes its derived fields
func Apply(s *models.Scenario, name models.ParameterName, value float64) error {
	if err := s.Parameters.Set(name, value); err != nil {
		return err
	}
	Recompute(s)
	return nil
}
