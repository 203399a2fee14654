package models

// DashboardSummary represents the financial health overview of a user
type DashboardSummary struct {
	HealthIndex     int          `json:"health_index"`
	MonthlySavings  int          `json:"monthly_savings"`
	GoalAchievement int          `json:"goal_achievement"`
	TimeToGoal      int          `json:"time_to_goal"`
	BestScenario    ScenarioType `json:"best_scenario"`
	// Potential savings gain of the best scenario over current, per month
	SavingsUpside int      `json:"savings_upside"`
	KeyRate       *float64 `json:"key_rate,omitempty"`
}
