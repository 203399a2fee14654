package models

import "fmt"

// ScenarioType identifies one of the three fixed projection variants
type ScenarioType string

const (
	ScenarioCurrent      ScenarioType = "current"
	ScenarioOptimistic   ScenarioType = "optimistic"
	ScenarioConservative ScenarioType = "conservative"
)

// AllScenarioTypes lists the scenario variants in display order
var AllScenarioTypes = []ScenarioType{ScenarioCurrent, ScenarioOptimistic, ScenarioConservative}

// IsValid reports whether t is one of the known scenario variants
func (t ScenarioType) IsValid() bool {
	switch t {
	case ScenarioCurrent, ScenarioOptimistic, ScenarioConservative:
		return true
	}
	return false
}

// ParseScenarioType converts a raw identifier into a ScenarioType
func ParseScenarioType(s string) (ScenarioType, error) {
	t := ScenarioType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown scenario type %q", s)
	}
	return t, nil
}

// ParameterName identifies a single user-adjustable scenario parameter
type ParameterName string

const (
	ParamIncomeChange  ParameterName = "incomeChange"
	ParamExpenseChange ParameterName = "expenseChange"
	ParamSavingsRate   ParameterName = "savingsRate"
	ParamGoalTimeline  ParameterName = "goalTimeline"
	ParamRiskTolerance ParameterName = "riskTolerance"
)

// AllParameterNames lists every adjustable parameter
var AllParameterNames = []ParameterName{
	ParamIncomeChange,
	ParamExpenseChange,
	ParamSavingsRate,
	ParamGoalTimeline,
	ParamRiskTolerance,
}

// ParseParameterName converts a raw name into a ParameterName
func ParseParameterName(s string) (ParameterName, error) {
	p := ParameterName(s)
	if _, _, ok := p.Range(); !ok {
		return "", fmt.Errorf("unknown parameter %q", s)
	}
	return p, nil
}

// Range returns the inclusive bounds accepted for the parameter
func (p ParameterName) Range() (lo, hi float64, ok bool) {
	switch p {
	case ParamIncomeChange:
		return -50, 100, true
	case ParamExpenseChange:
		return -50, 50, true
	case ParamSavingsRate:
		return 0, 50, true
	case ParamGoalTimeline:
		return 1, 60, true
	case ParamRiskTolerance:
		return 0, 100, true
	}
	return 0, 0, false
}

// ScenarioParameters holds the user-editable inputs of a scenario
type ScenarioParameters struct {
	IncomeChange  float64 `json:"incomeChange" yaml:"incomeChange"`   // percent
	ExpenseChange float64 `json:"expenseChange" yaml:"expenseChange"` // percent
	SavingsRate   float64 `json:"savingsRate" yaml:"savingsRate"`     // percent
	GoalTimeline  float64 `json:"goalTimeline" yaml:"goalTimeline"`   // months
	RiskTolerance float64 `json:"riskTolerance" yaml:"riskTolerance"` // percent
}

// Get returns the value of the named parameter
func (p ScenarioParameters) Get(name ParameterName) (float64, error) {
	switch name {
	case ParamIncomeChange:
		return p.IncomeChange, nil
	case ParamExpenseChange:
		return p.ExpenseChange, nil
	case ParamSavingsRate:
		return p.SavingsRate, nil
	case ParamGoalTimeline:
		return p.GoalTimeline, nil
	case ParamRiskTolerance:
		return p.RiskTolerance, nil
	}
	return 0, fmt.Errorf("unknown parameter %q", name)
}

// Set assigns the value of the named parameter
func (p *ScenarioParameters) Set(name ParameterName, value float64) error {
	switch name {
	case ParamIncomeChange:
		p.IncomeChange = value
	case ParamExpenseChange:
		p.ExpenseChange = value
	case ParamSavingsRate:
		p.SavingsRate = value
	case ParamGoalTimeline:
		p.GoalTimeline = value
	case ParamRiskTolerance:
		p.RiskTolerance = value
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}

// Scenario is a financial projection: parameters plus fields derived from them
type Scenario struct {
	Type        ScenarioType       `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  ScenarioParameters `json:"parameters"`

	// Derived, never set independently of Parameters
	MonthlySavings     int     `json:"monthlySavings"`
	OverallHealthIndex int     `json:"overallHealthIndex"`
	GoalAchievement    int     `json:"goalAchievement"`
	TimeToGoal         int     `json:"timeToGoal"`
	Improvement        float64 `json:"improvement"`
}

// Clone returns an independent copy of the scenario
func (s *Scenario) Clone() *Scenario {
	c := *s
	return &c
}

// ScenarioSet maps each scenario variant to its record
type ScenarioSet map[ScenarioType]*Scenario

// Clone returns a deep copy of the set
func (s ScenarioSet) Clone() ScenarioSet {
	out := make(ScenarioSet, len(s))
	for k, v := range s {
		out[k] = v.Clone()
	}
	return out
}

// Ordered returns the scenarios in AllScenarioTypes order, skipping missing ones
func (s ScenarioSet) Ordered() []*Scenario {
	out := make([]*Scenario, 0, len(s))
	for _, t := range AllScenarioTypes {
		if sc, ok := s[t]; ok {
			out = append(out, sc)
		}
	}
	return out
}

// Validate checks that every variant is present and keyed consistently
func (s ScenarioSet) Validate() error {
	for _, t := range AllScenarioTypes {
		sc, ok := s[t]
		if !ok || sc == nil {
			return fmt.Errorf("scenario %q is missing", t)
		}
		if sc.Type != t {
			return fmt.Errorf("scenario keyed %q has type %q", t, sc.Type)
		}
	}
	if len(s) != len(AllScenarioTypes) {
		return fmt.Errorf("expected %d scenarios, got %d", len(AllScenarioTypes), len(s))
	}
	return nil
}
