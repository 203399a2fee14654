package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Dan9191/wellness-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProvider(t *testing.T) {
	p, err := NewDefaultProvider()
	require.NoError(t, err)

	set, err := p.Scenarios()
	require.NoError(t, err)
	require.NoError(t, set.Validate())

	assert.Equal(t, 850, set[models.ScenarioCurrent].MonthlySavings)
	assert.Equal(t, 1348, set[models.ScenarioOptimistic].MonthlySavings)
	assert.Equal(t, 705, set[models.ScenarioConservative].MonthlySavings)
	assert.Equal(t, "Optimistic Growth", set[models.ScenarioOptimistic].Name)

	insights, err := p.Insights()
	require.NoError(t, err)
	assert.NotEmpty(t, insights)
	assert.False(t, insights[0].PublishedAt.IsZero())
}

func TestProvider_ReturnsCopies(t *testing.T) {
	p, err := NewDefaultProvider()
	require.NoError(t, err)

	first, _ := p.Scenarios()
	first[models.ScenarioCurrent].Parameters.SavingsRate = 40
	first[models.ScenarioCurrent].MonthlySavings = 0

	second, _ := p.Scenarios()
	assert.Equal(t, 15.0, second[models.ScenarioCurrent].Parameters.SavingsRate)
	assert.Equal(t, 850, second[models.ScenarioCurrent].MonthlySavings)
}

func TestParse_IgnoresDerivedValuesInDocument(t *testing.T) {
	doc := `
scenarios:
  - id: current
    parameters: {incomeChange: 0, expenseChange: 0, savingsRate: 15, goalTimeline: 24, riskTolerance: 50}
    monthlySavings: 9999
  - id: optimistic
    parameters: {incomeChange: 25, expenseChange: -10, savingsRate: 25, goalTimeline: 18, riskTolerance: 60}
  - id: conservative
    parameters: {incomeChange: -5, expenseChange: 5, savingsRate: 12, goalTimeline: 36, riskTolerance: 20}
`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	set, _ := p.Scenarios()
	assert.Equal(t, 850, set[models.ScenarioCurrent].MonthlySavings)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", "scenarios: [::"},
		{"unknown scenario", "scenarios:\n  - id: pessimistic\n"},
		{"missing scenario", "scenarios:\n  - id: current\n  - id: optimistic\n"},
		{"duplicate scenario", "scenarios:\n  - id: current\n  - id: current\n  - id: optimistic\n  - id: conservative\n"},
		{
			"duplicate insight",
			"scenarios:\n  - id: current\n  - id: optimistic\n  - id: conservative\ninsights:\n  - id: a\n  - id: a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestNewFileProvider(t *testing.T) {
	p, err := NewFileProvider("")
	require.NoError(t, err)
	assert.NotNil(t, p)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, defaultSeed, 0o600))
	p, err = NewFileProvider(path)
	require.NoError(t, err)
	set, _ := p.Scenarios()
	assert.Len(t, set, 3)

	_, err = NewFileProvider(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
