// Package fixtures loads the seed scenarios and insight articles the service
// starts from.
package fixtures

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Dan9191/wellness-service/internal/engine"
	"github.com/Dan9191/wellness-service/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Provider supplies seed data to the services
type Provider interface {
	Scenarios() (models.ScenarioSet, error)
	Insights() ([]models.Insight, error)
}

type scenarioFixture struct {
	ID          string                    `yaml:"id"`
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Parameters  models.ScenarioParameters `yaml:"parameters"`
}

type document struct {
	Scenarios []scenarioFixture `yaml:"scenarios"`
	Insights  []models.Insight  `yaml:"insights"`
}

// YAMLProvider serves fixtures parsed from a YAML document
type YAMLProvider struct {
	scenarios models.ScenarioSet
	insights  []models.Insight
}

// NewDefaultProvider returns a provider backed by the embedded seed file
func NewDefaultProvider() (*YAMLProvider, error) {
	return Parse(defaultSeed)
}

// NewFileProvider reads fixtures from path, falling back to the embedded seed when path is empty
func NewFileProvider(path string) (*YAMLProvider, error) {
	if path == "" {
		return NewDefaultProvider()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a fixture document. Derived scenario fields are computed
// here and never read from the document.
func Parse(raw []byte) (*YAMLProvider, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	set := make(models.ScenarioSet, len(doc.Scenarios))
	for _, f := range doc.Scenarios {
		t, err := models.ParseScenarioType(f.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid fixture: %w", err)
		}
		if _, dup := set[t]; dup {
			return nil, fmt.Errorf("invalid fixture: duplicate scenario %q", t)
		}
		sc := &models.Scenario{
			Type:        t,
			Name:        f.Name,
			Description: f.Description,
			Parameters:  f.Parameters,
		}
		engine.Recompute(sc)
		set[t] = sc
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}

	seen := make(map[string]bool, len(doc.Insights))
	for _, in := range doc.Insights {
		if in.ID == "" {
			return nil, fmt.Errorf("invalid fixture: insight without id")
		}
		if seen[in.ID] {
			return nil, fmt.Errorf("invalid fixture: duplicate insight %q", in.ID)
		}
		seen[in.ID] = true
	}

	return &YAMLProvider{scenarios: set, insights: doc.Insights}, nil
}

// Scenarios returns a fresh copy of the seed scenarios
func (p *YAMLProvider) Scenarios() (models.ScenarioSet, error) {
	return p.scenarios.Clone(), nil
}

// Insights returns a copy of the insight library
func (p *YAMLProvider) Insights() ([]models.Insight, error) {
	out := make([]models.Insight, len(p.insights))
	copy(out, p.insights)
	return out, nil
}
