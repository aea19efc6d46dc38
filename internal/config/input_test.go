package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chriskelly/LifeFinances-sub001/internal/domain"
	"github.com/chriskelly/LifeFinances-sub001/internal/simulation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
plan:
  name: Test Plan
  current_age: 45
  final_age: 90
  intervals_per_year: 1
  starting_net_worth: "500000"
  inflation_variable: Inflation
allocation:
  type: flat
  weights:
    Stocks: "0.6"
    Bonds: "0.4"
spending:
  - name: Living Expenses
    annual_amount: "40000"
    inflation_indexed: true
income_sources:
  - name: Social Security
    annual_amount: "25000"
    start_age: 67
    inflation_indexed: true
monte_carlo:
  trial_qty: 1000
  seed: 42
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	parser := NewInputParser()
	cfg, err := parser.LoadFromFile(writeTempConfig(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "Test Plan", cfg.Plan.Name)
	assert.Equal(t, 45, cfg.Plan.CurrentAge)
	assert.Equal(t, 90, cfg.Plan.FinalAge)
	assert.Equal(t, "Inflation", cfg.Plan.InflationVariable)
	assert.True(t, cfg.Plan.StartingNetWorth.Equal(decimal.NewFromInt(500000)))

	assert.Equal(t, domain.AllocationFlat, cfg.Allocation.Type)
	assert.True(t, cfg.Allocation.Weights["Stocks"].Equal(decimal.NewFromFloat(0.6)))

	require.Len(t, cfg.Spending, 1)
	assert.True(t, cfg.Spending[0].InflationIndexed)
	require.Len(t, cfg.IncomeSources, 1)
	assert.Equal(t, 67, cfg.IncomeSources[0].StartAge)

	assert.Equal(t, 1000, cfg.MonteCarlo.TrialQty)
	assert.Equal(t, int64(42), cfg.MonteCarlo.Seed)
}

func TestLoadFromFileMissing(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile("nonexistent.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestLoadFromFileInvalidYAML(t *testing.T) {
	parser := NewInputParser()
	_, err := parser.LoadFromFile(writeTempConfig(t, "plan: [unclosed"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateConfiguration(t *testing.T) {
	parser := NewInputParser()

	base := func() *domain.Configuration {
		return &domain.Configuration{
			Plan: domain.PlanDetails{
				CurrentAge:       45,
				FinalAge:         90,
				IntervalsPerYear: 1,
				StartingNetWorth: decimal.NewFromInt(100000),
			},
			Allocation: domain.AllocationSpec{
				Type:    domain.AllocationFlat,
				Weights: map[string]decimal.Decimal{"Stocks": decimal.NewFromInt(1)},
			},
			Spending: []domain.SpendingItem{
				{Name: "Living", AnnualAmount: decimal.NewFromInt(40000)},
			},
			MonteCarlo: domain.MonteCarloSettings{TrialQty: 100},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, parser.ValidateConfiguration(base()))
	})

	t.Run("missing age and birth date", func(t *testing.T) {
		cfg := base()
		cfg.Plan.CurrentAge = 0
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "current_age or birth_date")
	})

	t.Run("final age before current age", func(t *testing.T) {
		cfg := base()
		cfg.Plan.FinalAge = 40
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "final_age")
	})

	t.Run("zero intervals per year defaults to annual", func(t *testing.T) {
		cfg := base()
		cfg.Plan.IntervalsPerYear = 0
		assert.NoError(t, parser.ValidateConfiguration(cfg))
	})

	t.Run("intervals per year out of range", func(t *testing.T) {
		cfg := base()
		cfg.Plan.IntervalsPerYear = 13
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "intervals_per_year")

		cfg.Plan.IntervalsPerYear = -1
		err = parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "intervals_per_year")
	})

	t.Run("negative net worth", func(t *testing.T) {
		cfg := base()
		cfg.Plan.StartingNetWorth = decimal.NewFromInt(-1)
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "starting_net_worth")
	})

	t.Run("missing allocation type", func(t *testing.T) {
		cfg := base()
		cfg.Allocation.Type = ""
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "allocation type is required")
	})

	t.Run("unknown allocation type", func(t *testing.T) {
		cfg := base()
		cfg.Allocation.Type = "tactical"
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "allocation type")
	})

	t.Run("flat without weights", func(t *testing.T) {
		cfg := base()
		cfg.Allocation.Weights = nil
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "requires weights")
	})

	t.Run("glide path without stages", func(t *testing.T) {
		cfg := base()
		cfg.Allocation = domain.AllocationSpec{Type: domain.AllocationGlidePath}
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "at least one stage")
	})

	t.Run("no spending items", func(t *testing.T) {
		cfg := base()
		cfg.Spending = nil
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "no spending line items")
	})

	t.Run("negative spending amount", func(t *testing.T) {
		cfg := base()
		cfg.Spending[0].AnnualAmount = decimal.NewFromInt(-5)
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "annual_amount cannot be negative")
	})

	t.Run("spending window inverted", func(t *testing.T) {
		cfg := base()
		cfg.Spending[0].StartAge = 70
		cfg.Spending[0].EndAge = 60
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "end_age")
	})

	t.Run("income window inverted", func(t *testing.T) {
		cfg := base()
		cfg.IncomeSources = []domain.IncomeSourceSpec{
			{Name: "Pension", AnnualAmount: decimal.NewFromInt(1000), StartAge: 70, EndAge: 65},
		}
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "end_age")
	})

	t.Run("zero trials", func(t *testing.T) {
		cfg := base()
		cfg.MonteCarlo.TrialQty = 0
		err := parser.ValidateConfiguration(cfg)
		assert.ErrorContains(t, err, "trial_qty")
	})
}

func TestCreateExampleConfiguration(t *testing.T) {
	parser := NewInputParser()
	cfg := parser.CreateExampleConfiguration()

	// The shipped example must pass our own validation.
	require.NoError(t, parser.ValidateConfiguration(cfg))

	assert.Equal(t, domain.AllocationGlidePath, cfg.Allocation.Type)
	assert.NotEmpty(t, cfg.Spending)
	assert.NotEmpty(t, cfg.IncomeSources)
	assert.Equal(t, "Inflation", cfg.Plan.InflationVariable)
}

func TestExampleStatisticsCoversExampleConfiguration(t *testing.T) {
	parser := NewInputParser()
	catalog, err := simulation.ReadCatalog(strings.NewReader(parser.ExampleStatisticsCSV()), "example")
	require.NoError(t, err)

	cfg := parser.CreateExampleConfiguration()
	assert.True(t, catalog.Has(cfg.Plan.InflationVariable))
	for _, stage := range cfg.Allocation.GlidePath {
		for name := range stage.Weights {
			assert.True(t, catalog.Has(name), "example statistics missing %s", name)
		}
	}
}
