package config

import (
	"fmt"
	"os"
	"time"

	"github.com/chriskelly/LifeFinances-sub001/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of simulation configuration files. The
// engine itself never reads raw configuration text; everything it sees
// has passed through here.
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validatePlan(&config.Plan); err != nil {
		return fmt.Errorf("plan validation failed: %w", err)
	}
	if err := ip.validateAllocation(&config.Allocation); err != nil {
		return fmt.Errorf("allocation validation failed: %w", err)
	}

	if len(config.Spending) == 0 {
		return fmt.Errorf("no spending line items provided")
	}
	for i, item := range config.Spending {
		if err := ip.validateSpendingItem(&item); err != nil {
			return fmt.Errorf("spending item %d validation failed: %w", i, err)
		}
	}
	for i, src := range config.IncomeSources {
		if err := ip.validateIncomeSource(&src); err != nil {
			return fmt.Errorf("income source %d validation failed: %w", i, err)
		}
	}

	if config.MonteCarlo.TrialQty <= 0 {
		return fmt.Errorf("trial_qty must be positive, got %d", config.MonteCarlo.TrialQty)
	}

	return nil
}

// validatePlan validates the plan holder and horizon details
func (ip *InputParser) validatePlan(plan *domain.PlanDetails) error {
	if plan.CurrentAge <= 0 && plan.BirthDate == nil {
		return fmt.Errorf("either current_age or birth_date is required")
	}
	if plan.CurrentAge < 0 || plan.CurrentAge > 120 {
		return fmt.Errorf("current_age must be between 0 and 120")
	}
	if plan.FinalAge <= 0 || plan.FinalAge > 120 {
		return fmt.Errorf("final_age must be between 1 and 120")
	}
	if plan.CurrentAge > 0 && plan.FinalAge <= plan.CurrentAge {
		return fmt.Errorf("final_age (%d) must be after current_age (%d)", plan.FinalAge, plan.CurrentAge)
	}
	if plan.IntervalsPerYear < 0 || plan.IntervalsPerYear > 12 {
		return fmt.Errorf("intervals_per_year must be between 0 and 12 (0 defaults to annual)")
	}
	if plan.StartingNetWorth.LessThan(decimal.Zero) {
		return fmt.Errorf("starting_net_worth cannot be negative")
	}
	if plan.IntervalsPerTrial < 0 {
		return fmt.Errorf("intervals_per_trial cannot be negative")
	}
	return nil
}

// validateAllocation performs shape checks on the allocation spec; the
// engine validates weight sums and catalog membership eagerly on top of
// this.
func (ip *InputParser) validateAllocation(spec *domain.AllocationSpec) error {
	switch spec.Type {
	case domain.AllocationFlat:
		if len(spec.Weights) == 0 {
			return fmt.Errorf("flat allocation requires weights")
		}
	case domain.AllocationGlidePath:
		if len(spec.GlidePath) == 0 {
			return fmt.Errorf("glide_path allocation requires at least one stage")
		}
		for i, stage := range spec.GlidePath {
			if len(stage.Weights) == 0 {
				return fmt.Errorf("glide path stage %d has no weights", i)
			}
		}
	case "":
		return fmt.Errorf("allocation type is required")
	default:
		return fmt.Errorf("allocation type must be %q or %q, got %q",
			domain.AllocationFlat, domain.AllocationGlidePath, spec.Type)
	}
	return nil
}

// validateSpendingItem validates a single spending line item
func (ip *InputParser) validateSpendingItem(item *domain.SpendingItem) error {
	if item.AnnualAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("annual_amount cannot be negative")
	}
	if item.StartAge < 0 || item.EndAge < 0 {
		return fmt.Errorf("ages cannot be negative")
	}
	if item.EndAge > 0 && item.EndAge <= item.StartAge {
		return fmt.Errorf("end_age (%d) must be after start_age (%d)", item.EndAge, item.StartAge)
	}
	return nil
}

// validateIncomeSource validates a single external income source
func (ip *InputParser) validateIncomeSource(src *domain.IncomeSourceSpec) error {
	if src.AnnualAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("annual_amount cannot be negative")
	}
	if src.StartAge < 0 || src.EndAge < 0 {
		return fmt.Errorf("ages cannot be negative")
	}
	if src.EndAge > 0 && src.EndAge <= src.StartAge {
		return fmt.Errorf("end_age (%d) must be after start_age (%d)", src.EndAge, src.StartAge)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	birthDate, _ := time.Parse("2006-01-02", "1980-04-12")

	return &domain.Configuration{
		Plan: domain.PlanDetails{
			Name:              "Baseline Retirement Plan",
			BirthDate:         &birthDate,
			CurrentAge:        45,
			FinalAge:          95,
			IntervalsPerYear:  1,
			StartingNetWorth:  decimal.NewFromInt(850000),
			InflationVariable: "Inflation",
		},
		Allocation: domain.AllocationSpec{
			Type: domain.AllocationGlidePath,
			GlidePath: []domain.GlidePathStageSpec{
				{
					UntilAge: 65,
					Weights: map[string]decimal.Decimal{
						"US Stocks":            decimal.NewFromFloat(0.55),
						"International Stocks": decimal.NewFromFloat(0.15),
						"Bonds":                decimal.NewFromFloat(0.20),
						"REITs":                decimal.NewFromFloat(0.10),
					},
				},
				{
					Weights: map[string]decimal.Decimal{
						"US Stocks":            decimal.NewFromFloat(0.35),
						"International Stocks": decimal.NewFromFloat(0.10),
						"Bonds":                decimal.NewFromFloat(0.45),
						"REITs":                decimal.NewFromFloat(0.10),
					},
				},
			},
		},
		Spending: []domain.SpendingItem{
			{
				Name:             "Living Expenses",
				AnnualAmount:     decimal.NewFromInt(65000),
				InflationIndexed: true,
			},
			{
				Name:         "Mortgage",
				AnnualAmount: decimal.NewFromInt(24000),
				EndAge:       60,
			},
		},
		IncomeSources: []domain.IncomeSourceSpec{
			{
				Name:             "Social Security",
				AnnualAmount:     decimal.NewFromInt(30000),
				StartAge:         67,
				InflationIndexed: true,
			},
		},
		MonteCarlo: domain.MonteCarloSettings{
			TrialQty: 5000,
			Seed:     0,
		},
	}
}

// ExampleStatisticsCSV returns a sample statistics source in the
// name,mean,stdev format consumed by the catalog loader.
func (ip *InputParser) ExampleStatisticsCSV() string {
	return "name,mean,stdev\n" +
		"US Stocks,0.0890,0.1520\n" +
		"International Stocks,0.0634,0.1863\n" +
		"Bonds,0.0430,0.0550\n" +
		"REITs,0.0910,0.1890\n" +
		"Commodities,0.0520,0.1610\n" +
		"Inflation,0.0259,0.0137\n"
}
