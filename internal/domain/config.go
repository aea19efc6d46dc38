// Package domain holds the typed configuration model consumed by the
// simulation engine. Raw YAML parsing and validation live in
// internal/config; the engine only ever sees these already-typed values.
package domain

import (
	"time"

	"github.com/chriskelly/LifeFinances-sub001/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Configuration is the validated input for one simulation run.
type Configuration struct {
	Plan          PlanDetails        `yaml:"plan"`
	Allocation    AllocationSpec     `yaml:"allocation"`
	Spending      []SpendingItem     `yaml:"spending"`
	IncomeSources []IncomeSourceSpec `yaml:"income_sources"`
	MonteCarlo    MonteCarloSettings `yaml:"monte_carlo"`
}

// PlanDetails describes the plan holder and horizon.
type PlanDetails struct {
	Name       string     `yaml:"name"`
	BirthDate  *time.Time `yaml:"birth_date,omitempty"`
	CurrentAge int        `yaml:"current_age"`
	FinalAge   int        `yaml:"final_age"`

	// IntervalsPerYear sets the simulation granularity, 1 to 12. Zero
	// means unset and defaults to annual.
	IntervalsPerYear int `yaml:"intervals_per_year"`

	StartingNetWorth decimal.Decimal `yaml:"starting_net_worth"`

	// InflationVariable names the catalog variable whose sampled path
	// drives inflation indexing. Empty disables indexing.
	InflationVariable string `yaml:"inflation_variable,omitempty"`

	// IntervalsPerTrial optionally pins the horizon explicitly; when
	// set it must match the age-range derivation or the engine rejects
	// the configuration.
	IntervalsPerTrial int `yaml:"intervals_per_trial,omitempty"`
}

// StartAge resolves the plan holder's age at the start of the projection,
// preferring an explicit current_age over a birth date.
func (p *PlanDetails) StartAge(now time.Time) int {
	if p.CurrentAge > 0 || p.BirthDate == nil {
		return p.CurrentAge
	}
	return dateutil.Age(*p.BirthDate, now)
}

// HorizonIntervals derives the trial length from the plan's age range and
// interval granularity.
func (p *PlanDetails) HorizonIntervals(now time.Time) int {
	perYear := p.IntervalsPerYear
	if perYear <= 0 {
		perYear = 1
	}
	return dateutil.IntervalsBetweenAges(p.StartAge(now), p.FinalAge, perYear)
}

// AllocationSpec selects and parameterizes an allocation strategy. Type
// is the explicit discriminator: "flat" or "glide_path".
type AllocationSpec struct {
	Type      string                     `yaml:"type"`
	Weights   map[string]decimal.Decimal `yaml:"weights,omitempty"`
	GlidePath []GlidePathStageSpec       `yaml:"glide_path,omitempty"`
}

// Allocation strategy discriminators.
const (
	AllocationFlat      = "flat"
	AllocationGlidePath = "glide_path"
)

// GlidePathStageSpec is one stage of a glide-path allocation: the weights
// to hold until the plan holder reaches UntilAge. The final stage omits
// UntilAge (zero) and covers the rest of the horizon.
type GlidePathStageSpec struct {
	UntilAge int                        `yaml:"until_age,omitempty"`
	Weights  map[string]decimal.Decimal `yaml:"weights"`
}

// SpendingItem is one spending line item with an activation window in
// ages. Zero StartAge means the plan start; zero EndAge means the
// horizon. Overlapping items sum additively.
type SpendingItem struct {
	Name             string          `yaml:"name"`
	AnnualAmount     decimal.Decimal `yaml:"annual_amount"`
	StartAge         int             `yaml:"start_age,omitempty"`
	EndAge           int             `yaml:"end_age,omitempty"`
	InflationIndexed bool            `yaml:"inflation_indexed"`
}

// IncomeSourceSpec is an external income stream such as a pension or
// Social Security, with the same window semantics as SpendingItem.
type IncomeSourceSpec struct {
	Name             string          `yaml:"name"`
	AnnualAmount     decimal.Decimal `yaml:"annual_amount"`
	StartAge         int             `yaml:"start_age,omitempty"`
	EndAge           int             `yaml:"end_age,omitempty"`
	InflationIndexed bool            `yaml:"inflation_indexed"`
}

// MonteCarloSettings controls the randomized run.
type MonteCarloSettings struct {
	TrialQty int   `yaml:"trial_qty"`
	Seed     int64 `yaml:"seed,omitempty"` // 0 draws fresh entropy
}
