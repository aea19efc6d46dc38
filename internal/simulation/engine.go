package simulation

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/chriskelly/LifeFinances-sub001/internal/domain"
	"github.com/chriskelly/LifeFinances-sub001/pkg/dateutil"
)

// Engine orchestrates one full Monte Carlo run: configuration validation,
// a single tensor generation, trial fan-out across workers, and the
// ordered merge of trial results.
type Engine struct {
	Catalog *VariableCatalog
	Logger  Logger

	// Workers caps the trial fan-out; zero means one worker per CPU.
	Workers int
}

// NewEngine creates an engine over an already-loaded catalog.
func NewEngine(catalog *VariableCatalog) *Engine {
	return &Engine{Catalog: catalog, Logger: NopLogger{}}
}

// SetLogger sets the engine logger. A nil logger restores the no-op
// default.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Run validates the configuration, generates the shared sample tensor,
// and simulates every trial. Results are returned in trial-index order;
// trial i's outcome never depends on any other trial. A cancelled context
// discards all results.
func (e *Engine) Run(ctx context.Context, cfg *domain.Configuration) ([]TrialResult, error) {
	now := nowFunc()

	trialQty := cfg.MonteCarlo.TrialQty
	if trialQty <= 0 {
		return nil, &InvalidDimensionError{Field: "trial_qty", Value: trialQty}
	}

	startAge := cfg.Plan.StartAge(now)
	perYear := cfg.Plan.IntervalsPerYear
	if perYear <= 0 {
		perYear = 1
	}
	intervals := cfg.Plan.HorizonIntervals(now)
	if intervals <= 0 {
		return nil, &InvalidDimensionError{Field: "intervals_per_trial", Value: intervals}
	}
	if cfg.Plan.IntervalsPerTrial > 0 && cfg.Plan.IntervalsPerTrial != intervals {
		return nil, &SimulationConfigError{
			Reason: fmt.Sprintf("intervals_per_trial %d does not match the %d intervals implied by ages %d-%d at %d per year",
				cfg.Plan.IntervalsPerTrial, intervals, startAge, cfg.Plan.FinalAge, perYear),
		}
	}

	strategy, err := BuildStrategy(&cfg.Allocation, startAge, perYear)
	if err != nil {
		return nil, err
	}
	for _, name := range strategy.VariableNames() {
		if !e.Catalog.Has(name) {
			return nil, &SimulationConfigError{
				Reason: "allocation strategy references a variable missing from the catalog",
				Err:    &UnknownVariableError{Name: name},
			}
		}
	}

	inflationIndex := -1
	if cfg.Plan.InflationVariable != "" {
		if !e.Catalog.Has(cfg.Plan.InflationVariable) {
			return nil, &SimulationConfigError{
				Reason: "inflation variable missing from the catalog",
				Err:    &UnknownVariableError{Name: cfg.Plan.InflationVariable},
			}
		}
		inflationIndex = e.Catalog.Index(cfg.Plan.InflationVariable)
	}

	plan := buildCashFlowPlan(cfg, startAge, perYear)
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	e.Logger.Infof("generating sample tensor: %d trials x %d intervals x %d variables",
		trialQty, intervals, e.Catalog.Len())
	tensor, err := Generate(e.Catalog, trialQty, intervals, cfg.MonteCarlo.Seed)
	if err != nil {
		return nil, err
	}

	weightsByInterval := weightVectors(strategy, e.Catalog, intervals)
	startingNetWorth, _ := cfg.Plan.StartingNetWorth.Float64()
	simulator := NewPortfolioSimulator(tensor, weightsByInterval, plan, inflationIndex, startingNetWorth)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > trialQty {
		workers = trialQty
	}

	// Trials share only the read-only tensor and catalog; each worker
	// owns a contiguous trial range and writes results by trial index,
	// so the merge is ordered with no locking.
	results := make([]TrialResult, trialQty)
	var wg sync.WaitGroup
	chunk := (trialQty + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > trialQty {
			hi = trialQty
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for trial := lo; trial < hi; trial++ {
				if ctx.Err() != nil {
					return
				}
				results[trial] = simulator.RunTrial(trial)
			}
		}(lo, hi)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.Logger.Debugf("completed %d trials", trialQty)
	return results, nil
}

// BuildStrategy constructs the allocation strategy named by the spec's
// type discriminator, converting glide-path ages to interval bounds.
// Validation is eager: a malformed strategy never reaches the simulation
// loop.
func BuildStrategy(spec *domain.AllocationSpec, startAge, intervalsPerYear int) (AllocationStrategy, error) {
	switch spec.Type {
	case domain.AllocationFlat:
		return NewFlatAllocation(spec.Weights)
	case domain.AllocationGlidePath:
		stages := make([]GlidePathStage, len(spec.GlidePath))
		for i, s := range spec.GlidePath {
			until := 0
			if s.UntilAge > 0 {
				until = dateutil.IntervalForAge(s.UntilAge, startAge, intervalsPerYear)
			}
			stages[i] = GlidePathStage{UntilInterval: until, Weights: s.Weights}
		}
		return NewGlidePathAllocation(stages)
	default:
		return nil, &SimulationConfigError{Reason: fmt.Sprintf("unknown allocation strategy type %q", spec.Type)}
	}
}

// buildCashFlowPlan converts age-windowed spending and income specs into
// interval-windowed runtime items. Annual amounts are spread evenly over
// the year's intervals. An end age is exclusive: the item stops at the
// first interval of that age. Items whose window closes at or before the
// plan's start age are dropped; they can never activate, and their end
// interval would otherwise collide with the open-ended sentinel.
func buildCashFlowPlan(cfg *domain.Configuration, startAge, intervalsPerYear int) *CashFlowPlan {
	plan := &CashFlowPlan{}
	for _, item := range cfg.Spending {
		if expiredBeforeStart(item.EndAge, startAge) {
			continue
		}
		annual, _ := item.AnnualAmount.Float64()
		plan.Spending = append(plan.Spending, SpendingLineItem{
			Name:             item.Name,
			Amount:           annual / float64(intervalsPerYear),
			StartInterval:    dateutil.IntervalForAge(item.StartAge, startAge, intervalsPerYear),
			EndInterval:      endInterval(item.EndAge, startAge, intervalsPerYear),
			InflationIndexed: item.InflationIndexed,
		})
	}
	for _, src := range cfg.IncomeSources {
		if expiredBeforeStart(src.EndAge, startAge) {
			continue
		}
		annual, _ := src.AnnualAmount.Float64()
		plan.Income = append(plan.Income, IncomeSource{
			Name:             src.Name,
			Amount:           annual / float64(intervalsPerYear),
			StartInterval:    dateutil.IntervalForAge(src.StartAge, startAge, intervalsPerYear),
			EndInterval:      endInterval(src.EndAge, startAge, intervalsPerYear),
			InflationIndexed: src.InflationIndexed,
		})
	}
	return plan
}

// expiredBeforeStart reports whether an age window closes at or before
// the plan's start age, meaning the item can never activate.
func expiredBeforeStart(endAge, startAge int) bool {
	return endAge > 0 && endAge <= startAge
}

// endInterval maps an exclusive end age to an inclusive end interval.
// Callers must filter expired windows first; endAge > startAge is assumed
// here.
func endInterval(endAge, startAge, intervalsPerYear int) int {
	if endAge <= 0 {
		return -1 // open-ended
	}
	return dateutil.IntervalForAge(endAge, startAge, intervalsPerYear) - 1
}

// weightVectors flattens a strategy into one weight vector per interval,
// aligned to the catalog's variable axis. Variables a strategy never
// mentions get weight zero.
func weightVectors(strategy AllocationStrategy, catalog *VariableCatalog, intervals int) [][]float64 {
	names := catalog.Names()
	out := make([][]float64, intervals)
	for k := 0; k < intervals; k++ {
		weights := strategy.WeightsAt(k)
		vec := make([]float64, len(names))
		for i, name := range names {
			vec[i] = weights[name]
		}
		out[k] = vec
	}
	return out
}
