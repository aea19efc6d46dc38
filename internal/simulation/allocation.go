package simulation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// WeightTolerance is the numerical slack allowed when checking that
// allocation weights sum to 1.
const WeightTolerance = 1e-6

// AllocationStrategy maps a point in simulated time to target asset-class
// weights. Weights are non-negative and sum to 1 within WeightTolerance;
// both properties are enforced when the strategy is constructed, not at
// simulation time.
type AllocationStrategy interface {
	// WeightsAt returns the target weight per variable name for the
	// given interval index.
	WeightsAt(intervalIndex int) map[string]float64
	// VariableNames returns every variable name the strategy may ever
	// reference, so the engine can fail fast on unknown variables.
	VariableNames() []string
}

func validateWeights(weights map[string]decimal.Decimal) (map[string]float64, error) {
	if len(weights) == 0 {
		return nil, &InvalidAllocationError{Reason: "no weights configured"}
	}
	sum := decimal.Zero
	out := make(map[string]float64, len(weights))
	for name, w := range weights {
		if w.IsNegative() {
			return nil, &InvalidAllocationError{Reason: fmt.Sprintf("weight for %q is negative (%s)", name, w)}
		}
		sum = sum.Add(w)
		out[name], _ = w.Float64()
	}
	diff := sum.Sub(decimal.NewFromInt(1)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(WeightTolerance)) {
		return nil, &InvalidAllocationError{Reason: fmt.Sprintf("weights sum to %s, expected 1", sum)}
	}
	return out, nil
}

// FlatAllocation holds fixed weights for the whole horizon.
type FlatAllocation struct {
	weights map[string]float64
	names   []string
}

// NewFlatAllocation validates the configured weights and returns a flat
// strategy.
func NewFlatAllocation(weights map[string]decimal.Decimal) (*FlatAllocation, error) {
	w, err := validateWeights(weights)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(w))
	for name := range w {
		names = append(names, name)
	}
	sort.Strings(names)
	return &FlatAllocation{weights: w, names: names}, nil
}

// WeightsAt returns the same configured mapping for every interval.
func (f *FlatAllocation) WeightsAt(intervalIndex int) map[string]float64 { return f.weights }

// VariableNames returns the configured variable names.
func (f *FlatAllocation) VariableNames() []string { return f.names }

// GlidePathStage is one piece of a glide-path allocation: the weights to
// hold for all intervals before UntilInterval. The final stage uses
// UntilInterval <= 0 to mean "the rest of the horizon".
type GlidePathStage struct {
	UntilInterval int
	Weights       map[string]decimal.Decimal
}

// GlidePathAllocation varies weights by elapsed simulated time through an
// ordered sequence of stages.
type GlidePathAllocation struct {
	bounds  []int // exclusive upper interval per stage; last entry is -1 (open)
	weights []map[string]float64
	names   []string
}

// NewGlidePathAllocation validates every stage eagerly and returns a
// glide-path strategy. Stages must be in ascending interval order and the
// final stage must be open-ended.
func NewGlidePathAllocation(stages []GlidePathStage) (*GlidePathAllocation, error) {
	if len(stages) == 0 {
		return nil, &InvalidAllocationError{Reason: "glide path has no stages"}
	}

	g := &GlidePathAllocation{}
	nameSet := make(map[string]struct{})
	prevBound := 0
	for i, stage := range stages {
		w, err := validateWeights(stage.Weights)
		if err != nil {
			return nil, err
		}
		last := i == len(stages)-1
		if last {
			if stage.UntilInterval > 0 {
				return nil, &InvalidAllocationError{Reason: "final glide path stage must be open-ended"}
			}
			g.bounds = append(g.bounds, -1)
		} else {
			if stage.UntilInterval <= prevBound {
				return nil, &InvalidAllocationError{Reason: fmt.Sprintf("glide path stage %d ends at interval %d, not after %d", i, stage.UntilInterval, prevBound)}
			}
			prevBound = stage.UntilInterval
			g.bounds = append(g.bounds, stage.UntilInterval)
		}
		g.weights = append(g.weights, w)
		for name := range w {
			nameSet[name] = struct{}{}
		}
	}

	for name := range nameSet {
		g.names = append(g.names, name)
	}
	sort.Strings(g.names)
	return g, nil
}

// WeightsAt returns the weights of the stage covering the interval.
func (g *GlidePathAllocation) WeightsAt(intervalIndex int) map[string]float64 {
	for i, bound := range g.bounds {
		if bound < 0 || intervalIndex < bound {
			return g.weights[i]
		}
	}
	return g.weights[len(g.weights)-1]
}

// VariableNames returns every variable referenced by any stage.
func (g *GlidePathAllocation) VariableNames() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}
