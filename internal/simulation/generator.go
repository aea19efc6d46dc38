package simulation

import (
	"math/rand"
)

// SampleTensor holds the full set of randomly generated per-trial,
// per-interval, per-variable returns for one run. It is produced once by
// Generate, read-only thereafter, and shared across all trial executions.
//
// Layout is a single flat float64 slice indexed
// [trial, interval, variable] with the variable axis innermost, so one
// trial-interval row is a contiguous subslice.
type SampleTensor struct {
	TrialQty          int
	IntervalsPerTrial int

	names []string
	index map[string]int
	data  []float64
}

// Names returns the variable names along the tensor's variable axis, in
// catalog order.
func (t *SampleTensor) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// VariableIndex returns the axis position of the named variable.
func (t *SampleTensor) VariableIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// At returns the sampled return for one (trial, interval, variable) cell.
func (t *SampleTensor) At(trial, interval, variable int) float64 {
	return t.data[(trial*t.IntervalsPerTrial+interval)*len(t.names)+variable]
}

// Row returns the per-variable returns for one trial interval. The
// returned slice aliases the tensor and must not be mutated.
func (t *SampleTensor) Row(trial, interval int) []float64 {
	base := (trial*t.IntervalsPerTrial + interval) * len(t.names)
	return t.data[base : base+len(t.names)]
}

// Path returns a copy of one variable's sampled series for one trial.
func (t *SampleTensor) Path(trial, variable int) []float64 {
	out := make([]float64, t.IntervalsPerTrial)
	for k := 0; k < t.IntervalsPerTrial; k++ {
		out[k] = t.At(trial, k, variable)
	}
	return out
}

// Equal reports whether two tensors have identical dimensions, variable
// axes, and bit-identical sample data.
func (t *SampleTensor) Equal(o *SampleTensor) bool {
	if t.TrialQty != o.TrialQty || t.IntervalsPerTrial != o.IntervalsPerTrial || len(t.names) != len(o.names) {
		return false
	}
	for i := range t.names {
		if t.names[i] != o.names[i] {
			return false
		}
	}
	for i := range t.data {
		if t.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Generate draws independent normal samples for every variable in the
// catalog, trialQty x intervalsPerTrial values per variable, and returns
// the assembled tensor.
//
// Each variable is filled in one bulk pass using its own mean and
// standard deviation; no cross-variable correlation is modeled. A
// standard deviation of zero yields the constant mean for every draw and
// consumes no randomness. When seed is non-zero, output is fully
// deterministic for identical inputs; seed zero draws fresh entropy.
func Generate(catalog *VariableCatalog, trialQty, intervalsPerTrial int, seed int64) (*SampleTensor, error) {
	if trialQty <= 0 {
		return nil, &InvalidDimensionError{Field: "trial_qty", Value: trialQty}
	}
	if intervalsPerTrial <= 0 {
		return nil, &InvalidDimensionError{Field: "intervals_per_trial", Value: intervalsPerTrial}
	}

	if seed == 0 {
		seed = seedFunc()
	}
	rng := rand.New(rand.NewSource(seed))

	names := catalog.Names()
	numVars := len(names)
	t := &SampleTensor{
		TrialQty:          trialQty,
		IntervalsPerTrial: intervalsPerTrial,
		names:             names,
		index:             make(map[string]int, numVars),
		data:              make([]float64, trialQty*intervalsPerTrial*numVars),
	}
	for i, n := range names {
		t.index[n] = i
	}

	cells := trialQty * intervalsPerTrial
	for v, name := range names {
		variable, err := catalog.Get(name)
		if err != nil {
			return nil, err
		}
		mean, _ := variable.Mean.Float64()
		stdev, _ := variable.StdDev.Float64()

		if stdev == 0 {
			// Degenerate variable: constant series, no sampling.
			for cell := 0; cell < cells; cell++ {
				t.data[cell*numVars+v] = mean
			}
			continue
		}
		for cell := 0; cell < cells; cell++ {
			t.data[cell*numVars+v] = mean + rng.NormFloat64()*stdev
		}
	}

	return t, nil
}
