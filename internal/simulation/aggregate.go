package simulation

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PercentileRanges represents percentile ranges for a distribution of
// values across trials.
type PercentileRanges struct {
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// Summary is the sole externally consumed artifact of a run. Field names
// are stable so presentation layers can bind to them without engine
// internals leaking.
type Summary struct {
	SuccessRate       float64 `json:"success_rate"`
	TrialQty          int     `json:"trial_qty"`
	IntervalsPerTrial int     `json:"intervals_per_trial"`

	// Trajectories holds each trial's net-worth sequence, in trial
	// order, so a trajectory can be correlated with its originating
	// sample paths.
	Trajectories [][]float64 `json:"trajectories"`

	// VariableSeries holds, per variable, each trial's sampled return
	// sequence, in the same trial order as Trajectories.
	VariableSeries map[string][][]float64 `json:"variable_series"`

	// IntervalBands gives the per-interval net-worth percentile bands
	// across trials.
	IntervalBands []PercentileRanges `json:"interval_bands"`

	EndingBalances      PercentileRanges `json:"ending_balance_percentiles"`
	MedianEndingBalance float64          `json:"median_ending_balance"`
	FailureCount        int              `json:"failure_count"`
}

// Summarize reduces per-trial results into the run summary. Trial
// ordering is preserved (and restored if the input arrived out of order)
// so trajectories stay aligned with their sample rows.
func Summarize(results []TrialResult) (*Summary, error) {
	if len(results) == 0 {
		return nil, &EmptyResultSetError{}
	}

	ordered := make([]TrialResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TrialIndex < ordered[j].TrialIndex
	})

	intervals := len(ordered[0].Trajectory)

	summary := &Summary{
		TrialQty:          len(ordered),
		IntervalsPerTrial: intervals,
		Trajectories:      make([][]float64, len(ordered)),
		VariableSeries:    make(map[string][][]float64),
	}

	successCount := 0
	endings := make([]float64, len(ordered))
	for i, r := range ordered {
		summary.Trajectories[i] = r.Trajectory
		if r.Success {
			successCount++
		}
		endings[i] = r.Trajectory[intervals-1]
		for name, path := range r.VariablePaths {
			summary.VariableSeries[name] = append(summary.VariableSeries[name], path)
		}
	}
	summary.FailureCount = len(ordered) - successCount

	// Exact ratio: the all-success and all-failure endpoints come out
	// as exactly 1.0 and 0.0.
	rate := decimal.NewFromInt(int64(successCount)).Div(decimal.NewFromInt(int64(len(ordered))))
	summary.SuccessRate, _ = rate.Float64()

	summary.EndingBalances = percentiles(endings)
	summary.MedianEndingBalance = summary.EndingBalances.P50

	summary.IntervalBands = make([]PercentileRanges, intervals)
	column := make([]float64, len(ordered))
	for k := 0; k < intervals; k++ {
		for i, r := range ordered {
			column[i] = r.Trajectory[k]
		}
		summary.IntervalBands[k] = percentiles(column)
	}

	return summary, nil
}

// percentiles sorts a copy of values and reads the band points.
func percentiles(values []float64) PercentileRanges {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	at := func(frac float64) float64 {
		idx := int(frac * float64(n))
		if idx >= n {
			idx = n - 1
		}
		return sorted[idx]
	}
	return PercentileRanges{
		P10: at(0.10),
		P25: at(0.25),
		P50: at(0.50),
		P75: at(0.75),
		P90: at(0.90),
	}
}
