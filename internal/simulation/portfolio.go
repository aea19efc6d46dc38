package simulation

// TrialState is the mutable per-trial record advanced by the portfolio
// simulator. It is created at trial start, owned exclusively by that
// trial's execution, and discarded once the trial terminates.
type TrialState struct {
	NetWorth        float64
	Holdings        []float64 // per variable, catalog order
	InflationFactor float64
	Failed          bool
	FailureInterval int
}

// TrialResult is the immutable snapshot of one completed trial: the full
// net-worth trajectory, the terminal outcome, and the per-variable sample
// paths that produced it (kept for attribution and plotting).
type TrialResult struct {
	TrialIndex      int                  `json:"trial_index"`
	Trajectory      []float64            `json:"trajectory"`
	Success         bool                 `json:"success"`
	FailureInterval int                  `json:"failure_interval"` // -1 on success
	VariablePaths   map[string][]float64 `json:"variable_paths"`
}

// PortfolioSimulator advances one trial's net worth through simulated
// time. All referenced inputs (tensor, weights, cash-flow plan) are
// read-only and shared across trials.
type PortfolioSimulator struct {
	tensor            *SampleTensor
	weightsByInterval [][]float64 // [interval][variable], catalog order
	plan              *CashFlowPlan
	inflationIndex    int // -1 when no inflation variable is configured
	startingNetWorth  float64
}

// NewPortfolioSimulator wires a simulator over the shared run inputs.
// weightsByInterval must hold one weight vector per interval, aligned to
// the tensor's variable axis.
func NewPortfolioSimulator(tensor *SampleTensor, weightsByInterval [][]float64, plan *CashFlowPlan, inflationIndex int, startingNetWorth float64) *PortfolioSimulator {
	return &PortfolioSimulator{
		tensor:            tensor,
		weightsByInterval: weightsByInterval,
		plan:              plan,
		inflationIndex:    inflationIndex,
		startingNetWorth:  startingNetWorth,
	}
}

// RunTrial simulates one trial from start to horizon and returns its
// immutable result.
//
// Per interval, in fixed order: apply that interval's sampled returns to
// each holding, rebalance fully to the target weights, subtract the net
// withdrawal (indexed spending minus external income; surpluses are
// credited), then record net worth. A trial fails at the first interval
// where post-withdrawal net worth is zero or below; a failed trial stops
// advancing and the rest of its trajectory repeats the terminal value.
func (ps *PortfolioSimulator) RunTrial(trialIndex int) TrialResult {
	names := ps.tensor.Names()
	intervals := ps.tensor.IntervalsPerTrial

	state := &TrialState{
		NetWorth:        ps.startingNetWorth,
		Holdings:        make([]float64, len(names)),
		InflationFactor: 1.0,
		FailureInterval: -1,
	}
	rebalance(state.Holdings, ps.weightsByInterval[0], state.NetWorth)

	trajectory := make([]float64, intervals)
	for k := 0; k < intervals; k++ {
		ps.advance(state, trialIndex, k)
		trajectory[k] = state.NetWorth
		if state.Failed {
			// Failure is terminal: stop advancing and record the
			// clamped terminal value for the remaining intervals.
			for rest := k + 1; rest < intervals; rest++ {
				trajectory[rest] = state.NetWorth
			}
			break
		}
	}

	paths := make(map[string][]float64, len(names))
	for v, name := range names {
		paths[name] = ps.tensor.Path(trialIndex, v)
	}

	return TrialResult{
		TrialIndex:      trialIndex,
		Trajectory:      trajectory,
		Success:         !state.Failed,
		FailureInterval: state.FailureInterval,
		VariablePaths:   paths,
	}
}

// advance moves a trial forward one interval using that interval's sample
// row. Order matters: growth, rebalance, withdrawal, then the inflation
// factor update for the next interval (spending reacts to inflation
// already realized, never to the current interval's draw).
func (ps *PortfolioSimulator) advance(state *TrialState, trialIndex, interval int) {
	row := ps.tensor.Row(trialIndex, interval)

	var netWorth float64
	for i := range state.Holdings {
		state.Holdings[i] *= 1 + row[i]
		netWorth += state.Holdings[i]
	}
	state.NetWorth = netWorth

	rebalance(state.Holdings, ps.weightsByInterval[interval], state.NetWorth)

	withdrawal := ps.plan.NetWithdrawal(interval, state.InflationFactor)
	state.NetWorth -= withdrawal
	rebalance(state.Holdings, ps.weightsByInterval[interval], state.NetWorth)

	if state.NetWorth <= 0 {
		state.Failed = true
		state.FailureInterval = interval
		return
	}

	if ps.inflationIndex >= 0 {
		state.InflationFactor *= 1 + row[ps.inflationIndex]
	}
}

// rebalance redistributes net worth across variables by target weight
// (full rebalance, no thresholds).
func rebalance(holdings []float64, weights []float64, netWorth float64) {
	for i := range holdings {
		holdings[i] = weights[i] * netWorth
	}
}
