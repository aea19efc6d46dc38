package simulation

import "fmt"

// SpendingLineItem is one spending obligation with an activation window
// expressed in interval indices. EndInterval < 0 means the item runs to
// the horizon. Overlapping items sum additively.
type SpendingLineItem struct {
	Name             string
	Amount           float64
	StartInterval    int
	EndInterval      int
	InflationIndexed bool
}

func (s SpendingLineItem) activeAt(interval int) bool {
	if interval < s.StartInterval {
		return false
	}
	return s.EndInterval < 0 || interval <= s.EndInterval
}

// IncomeSource is an external income stream (pension, Social Security and
// the like) with the same window semantics as a spending line item.
type IncomeSource struct {
	Name             string
	Amount           float64
	StartInterval    int
	EndInterval      int
	InflationIndexed bool
}

func (s IncomeSource) activeAt(interval int) bool {
	if interval < s.StartInterval {
		return false
	}
	return s.EndInterval < 0 || interval <= s.EndInterval
}

// CashFlowPlan combines spending line items and external income sources.
// It is read-only input shared across trials.
type CashFlowPlan struct {
	Spending []SpendingLineItem
	Income   []IncomeSource
}

// Validate checks that amounts are non-negative and windows are sane.
func (p *CashFlowPlan) Validate() error {
	for _, item := range p.Spending {
		if item.Amount < 0 {
			return &SimulationConfigError{Reason: fmt.Sprintf("spending item %q has negative amount", item.Name)}
		}
		if item.StartInterval < 0 {
			return &SimulationConfigError{Reason: fmt.Sprintf("spending item %q starts before interval 0", item.Name)}
		}
	}
	for _, src := range p.Income {
		if src.Amount < 0 {
			return &SimulationConfigError{Reason: fmt.Sprintf("income source %q has negative amount", src.Name)}
		}
		if src.StartInterval < 0 {
			return &SimulationConfigError{Reason: fmt.Sprintf("income source %q starts before interval 0", src.Name)}
		}
	}
	return nil
}

// NetWithdrawal returns the portfolio withdrawal required for one
// interval: active spending minus active income, each scaled by the
// trial's cumulative inflation factor when indexed. A negative result is
// a surplus that the simulator credits back to net worth.
func (p *CashFlowPlan) NetWithdrawal(interval int, inflationFactor float64) float64 {
	var spending float64
	for _, item := range p.Spending {
		if !item.activeAt(interval) {
			continue
		}
		amount := item.Amount
		if item.InflationIndexed {
			amount *= inflationFactor
		}
		spending += amount
	}

	var income float64
	for _, src := range p.Income {
		if !src.activeAt(interval) {
			continue
		}
		amount := src.Amount
		if src.InflationIndexed {
			amount *= inflationFactor
		}
		income += amount
	}

	return spending - income
}
