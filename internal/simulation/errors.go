package simulation

import "fmt"

// DataLoadError reports a malformed or missing statistics source. It is
// fatal and surfaced to the caller before any simulation starts.
type DataLoadError struct {
	Source string
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statistics load failed for %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("statistics load failed for %s", e.Source)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// UnknownVariableError reports a reference to a variable that is not in
// the catalog. Always raised at configuration-validation time, never
// mid-run.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// InvalidAllocationError reports malformed allocation weights. Raised
// eagerly when a strategy is constructed so a bad strategy never reaches
// a long-running simulation.
type InvalidAllocationError struct {
	Reason string
}

func (e *InvalidAllocationError) Error() string {
	return fmt.Sprintf("invalid allocation: %s", e.Reason)
}

// InvalidDimensionError reports a non-positive trial or interval count.
type InvalidDimensionError struct {
	Field string
	Value int
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("invalid dimension: %s must be a positive integer, got %d", e.Field, e.Value)
}

// SimulationConfigError reports a cross-component inconsistency, e.g. a
// strategy referencing an unknown variable or a horizon mismatch.
type SimulationConfigError struct {
	Reason string
	Err    error
}

func (e *SimulationConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("simulation config error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("simulation config error: %s", e.Reason)
}

func (e *SimulationConfigError) Unwrap() error { return e.Err }

// EmptyResultSetError reports aggregation attempted over zero trials.
type EmptyResultSetError struct{}

func (e *EmptyResultSetError) Error() string {
	return "cannot aggregate an empty result set"
}
