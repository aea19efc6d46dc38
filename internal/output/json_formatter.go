package output

import (
	"encoding/json"

	"github.com/chriskelly/LifeFinances-sub001/internal/simulation"
)

// JSONFormatter marshals the full run summary, trajectories and variable
// series included, for downstream presentation layers.
type JSONFormatter struct{}

// Name implements Formatter.
func (JSONFormatter) Name() string { return "json" }

// Format implements Formatter.
func (JSONFormatter) Format(summary *simulation.Summary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}
