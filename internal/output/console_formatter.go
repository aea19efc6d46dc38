package output

import (
	"bytes"
	"fmt"

	"github.com/chriskelly/LifeFinances-sub001/internal/simulation"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders a run summary as a plain-text report.
type ConsoleFormatter struct{}

// Name implements Formatter.
func (ConsoleFormatter) Name() string { return "console" }

// Format implements Formatter.
func (ConsoleFormatter) Format(summary *simulation.Summary) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "MONTE CARLO SIMULATION RESULTS\n")
	fmt.Fprintf(&buf, "==============================\n\n")
	fmt.Fprintf(&buf, "Trials:              %d\n", summary.TrialQty)
	fmt.Fprintf(&buf, "Intervals per trial: %d\n", summary.IntervalsPerTrial)
	fmt.Fprintf(&buf, "Success rate:        %s%%\n", formatPercent(summary.SuccessRate))
	fmt.Fprintf(&buf, "Failed trials:       %d\n\n", summary.FailureCount)

	fmt.Fprintf(&buf, "ENDING BALANCE PERCENTILES\n")
	p := summary.EndingBalances
	fmt.Fprintf(&buf, "  P10: $%s\n", formatMoney(p.P10))
	fmt.Fprintf(&buf, "  P25: $%s\n", formatMoney(p.P25))
	fmt.Fprintf(&buf, "  P50: $%s\n", formatMoney(p.P50))
	fmt.Fprintf(&buf, "  P75: $%s\n", formatMoney(p.P75))
	fmt.Fprintf(&buf, "  P90: $%s\n", formatMoney(p.P90))

	return buf.Bytes(), nil
}

// formatPercent renders a [0,1] ratio as a fixed two-decimal percentage.
func formatPercent(ratio float64) string {
	return decimal.NewFromFloat(ratio).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// formatMoney renders a float amount with cents precision.
func formatMoney(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
