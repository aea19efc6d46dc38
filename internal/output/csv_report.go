package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/chriskelly/LifeFinances-sub001/internal/simulation"
)

// CSVFormatter exports the run summary as CSV: a metrics block followed
// by the per-interval net-worth percentile bands.
type CSVFormatter struct{}

// Name implements Formatter.
func (CSVFormatter) Name() string { return "csv" }

// Format implements Formatter.
func (CSVFormatter) Format(summary *simulation.Summary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Metric", "Value", "Description"}); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	metrics := [][]string{
		{"Success Rate", formatPercent(summary.SuccessRate) + "%", "Percentage of trials that never exhausted net worth"},
		{"Trials", strconv.Itoa(summary.TrialQty), "Total number of trials run"},
		{"Intervals Per Trial", strconv.Itoa(summary.IntervalsPerTrial), "Discrete time steps per trial"},
		{"Failed Trials", strconv.Itoa(summary.FailureCount), "Trials that exhausted net worth before the horizon"},
		{"Median Ending Balance", "$" + formatMoney(summary.MedianEndingBalance), "Median net worth at the horizon"},
	}
	for _, row := range metrics {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write metric row: %w", err)
		}
	}

	if err := writer.Write([]string{"Interval", "P10", "P25", "P50", "P75", "P90"}); err != nil {
		return nil, fmt.Errorf("failed to write bands header: %w", err)
	}
	for k, band := range summary.IntervalBands {
		row := []string{
			strconv.Itoa(k),
			formatMoney(band.P10),
			formatMoney(band.P25),
			formatMoney(band.P50),
			formatMoney(band.P75),
			formatMoney(band.P90),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write band row %d: %w", k, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
