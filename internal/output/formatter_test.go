package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/chriskelly/LifeFinances-sub001/internal/simulation"
)

func sampleSummary() *simulation.Summary {
	return &simulation.Summary{
		SuccessRate:       0.875,
		TrialQty:          8,
		IntervalsPerTrial: 2,
		Trajectories: [][]float64{
			{100, 110},
		},
		VariableSeries: map[string][][]float64{
			"Stocks": {{0.05, 0.07}},
		},
		IntervalBands: []simulation.PercentileRanges{
			{P10: 90, P25: 95, P50: 100, P75: 105, P90: 110},
			{P10: 95, P25: 100, P50: 110, P75: 120, P90: 130},
		},
		EndingBalances:      simulation.PercentileRanges{P10: 95, P25: 100, P50: 110, P75: 120, P90: 130},
		MedianEndingBalance: 110,
		FailureCount:        1,
	}
}

func TestGetFormatterByName(t *testing.T) {
	for _, name := range []string{"console", "CSV", " json "} {
		if f := GetFormatterByName(name); f == nil {
			t.Errorf("Expected a formatter for %q", name)
		}
	}
	if f := GetFormatterByName("xml"); f != nil {
		t.Errorf("Expected nil for unknown format, got %s", f.Name())
	}
}

func TestFormatterNames(t *testing.T) {
	names := FormatterNames()
	if len(names) != 3 {
		t.Fatalf("Expected 3 registered formatters, got %d", len(names))
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"console", "csv", "json"} {
		if !seen[want] {
			t.Errorf("Expected formatter %q to be registered", want)
		}
	}
}

func TestConsoleFormatter(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(sampleSummary())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"MONTE CARLO SIMULATION RESULTS",
		"Success rate:        87.50%",
		"Failed trials:       1",
		"P50: $110.00",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Console output missing %q:\n%s", want, text)
		}
	}
}

func TestCSVFormatter(t *testing.T) {
	data, err := CSVFormatter{}.Format(sampleSummary())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(data)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	// Header + 5 metrics + bands header + 2 band rows.
	if len(lines) != 9 {
		t.Errorf("Expected 9 CSV lines, got %d:\n%s", len(lines), text)
	}
	if !strings.HasPrefix(lines[0], "Metric,Value,Description") {
		t.Errorf("Unexpected CSV header: %s", lines[0])
	}
	if !strings.Contains(text, "Success Rate,87.50%") {
		t.Errorf("CSV output missing success rate:\n%s", text)
	}
	if !strings.Contains(text, "Interval,P10,P25,P50,P75,P90") {
		t.Errorf("CSV output missing bands header:\n%s", text)
	}
	if !strings.Contains(text, "1,95.00,100.00,110.00,120.00,130.00") {
		t.Errorf("CSV output missing band row:\n%s", text)
	}
}

func TestJSONFormatterRoundTrip(t *testing.T) {
	data, err := JSONFormatter{}.Format(sampleSummary())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded simulation.Summary
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal JSON output: %v", err)
	}
	if decoded.SuccessRate != 0.875 {
		t.Errorf("Expected success rate 0.875, got %v", decoded.SuccessRate)
	}
	if decoded.MedianEndingBalance != 110 {
		t.Errorf("Expected median 110, got %v", decoded.MedianEndingBalance)
	}
	if len(decoded.Trajectories) != 1 || len(decoded.VariableSeries["Stocks"]) != 1 {
		t.Error("Expected trajectories and variable series to survive the round trip")
	}
}
