package simulation

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func mustCatalog(t *testing.T, vars []Variable) *VariableCatalog {
	t.Helper()
	catalog, err := NewVariableCatalog(vars)
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	return catalog
}

func TestGenerateDegenerateVariable(t *testing.T) {
	// stdev 0 must yield the constant mean for every draw, never a
	// sampling error.
	catalog := mustCatalog(t, []Variable{
		{Name: "Fixed", Mean: decimal.NewFromFloat(0.04), StdDev: decimal.Zero},
	})

	tensor, err := Generate(catalog, 50, 30, 7)
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}

	for trial := 0; trial < tensor.TrialQty; trial++ {
		for interval := 0; interval < tensor.IntervalsPerTrial; interval++ {
			if got := tensor.At(trial, interval, 0); got != 0.04 {
				t.Fatalf("Expected exact mean 0.04 at [%d,%d], got %v", trial, interval, got)
			}
		}
	}
}

func TestGenerateSeededReproducibility(t *testing.T) {
	catalog := mustCatalog(t, []Variable{
		{Name: "Stocks", Mean: decimal.NewFromFloat(0.07), StdDev: decimal.NewFromFloat(0.15)},
		{Name: "Bonds", Mean: decimal.NewFromFloat(0.04), StdDev: decimal.NewFromFloat(0.05)},
	})

	a, err := Generate(catalog, 200, 40, 12345)
	if err != nil {
		t.Fatalf("Failed to generate first tensor: %v", err)
	}
	b, err := Generate(catalog, 200, 40, 12345)
	if err != nil {
		t.Fatalf("Failed to generate second tensor: %v", err)
	}

	if !a.Equal(b) {
		t.Error("Identical seed and parameters must produce bit-identical tensors")
	}

	c, err := Generate(catalog, 200, 40, 54321)
	if err != nil {
		t.Fatalf("Failed to generate third tensor: %v", err)
	}
	if a.Equal(c) {
		t.Error("Different seeds should not produce identical tensors")
	}
}

func TestGenerateUnseededUsesSeedProvider(t *testing.T) {
	orig := seedFunc
	SetSeedFunc(func() int64 { return 999 })
	defer SetSeedFunc(orig)

	catalog := mustCatalog(t, []Variable{
		{Name: "Stocks", Mean: decimal.NewFromFloat(0.07), StdDev: decimal.NewFromFloat(0.15)},
	})

	a, err := Generate(catalog, 20, 10, 0)
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	b, err := Generate(catalog, 20, 10, 999)
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}
	if !a.Equal(b) {
		t.Error("Seed 0 should draw the seed from the overridable provider")
	}
}

func TestGenerateConvergence(t *testing.T) {
	// Large-sample empirical moments must converge to the configured
	// mean (within 1%) and stdev (within 10%).
	catalog := mustCatalog(t, []Variable{
		{Name: "Stocks", Mean: decimal.NewFromFloat(0.07), StdDev: decimal.NewFromFloat(0.15)},
	})

	tensor, err := Generate(catalog, 100000, 10, 42)
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}

	n := tensor.TrialQty * tensor.IntervalsPerTrial
	var sum float64
	for trial := 0; trial < tensor.TrialQty; trial++ {
		for interval := 0; interval < tensor.IntervalsPerTrial; interval++ {
			sum += tensor.At(trial, interval, 0)
		}
	}
	mean := sum / float64(n)

	var varianceSum float64
	for trial := 0; trial < tensor.TrialQty; trial++ {
		for interval := 0; interval < tensor.IntervalsPerTrial; interval++ {
			diff := tensor.At(trial, interval, 0) - mean
			varianceSum += diff * diff
		}
	}
	stdev := math.Sqrt(varianceSum / float64(n))

	if math.Abs(mean-0.07) > 0.07*0.01 {
		t.Errorf("Empirical mean %v not within 1%% of 0.07", mean)
	}
	if math.Abs(stdev-0.15) > 0.15*0.10 {
		t.Errorf("Empirical stdev %v not within 10%% of 0.15", stdev)
	}
}

func TestGenerateInvalidDimensions(t *testing.T) {
	catalog := mustCatalog(t, []Variable{
		{Name: "Stocks", Mean: decimal.NewFromFloat(0.07), StdDev: decimal.NewFromFloat(0.15)},
	})

	cases := []struct {
		name      string
		trials    int
		intervals int
	}{
		{"zero_trials", 0, 10},
		{"negative_trials", -5, 10},
		{"zero_intervals", 10, 0},
		{"negative_intervals", 10, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Generate(catalog, tc.trials, tc.intervals, 1)
			var dimErr *InvalidDimensionError
			if !errors.As(err, &dimErr) {
				t.Errorf("Expected InvalidDimensionError, got %v", err)
			}
		})
	}
}

func TestGenerateRowAndPath(t *testing.T) {
	catalog := mustCatalog(t, []Variable{
		{Name: "A", Mean: decimal.NewFromFloat(0.01), StdDev: decimal.Zero},
		{Name: "B", Mean: decimal.NewFromFloat(0.02), StdDev: decimal.Zero},
	})

	tensor, err := Generate(catalog, 3, 4, 1)
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}

	row := tensor.Row(2, 3)
	if len(row) != 2 || row[0] != 0.01 || row[1] != 0.02 {
		t.Errorf("Unexpected row values: %v", row)
	}

	path := tensor.Path(1, 1)
	if len(path) != 4 {
		t.Fatalf("Expected path of length 4, got %d", len(path))
	}
	for _, v := range path {
		if v != 0.02 {
			t.Errorf("Expected path value 0.02, got %v", v)
		}
	}
}
