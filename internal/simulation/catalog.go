package simulation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Variable is one tracked financial instrument or class: its name, mean
// periodic return, and standard deviation of periodic returns. A standard
// deviation of zero is valid and means the variable is deterministic.
type Variable struct {
	Name   string          `json:"name"`
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"std_dev"`
}

// VariableCatalog is the immutable table of tracked variables and their
// summary statistics, loaded once per simulation run. Insertion order
// defines the canonical variable axis order used by the sample tensor.
type VariableCatalog struct {
	order []string
	vars  map[string]Variable
}

// NewVariableCatalog builds a catalog from a slice of variables,
// preserving slice order as the canonical axis order.
func NewVariableCatalog(vars []Variable) (*VariableCatalog, error) {
	c := &VariableCatalog{
		order: make([]string, 0, len(vars)),
		vars:  make(map[string]Variable, len(vars)),
	}
	for _, v := range vars {
		if v.Name == "" {
			return nil, &DataLoadError{Source: "catalog", Err: fmt.Errorf("variable with empty name")}
		}
		if _, dup := c.vars[v.Name]; dup {
			return nil, &DataLoadError{Source: "catalog", Err: fmt.Errorf("duplicate variable %q", v.Name)}
		}
		if v.StdDev.IsNegative() {
			return nil, &DataLoadError{Source: "catalog", Err: fmt.Errorf("variable %q has negative standard deviation %s", v.Name, v.StdDev)}
		}
		c.order = append(c.order, v.Name)
		c.vars[v.Name] = v
	}
	return c, nil
}

// Get returns the variable with the given name.
func (c *VariableCatalog) Get(name string) (Variable, error) {
	v, ok := c.vars[name]
	if !ok {
		return Variable{}, &UnknownVariableError{Name: name}
	}
	return v, nil
}

// Has reports whether the catalog contains the named variable.
func (c *VariableCatalog) Has(name string) bool {
	_, ok := c.vars[name]
	return ok
}

// Names returns the variable names in canonical axis order.
func (c *VariableCatalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Index returns the axis position of the named variable, or -1.
func (c *VariableCatalog) Index(name string) int {
	for i, n := range c.order {
		if n == name {
			return i
		}
	}
	return -1
}

// Len returns the number of variables in the catalog.
func (c *VariableCatalog) Len() int { return len(c.order) }

// LoadCatalogCSV loads a variable catalog from a CSV file with a header
// row and one "name,mean,stdev" row per variable.
func LoadCatalogCSV(path string) (*VariableCatalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	defer file.Close()
	return ReadCatalog(file, path)
}

// ReadCatalog parses catalog CSV data from a reader. The source string is
// used only for error reporting.
func ReadCatalog(r io.Reader, source string) (*VariableCatalog, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("failed to read header: %w", err)}
	}
	if len(header) < 3 {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("expected at least 3 columns (name, mean, stdev), got %d", len(header))}
	}

	var vars []Variable
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("failed to read data row: %w", err)}
		}
		if len(record) < 3 {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("row %v: expected 3 fields", record)}
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("row %v: missing variable name", record)}
		}
		mean, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("variable %q: non-numeric mean %q", name, record[1])}
		}
		stdev, err := decimal.NewFromString(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, &DataLoadError{Source: source, Err: fmt.Errorf("variable %q: non-numeric stdev %q", name, record[2])}
		}

		vars = append(vars, Variable{Name: name, Mean: mean, StdDev: stdev})
	}

	if len(vars) == 0 {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("no variables found")}
	}
	return NewVariableCatalog(vars)
}
