package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chriskelly/LifeFinances-sub001/internal/simulation"
)

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(summary *simulation.Summary) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// builtInFormatters stores available formatters (extended incrementally).
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	CSVFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter, or nil when the name
// is unknown.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// NormalizeFormatName lowercases and trims a user-supplied format name.
func NormalizeFormatName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// FormatterNames lists the registered formatter identifiers.
func FormatterNames() []string {
	names := make([]string, len(builtInFormatters))
	for i, f := range builtInFormatters {
		names[i] = f.Name()
	}
	return names
}

// WriteFormatted runs a formatter and writes output to a timestamped file
// with the given extension, returning the filename.
func WriteFormatted(f Formatter, summary *simulation.Summary, ext string) (string, error) {
	data, err := f.Format(summary)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("simulation_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}
