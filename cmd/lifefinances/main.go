// Command lifefinances runs Monte Carlo retirement projections from a
// YAML plan configuration and a CSV statistics source.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chriskelly/LifeFinances-sub001/internal/config"
	"github.com/chriskelly/LifeFinances-sub001/internal/output"
	"github.com/chriskelly/LifeFinances-sub001/internal/simulation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configPath string
	statsPath  string
	formatName string
	writeFile  bool
	trialsFlag int
	seedFlag   int64
	debugFlag  bool
)

// consoleLogger writes engine log lines to stderr; Debugf only when
// --debug is set.
type consoleLogger struct {
	verbose bool
}

func (l consoleLogger) Debugf(format string, args ...any) {
	if l.verbose {
		fmt.Fprintf(os.Stderr, "DEBUG "+format+"\n", args...)
	}
}
func (l consoleLogger) Infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "INFO  "+format+"\n", args...)
}
func (l consoleLogger) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "WARN  "+format+"\n", args...)
}
func (l consoleLogger) Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR "+format+"\n", args...)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "lifefinances",
		Short: "Monte Carlo retirement plan simulator",
		Long: "lifefinances projects long-horizon personal financial outcomes by running\n" +
			"many randomized economic scenarios and measuring how often a plan survives\n" +
			"to its horizon without running out of money.",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation from a plan configuration and statistics source",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "plan configuration YAML file (required)")
	runCmd.Flags().StringVarP(&statsPath, "statistics", "s", "", "variable statistics CSV file (required)")
	runCmd.Flags().StringVarP(&formatName, "format", "f", "console", "output format: console, csv, json")
	runCmd.Flags().BoolVar(&writeFile, "write", false, "write output to a timestamped file instead of stdout")
	runCmd.Flags().IntVar(&trialsFlag, "trials", 0, "override trial_qty from the configuration")
	runCmd.Flags().Int64Var(&seedFlag, "seed", 0, "override the random seed (0 keeps the configured value)")
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	_ = runCmd.MarkFlagRequired("config")
	_ = runCmd.MarkFlagRequired("statistics")

	exampleConfigCmd := &cobra.Command{
		Use:   "example-config",
		Short: "Print an example plan configuration to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			data, err := yaml.Marshal(parser.CreateExampleConfiguration())
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}

	exampleStatsCmd := &cobra.Command{
		Use:   "example-statistics",
		Short: "Print an example statistics CSV to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			fmt.Print(parser.ExampleStatisticsCSV())
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, exampleConfigCmd, exampleStatsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(configPath)
	if err != nil {
		return err
	}
	if trialsFlag > 0 {
		cfg.MonteCarlo.TrialQty = trialsFlag
	}
	if seedFlag != 0 {
		cfg.MonteCarlo.Seed = seedFlag
	}

	catalog, err := simulation.LoadCatalogCSV(statsPath)
	if err != nil {
		return err
	}

	engine := simulation.NewEngine(catalog)
	engine.SetLogger(consoleLogger{verbose: debugFlag})

	results, err := engine.Run(context.Background(), cfg)
	if err != nil {
		return err
	}
	summary, err := simulation.Summarize(results)
	if err != nil {
		return err
	}

	formatter := output.GetFormatterByName(formatName)
	if formatter == nil {
		return fmt.Errorf("unknown format %q, available: %v", formatName, output.FormatterNames())
	}

	if writeFile {
		filename, err := output.WriteFormatted(formatter, summary, formatter.Name())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", filename)
		return nil
	}

	data, err := formatter.Format(summary)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
