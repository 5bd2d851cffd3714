package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/config"
)

var (
	dataDir    string
	configFile string
	vegetation string
	years      int
	firstYear  int
	maxYears   int
	metFile    string
	restartIn  string
	restartOut string
	keepMetYr  bool
	outDir     string
	outPrefix  string
	dailyVars  []string
	annualVars []string
	textOut    bool
	sqlitePath string
	logLevel   string
	logFormat  string
	logFile    string
	// Prometheus textfile written after the run
	metricsFile string
	noSave      bool
	// plot and export
	series    []string
	svgDir    string
	exportOut string
	// sweep
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	// scenario
	workDir string
)

// main registers the commands and exits with status 1 when one fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "ecosim",
		Short:        "daily terrestrial carbon, nitrogen and water cycle simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ecosim", "run catalogue directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "progress", "silent, error, warning, progress, detail or diagnostic")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "text or json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write diagnostics to this file instead of stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the model for a fixed number of years",
		Args:  cobra.NoArgs,
		RunE:  runMode(config.ModeModel),
	}
	spinupCmd := &cobra.Command{
		Use:   "spinup",
		Short: "cycle meteorology until soil carbon is steady",
		Args:  cobra.NoArgs,
		RunE:  runMode(config.ModeSpinup),
	}
	spinAndGoCmd := &cobra.Command{
		Use:   "spin-and-go",
		Short: "spin up, then run the model from the steady state",
		Args:  cobra.NoArgs,
		RunE:  runMode(config.ModeSpinAndGo),
	}
	for _, c := range []*cobra.Command{runCmd, spinupCmd, spinAndGoCmd} {
		addRunFlags(c)
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of chained runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().StringVar(&workDir, "work", "", "directory for step outputs (default <data>/scenarios/<name>)")
	scenarioCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the steps in the catalogue")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run the model across a range of one parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&vegetation, "veg", "", "vegetation preset")
	sweepCmd.Flags().IntVar(&years, "years", config.DefaultYears, "simulated years per run")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "co2", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 280, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 700, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot annual series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"soil_c", "nep"}, "annual series to plot")
	plotCmd.Flags().StringVar(&svgDir, "svg", "", "also write each series as an SVG into this directory")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and annual summaries to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")

	varsCmd := &cobra.Command{
		Use:   "vars",
		Short: "list output variables",
		Args:  cobra.NoArgs,
		RunE:  listVars,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list vegetation presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [file]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&vegetation, "veg", "", "vegetation preset")

	rootCmd.AddCommand(runCmd, spinupCmd, spinAndGoCmd, scenarioCmd, sweepCmd, listCmd, plotCmd,
		exportCmd, exportJSONCmd, varsCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		if kind := bgc.Classify(err); kind != bgc.KindUnknown {
			fmt.Fprintf(os.Stderr, "ecosim: %s error\n", kind)
		}
		os.Exit(1)
	}
}

func addRunFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&vegetation, "veg", "", "vegetation preset (see presets)")
	f.IntVar(&years, "years", config.DefaultYears, "simulated years")
	f.IntVar(&firstYear, "first-year", config.DefaultFirstYear, "calendar year of the first simulated year")
	f.IntVar(&maxYears, "max-years", config.DefaultSpinupMaxYears, "spinup year cap")
	f.StringVar(&metFile, "met", "", "meteorology file (default synthetic climate)")
	f.StringVar(&restartIn, "restart-in", "", "read the initial state from this restart record")
	f.StringVar(&restartOut, "restart-out", "", "write the final state to this restart record")
	f.BoolVar(&keepMetYr, "keep-metyr", false, "continue the meteorology cycle from the restart record")
	f.StringVar(&outDir, "out-dir", "", "directory for output files")
	f.StringVar(&outPrefix, "prefix", "", "output file prefix")
	f.StringSliceVar(&dailyVars, "daily", nil, "daily output variables (see vars)")
	f.StringSliceVar(&annualVars, "annual", nil, "annual output variables (see vars)")
	f.BoolVar(&textOut, "text", false, "mirror binary outputs as tab-delimited text")
	f.StringVar(&sqlitePath, "sqlite", "", "append annual summaries to this SQLite database")
	f.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	f.BoolVar(&noSave, "no-save", false, "do not record the run in the catalogue")
}
