package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/san-kum/ecosim/internal/automation"
	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/config"
	"github.com/san-kum/ecosim/internal/experiment"
	"github.com/san-kum/ecosim/internal/logging"
	"github.com/san-kum/ecosim/internal/report"
	"github.com/san-kum/ecosim/internal/storage"
)

// loadRunConfig starts from the config file, or the defaults, and applies
// the flags the user actually set.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("veg") {
		epc := config.GetPreset(vegetation)
		if epc == nil {
			return nil, fmt.Errorf("%w: unknown vegetation %q (available: %v)", bgc.ErrInvalidConfig, vegetation, config.ListPresets())
		}
		cfg.Vegetation, cfg.EPC = vegetation, *epc
	}
	if flags.Changed("years") {
		cfg.Years = years
	}
	if flags.Changed("first-year") {
		cfg.FirstYear = firstYear
	}
	if flags.Changed("max-years") {
		cfg.Spinup.MaxYears = maxYears
	}
	if flags.Changed("met") {
		cfg.Met.File = metFile
	}
	if flags.Changed("restart-in") {
		cfg.Restart.Read = restartIn
	}
	if flags.Changed("restart-out") {
		cfg.Restart.Write = restartOut
	}
	if flags.Changed("keep-metyr") {
		cfg.Restart.KeepMetYear = keepMetYr
	}
	if flags.Changed("out-dir") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("prefix") {
		cfg.Output.Prefix = outPrefix
	}
	if flags.Changed("daily") {
		cfg.Output.Daily = dailyVars
	}
	if flags.Changed("annual") {
		cfg.Output.Annual = annualVars
	}
	if flags.Changed("text") {
		cfg.Output.Text = textOut
	}
	if flags.Changed("sqlite") {
		cfg.Output.SQLite = sqlitePath
	}
	applyLogFlags(cmd, cfg)
	return cfg, nil
}

func applyLogFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
}

func openLog(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	return logging.Open(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.File)
}

// signalContext is cancelled on SIGINT or SIGTERM; the driver stops at the
// next year boundary.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runMode(mode string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRunConfig(cmd)
		if err != nil {
			return err
		}
		cfg.Mode = mode

		log, closer, err := openLog(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()

		ctx, stop := signalContext()
		defer stop()

		exp := experiment.New(cfg, log)
		exp.SetMetricsFile(metricsFile)
		out, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		fmt.Println(report.Summary(out))
		if noSave {
			return nil
		}
		runID, err := saveOutcome(out)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
		return nil
	}
}

func saveOutcome(out *experiment.Outcome) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.MetadataFor(out), out.Final().Annual)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	applyLogFlags(cmd, cfg)
	log, closer, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	dir := workDir
	if dir == "" {
		name := sc.Name
		if name == "" {
			name = filepath.Base(args[0])
		}
		dir = filepath.Join(dataDir, "scenarios", name)
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunScenario(ctx, sc, dir, log)
	for _, r := range results {
		fmt.Printf("step %s\n", r.Step)
		fmt.Println(report.Summary(r.Outcome))
		if noSave {
			continue
		}
		runID, serr := saveOutcome(r.Outcome)
		if serr != nil {
			return serr
		}
		fmt.Printf("run id: %s\n", runID)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signalContext()
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, log)
	if err != nil {
		return fmt.Errorf("%w (sweepable: %v)", err, automation.SweepParams())
	}

	fmt.Println(report.Header.Render(fmt.Sprintf("%12s  %12s  %10s  %12s", sweepParam, "mean NEP", "max LAI", "soil C")))
	for _, r := range results {
		fmt.Printf("%12.4g  %12.5f  %10.3f  %12.4f\n", r.ParamValue, r.MeanNEP, r.MaxLAI, r.FinalSoilC)
	}
	return nil
}
