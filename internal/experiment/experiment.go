// Package experiment composes a configured run out of the meteorology,
// phenology, simulator and output collaborators.
package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/config"
	"github.com/san-kum/ecosim/internal/met"
	"github.com/san-kum/ecosim/internal/metrics"
	"github.com/san-kum/ecosim/internal/output"
	"github.com/san-kum/ecosim/internal/phenology"
	"github.com/san-kum/ecosim/internal/restart"
	"github.com/san-kum/ecosim/internal/sim"
)

// Outcome is the result of one configured run. Spinup is set for the
// spinup and spin-and-go modes, Model for model and spin-and-go.
type Outcome struct {
	RunID      uuid.UUID
	Mode       string
	Vegetation string
	Started    time.Time
	Elapsed    time.Duration
	Spinup     *sim.Result
	Model      *sim.Result
	Restart    string
	Recorder   *metrics.Recorder
}

// Final is the result of the last phase that ran.
func (o *Outcome) Final() *sim.Result {
	if o.Model != nil {
		return o.Model
	}
	return o.Spinup
}

type Experiment struct {
	cfg         *config.Config
	log         *slog.Logger
	metricsFile string
}

func New(cfg *config.Config, log *slog.Logger) *Experiment {
	return &Experiment{cfg: cfg, log: log}
}

// SetMetricsFile makes Run dump the Prometheus registry to path.
func (e *Experiment) SetMetricsFile(path string) { e.metricsFile = path }

// LoadMet reads the configured meteorology file, or generates a synthetic
// record when no file is named.
func LoadMet(cfg *config.Config) (*met.Record, error) {
	if cfg.Met.File != "" {
		return met.Load(cfg.Met.File)
	}
	return met.Synthetic(met.Climate{
		Years:         cfg.Met.SyntheticYears,
		FirstYear:     cfg.FirstYear,
		MeanTemp:      cfg.Met.MeanTemp,
		TempAmplitude: cfg.Met.TempAmplitude,
		AnnualPrcp:    cfg.Met.AnnualPrcp,
		Latitude:      cfg.Site.Latitude,
	}), nil
}

// Run validates the configuration, builds the initial state and executes
// the configured mode.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rec, err := LoadMet(cfg)
	if err != nil {
		return nil, err
	}
	sig, err := phenology.Build(&cfg.EPC, rec)
	if err != nil {
		return nil, err
	}
	for i, s := range sig.Seasons {
		e.log.Debug("growing season", "met_year", i, "onset", s.Onset, "offset", s.Offset, "modeled", s.Modeled)
	}

	out := &Outcome{
		RunID:      uuid.New(),
		Mode:       cfg.Mode,
		Vegetation: cfg.Vegetation,
		Started:    time.Now(),
		Recorder:   metrics.NewRecorder(),
	}
	log := e.log.With("run_id", out.RunID.String())

	s := sim.New(sim.Inputs{EPC: cfg.EPC, Site: cfg.Site, Met: rec, Phen: sig}, log)
	s.SetRecorder(out.Recorder)
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	x0, startMetYear, err := e.initialState(s)
	if err != nil {
		return nil, err
	}

	obs, err := openOutputs(cfg, out.RunID)
	if err != nil {
		return nil, err
	}
	defer obs.Close()

	var final *sim.Result
	switch cfg.Mode {
	case config.ModeModel:
		s.AddObserver(obs)
		out.Model, err = s.Run(ctx, x0, sim.Config{
			Mode: sim.ModeModel, Years: cfg.Years, FirstYear: cfg.FirstYear, StartMetYear: startMetYear,
		})
		final = out.Model

	case config.ModeSpinup:
		s.AddObserver(obs)
		out.Spinup, err = s.Run(ctx, x0, sim.Config{
			Mode: sim.ModeSpinup, FirstYear: cfg.FirstYear, MaxYears: cfg.Spinup.MaxYears, StartMetYear: startMetYear,
		})
		final = out.Spinup

	case config.ModeSpinAndGo:
		out.Spinup, err = s.Run(ctx, x0, sim.Config{
			Mode: sim.ModeSpinup, FirstYear: cfg.FirstYear, MaxYears: cfg.Spinup.MaxYears, StartMetYear: startMetYear,
		})
		if err != nil {
			final = out.Spinup
			break
		}
		log.Info("spinup phase finished", "years", out.Spinup.Spinup.Years, "converged", out.Spinup.Spinup.Converged)
		s.AddObserver(obs)
		out.Model, err = s.Run(ctx, out.Spinup.State, sim.Config{
			Mode: sim.ModeModel, Years: cfg.Years, FirstYear: cfg.FirstYear, StartMetYear: out.Spinup.NextMetYear,
		})
		final = out.Model
	}
	out.Elapsed = time.Since(out.Started)
	if cerr := obs.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return out, err
	}

	if cfg.Restart.Write != "" {
		if err := restart.Save(cfg.Restart.Write, final.State, final.NextMetYear); err != nil {
			return out, err
		}
		out.Restart = cfg.Restart.Write
		log.Info("restart written", "path", cfg.Restart.Write, "met_year", final.NextMetYear)
	}
	if e.metricsFile != "" {
		if err := out.Recorder.WriteTextfile(e.metricsFile); err != nil {
			return out, err
		}
	}
	return out, nil
}

// initialState reads the restart record when one is configured and
// otherwise builds a cold start from the init block.
func (e *Experiment) initialState(s *sim.Simulator) (*bgc.State, int, error) {
	cfg := e.cfg
	site := s.Site()
	if cfg.Restart.Read == "" {
		return sim.InitialState(cfg.Init, &cfg.EPC, &site), 0, nil
	}

	x0 := &bgc.State{}
	metYear, err := restart.Load(cfg.Restart.Read, x0)
	if err != nil {
		return nil, 0, err
	}
	e.log.Info("restart read", "path", cfg.Restart.Read, "met_year", metYear, "keep_metyr", cfg.Restart.KeepMetYear)
	if !cfg.Restart.KeepMetYear {
		metYear = 0
	}
	return x0, metYear, nil
}

// outputs forwards simulated days and years to the configured writers.
type outputs struct {
	daily  *output.Writer
	annual *output.Writer
	db     *output.SQLiteSink
}

func openOutputs(cfg *config.Config, runID uuid.UUID) (*outputs, error) {
	o := &outputs{}
	prefix := filepath.Join(cfg.Output.Dir, cfg.Output.Prefix)
	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return nil, &bgc.IOError{Op: "create output dir", Path: cfg.Output.Dir, Err: err}
		}
	}

	if len(cfg.Output.Daily) > 0 {
		vars, err := output.Resolve(cfg.Output.Daily)
		if err != nil {
			return nil, err
		}
		if o.daily, err = output.Create(prefix+".day", vars, cfg.Output.Text); err != nil {
			return nil, err
		}
	}
	if len(cfg.Output.Annual) > 0 {
		vars, err := output.Resolve(cfg.Output.Annual)
		if err != nil {
			o.Close()
			return nil, err
		}
		if o.annual, err = output.Create(prefix+".ann", vars, cfg.Output.Text); err != nil {
			o.Close()
			return nil, err
		}
	}
	if cfg.Output.SQLite != "" {
		db, err := output.OpenSQLite(cfg.Output.SQLite, runID, cfg.Mode)
		if err != nil {
			o.Close()
			return nil, err
		}
		o.db = db
	}
	return o, nil
}

func (o *outputs) OnDay(d *bgc.Day) error {
	if o.daily == nil {
		return nil
	}
	return o.daily.Record(d.Year, d.YDay, d.State, d.Flux, &d.Summary)
}

func (o *outputs) OnYear(a bgc.AnnualSummary, d *bgc.Day) error {
	if o.annual != nil {
		if err := o.annual.Record(a.Year, -1, d.State, d.Flux, &d.Summary); err != nil {
			return err
		}
	}
	if o.db != nil {
		return o.db.WriteAnnual(a)
	}
	return nil
}

// Close flushes every open writer and reports the first failure.
func (o *outputs) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if o.daily != nil {
		keep(o.daily.Close())
		o.daily = nil
	}
	if o.annual != nil {
		keep(o.annual.Close())
		o.annual = nil
	}
	if o.db != nil {
		keep(o.db.Close())
		o.db = nil
	}
	if first != nil {
		return fmt.Errorf("close outputs: %w", first)
	}
	return nil
}
