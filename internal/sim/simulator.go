// Package sim drives the daily pipeline over simulated years. One driver
// serves both run modes; spinup adds the convergence state machine as an
// outer wrapper around the same annual loop.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/ecosim/internal/balance"
	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/logging"
	"github.com/san-kum/ecosim/internal/met"
	"github.com/san-kum/ecosim/internal/metrics"
	"github.com/san-kum/ecosim/internal/phenology"
	"github.com/san-kum/ecosim/internal/process"
	"github.com/san-kum/ecosim/internal/spinup"
)

// Inputs are the read-only drivers and parameters of a run.
type Inputs struct {
	EPC  bgc.EPC
	Site bgc.Site
	Met  *met.Record
	Phen *phenology.Signal
}

type Simulator struct {
	in        Inputs
	log       *slog.Logger
	metrics   []metrics.Metric
	observers []Observer
	recorder  *metrics.Recorder
}

// New builds a simulator. Site hydraulic parameters are derived here.
func New(in Inputs, log *slog.Logger) *Simulator {
	if log == nil {
		log = logging.Discard()
	}
	in.Site.Derive()
	return &Simulator{in: in, log: log}
}

func (s *Simulator) AddMetric(m metrics.Metric)      { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)          { s.observers = append(s.observers, o) }
func (s *Simulator) SetRecorder(r *metrics.Recorder) { s.recorder = r }

// Site returns the site with derived soil parameters.
func (s *Simulator) Site() bgc.Site { return s.in.Site }

func (s *Simulator) validateConfig(cfg Config) error {
	switch cfg.Mode {
	case ModeModel:
		if cfg.Years <= 0 {
			return fmt.Errorf("%w: years must be positive, got %d", bgc.ErrInvalidConfig, cfg.Years)
		}
	case ModeSpinup:
		if cfg.MaxYears <= 0 {
			return fmt.Errorf("%w: spinup max years must be positive, got %d", bgc.ErrInvalidConfig, cfg.MaxYears)
		}
	default:
		return fmt.Errorf("%w: %v", bgc.ErrUnknownMode, cfg.Mode)
	}
	if s.in.Met == nil || s.in.Met.NumYears() == 0 {
		return bgc.ErrNoMetYears
	}
	if s.in.Phen == nil || s.in.Phen.NumYears() != s.in.Met.NumYears() {
		return fmt.Errorf("%w: phenology signal does not cover the met record", bgc.ErrInvalidConfig)
	}
	return nil
}

// Run simulates from x0, which is not modified. The context is checked
// between years; a cancelled run returns the partial result with the
// context error. Any stage failure aborts the run.
func (s *Simulator) Run(ctx context.Context, x0 *bgc.State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	nmet := s.in.Met.NumYears()
	checker := balance.NewChecker()
	pipe := mustValidate(DailyPipeline(s.in.Met, s.in.Phen, checker, s.log))

	var machine *spinup.Machine
	if cfg.Mode == ModeSpinup {
		machine = spinup.New(nmet, cfg.MaxYears)
	}

	st := x0.Clone()
	result := &Result{
		Mode:     cfg.Mode,
		State:    st,
		Metrics:  make(map[string]float64),
		MaxDrift: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	process.AnnualRates(&st.Carbon, &s.in.EPC, &st.EPV)

	metYear := ((cfg.StartMetYear % nmet) + nmet) % nmet
	var flux bgc.Flux

	s.log.Info("run started", "mode", cfg.Mode.String(), "met_years", nmet, "start_met_year", metYear)

	for year := 0; ; year++ {
		if machine != nil {
			if machine.Done() {
				break
			}
		} else if year >= cfg.Years {
			break
		}

		select {
		case <-ctx.Done():
			s.finish(result, checker, machine, metYear)
			return result, ctx.Err()
		default:
		}

		started := time.Now()
		annual := bgc.AnnualSummary{Year: cfg.FirstYear + year, MetYear: metYear}
		var naddfrac float64
		if machine != nil {
			naddfrac = machine.NAddFrac()
		}
		st.EPV.AnnMaxLAI = 0

		var day *bgc.Day
		for yday := 0; yday < bgc.DaysPerYear; yday++ {
			flux.Reset()
			day = &bgc.Day{
				Year:     annual.Year,
				YDay:     yday,
				MetYear:  metYear,
				First:    year == 0 && yday == 0,
				State:    st,
				Flux:     &flux,
				EPC:      &s.in.EPC,
				Site:     &s.in.Site,
				NAddFrac: naddfrac,
			}
			if err := pipe.Run(day); err != nil {
				s.finish(result, checker, machine, metYear)
				s.log.Error("run aborted", "error", err, "kind", bgc.Classify(err).String())
				return result, err
			}
			result.Days++

			annual.Add(day.Summary, day.Met.Prcp)
			if machine != nil {
				machine.AccumulateDay(day.Summary.SoilC)
			}
			for _, m := range s.metrics {
				m.Observe(day)
			}
			for _, o := range s.observers {
				if err := o.OnDay(day); err != nil {
					s.finish(result, checker, machine, metYear)
					return result, err
				}
			}
			if s.recorder != nil {
				s.recorder.Day()
			}
		}

		result.Annual = append(result.Annual, annual)
		for _, o := range s.observers {
			if err := o.OnYear(annual, day); err != nil {
				s.finish(result, checker, machine, metYear)
				return result, err
			}
		}
		if s.recorder != nil {
			s.recorder.Year(cfg.Mode.String(), annual.SoilC, annual.TotalC, time.Since(started).Seconds())
		}
		s.log.Debug("year complete", "year", annual.Year, "met_year", metYear,
			"nep", annual.NEP, "soil_c", annual.SoilC, "max_lai", annual.MaxLAI)

		if machine != nil {
			s.log.Debug("spinup year", "spin_years", machine.SpinYears, "block_year", machine.BlockYear(),
				"naddfrac", naddfrac)
		}
		if machine != nil && machine.EndYear() {
			s.log.Info("spinup block complete", "years", machine.SpinYears, "metcycle", machine.Metcycle,
				"steady1", machine.Steady1, "steady2", machine.Steady2, "rising", machine.Rising, "trend", machine.Trend)
			if s.recorder != nil {
				s.recorder.SpinupTrend(machine.Trend)
			}
		} else if machine == nil {
			s.log.Info("year complete", "year", annual.Year, "nep", annual.NEP, "total_c", annual.TotalC)
		}

		metYear = (metYear + 1) % nmet
	}

	s.finish(result, checker, machine, metYear)
	if machine != nil {
		s.log.Info("spinup finished", "converged", result.Spinup.Converged, "years", result.Spinup.Years,
			"trend", result.Spinup.Trend)
	}
	return result, nil
}

// finish fills the summary fields of a result, complete or not.
func (s *Simulator) finish(r *Result, checker *balance.Checker, machine *spinup.Machine, metYear int) {
	r.NextMetYear = metYear
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	for _, d := range []balance.Domain{balance.Water, balance.Carbon, balance.Nitrogen} {
		r.MaxDrift[d.String()] = checker.MaxDrift(d)
		if s.recorder != nil {
			s.recorder.BalanceDrift(d.String(), checker.MaxDrift(d))
		}
	}
	if machine != nil {
		r.Spinup = &SpinupOutcome{
			Converged: machine.Converged(),
			Years:     machine.SpinYears,
			NBlock:    machine.NBlock(),
			Trend:     machine.Trend,
		}
	}
}
