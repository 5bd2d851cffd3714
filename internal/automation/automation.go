// Package automation runs scripted sequences of configured runs, such as a
// spinup followed by transient model runs that continue from its restart
// record, and one-parameter sensitivity sweeps.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/config"
	"github.com/san-kum/ecosim/internal/experiment"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Base        string         `yaml:"base"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run. Unset fields keep the base configuration.
type ScenarioStep struct {
	Name       string   `yaml:"name"`
	Mode       string   `yaml:"mode"`
	Vegetation string   `yaml:"vegetation"`
	Years      int      `yaml:"years"`
	FirstYear  int      `yaml:"first_year"`
	MaxYears   int      `yaml:"max_years"`
	CO2        float64  `yaml:"co2"`
	NDep       float64  `yaml:"ndep"`
	MetFile    string   `yaml:"met_file"`
	Continue   bool     `yaml:"continue"`
	Daily      []string `yaml:"daily"`
}

// StepResult pairs a step with its outcome.
type StepResult struct {
	Step    string
	Outcome *experiment.Outcome
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &bgc.IOError{Op: "read scenario", Path: path, Err: err}
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: scenario %s: %v", bgc.ErrInvalidConfig, path, err)
	}
	if err := scenario.check(); err != nil {
		return nil, err
	}
	if scenario.Base != "" && !filepath.IsAbs(scenario.Base) {
		scenario.Base = filepath.Join(filepath.Dir(path), scenario.Base)
	}
	return &scenario, nil
}

func (s *Scenario) check() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: scenario %q has no steps", bgc.ErrInvalidConfig, s.Name)
	}
	seen := make(map[string]bool, len(s.Steps))
	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("%w: step %d has no name", bgc.ErrInvalidConfig, i+1)
		}
		if seen[step.Name] {
			return fmt.Errorf("%w: duplicate step %q", bgc.ErrInvalidConfig, step.Name)
		}
		seen[step.Name] = true
		if i == 0 && step.Continue {
			return fmt.Errorf("%w: first step %q cannot continue", bgc.ErrInvalidConfig, step.Name)
		}
	}
	return nil
}

func (s *Scenario) baseConfig() (*config.Config, error) {
	if s.Base == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(s.Base)
}

// stepConfig layers one step over the base configuration. Every step
// writes a restart record named after it into workDir.
func (s *Scenario) stepConfig(step ScenarioStep, prevRestart, workDir string) (*config.Config, error) {
	cfg, err := s.baseConfig()
	if err != nil {
		return nil, err
	}
	if step.Vegetation != "" {
		epc := config.GetPreset(step.Vegetation)
		if epc == nil {
			return nil, fmt.Errorf("%w: unknown vegetation %q", bgc.ErrInvalidConfig, step.Vegetation)
		}
		cfg.Vegetation, cfg.EPC = step.Vegetation, *epc
	}
	if step.Mode != "" {
		cfg.Mode = step.Mode
	}
	if step.Years > 0 {
		cfg.Years = step.Years
	}
	if step.FirstYear != 0 {
		cfg.FirstYear = step.FirstYear
	}
	if step.MaxYears > 0 {
		cfg.Spinup.MaxYears = step.MaxYears
	}
	if step.CO2 > 0 {
		cfg.Site.CO2 = step.CO2
	}
	if step.NDep > 0 {
		cfg.Site.NDep = step.NDep
	}
	if step.MetFile != "" {
		cfg.Met.File = step.MetFile
	}
	if len(step.Daily) > 0 {
		cfg.Output.Daily = step.Daily
	}

	cfg.Output.Dir = workDir
	cfg.Output.Prefix = step.Name
	cfg.Restart.Write = filepath.Join(workDir, step.Name+".restart")
	cfg.Restart.Read = ""
	cfg.Restart.KeepMetYear = false
	if step.Continue {
		cfg.Restart.Read = prevRestart
		cfg.Restart.KeepMetYear = true
	}
	return cfg, nil
}

// RunScenario executes all steps in order. A step with continue set starts
// from the restart record of the step before it.
func RunScenario(ctx context.Context, scenario *Scenario, workDir string, log *slog.Logger) ([]StepResult, error) {
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, &bgc.IOError{Op: "create scenario dir", Path: workDir, Err: err}
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	var prevRestart string
	for i, step := range scenario.Steps {
		log.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", step.Name)

		cfg, err := scenario.stepConfig(step, prevRestart, workDir)
		if err != nil {
			return results, fmt.Errorf("step %s: %w", step.Name, err)
		}

		out, err := experiment.New(cfg, log.With("step", step.Name)).Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %s: %w", step.Name, err)
		}
		results = append(results, StepResult{Step: step.Name, Outcome: out})
		prevRestart = out.Restart
	}

	return results, nil
}

// ParameterSweep runs model-mode simulations across a range of values of
// one named parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	MeanNEP    float64
	MaxLAI     float64
	FinalSoilC float64
}

var sweepParams = map[string]func(c *config.Config, v float64){
	"co2":             func(c *config.Config, v float64) { c.Site.CO2 = v },
	"ndep":            func(c *config.Config, v float64) { c.Site.NDep = v },
	"sla":             func(c *config.Config, v float64) { c.EPC.SLA = v },
	"leaf_cn":         func(c *config.Config, v float64) { c.EPC.LeafCN = v },
	"max_conductance": func(c *config.Config, v float64) { c.EPC.MaxConductance = v },
	"flnr":            func(c *config.Config, v float64) { c.EPC.FLNR = v },
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *slog.Logger) ([]SweepResult, error) {
	set, ok := sweepParams[sweep.ParamName]
	if !ok {
		return nil, fmt.Errorf("%w: parameter %q cannot be swept", bgc.ErrInvalidConfig, sweep.ParamName)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", bgc.ErrInvalidConfig)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep
		cfg := *sweep.Base
		cfg.Mode = config.ModeModel
		cfg.Restart = config.RestartConfig{}
		cfg.Output.Daily, cfg.Output.Annual, cfg.Output.SQLite = nil, nil, ""
		set(&cfg, paramVal)

		out, err := experiment.New(&cfg, log).Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		r := SweepResult{ParamValue: paramVal, FinalSoilC: out.Model.State.Carbon.SoilC()}
		for _, a := range out.Model.Annual {
			r.MeanNEP += a.NEP
			r.MaxLAI = max(r.MaxLAI, a.MaxLAI)
		}
		if n := len(out.Model.Annual); n > 0 {
			r.MeanNEP /= float64(n)
		}
		results = append(results, r)

		log.Info("sweep step", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal, "mean_nep", r.MeanNEP)
	}

	return results, nil
}

// SweepParams lists the parameters RunSweep accepts.
func SweepParams() []string {
	names := make([]string, 0, len(sweepParams))
	for name := range sweepParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
