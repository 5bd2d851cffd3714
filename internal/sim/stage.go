package sim

import (
	"fmt"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Resources that stages read and write. A pipeline is valid when every
// resource a stage reads is the initial state or was written by an earlier
// stage.
const (
	ResState      = "state"
	ResMet        = "met"
	ResPhenology  = "phenology"
	ResCanopy     = "canopy"
	ResSoilPsi    = "soil_psi"
	ResWaterFlux  = "water_flux"
	ResCarbonFlux = "carbon_flux"
	ResNInputs    = "n_inputs"
	ResDecomp     = "decomp"
	ResAllocation = "allocation"
	ResTurnover   = "turnover"
	ResGrowthResp = "growth_resp"
	ResCommitted  = "committed"
	ResLeached    = "leached"
	ResMortality  = "mortality"
	ResBalance    = "balance"
	ResSummary    = "summary"
)

// Stage is one step of the daily pipeline.
type Stage interface {
	Name() string
	Reads() []string
	Writes() []string
	Run(d *bgc.Day) error
}

type funcStage struct {
	name   string
	reads  []string
	writes []string
	run    func(d *bgc.Day) error
}

func (s *funcStage) Name() string         { return s.name }
func (s *funcStage) Reads() []string      { return s.reads }
func (s *funcStage) Writes() []string     { return s.writes }
func (s *funcStage) Run(d *bgc.Day) error { return s.run(d) }

// NewStage adapts a function into a Stage.
func NewStage(name string, reads, writes []string, run func(d *bgc.Day) error) Stage {
	return &funcStage{name: name, reads: reads, writes: writes, run: run}
}

// Pipeline runs its stages in order. The first failure aborts the day.
type Pipeline []Stage

// Validate checks stage names are unique and every read is satisfied by an
// earlier write.
func (p Pipeline) Validate() error {
	have := map[string]bool{ResState: true}
	names := map[string]bool{}
	for i, st := range p {
		if names[st.Name()] {
			return fmt.Errorf("stage %d: duplicate name %q", i, st.Name())
		}
		names[st.Name()] = true
		for _, r := range st.Reads() {
			if !have[r] {
				return fmt.Errorf("stage %d (%s) reads %q before any stage writes it", i, st.Name(), r)
			}
		}
		for _, w := range st.Writes() {
			have[w] = true
		}
	}
	return nil
}

// Run executes every stage for one day, wrapping a failure with the stage
// and day it occurred on.
func (p Pipeline) Run(d *bgc.Day) error {
	for _, st := range p {
		if err := st.Run(d); err != nil {
			return &bgc.StageError{Stage: st.Name(), Year: d.Year, YDay: d.YDay, Err: err}
		}
	}
	return nil
}

// Names lists the stage names in order.
func (p Pipeline) Names() []string {
	out := make([]string, len(p))
	for i, st := range p {
		out[i] = st.Name()
	}
	return out
}
