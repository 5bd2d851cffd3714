// Package output maps named model quantities to stable numeric codes and
// writes selected ones as fixed-width records.
package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Getter reads one quantity from the day's records. The flux and summary
// may be nil for quantities that only read state.
type Getter func(s *bgc.State, f *bgc.Flux, sum *bgc.Summary) float64

// Var is one selectable output quantity.
type Var struct {
	Code int
	Name string
	Unit string
	Get  Getter
}

// Code blocks. Codes inside a block are assigned in registration order and
// must never be reordered.
const (
	blockWaterState    = 0
	blockWaterFlux     = 20
	blockCarbonState   = 100
	blockCarbonSinks   = 140
	blockCarbonFlux    = 200
	blockNitrogenState = 300
	blockNitrogenSinks = 340
	blockNitrogenFlux  = 400
	blockDiag          = 500
	blockSummary       = 600
)

var (
	vars   []Var
	byName = map[string]int{}
	byCode = map[int]int{}
)

type block struct{ next int }

func (b *block) add(name, unit string, get Getter) {
	v := Var{Code: b.next, Name: name, Unit: unit, Get: get}
	b.next++
	if _, dup := byName[name]; dup {
		panic("output: duplicate variable " + name)
	}
	byName[name] = len(vars)
	byCode[v.Code] = len(vars)
	vars = append(vars, v)
}

func init() {
	registerWater()
	registerCarbon()
	registerNitrogen()
	registerDiag()
	registerSummary()
}

func registerWater() {
	ws := &block{next: blockWaterState}
	ws.add("ws.soilw", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.SoilW })
	ws.add("ws.snoww", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.SnowW })
	ws.add("ws.canopyw", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.CanopyW })
	ws.add("ws.prcp_src", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.PrcpSrc })
	ws.add("ws.outflow_snk", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.OutflowSnk })
	ws.add("ws.soilevap_snk", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.SoilEvapSnk })
	ws.add("ws.canopyevap_snk", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.CanopyEvapSnk })
	ws.add("ws.snowsubl_snk", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.SnowSublSnk })
	ws.add("ws.trans_snk", "kg m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Water.TransSnk })

	wf := &block{next: blockWaterFlux}
	wf.add("wf.prcp_to_canopyw", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.PrcpToCanopyW })
	wf.add("wf.prcp_to_soilw", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.PrcpToSoilW })
	wf.add("wf.prcp_to_snoww", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.PrcpToSnowW })
	wf.add("wf.canopyw_evap", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.CanopyWEvap })
	wf.add("wf.canopyw_to_soilw", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.CanopyWToSoilW })
	wf.add("wf.snoww_to_soilw", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.SnowWToSoilW })
	wf.add("wf.snoww_subl", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.SnowWSubl })
	wf.add("wf.soilw_evap", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.SoilWEvap })
	wf.add("wf.soilw_trans", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.SoilWTrans })
	wf.add("wf.soilw_outflow", "kg m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Water.SoilWOutflow })
}

func registerCarbon() {
	cs := &block{next: blockCarbonState}
	for i, p := range (&bgc.CarbonState{}).Pools() {
		cs.add("cs."+p.Name, "kgC m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 {
			return *s.Carbon.Pools()[i].Value
		})
	}

	sk := &block{next: blockCarbonSinks}
	sk.add("cs.psn_src", "kgC m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Carbon.PsnSrc })
	sk.add("cs.mr_snk", "kgC m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Carbon.MRSnk })
	sk.add("cs.gr_snk", "kgC m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Carbon.GRSnk })
	sk.add("cs.hr_snk", "kgC m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Carbon.HRSnk })
	sk.add("cs.fire_snk", "kgC m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Carbon.FireSnk })

	cf := &block{next: blockCarbonFlux}
	cf.add("cf.gpp", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.GPP() })
	cf.add("cf.mr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.MR() })
	cf.add("cf.gr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.GR() })
	cf.add("cf.hr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.HR() })
	cf.add("cf.psn_sun", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.PsnSunToCPool })
	cf.add("cf.psn_shade", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.PsnShadeToCPool })
	cf.add("cf.leaf_day_mr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.LeafDayMR })
	cf.add("cf.leaf_night_mr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.LeafNightMR })
	cf.add("cf.froot_mr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.FrootMR })
	cf.add("cf.livestem_mr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.LivestemMR })
	cf.add("cf.livecroot_mr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.LivecrootMR })
	cf.add("cf.allocated", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.Allocated() })
	cf.add("cf.mort_to_litr", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.MortToLitr })
	cf.add("cf.mort_to_cwd", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.MortToCwd })
	cf.add("cf.fire", "kgC m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Carbon.FireToSnk })
}

func registerNitrogen() {
	ns := &block{next: blockNitrogenState}
	for i, p := range (&bgc.NitrogenState{}).Pools() {
		ns.add("ns."+p.Name, "kgN m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 {
			return *s.Nitrogen.Pools()[i].Value
		})
	}

	sk := &block{next: blockNitrogenSinks}
	sk.add("ns.nfix_src", "kgN m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Nitrogen.NfixSrc })
	sk.add("ns.ndep_src", "kgN m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Nitrogen.NdepSrc })
	sk.add("ns.spinup_src", "kgN m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Nitrogen.SpinupSrc })
	sk.add("ns.nleach_snk", "kgN m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Nitrogen.NLeachSnk })
	sk.add("ns.nvol_snk", "kgN m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Nitrogen.NVolSnk })
	sk.add("ns.fire_snk", "kgN m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.Nitrogen.FireSnk })

	nf := &block{next: blockNitrogenFlux}
	nf.add("nf.ndep", "kgN m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Nitrogen.NdepToSminN })
	nf.add("nf.nfix", "kgN m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Nitrogen.NfixToSminN })
	nf.add("nf.spinup", "kgN m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Nitrogen.SpinupToSminN })
	nf.add("nf.sminn_to_npool", "kgN m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Nitrogen.SminNToNPool })
	nf.add("nf.retransn_to_npool", "kgN m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Nitrogen.RetransNToNPool })
	nf.add("nf.denitrif", "kgN m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Nitrogen.SminNToDenitrif })
	nf.add("nf.leached", "kgN m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Nitrogen.SminNLeached })
	nf.add("nf.allocated", "kgN m-2 d-1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Nitrogen.Allocated() })
}

func registerDiag() {
	d := &block{next: blockDiag}
	d.add("epv.proj_lai", "m2 m-2", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Diag.ProjLAI })
	d.add("epv.all_lai", "m2 m-2", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Diag.AllLAI })
	d.add("epv.vwc", "m3 m-3", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Diag.VWC })
	d.add("epv.psi", "MPa", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Diag.Psi })
	d.add("epv.fpi", "1", func(_ *bgc.State, f *bgc.Flux, _ *bgc.Summary) float64 { return f.Diag.FPI })
	d.add("epv.dsr", "d", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.EPV.DSR })
	d.add("epv.ann_max_lai", "m2 m-2", func(s *bgc.State, _ *bgc.Flux, _ *bgc.Summary) float64 { return s.EPV.AnnMaxLAI })
}

func registerSummary() {
	sm := &block{next: blockSummary}
	sm.add("summary.daily_gpp", "kgC m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.GPP })
	sm.add("summary.daily_mr", "kgC m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.MR })
	sm.add("summary.daily_gr", "kgC m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.GR })
	sm.add("summary.daily_hr", "kgC m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.HR })
	sm.add("summary.daily_fire", "kgC m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.Fire })
	sm.add("summary.daily_npp", "kgC m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.NPP })
	sm.add("summary.daily_nep", "kgC m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.NEP })
	sm.add("summary.daily_nee", "kgC m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.NEE })
	sm.add("summary.daily_et", "kg m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.ET })
	sm.add("summary.daily_outflow", "kg m-2 d-1", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.Outflow })
	sm.add("summary.lai", "m2 m-2", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.LAI })
	sm.add("summary.soil_c", "kgC m-2", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.SoilC })
	sm.add("summary.litter_c", "kgC m-2", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.LitterC })
	sm.add("summary.veg_c", "kgC m-2", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.VegC })
	sm.add("summary.total_c", "kgC m-2", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.TotalC })
	sm.add("summary.soil_n", "kgN m-2", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.SoilN })
	sm.add("summary.sminn", "kgN m-2", func(_ *bgc.State, _ *bgc.Flux, s *bgc.Summary) float64 { return s.SminN })
}

// Lookup finds a variable by name.
func Lookup(name string) (Var, bool) {
	i, ok := byName[name]
	if !ok {
		return Var{}, false
	}
	return vars[i], true
}

// ByCode finds a variable by numeric code.
func ByCode(code int) (Var, bool) {
	i, ok := byCode[code]
	if !ok {
		return Var{}, false
	}
	return vars[i], true
}

// All returns every variable ordered by code.
func All() []Var {
	out := make([]Var, len(vars))
	copy(out, vars)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Resolve maps names to variables, failing on the first unknown name.
func Resolve(names []string) ([]Var, error) {
	out := make([]Var, 0, len(names))
	for _, n := range names {
		v, ok := Lookup(n)
		if !ok {
			return nil, fmt.Errorf("%w: unknown output variable %q", bgc.ErrInvalidConfig, n)
		}
		out = append(out, v)
	}
	return out, nil
}

// List writes the registry as "code name unit" lines.
func List(w io.Writer) error {
	for _, v := range All() {
		if _, err := fmt.Fprintf(w, "%3d %-24s %s\n", v.Code, v.Name, v.Unit); err != nil {
			return err
		}
	}
	return nil
}
