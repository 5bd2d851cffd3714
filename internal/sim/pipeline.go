package sim

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/ecosim/internal/balance"
	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/logging"
	"github.com/san-kum/ecosim/internal/met"
	"github.com/san-kum/ecosim/internal/phenology"
	"github.com/san-kum/ecosim/internal/process"
	"github.com/san-kum/ecosim/internal/update"
)

func reads(r ...string) []string  { return r }
func writes(w ...string) []string { return w }

// DailyPipeline builds the canonical daily stage order. The checker holds
// the previous day's balances and is owned by one run.
func DailyPipeline(rec *met.Record, sig *phenology.Signal, checker *balance.Checker, log *slog.Logger) Pipeline {
	return Pipeline{
		NewStage("precision_control", reads(ResState), writes(ResState), func(d *bgc.Day) error {
			c := process.PrecisionControl(d.State)
			if c.Pools > 0 {
				log.Log(context.Background(), logging.SlogDiagnostic, "precision control",
					"year", d.Year, "yday", d.YDay, "pools", c.Pools, "carbon", c.Carbon, "nitrogen", c.Nitrogen)
			}
			return nil
		}),
		NewStage("met", reads(ResState), writes(ResMet), func(d *bgc.Day) error {
			m, err := rec.Day(d.MetYear, d.YDay, d.Site)
			if err != nil {
				return &bgc.IOError{Op: "met lookup", Err: err}
			}
			d.Met = m
			return nil
		}),
		NewStage("soil_temperature", reads(ResMet, ResState), writes(ResMet), func(d *bgc.Day) error {
			process.CorrectSoilTemperature(&d.Met, d.State.Water.SnowW)
			return nil
		}),
		NewStage("phenology", reads(ResState), writes(ResPhenology, ResCarbonFlux), func(d *bgc.Day) error {
			p, err := sig.Day(d.MetYear, d.YDay)
			if err != nil {
				return &bgc.IOError{Op: "phenology lookup", Err: err}
			}
			d.Phen = p
			process.PhenologyFluxes(p, d.State, d.EPC, d.Flux)
			return nil
		}),
		NewStage("radiation", reads(ResMet, ResState), writes(ResCanopy), func(d *bgc.Day) error {
			if err := process.CanopyStructure(d.State.Carbon.LeafC, d.EPC, &d.Flux.Diag); err != nil {
				return err
			}
			process.RadTrans(&d.Met, d.EPC, d.Site, &d.Flux.Diag)
			return nil
		}),
		NewStage("precipitation", reads(ResMet, ResCanopy), writes(ResWaterFlux), func(d *bgc.Day) error {
			process.RoutePrecipitation(&d.Met, d.Flux.Diag.AllLAI, d.EPC, &d.Flux.Water)
			return nil
		}),
		NewStage("snow_soil_evap", reads(ResMet, ResCanopy, ResWaterFlux), writes(ResWaterFlux), func(d *bgc.Day) error {
			ws, wf, diag := &d.State.Water, &d.Flux.Water, &d.Flux.Diag
			if ws.SnowW > 0 {
				process.Snowmelt(&d.Met, ws.SnowW, diag.SWTrans, wf)
				return nil
			}
			diag.PotEvap = process.PotentialSoilEvap(&d.Met, diag.SWTrans)
			wf.SoilWEvap, d.State.EPV.DSR = process.BareSoilEvap(diag.PotEvap, wf.PrcpToSoilW, d.State.EPV.DSR)
			return nil
		}),
		NewStage("soil_psi", reads(ResState), writes(ResSoilPsi), func(d *bgc.Day) error {
			d.Flux.Diag.VWC, d.Flux.Diag.Psi = process.SoilPsi(d.State.Water.SoilW, d.Site)
			return nil
		}),
		NewStage("maintenance_resp", reads(ResMet, ResState), writes(ResCarbonFlux), func(d *bgc.Day) error {
			process.MaintenanceResp(&d.Met, &d.State.Nitrogen, d.EPC, &d.Flux.Carbon)
			return nil
		}),
		NewStage("canopy_et_psn", reads(ResMet, ResCanopy, ResSoilPsi, ResPhenology, ResCarbonFlux, ResWaterFlux),
			writes(ResWaterFlux, ResCarbonFlux), func(d *bgc.Day) error {
				process.CanopyET(&d.Met, d.State.Water.CanopyW, d.EPC, &d.Flux.Diag, &d.Flux.Water)
				if d.Flux.Diag.AllLAI > 0 && d.Met.Dayl > 0 {
					return process.Photosynthesis(&d.Met, d.EPC, &d.Flux.Carbon, &d.Flux.Diag)
				}
				return nil
			}),
		NewStage("outflow", reads(ResWaterFlux, ResState), writes(ResWaterFlux), func(d *bgc.Day) error {
			proj := process.ProjectedSoilW(&d.State.Water, &d.Flux.Water)
			d.Flux.Water.SoilWOutflow = process.Outflow(proj, d.Site.SoilWSat, d.Site.SoilWFC)
			return nil
		}),
		NewStage("n_inputs", reads(ResState), writes(ResNInputs), func(d *bgc.Day) error {
			process.NitrogenInputs(d.Site, &d.Flux.Nitrogen)
			return nil
		}),
		NewStage("decomposition", reads(ResMet, ResSoilPsi, ResState), writes(ResDecomp), func(d *bgc.Day) error {
			process.Decomposition(&d.Met, d.Flux.Diag.Psi, d.Site, d.EPC, &d.State.Carbon, &d.State.Nitrogen, d.Flux)
			return nil
		}),
		NewStage("allocation", reads(ResCarbonFlux, ResDecomp, ResNInputs, ResState), writes(ResAllocation, ResDecomp),
			func(d *bgc.Day) error {
				process.DailyAllocation(d.State, d.EPC, d.NAddFrac, d.Flux)
				return nil
			}),
		NewStage("annual_rates", reads(ResPhenology, ResState), writes(ResTurnover), func(d *bgc.Day) error {
			if d.Flux.Diag.AnnualAlloc {
				process.AnnualRates(&d.State.Carbon, d.EPC, &d.State.EPV)
			}
			return nil
		}),
		NewStage("growth_resp", reads(ResAllocation, ResPhenology), writes(ResGrowthResp), func(d *bgc.Day) error {
			process.GrowthResp(&d.State.Carbon, d.EPC, d.Flux)
			return nil
		}),
		NewStage("state_update", reads(ResGrowthResp, ResAllocation, ResWaterFlux), writes(ResCommitted), func(d *bgc.Day) error {
			annual := d.Flux.Diag.AnnualAlloc
			update.Carbon(&d.State.Carbon, &d.Flux.Carbon, annual)
			update.Nitrogen(&d.State.Nitrogen, &d.Flux.Nitrogen, annual)
			reverted, err := update.Water(&d.State.Water, &d.Flux.Water)
			if reverted {
				log.Log(context.Background(), logging.SlogDetail, "soil water safety valve cancelled evaporation and transpiration",
					"year", d.Year, "yday", d.YDay)
			}
			return err
		}),
		NewStage("leaching", reads(ResCommitted), writes(ResLeached), func(d *bgc.Day) error {
			process.Leaching(&d.State.Nitrogen, &d.State.Water, &d.Flux.Water, &d.Flux.Nitrogen)
			update.Leaching(&d.State.Nitrogen, &d.Flux.Nitrogen)
			return nil
		}),
		NewStage("mortality", reads(ResLeached), writes(ResMortality), func(d *bgc.Day) error {
			update.Mortality(d.State, d.EPC, d.Flux)
			if err := update.CheckNonNegative(d.State); err != nil {
				return err
			}
			if !d.State.IsValid() {
				return bgc.ErrInvalidState
			}
			return nil
		}),
		NewStage("balance", reads(ResMortality), writes(ResBalance), func(d *bgc.Day) error {
			if d.First {
				checker.Reset()
			}
			return checker.Check(d.State, d.Year, d.YDay)
		}),
		NewStage("summary", reads(ResBalance, ResCanopy), writes(ResSummary), func(d *bgc.Day) error {
			process.Summarize(d.State, d.Flux, &d.Summary)
			if d.Summary.LAI > d.State.EPV.AnnMaxLAI {
				d.State.EPV.AnnMaxLAI = d.Summary.LAI
			}
			return nil
		}),
	}
}

// mustValidate panics on a malformed built-in pipeline.
func mustValidate(p Pipeline) Pipeline {
	if err := p.Validate(); err != nil {
		panic(fmt.Sprintf("sim: invalid daily pipeline: %v", err))
	}
	return p
}
