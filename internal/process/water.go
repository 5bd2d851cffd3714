package process

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// RoutePrecipitation splits the day's precipitation into snowfall, canopy
// interception and direct throughfall.
func RoutePrecipitation(met *bgc.DailyMet, allLAI float64, epc *bgc.EPC, wf *bgc.WaterFlux) {
	prcp := met.Prcp
	if prcp <= 0 {
		return
	}
	if met.Tavg <= 0 {
		wf.PrcpToSnowW = prcp
		return
	}
	intercepted := math.Min(epc.IntCoef*prcp*allLAI, prcp)
	wf.PrcpToCanopyW = intercepted
	wf.PrcpToSoilW = prcp - intercepted
}

// Snowmelt melts the snowpack with a temperature index plus absorbed
// radiation, or sublimates it on freezing days. Fluxes never exceed the pack.
func Snowmelt(met *bgc.DailyMet, snoww, swTrans float64, wf *bgc.WaterFlux) {
	if snoww <= 0 {
		return
	}
	radMelt := swTrans * (1 - bgc.SnowAlbedo) * met.Dayl
	if met.Tavg > 0 {
		melt := (bgc.SnowTCoef*met.Tavg + radMelt/bgc.LHFus)
		wf.SnowWToSoilW = math.Min(melt, snoww)
		return
	}
	wf.SnowWSubl = math.Min(radMelt/bgc.LHSub, snoww)
}

// BareSoilEvap applies the days-since-rain drying curve to potential soil
// evaporation and returns actual evaporation with the updated day counter.
func BareSoilEvap(potEvap, prcpToSoil, dsr float64) (float64, float64) {
	if prcpToSoil >= potEvap {
		return 0.6 * potEvap, 0
	}
	dsr++
	evap := (0.3 / (dsr * dsr)) * potEvap
	if evap < prcpToSoil {
		evap = prcpToSoil
		dsr--
	}
	return evap, dsr
}

// PotentialSoilEvap is the Penman-Monteith evaporation (kg m⁻² d⁻¹) from a
// wet soil surface driven by radiation transmitted through the canopy.
func PotentialSoilEvap(met *bgc.DailyMet, swTrans float64) float64 {
	tk := met.Tday + 273.15
	rcorr := 1.0 / (math.Pow(tk/293.15, 1.75) * 101300 / met.Pa)
	rbl := 107.0 * rcorr
	rate := PenMon(PenMonInput{
		Tair: met.Tday,
		Pa:   met.Pa,
		VPD:  met.VPD,
		Irad: swTrans,
		Rv:   rbl,
		Rh:   rbl,
	})
	return math.Max(rate*met.Dayl, 0)
}

// SoilPsi converts soil water (kg m⁻²) to volumetric content and matric
// potential (MPa) with the Campbell power law.
func SoilPsi(soilw float64, site *bgc.Site) (vwc, psi float64) {
	vwc = soilw / (1000 * site.SoilDepth)
	if vwc <= 0 {
		return 0, -10
	}
	psi = site.PsiSat * math.Pow(vwc/site.VWCSat, site.SoilB)
	return vwc, psi
}

// Outflow returns drainage for a projected soil water content. Water above
// saturation leaves at once; between field capacity and saturation half of
// the excess over field capacity drains per day.
func Outflow(soilw, sat, fc float64) float64 {
	switch {
	case soilw > sat:
		return soilw - sat
	case soilw > fc:
		return 0.5 * (soilw - fc)
	default:
		return 0
	}
}

// ProjectedSoilW is soil water after today's inputs and losses, before
// outflow.
func ProjectedSoilW(ws *bgc.WaterState, wf *bgc.WaterFlux) float64 {
	return ws.SoilW + wf.PrcpToSoilW + wf.SnowWToSoilW + wf.CanopyWToSoilW - wf.SoilWEvap - wf.SoilWTrans
}
