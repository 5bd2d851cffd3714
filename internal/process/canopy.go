package process

import (
	"fmt"
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// leafConductance is stomatal conductance to water vapour (m s⁻¹) for one
// light environment, reduced by soil water, VPD and night frost.
func leafConductance(ppfd float64, met *bgc.DailyMet, psi float64, epc *bgc.EPC, gcorr float64) float64 {
	mPPFD := ppfd / (bgc.PPFD50 + ppfd)

	mPsi := 1.0
	switch {
	case psi <= epc.PsiClose:
		mPsi = 0
	case psi < epc.PsiOpen:
		mPsi = (psi - epc.PsiClose) / (epc.PsiOpen - epc.PsiClose)
	}

	mVPD := 1.0
	switch {
	case met.VPD >= epc.VPDClose:
		mVPD = 0
	case met.VPD > epc.VPDOpen:
		mVPD = (epc.VPDClose - met.VPD) / (epc.VPDClose - epc.VPDOpen)
	}

	mTmin := 1.0
	if met.Tmin < 0 {
		mTmin = math.Max(1+0.125*met.Tmin, 0)
	}
	return epc.MaxConductance * mPPFD * mPsi * mVPD * mTmin * gcorr
}

// CanopyET evaporates intercepted water first and transpires through
// sunlit and shaded leaves for the rest of the daylight period. Canopy water
// not evaporated drips to the soil.
func CanopyET(met *bgc.DailyMet, canopyw float64, epc *bgc.EPC, d *bgc.Diag, wf *bgc.WaterFlux) {
	d.GlSun, d.GlShade = 0, 0
	water := canopyw + wf.PrcpToCanopyW
	if d.AllLAI <= 0 || met.Dayl <= 0 {
		wf.CanopyWToSoilW = water
		return
	}

	tk := met.Tday + 273.15
	gcorr := math.Pow(tk/293.15, 1.75) * 101300 / met.Pa
	glBL := epc.BoundaryCond * gcorr
	glC := epc.CuticularCond * gcorr

	transDayl := met.Dayl
	if water > 0 {
		rate := PenMon(PenMonInput{
			Tair: met.Tday, Pa: met.Pa, VPD: met.VPD,
			Irad: d.SWAbs,
			Rv:   1 / (glBL * d.AllLAI),
			Rh:   1 / (glBL * d.AllLAI),
		})
		if rate > 0 && water/rate < met.Dayl {
			wf.CanopyWEvap = water
			transDayl = met.Dayl - water/rate
		} else if rate > 0 {
			wf.CanopyWEvap = rate * met.Dayl
			wf.CanopyWToSoilW = water - wf.CanopyWEvap
			transDayl = 0
		} else {
			wf.CanopyWToSoilW = water
		}
	}

	glsSun := leafConductance(d.PPFDSun, met, d.Psi, epc, gcorr)
	glsShade := leafConductance(d.PPFDShade, met, d.Psi, epc, gcorr)
	d.GlSun = glBL * (glsSun + glC) / (glBL + glsSun + glC)
	d.GlShade = glBL * (glsShade + glC) / (glBL + glsShade + glC)

	if transDayl <= 0 {
		return
	}
	var trans float64
	for _, leaf := range []struct{ lai, gl, swabs float64 }{
		{d.PlaiSun, d.GlSun, d.SWAbsSun},
		{d.PlaiShade, d.GlShade, d.SWAbsShade},
	} {
		if leaf.lai <= 0 || leaf.gl <= 0 {
			continue
		}
		rate := PenMon(PenMonInput{
			Tair: met.Tday, Pa: met.Pa, VPD: met.VPD,
			Irad: leaf.swabs * leaf.lai,
			Rv:   1 / (leaf.gl * leaf.lai),
			Rh:   1 / (glBL * leaf.lai),
		})
		trans += math.Max(rate, 0) * transDayl
	}
	wf.SoilWTrans = trans
}

// Photosynthesis runs Farquhar assimilation for sunlit and shaded leaves
// and converts it to daily gross carbon gain. Outside the growing season
// no carbon is fixed.
func Photosynthesis(met *bgc.DailyMet, epc *bgc.EPC, cf *bgc.CarbonFlux, d *bgc.Diag) error {
	d.AssimSun, d.AssimShade = 0, 0
	if !d.InGrowingSeason || d.ProjLAI <= 0 || met.Dayl <= 0 {
		return nil
	}
	lnc := 1 / (epc.SLA * epc.LeafCN)
	rd := cf.LeafDayMR / (d.ProjLAI * met.Dayl * bgc.MolCPerUmol)

	sun, err := Farquhar(PsnInput{
		T: met.Tday, Pa: met.Pa, CO2: met.CO2, G: d.GlSun / 1.6,
		LNC: lnc, FLNR: epc.FLNR, PPFD: d.PPFDSun, Rd: rd,
	})
	if err != nil {
		return fmt.Errorf("sunlit canopy: %w", err)
	}
	d.AssimSun = sun.A
	cf.PsnSunToCPool = math.Max((sun.A+rd)*d.PlaiSun*met.Dayl*bgc.MolCPerUmol, 0)

	if d.PlaiShade <= 0 {
		return nil
	}
	shade, err := Farquhar(PsnInput{
		T: met.Tday, Pa: met.Pa, CO2: met.CO2, G: d.GlShade / 1.6,
		LNC: lnc, FLNR: epc.FLNR, PPFD: d.PPFDShade, Rd: rd,
	})
	if err != nil {
		return fmt.Errorf("shaded canopy: %w", err)
	}
	d.AssimShade = shade.A
	cf.PsnShadeToCPool = math.Max((shade.A+rd)*d.PlaiShade*met.Dayl*bgc.MolCPerUmol, 0)
	return nil
}
