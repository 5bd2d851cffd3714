package process

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ecosim/internal/bgc"
)

func summerMet() *bgc.DailyMet {
	return &bgc.DailyMet{
		Tmax: 26, Tmin: 12, Tavg: 19, Tday: 22, Tnight: 15, Tsoil: 17,
		VPD: 900, SW: 500, PAR: 225, Dayl: 50000, Pa: 100000, CO2: 380,
	}
}

func canopyEPC() *bgc.EPC {
	e := grassEPC()
	e.SLA = 20
	e.LAIRatio = 2
	e.ExtCoef = 0.5
	e.FLNR = 0.08
	e.MaxConductance = 0.006
	e.CuticularCond = 0.00001
	e.BoundaryCond = 0.04
	e.PsiOpen, e.PsiClose = -0.5, -2.5
	e.VPDOpen, e.VPDClose = 1000, 4000
	return e
}

func TestCanopyStructure(t *testing.T) {
	var d bgc.Diag
	err := CanopyStructure(-1e-3, canopyEPC(), &d)
	require.ErrorIs(t, err, bgc.ErrNegativeLeafC)

	require.NoError(t, CanopyStructure(0.2, canopyEPC(), &d))
	assert.InDelta(t, 4.0, d.ProjLAI, 1e-12)
	assert.InDelta(t, 8.0, d.AllLAI, 1e-12)
	assert.InDelta(t, 1-math.Exp(-4), d.PlaiSun, 1e-12)
	assert.InDelta(t, d.ProjLAI, d.PlaiSun+d.PlaiShade, 1e-12)

	require.NoError(t, CanopyStructure(0, canopyEPC(), &d))
	assert.Zero(t, d.PlaiSun)
	assert.Zero(t, d.PlaiShade)
}

func TestRadTrans(t *testing.T) {
	var d bgc.Diag
	epc := canopyEPC()
	site := &bgc.Site{SWAlbedo: 0.2}
	require.NoError(t, CanopyStructure(0.2, epc, &d))
	RadTrans(summerMet(), epc, site, &d)

	sw := 500 * 0.8
	assert.InDelta(t, sw, d.SWAbs+d.SWTrans, 1e-9)
	assert.InDelta(t, d.SWAbs, d.SWAbsSun*d.PlaiSun+d.SWAbsShade*d.PlaiShade, 1e-9)
	assert.Greater(t, d.SWAbsSun, d.SWAbsShade)
	assert.Greater(t, d.PPFDSun, 0.0)

	var bare bgc.Diag
	RadTrans(summerMet(), epc, site, &bare)
	assert.Zero(t, bare.SWAbs)
	assert.InDelta(t, sw, bare.SWTrans, 1e-12)
}

func TestCanopyET(t *testing.T) {
	met := summerMet()
	epc := canopyEPC()
	site := &bgc.Site{SWAlbedo: 0.2}
	var d bgc.Diag
	require.NoError(t, CanopyStructure(0.15, epc, &d))
	RadTrans(met, epc, site, &d)
	d.Psi = -0.1

	var wf bgc.WaterFlux
	wf.PrcpToCanopyW = 0.3
	CanopyET(met, 0.1, epc, &d, &wf)

	assert.InDelta(t, 0.4, wf.CanopyWEvap+wf.CanopyWToSoilW, 1e-12, "canopy water must be emptied")
	assert.Greater(t, wf.SoilWTrans, 0.0)
	assert.Greater(t, d.GlSun, d.GlShade)

	dry := d
	dry.Psi = -3
	var wfDry bgc.WaterFlux
	CanopyET(met, 0, epc, &dry, &wfDry)
	assert.Less(t, wfDry.SoilWTrans, wf.SoilWTrans, "closed stomata leave only cuticular loss")

	var bare bgc.Diag
	var wfBare bgc.WaterFlux
	wfBare.PrcpToCanopyW = 0.2
	CanopyET(met, 0, epc, &bare, &wfBare)
	assert.Zero(t, wfBare.SoilWTrans)
	assert.Equal(t, 0.2, wfBare.CanopyWToSoilW)
}

func TestFarquhar(t *testing.T) {
	in := PsnInput{
		T: 25, Pa: 100000, CO2: 380, G: 0.002,
		LNC: 1.0 / (20 * 25), FLNR: 0.08, PPFD: 800, Rd: 1,
	}
	out, err := Farquhar(in)
	require.NoError(t, err)
	assert.Greater(t, out.A, 0.0)
	assert.LessOrEqual(t, out.A, out.Av)
	assert.LessOrEqual(t, out.A, out.Aj)
	assert.Less(t, out.Ci, 38.0)
	assert.InDelta(t, 2.1*out.Vmax, out.Jmax, 1e-9)

	dark := in
	dark.PPFD = 0
	outDark, err := Farquhar(dark)
	require.NoError(t, err)
	assert.InDelta(t, -in.Rd, outDark.A, 1e-6)

	closed := in
	closed.G = 0
	outClosed, err := Farquhar(closed)
	require.NoError(t, err)
	assert.Zero(t, outClosed.A)
}

func TestLowerRoot(t *testing.T) {
	_, err := lowerRoot(1, 0, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, bgc.ErrQuadratic))

	r, err := lowerRoot(1, -3, 2)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-12)
}

func TestPhotosynthesis_GrowingSeasonGate(t *testing.T) {
	met := summerMet()
	epc := canopyEPC()
	var d bgc.Diag
	require.NoError(t, CanopyStructure(0.15, epc, &d))
	RadTrans(met, epc, &bgc.Site{SWAlbedo: 0.2}, &d)
	d.Psi = -0.1
	var wf bgc.WaterFlux
	CanopyET(met, 0, epc, &d, &wf)

	var cf bgc.CarbonFlux
	cf.LeafDayMR = 1e-4
	d.InGrowingSeason = false
	require.NoError(t, Photosynthesis(met, epc, &cf, &d))
	assert.Zero(t, cf.GPP())

	d.InGrowingSeason = true
	require.NoError(t, Photosynthesis(met, epc, &cf, &d))
	assert.Greater(t, cf.PsnSunToCPool, 0.0)
	assert.Greater(t, cf.PsnShadeToCPool, 0.0)
	assert.Less(t, cf.GPP(), 0.05, "daily GPP should be a few gC m⁻²")
}

func TestMaintenanceResp(t *testing.T) {
	met := &bgc.DailyMet{Tday: 20, Tnight: 20, Tavg: 20, Tsoil: 10, Dayl: bgc.SecPerDay / 2}
	ns := &bgc.NitrogenState{LeafN: 0.01, FrootN: 0.01, LivestemN: 0.01, LivecrootN: 0.01}

	var grass bgc.CarbonFlux
	MaintenanceResp(met, ns, grassEPC(), &grass)
	assert.InDelta(t, 0.01*bgc.MRPerN, grass.LeafDayMR+grass.LeafNightMR, 1e-15)
	assert.InDelta(t, 0.01*bgc.MRPerN/2, grass.FrootMR, 1e-15, "Q10 of 2 halves the rate 10 °C cooler")
	assert.Zero(t, grass.LivestemMR)

	var wood bgc.CarbonFlux
	MaintenanceResp(met, ns, woodyEPC(), &wood)
	assert.InDelta(t, 0.01*bgc.MRPerN, wood.LivestemMR, 1e-15)
	assert.InDelta(t, 0.01*bgc.MRPerN/2, wood.LivecrootMR, 1e-15)
}
