package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/process"
)

func forestEPC() *bgc.EPC {
	return &bgc.EPC{
		Woody: true, Evergreen: true,
		LeafTurnover: 0.25, FrootTurnover: 0.25, LivewoodTurnover: 0.7,
		WholePlantMort: 0.005, FireMort: 0.005,
		AllocFrootCLeafC: 1.4, AllocCrootCStemC: 0.3, AllocNewStemCNewLeafC: 2.2,
		AllocNewLiveCNewWoodC: 0.071, AllocPropCurGrowth: 0.5,
		LeafCN: 42, LeafLitrCN: 93, FrootCN: 42, LivewoodCN: 50, DeadwoodCN: 729,
		LeafLitr:  bgc.LitterFractions{Lab: 0.31, UCel: 0.3348, SCel: 0.1152, Lig: 0.24},
		FrootLitr: bgc.LitterFractions{Lab: 0.23, UCel: 0.082, SCel: 0.328, Lig: 0.36},
		DeadWood:  bgc.LitterFractions{UCel: 0.71, Lig: 0.29},
	}
}

func forestState(epc *bgc.EPC) *bgc.State {
	s := &bgc.State{}
	c, n := &s.Carbon, &s.Nitrogen
	set := func(cp, np *float64, v, cn float64) {
		*cp = v
		*np = v / cn
	}
	set(&c.LeafC, &n.LeafN, 0.4, epc.LeafCN)
	set(&c.LeafCStorage, &n.LeafNStorage, 0.05, epc.LeafCN)
	set(&c.LeafCTransfer, &n.LeafNTransfer, 0.05, epc.LeafCN)
	set(&c.FrootC, &n.FrootN, 0.5, epc.FrootCN)
	set(&c.FrootCTransfer, &n.FrootNTransfer, 0.04, epc.FrootCN)
	set(&c.LivestemC, &n.LivestemN, 0.3, epc.LivewoodCN)
	set(&c.DeadstemC, &n.DeadstemN, 5, epc.DeadwoodCN)
	set(&c.LivecrootC, &n.LivecrootN, 0.1, epc.LivewoodCN)
	set(&c.DeadcrootC, &n.DeadcrootN, 1.5, epc.DeadwoodCN)
	set(&c.CwdC, &n.CwdN, 1, 500)
	set(&c.Litr1C, &n.Litr1N, 0.05, 30)
	set(&c.Litr2C, &n.Litr2N, 0.2, 90)
	set(&c.Litr3C, &n.Litr3N, 0.1, 90)
	set(&c.Litr4C, &n.Litr4N, 0.3, 90)
	set(&c.Soil1C, &n.Soil1N, 0.02, bgc.Soil1CN)
	set(&c.Soil2C, &n.Soil2N, 0.3, bgc.Soil2CN)
	set(&c.Soil3C, &n.Soil3N, 2, bgc.Soil3CN)
	set(&c.Soil4C, &n.Soil4N, 8, bgc.Soil4CN)
	c.GrespTransfer = 0.01
	c.GrespStorage = 0.02
	n.SminN = 0.002
	n.RetransN = 0.001
	s.Water.SoilW = 300
	process.AnnualRates(c, epc, &s.EPV)
	return s
}

// dayFluxes runs the carbon and nitrogen flux stages for one warm day.
func dayFluxes(t *testing.T, s *bgc.State, epc *bgc.EPC, ph bgc.PhenologyDay, naddfrac float64) *bgc.Flux {
	t.Helper()
	f := &bgc.Flux{}
	met := &bgc.DailyMet{Tday: 18, Tnight: 10, Tavg: 14, Tsoil: 12, Dayl: 50000}
	site := &bgc.Site{PsiSat: -0.005, NDep: 1e-6, NFix: 5e-7}

	process.PhenologyFluxes(ph, s, epc, f)
	process.MaintenanceResp(met, &s.Nitrogen, epc, &f.Carbon)
	process.NitrogenInputs(site, &f.Nitrogen)
	f.Carbon.PsnSunToCPool = 0.008
	f.Carbon.PsnShadeToCPool = 0.004
	process.Decomposition(met, -0.05, site, epc, &s.Carbon, &s.Nitrogen, f)
	process.DailyAllocation(s, epc, naddfrac, f)
	process.GrowthResp(&s.Carbon, epc, f)
	return f
}

func TestDailyUpdate_Conserves(t *testing.T) {
	tests := []struct {
		name     string
		ph       bgc.PhenologyDay
		sminn    float64
		naddfrac float64
	}{
		{"plenty of N", bgc.PhenologyDay{RemDaysTransfer: 30, RemDaysLitfall: 200}, 0.01, 0},
		{"N limited", bgc.PhenologyDay{RemDaysLitfall: 150}, 1e-6, 0},
		{"spinup supplement", bgc.PhenologyDay{RemDaysLitfall: 150}, 1e-6, 0.7},
		{"annual allocation day", bgc.PhenologyDay{RemDaysLitfall: 1}, 0.002, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			epc := forestEPC()
			s := forestState(epc)
			s.Nitrogen.SminN = tt.sminn
			cBal, nBal := s.Carbon.Balance(), s.Nitrogen.Balance()

			f := dayFluxes(t, s, epc, tt.ph, tt.naddfrac)
			Carbon(&s.Carbon, &f.Carbon, f.Diag.AnnualAlloc)
			Nitrogen(&s.Nitrogen, &f.Nitrogen, f.Diag.AnnualAlloc)
			Mortality(s, epc, f)

			assert.InDelta(t, cBal, s.Carbon.Balance(), bgc.CarbonBalanceTol)
			assert.InDelta(t, nBal, s.Nitrogen.Balance(), bgc.NitrogenBalanceTol)
			require.NoError(t, CheckNonNegative(s))
			if tt.naddfrac > 0 {
				assert.Greater(t, s.Nitrogen.SpinupSrc, 0.0)
			}
		})
	}
}

func TestCarbon_StorageToTransfer(t *testing.T) {
	epc := forestEPC()
	s := forestState(epc)
	var cf bgc.CarbonFlux
	var nf bgc.NitrogenFlux

	Carbon(&s.Carbon, &cf, true)
	Nitrogen(&s.Nitrogen, &nf, true)

	assert.Zero(t, s.Carbon.LeafCStorage)
	assert.Zero(t, s.Carbon.GrespStorage)
	assert.InDelta(t, 0.1, s.Carbon.LeafCTransfer, 1e-15)
	assert.InDelta(t, 0.03, s.Carbon.GrespTransfer, 1e-15)
	assert.Zero(t, s.Nitrogen.LeafNStorage)
	assert.InDelta(t, 0.1/42, s.Nitrogen.LeafNTransfer, 1e-15)
	assert.Equal(t, 0.05, cf.LeafCStorageToTransfer)
}

func TestMortality(t *testing.T) {
	epc := forestEPC()
	s := forestState(epc)
	cBal, nBal := s.Carbon.Balance(), s.Nitrogen.Balance()
	deadstem := s.Carbon.DeadstemC
	cwd := s.Carbon.CwdC
	var f bgc.Flux

	Mortality(s, epc, &f)

	m := epc.WholePlantMort / 365
	fire := epc.FireMort / 365
	assert.InDelta(t, deadstem*(1-m)*(1-fire), s.Carbon.DeadstemC, 1e-13)
	assert.Greater(t, f.Carbon.MortToCwd, 0.0)
	assert.Greater(t, f.Carbon.MortToLitr, 0.0)
	assert.InDelta(t, (cwd+f.Carbon.MortToCwd)*(1-fire), s.Carbon.CwdC, 1e-13)
	assert.Equal(t, f.Carbon.FireToSnk, s.Carbon.FireSnk)
	assert.Equal(t, f.Nitrogen.FireToSnk, s.Nitrogen.FireSnk)
	assert.InDelta(t, cBal, s.Carbon.Balance(), 1e-12)
	assert.InDelta(t, nBal, s.Nitrogen.Balance(), 1e-14)
}

func TestMortality_Disabled(t *testing.T) {
	epc := forestEPC()
	epc.WholePlantMort, epc.FireMort = 0, 0
	s := forestState(epc)
	before := *s
	var f bgc.Flux

	Mortality(s, epc, &f)
	assert.Equal(t, before, *s)
}

func TestWater(t *testing.T) {
	ws := &bgc.WaterState{SoilW: 50, SnowW: 10}
	wf := &bgc.WaterFlux{
		PrcpToCanopyW: 1, PrcpToSoilW: 4, CanopyWEvap: 0.6, CanopyWToSoilW: 0.4,
		SnowWToSoilW: 2, SoilWEvap: 1, SoilWTrans: 3, SoilWOutflow: 5,
	}
	bal := ws.Balance()

	reverted, err := Water(ws, wf)
	require.NoError(t, err)
	assert.False(t, reverted)
	assert.InDelta(t, 50+4+0.4+2-1-3-5, ws.SoilW, 1e-12)
	assert.InDelta(t, 8, ws.SnowW, 1e-12)
	assert.InDelta(t, 0, ws.CanopyW, 1e-12)
	assert.InDelta(t, bal, ws.Balance(), bgc.WaterBalanceTol)
}

func TestWater_SafetyValve(t *testing.T) {
	ws := &bgc.WaterState{SoilW: 1}
	wf := &bgc.WaterFlux{SoilWEvap: 0.8, SoilWTrans: 0.5}

	reverted, err := Water(ws, wf)
	require.NoError(t, err)
	assert.True(t, reverted)
	assert.Zero(t, wf.SoilWEvap)
	assert.Zero(t, wf.SoilWTrans)
	assert.Equal(t, 1.0, ws.SoilW)
	assert.Zero(t, ws.TransSnk)
}

func TestWater_NegativeIsFatal(t *testing.T) {
	ws := &bgc.WaterState{SoilW: 1}
	wf := &bgc.WaterFlux{SoilWOutflow: 2}

	_, err := Water(ws, wf)
	require.ErrorIs(t, err, bgc.ErrNegativeSoilWater)
}

func TestLeaching(t *testing.T) {
	ns := &bgc.NitrogenState{SminN: 0.01}
	ws := &bgc.WaterState{SoilW: 100}
	wf := &bgc.WaterFlux{SoilWOutflow: 20}
	var nf bgc.NitrogenFlux

	process.Leaching(ns, ws, wf, &nf)
	assert.InDelta(t, 0.01*0.1*0.2, nf.SminNLeached, 1e-18)

	bal := ns.Balance()
	Leaching(ns, &nf)
	assert.InDelta(t, 0.01-0.0002, ns.SminN, 1e-18)
	assert.InDelta(t, bal, ns.Balance(), 1e-16)
}

func TestCheckNonNegative(t *testing.T) {
	s := &bgc.State{}
	s.Carbon.CPool = -1
	require.NoError(t, CheckNonNegative(s), "cpool deficits are allowed")

	s.Carbon.Litr2C = -1e-19
	require.NoError(t, CheckNonNegative(s))

	s.Nitrogen.Soil3N = -1e-6
	err := CheckNonNegative(s)
	require.ErrorIs(t, err, bgc.ErrNegativePool)
	assert.Contains(t, err.Error(), "soil3n")
}
