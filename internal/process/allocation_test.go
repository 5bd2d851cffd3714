package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ecosim/internal/bgc"
)

func grassEPC() *bgc.EPC {
	return &bgc.EPC{
		AllocFrootCLeafC:   0.3,
		AllocPropCurGrowth: 0.5,
		LeafCN:             25,
		LeafLitrCN:         50,
		FrootCN:            40,
		LivewoodCN:         50,
		DeadwoodCN:         500,
		LeafLitr:           bgc.LitterFractions{Lab: 0.4, UCel: 0.4, Lig: 0.2},
		FrootLitr:          bgc.LitterFractions{Lab: 0.3, UCel: 0.4, Lig: 0.3},
	}
}

func woodyEPC() *bgc.EPC {
	e := grassEPC()
	e.Woody = true
	e.AllocCrootCStemC = 0.3
	e.AllocNewStemCNewLeafC = 2.2
	e.AllocNewLiveCNewWoodC = 0.1
	e.DeadWood = bgc.LitterFractions{UCel: 0.7, Lig: 0.3}
	return e
}

func TestNewAllometry(t *testing.T) {
	a := NewAllometry(grassEPC())
	// 1 + g1 + f1 + f1*g1 with g1 = f1 = 0.3
	assert.InDelta(t, 1.69, a.C, 1e-12)
	assert.InDelta(t, 1.0/25+0.3/40, a.N, 1e-12)

	w := NewAllometry(woodyEPC())
	assert.InDelta(t, 1.3*(1+0.3+2.2*1.3), w.C, 1e-12)
	assert.Greater(t, w.N, a.N)
}

func TestDailyAllocation_NotLimited(t *testing.T) {
	s := &bgc.State{}
	s.Nitrogen.SminN = 1.0
	f := &bgc.Flux{}
	f.Carbon.PsnSunToCPool = 0.7
	f.Carbon.PsnShadeToCPool = 0.3
	epc := grassEPC()

	DailyAllocation(s, epc, 0, f)
	GrowthResp(&s.Carbon, epc, f)

	d := f.Diag
	require.False(t, d.NLimit)
	assert.Equal(t, 1.0, d.FPI)
	assert.InDelta(t, 1.0, d.AvailC, 1e-15)

	nlc := f.Carbon.CPoolToLeafC + f.Carbon.CPoolToLeafCStorage
	assert.InDelta(t, 1/1.69, nlc, 1e-12)
	froot := f.Carbon.CPoolToFrootC + f.Carbon.CPoolToFrootCStorage
	assert.InDelta(t, 0.3/1.69, froot, 1e-12)
	assert.InDelta(t, 0.5*nlc, f.Carbon.CPoolToLeafC, 1e-15)

	total := f.Carbon.Allocated() + f.Carbon.CPoolToGrespStorage + f.Carbon.GR()
	assert.InDelta(t, d.AvailC, total, 1e-12)

	supplied := f.Nitrogen.RetransNToNPool + f.Nitrogen.SminNToNPool
	assert.InDelta(t, supplied, f.Nitrogen.Allocated(), 1e-15)
	assert.InDelta(t, d.PlantNDemand, supplied, 1e-15)

	excess := s.Nitrogen.SminN - f.Nitrogen.SminNToNPool
	assert.InDelta(t, bgc.BulkDenitrifProportion*excess, f.Nitrogen.SminNToDenitrif, 1e-15)
	assert.InDelta(t, 1.0, f.Carbon.GPP(), 1e-15, "photosynthesis untouched without N limitation")
}

func TestDailyAllocation_RetranslocationFirst(t *testing.T) {
	s := &bgc.State{}
	s.Nitrogen.SminN = 1.0
	s.Nitrogen.RetransN = 0.05
	f := &bgc.Flux{}
	f.Carbon.PsnSunToCPool = 1.0

	DailyAllocation(s, grassEPC(), 0, f)

	assert.InDelta(t, 0.005, f.Nitrogen.RetransNToNPool, 1e-15)
	assert.InDelta(t, f.Diag.PlantNDemand-0.005, f.Nitrogen.SminNToNPool, 1e-15)
}

func TestDailyAllocation_Limited(t *testing.T) {
	s := &bgc.State{}
	s.Nitrogen.SminN = 1e-3
	s.Carbon.Litr1C = 1
	s.Nitrogen.Litr1N = 0.01
	f := &bgc.Flux{}
	f.Carbon.PsnSunToCPool = 0.6
	f.Carbon.PsnShadeToCPool = 0.4
	f.Carbon.LeafDayMR = 0.1
	f.Potential[bgc.StepL1S1] = bgc.DecompPotential{CLoss: 0.05, MNF: 0.002}
	epc := grassEPC()

	DailyAllocation(s, epc, 0, f)
	GrowthResp(&s.Carbon, epc, f)
	d := f.Diag

	require.True(t, d.NLimit)
	assert.InDelta(t, s.Nitrogen.SminN, d.ActualImmob+f.Nitrogen.SminNToNPool, 1e-15)
	assert.InDelta(t, d.ActualImmob/d.PotentialImmob, d.FPI, 1e-15)
	assert.Less(t, d.FPI, 1.0)
	assert.Zero(t, f.Nitrogen.SminNToDenitrif)

	// carbon not supported by N is removed from photosynthesis
	assert.Greater(t, d.ExcessC, 0.0)
	assert.InDelta(t, f.Carbon.MR()+d.PlantCAlloc, f.Carbon.GPP(), 1e-12)
	assert.InDelta(t, 0.6/0.4, f.Carbon.PsnSunToCPool/f.Carbon.PsnShadeToCPool, 1e-9)

	total := f.Carbon.Allocated() + f.Carbon.CPoolToGrespStorage + f.Carbon.GR()
	assert.InDelta(t, d.PlantCAlloc, total, 1e-12)
	assert.InDelta(t, d.PlantNAlloc, f.Nitrogen.Allocated(), 1e-15)

	step := f.Carbon.Decomp[bgc.StepL1S1]
	assert.InDelta(t, 0.05*d.FPI, step.ToDest+step.HR, 1e-15)
	assert.InDelta(t, 0.002*d.FPI, f.Nitrogen.Decomp[bgc.StepL1S1].Immob, 1e-15)
}

func TestDailyAllocation_SpinupSupplement(t *testing.T) {
	s := &bgc.State{}
	s.Nitrogen.SminN = 1e-4
	f := &bgc.Flux{}
	f.Carbon.PsnSunToCPool = 1.0

	DailyAllocation(s, grassEPC(), 0.5, f)

	want := (f.Diag.PlantNDemand - 1e-4) * 0.5
	assert.InDelta(t, want, f.Nitrogen.SpinupToSminN, 1e-15)
	assert.True(t, f.Diag.NLimit)

	f2 := &bgc.Flux{}
	f2.Carbon.PsnSunToCPool = 1.0
	DailyAllocation(s, grassEPC(), 0, f2)
	assert.Zero(t, f2.Nitrogen.SpinupToSminN)
}

func TestDailyAllocation_CPoolRecovery(t *testing.T) {
	s := &bgc.State{}
	s.Carbon.CPool = -3.65
	s.Nitrogen.SminN = 1
	f := &bgc.Flux{}
	f.Carbon.PsnSunToCPool = 1.0

	DailyAllocation(s, grassEPC(), 0, f)

	assert.InDelta(t, 0.01, f.Diag.CPoolRecovery, 1e-15)
	assert.InDelta(t, 0.99, f.Diag.AvailC, 1e-15)
}

func TestDailyAllocation_RespirationExceedsGPP(t *testing.T) {
	s := &bgc.State{}
	s.Nitrogen.SminN = 1
	f := &bgc.Flux{}
	f.Carbon.PsnSunToCPool = 0.1
	f.Carbon.FrootMR = 0.3

	DailyAllocation(s, grassEPC(), 0, f)

	assert.Zero(t, f.Diag.AvailC)
	assert.Zero(t, f.Carbon.Allocated())
	assert.Zero(t, f.Nitrogen.Allocated())
}

func TestAllocateTissue_Woody(t *testing.T) {
	epc := woodyEPC()
	var cf bgc.CarbonFlux
	var nf bgc.NitrogenFlux
	allocateTissue(1.0, epc, &cf, &nf)

	stem := cf.CPoolToLivestemC + cf.CPoolToLivestemCStorage + cf.CPoolToDeadstemC + cf.CPoolToDeadstemCStorage
	croot := cf.CPoolToLivecrootC + cf.CPoolToLivecrootCStorage + cf.CPoolToDeadcrootC + cf.CPoolToDeadcrootCStorage
	assert.InDelta(t, 2.2, stem, 1e-12)
	assert.InDelta(t, 2.2*0.3, croot, 1e-12)

	a := NewAllometry(epc)
	assert.InDelta(t, a.N, nf.Allocated(), 1e-12)
	assert.InDelta(t, a.C, cf.Allocated()*(1+bgc.GRPerc), 1e-12)
}
