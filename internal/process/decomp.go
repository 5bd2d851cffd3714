package process

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// decompStep describes one donor to receiver transfer of the cascade.
type decompStep struct {
	k      float64
	rf     float64
	srcC   func(*bgc.CarbonState) float64
	srcN   func(*bgc.NitrogenState) float64
	destCN float64
}

var decompSteps = [bgc.NumDecompSteps]decompStep{
	bgc.StepL1S1: {bgc.KL1Base, bgc.RFL1S1, func(c *bgc.CarbonState) float64 { return c.Litr1C }, func(n *bgc.NitrogenState) float64 { return n.Litr1N }, bgc.Soil1CN},
	bgc.StepL2S2: {bgc.KL2Base, bgc.RFL2S2, func(c *bgc.CarbonState) float64 { return c.Litr2C }, func(n *bgc.NitrogenState) float64 { return n.Litr2N }, bgc.Soil2CN},
	bgc.StepL4S3: {bgc.KL4Base, bgc.RFL4S3, func(c *bgc.CarbonState) float64 { return c.Litr4C }, func(n *bgc.NitrogenState) float64 { return n.Litr4N }, bgc.Soil3CN},
	bgc.StepS1S2: {bgc.KS1Base, bgc.RFS1S2, func(c *bgc.CarbonState) float64 { return c.Soil1C }, func(n *bgc.NitrogenState) float64 { return n.Soil1N }, bgc.Soil2CN},
	bgc.StepS2S3: {bgc.KS2Base, bgc.RFS2S3, func(c *bgc.CarbonState) float64 { return c.Soil2C }, func(n *bgc.NitrogenState) float64 { return n.Soil2N }, bgc.Soil3CN},
	bgc.StepS3S4: {bgc.KS3Base, bgc.RFS3S4, func(c *bgc.CarbonState) float64 { return c.Soil3C }, func(n *bgc.NitrogenState) float64 { return n.Soil3N }, bgc.Soil4CN},
	bgc.StepS4:   {bgc.KS4Base, 1, func(c *bgc.CarbonState) float64 { return c.Soil4C }, func(n *bgc.NitrogenState) float64 { return n.Soil4N }, 0},
}

// DecompScalar is the combined temperature (Lloyd and Taylor) and soil
// water limitation on decomposition rates.
func DecompScalar(tsoil, psi, psiSat float64) float64 {
	var tScalar float64
	if tsoil >= -10 {
		tScalar = math.Exp(308.56 * ((1.0 / 71.02) - (1.0 / ((tsoil + 273.15) - 227.13))))
	}
	const minPsi = -10.0
	var wScalar float64
	switch {
	case psi < minPsi:
		wScalar = 0
	case psi > psiSat:
		wScalar = 1
	default:
		wScalar = math.Log(minPsi/psi) / math.Log(minPsi/psiSat)
	}
	return tScalar * wScalar
}

// Decomposition computes the N-unlimited carbon loss and mineral N flux
// of each cascade step, and the physical fragmentation of coarse woody
// debris and shielded cellulose, which are never N-limited.
func Decomposition(met *bgc.DailyMet, psi float64, site *bgc.Site, epc *bgc.EPC, cs *bgc.CarbonState, ns *bgc.NitrogenState, f *bgc.Flux) {
	rate := DecompScalar(met.Tsoil, psi, site.PsiSat)

	if cs.CwdC > 0 {
		frag := math.Min(bgc.KFragBase*rate, 1) * cs.CwdC
		nRatio := ns.CwdN / cs.CwdC
		for i, frac := range epc.DeadWood.Array() {
			f.Carbon.CwdCToLitr[i] = frag * frac
			f.Nitrogen.CwdNToLitr[i] = frag * frac * nRatio
		}
	}
	if cs.Litr3C > 0 {
		loss := math.Min(bgc.KL4Base*rate, 1) * cs.Litr3C
		f.Carbon.Litr3CToLitr2C = loss
		f.Nitrogen.Litr3NToLitr2N = loss * ns.Litr3N / cs.Litr3C
	}

	for i, st := range decompSteps {
		p := &f.Potential[i]
		*p = bgc.DecompPotential{}
		c := st.srcC(cs)
		n := st.srcN(ns)
		if c <= 0 {
			continue
		}
		// warm soils can push k·rate past one day's turnover
		p.CLoss = math.Min(st.k*rate, 1) * c
		if i == bgc.StepS4 {
			p.MNF = -p.CLoss * n / c
			continue
		}
		// donor C:N against receiver C:N decides mineralization
		ratio := 0.0
		if n > 0 {
			ratio = st.destCN * n / c
		}
		p.MNF = p.CLoss * (1 - st.rf - ratio) / st.destCN
	}
}

// finalizeDecomp applies the N competition outcome to the potential fluxes.
func finalizeDecomp(cs *bgc.CarbonState, ns *bgc.NitrogenState, f *bgc.Flux, fpi float64, nlimit bool) {
	for i, st := range decompSteps {
		p := f.Potential[i]
		dc := &f.Carbon.Decomp[i]
		dn := &f.Nitrogen.Decomp[i]
		*dc, *dn = bgc.DecompC{}, bgc.DecompN{}
		if p.CLoss <= 0 {
			continue
		}
		loss := p.CLoss
		mnf := p.MNF
		if nlimit && mnf > 0 {
			loss *= fpi
			mnf *= fpi
		}
		c := st.srcC(cs)
		n := st.srcN(ns)

		dc.HR = loss * st.rf
		dc.ToDest = loss - dc.HR
		if i == bgc.StepS4 {
			dc.HR, dc.ToDest = loss, 0
			dn.Mineral = loss * n / c
			dn.Vol = bgc.DenitrifProportion * dn.Mineral
			continue
		}
		dn.ToDest = loss * n / c
		if mnf > 0 {
			dn.Immob = mnf
		} else {
			dn.Mineral = -mnf
			dn.Vol = bgc.DenitrifProportion * dn.Mineral
		}
	}
}
