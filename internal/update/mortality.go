package update

import "github.com/san-kum/ecosim/internal/bgc"

type cnPool struct {
	c, n *float64
}

// Mortality kills the annual whole-plant mortality fraction, spread evenly
// over the year, then burns the fire mortality fraction of what remains.
// Both are computed from the pools as they stand after the daily update.
// Leaf and fine root material goes to litter, wood to coarse woody debris.
func Mortality(s *bgc.State, epc *bgc.EPC, f *bgc.Flux) {
	cs, ns := &s.Carbon, &s.Nitrogen
	cf, nf := &f.Carbon, &f.Nitrogen

	m := epc.WholePlantMort / bgc.DaysPerYear
	litterC := [4]*float64{&cs.Litr1C, &cs.Litr2C, &cs.Litr3C, &cs.Litr4C}
	litterN := [4]*float64{&ns.Litr1N, &ns.Litr2N, &ns.Litr3N, &ns.Litr4N}

	if m > 0 {
		toLitter := func(p cnPool, fr bgc.LitterFractions) {
			c, n := m**p.c, m**p.n
			*p.c -= c
			*p.n -= n
			for i, frac := range fr.Array() {
				*litterC[i] += c * frac
				*litterN[i] += n * frac
			}
			cf.MortToLitr += c
			nf.MortToLitr += n
		}
		toLitter(cnPool{&cs.LeafC, &ns.LeafN}, epc.LeafLitr)
		toLitter(cnPool{&cs.FrootC, &ns.FrootN}, epc.FrootLitr)

		// storage and transfer tissue is labile
		labile := bgc.LitterFractions{Lab: 1}
		for _, p := range storagePools(cs, ns) {
			toLitter(p, labile)
		}
		gresp := m * (cs.GrespStorage + cs.GrespTransfer)
		cs.GrespStorage -= m * cs.GrespStorage
		cs.GrespTransfer -= m * cs.GrespTransfer
		cs.Litr1C += gresp
		cf.MortToLitr += gresp

		for _, p := range woodPools(cs, ns) {
			c, n := m**p.c, m**p.n
			*p.c -= c
			*p.n -= n
			cs.CwdC += c
			ns.CwdN += n
			cf.MortToCwd += c
			nf.MortToCwd += n
		}
	}

	fire := epc.FireMort / bgc.DaysPerYear
	if fire <= 0 {
		return
	}
	burn := func(p cnPool) {
		c, n := fire**p.c, fire**p.n
		*p.c -= c
		*p.n -= n
		cf.FireToSnk += c
		nf.FireToSnk += n
	}
	burn(cnPool{&cs.LeafC, &ns.LeafN})
	burn(cnPool{&cs.FrootC, &ns.FrootN})
	for _, p := range storagePools(cs, ns) {
		burn(p)
	}
	for _, p := range woodPools(cs, ns) {
		burn(p)
	}
	burn(cnPool{&cs.CwdC, &ns.CwdN})
	for i := range litterC {
		burn(cnPool{litterC[i], litterN[i]})
	}
	gresp := fire * (cs.GrespStorage + cs.GrespTransfer)
	cs.GrespStorage -= fire * cs.GrespStorage
	cs.GrespTransfer -= fire * cs.GrespTransfer
	cf.FireToSnk += gresp

	cs.FireSnk += cf.FireToSnk
	ns.FireSnk += nf.FireToSnk
}

func storagePools(cs *bgc.CarbonState, ns *bgc.NitrogenState) []cnPool {
	return []cnPool{
		{&cs.LeafCStorage, &ns.LeafNStorage}, {&cs.LeafCTransfer, &ns.LeafNTransfer},
		{&cs.FrootCStorage, &ns.FrootNStorage}, {&cs.FrootCTransfer, &ns.FrootNTransfer},
		{&cs.LivestemCStorage, &ns.LivestemNStorage}, {&cs.LivestemCTransfer, &ns.LivestemNTransfer},
		{&cs.DeadstemCStorage, &ns.DeadstemNStorage}, {&cs.DeadstemCTransfer, &ns.DeadstemNTransfer},
		{&cs.LivecrootCStorage, &ns.LivecrootNStorage}, {&cs.LivecrootCTransfer, &ns.LivecrootNTransfer},
		{&cs.DeadcrootCStorage, &ns.DeadcrootNStorage}, {&cs.DeadcrootCTransfer, &ns.DeadcrootNTransfer},
	}
}

func woodPools(cs *bgc.CarbonState, ns *bgc.NitrogenState) []cnPool {
	return []cnPool{
		{&cs.LivestemC, &ns.LivestemN}, {&cs.DeadstemC, &ns.DeadstemN},
		{&cs.LivecrootC, &ns.LivecrootN}, {&cs.DeadcrootC, &ns.DeadcrootN},
	}
}
