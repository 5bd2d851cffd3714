package process

import "github.com/san-kum/ecosim/internal/bgc"

// Allometry holds the carbon and nitrogen cost of one unit of new leaf
// carbon, including the tissues that accompany it.
type Allometry struct {
	C float64
	N float64
}

// NewAllometry derives the allometric ratios for a vegetation type.
func NewAllometry(epc *bgc.EPC) Allometry {
	f1 := epc.AllocFrootCLeafC
	f2 := epc.AllocCrootCStemC
	f3 := epc.AllocNewStemCNewLeafC
	f4 := epc.AllocNewLiveCNewWoodC
	g1 := bgc.GRPerc

	if epc.Woody {
		return Allometry{
			C: (1 + g1) * (1 + f1 + f3*(1+f2)),
			N: 1/epc.LeafCN + f1/epc.FrootCN +
				(f3*f4*(1+f2))/epc.LivewoodCN +
				(f3*(1-f4)*(1+f2))/epc.DeadwoodCN,
		}
	}
	return Allometry{
		C: 1 + g1 + f1 + f1*g1,
		N: 1/epc.LeafCN + f1/epc.FrootCN,
	}
}

// DailyAllocation resolves plant and microbial competition for mineral N,
// reduces photosynthesis when growth is N-limited, finalizes the
// decomposition cascade and allocates new carbon and nitrogen to tissues.
// naddfrac > 0 injects the spinup mineral-N supplement.
func DailyAllocation(s *bgc.State, epc *bgc.EPC, naddfrac float64, f *bgc.Flux) {
	cs, ns := &s.Carbon, &s.Nitrogen
	cf, nf, d := &f.Carbon, &f.Nitrogen, &f.Diag

	availC := cf.GPP() - cf.MR()
	if availC < 0 {
		availC = 0
	}
	d.CPoolRecovery = 0
	if cs.CPool < 0 && availC > 0 {
		recovery := -cs.CPool / bgc.DaysCRecover
		if recovery > availC {
			recovery = availC
		}
		d.CPoolRecovery = recovery
		availC -= recovery
	}
	d.AvailC = availC

	allom := NewAllometry(epc)
	plantDemand := availC * allom.N / allom.C
	d.PlantNDemand = plantDemand

	var potImmob, mineral float64
	for _, p := range f.Potential {
		if p.MNF > 0 {
			potImmob += p.MNF
		} else {
			mineral -= p.MNF
		}
	}
	d.PotentialImmob = potImmob
	d.Mineralized = mineral

	sminn := ns.SminN
	sumDemand := plantDemand + potImmob
	nf.SpinupToSminN = 0
	if naddfrac > 0 && sumDemand > sminn {
		nf.SpinupToSminN = (sumDemand - sminn) * naddfrac
		sminn += nf.SpinupToSminN
	}

	dayRetrans := ns.RetransN * bgc.RetransAvailFraction
	var actualImmob, retrans, fromSminN, nalloc, calloc float64
	fpi := 1.0
	nlimit := sumDemand > sminn
	if !nlimit {
		actualImmob = potImmob
		if plantDemand > dayRetrans {
			retrans = dayRetrans
			fromSminN = plantDemand - dayRetrans
		} else {
			retrans = plantDemand
		}
		nalloc = plantDemand
		calloc = availC
		if excess := sminn - actualImmob - fromSminN; excess > 0 {
			nf.SminNToDenitrif = excess * bgc.BulkDenitrifProportion
		}
	} else {
		actualImmob = sminn * (potImmob / sumDemand)
		fromSminN = sminn * (plantDemand / sumDemand)
		if potImmob > 0 {
			fpi = actualImmob / potImmob
		}
		retrans = plantDemand - fromSminN
		if retrans > dayRetrans {
			retrans = dayRetrans
		}
		nalloc = retrans + fromSminN
		calloc = nalloc * allom.C / allom.N
		if calloc > availC {
			calloc = availC
		}
		if excess := availC - calloc; excess > 0 {
			gpp := cf.GPP()
			sunFrac := cf.PsnSunToCPool / gpp
			cf.PsnSunToCPool -= excess * sunFrac
			cf.PsnShadeToCPool -= excess * (1 - sunFrac)
			d.ExcessC = excess
		}
	}

	nf.RetransNToNPool = retrans
	nf.SminNToNPool = fromSminN
	d.ActualImmob = actualImmob
	d.FPI = fpi
	d.NLimit = nlimit
	d.PlantCAlloc = calloc
	d.PlantNAlloc = nalloc

	finalizeDecomp(cs, ns, f, fpi, nlimit)
	allocateTissue(calloc/allom.C, epc, cf, nf)
}

// allocateTissue splits new leaf carbon nlc and its accompanying tissues
// between current growth and storage for the next season.
func allocateTissue(nlc float64, epc *bgc.EPC, cf *bgc.CarbonFlux, nf *bgc.NitrogenFlux) {
	pnow := epc.AllocPropCurGrowth
	split := func(c, cn float64, now, store *float64, nnow, nstore *float64) {
		*now = c * pnow
		*store = c * (1 - pnow)
		*nnow = *now / cn
		*nstore = *store / cn
	}

	split(nlc, epc.LeafCN, &cf.CPoolToLeafC, &cf.CPoolToLeafCStorage, &nf.NPoolToLeafN, &nf.NPoolToLeafNStorage)
	split(nlc*epc.AllocFrootCLeafC, epc.FrootCN, &cf.CPoolToFrootC, &cf.CPoolToFrootCStorage, &nf.NPoolToFrootN, &nf.NPoolToFrootNStorage)

	if epc.Woody {
		nsc := nlc * epc.AllocNewStemCNewLeafC
		f2 := epc.AllocCrootCStemC
		f4 := epc.AllocNewLiveCNewWoodC
		split(nsc*f4, epc.LivewoodCN, &cf.CPoolToLivestemC, &cf.CPoolToLivestemCStorage, &nf.NPoolToLivestemN, &nf.NPoolToLivestemNStorage)
		split(nsc*(1-f4), epc.DeadwoodCN, &cf.CPoolToDeadstemC, &cf.CPoolToDeadstemCStorage, &nf.NPoolToDeadstemN, &nf.NPoolToDeadstemNStorage)
		split(nsc*f2*f4, epc.LivewoodCN, &cf.CPoolToLivecrootC, &cf.CPoolToLivecrootCStorage, &nf.NPoolToLivecrootN, &nf.NPoolToLivecrootNStorage)
		split(nsc*f2*(1-f4), epc.DeadwoodCN, &cf.CPoolToDeadcrootC, &cf.CPoolToDeadcrootCStorage, &nf.NPoolToDeadcrootN, &nf.NPoolToDeadcrootNStorage)
	}

	cf.CPoolToGrespStorage = bgc.GRPerc * (cf.CPoolToLeafCStorage + cf.CPoolToFrootCStorage +
		cf.CPoolToLivestemCStorage + cf.CPoolToDeadstemCStorage +
		cf.CPoolToLivecrootCStorage + cf.CPoolToDeadcrootCStorage)
}
