package process

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// PhenologyFluxes computes transfer growth, litterfall and live wood
// turnover for the day from the phenology signal.
func PhenologyFluxes(ph bgc.PhenologyDay, s *bgc.State, epc *bgc.EPC, f *bgc.Flux) {
	cs, ns, epv := &s.Carbon, &s.Nitrogen, &s.EPV
	cf, nf, d := &f.Carbon, &f.Nitrogen, &f.Diag

	d.InGrowingSeason = epc.Evergreen || ph.RemDaysCurGrowth > 0
	d.AnnualAlloc = ph.LastLitfallDay()
	d.TransferFrac = 0

	if ph.RemDaysTransfer > 0 {
		t1 := 1.0
		if ph.RemDaysTransfer > 1 {
			t1 = math.Min(2.0/ph.RemDaysTransfer, 1)
		}
		d.TransferFrac = t1
		cf.LeafCTransferToLeafC = t1 * cs.LeafCTransfer
		cf.FrootCTransferToFrootC = t1 * cs.FrootCTransfer
		nf.LeafNTransferToLeafN = t1 * ns.LeafNTransfer
		nf.FrootNTransferToFrootN = t1 * ns.FrootNTransfer
		if epc.Woody {
			cf.LivestemCTransferToLivestemC = t1 * cs.LivestemCTransfer
			cf.DeadstemCTransferToDeadstemC = t1 * cs.DeadstemCTransfer
			cf.LivecrootCTransferToLivecrootC = t1 * cs.LivecrootCTransfer
			cf.DeadcrootCTransferToDeadcrootC = t1 * cs.DeadcrootCTransfer
			nf.LivestemNTransferToLivestemN = t1 * ns.LivestemNTransfer
			nf.DeadstemNTransferToDeadstemN = t1 * ns.DeadstemNTransfer
			nf.LivecrootNTransferToLivecrootN = t1 * ns.LivecrootNTransfer
			nf.DeadcrootNTransferToDeadcrootN = t1 * ns.DeadcrootNTransfer
		}
	}

	if ph.RemDaysLitfall > 0 {
		var leaf, froot float64
		if epc.Evergreen {
			leaf = math.Min(epv.DayLeafCLitfallIncrement, cs.LeafC)
			froot = math.Min(epv.DayFrootCLitfallIncrement, cs.FrootC)
		} else {
			frac := 1.0 / ph.RemDaysLitfall
			leaf = frac * cs.LeafC
			froot = frac * cs.FrootC
		}
		leafLitterfall(leaf, cs, ns, epc, cf, nf)
		frootLitterfall(froot, cs, ns, epc, cf, nf)
	}

	if epc.Woody {
		ls := math.Min(epv.DayLivestemCTurnoverIncrement, cs.LivestemC)
		lc := math.Min(epv.DayLivecrootCTurnoverIncrement, cs.LivecrootC)
		cf.LivestemCToDeadstemC = ls
		cf.LivecrootCToDeadcrootC = lc
		nf.LivestemNToDeadstemN, nf.LivestemNToRetransN = woodTurnoverN(ls, cs.LivestemC, ns.LivestemN, epc.DeadwoodCN)
		nf.LivecrootNToDeadcrootN, nf.LivecrootNToRetransN = woodTurnoverN(lc, cs.LivecrootC, ns.LivecrootN, epc.DeadwoodCN)
	}
}

// leafLitterfall sends leaf carbon to litter. Litter N follows the litter
// C:N; the N the litter cannot hold is retranslocated.
func leafLitterfall(c float64, cs *bgc.CarbonState, ns *bgc.NitrogenState, epc *bgc.EPC, cf *bgc.CarbonFlux, nf *bgc.NitrogenFlux) {
	if c <= 0 || cs.LeafC <= 0 {
		return
	}
	total := ns.LeafN * c / cs.LeafC
	litter := math.Min(c/epc.LeafLitrCN, total)
	fr := epc.LeafLitr.Array()
	for i := range fr {
		cf.LeafCToLitr[i] = c * fr[i]
		nf.LeafNToLitr[i] = litter * fr[i]
	}
	nf.LeafNToRetransN = total - litter
}

func frootLitterfall(c float64, cs *bgc.CarbonState, ns *bgc.NitrogenState, epc *bgc.EPC, cf *bgc.CarbonFlux, nf *bgc.NitrogenFlux) {
	if c <= 0 || cs.FrootC <= 0 {
		return
	}
	total := ns.FrootN * c / cs.FrootC
	fr := epc.FrootLitr.Array()
	for i := range fr {
		cf.FrootCToLitr[i] = c * fr[i]
		nf.FrootNToLitr[i] = total * fr[i]
	}
}

// woodTurnoverN splits the nitrogen leaving turning-over live wood between
// dead wood, at the dead wood C:N, and retranslocation.
func woodTurnoverN(c, poolC, poolN, deadCN float64) (toDead, toRetrans float64) {
	if c <= 0 || poolC <= 0 {
		return 0, 0
	}
	total := poolN * c / poolC
	toDead = math.Min(c/deadCN, total)
	return toDead, total - toDead
}

// AnnualRates resets the daily litterfall and turnover increments from the
// current pools. It runs on the last litterfall day and at initialization.
func AnnualRates(cs *bgc.CarbonState, epc *bgc.EPC, epv *bgc.EPV) {
	if epc.Evergreen {
		epv.DayLeafCLitfallIncrement = cs.LeafC * epc.LeafTurnover / bgc.DaysPerYear
		epv.DayFrootCLitfallIncrement = cs.FrootC * epc.FrootTurnover / bgc.DaysPerYear
	} else {
		epv.DayLeafCLitfallIncrement = 0
		epv.DayFrootCLitfallIncrement = 0
	}
	if epc.Woody {
		epv.DayLivestemCTurnoverIncrement = cs.LivestemC * epc.LivewoodTurnover / bgc.DaysPerYear
		epv.DayLivecrootCTurnoverIncrement = cs.LivecrootC * epc.LivewoodTurnover / bgc.DaysPerYear
	}
}

// GrowthResp charges growth respiration on today's current-growth
// allocation and drains the transfer growth respiration pool alongside
// the phenological transfer.
func GrowthResp(cs *bgc.CarbonState, epc *bgc.EPC, f *bgc.Flux) {
	cf := &f.Carbon
	cf.CPoolLeafGR = bgc.GRPerc * cf.CPoolToLeafC
	cf.CPoolFrootGR = bgc.GRPerc * cf.CPoolToFrootC
	if epc.Woody {
		cf.CPoolLivestemGR = bgc.GRPerc * cf.CPoolToLivestemC
		cf.CPoolDeadstemGR = bgc.GRPerc * cf.CPoolToDeadstemC
		cf.CPoolLivecrootGR = bgc.GRPerc * cf.CPoolToLivecrootC
		cf.CPoolDeadcrootGR = bgc.GRPerc * cf.CPoolToDeadcrootC
	}
	cf.TransferGR = f.Diag.TransferFrac * cs.GrespTransfer
}
