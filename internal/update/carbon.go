package update

import "github.com/san-kum/ecosim/internal/bgc"

// Carbon applies every non-mortality carbon flux of the day. On the annual
// allocation day all storage pools move to transfer pools at the end.
func Carbon(cs *bgc.CarbonState, cf *bgc.CarbonFlux, annualAlloc bool) {
	// phenological transfer
	move(&cs.LeafCTransfer, &cs.LeafC, cf.LeafCTransferToLeafC)
	move(&cs.FrootCTransfer, &cs.FrootC, cf.FrootCTransferToFrootC)
	move(&cs.LivestemCTransfer, &cs.LivestemC, cf.LivestemCTransferToLivestemC)
	move(&cs.DeadstemCTransfer, &cs.DeadstemC, cf.DeadstemCTransferToDeadstemC)
	move(&cs.LivecrootCTransfer, &cs.LivecrootC, cf.LivecrootCTransferToLivecrootC)
	move(&cs.DeadcrootCTransfer, &cs.DeadcrootC, cf.DeadcrootCTransferToDeadcrootC)

	// litterfall
	litter := litterPools(cs)
	for i, dst := range litter {
		move(&cs.LeafC, dst, cf.LeafCToLitr[i])
		move(&cs.FrootC, dst, cf.FrootCToLitr[i])
	}

	// live wood turnover
	move(&cs.LivestemC, &cs.DeadstemC, cf.LivestemCToDeadstemC)
	move(&cs.LivecrootC, &cs.DeadcrootC, cf.LivecrootCToDeadcrootC)

	// maintenance respiration
	mr := cf.MR()
	cs.MRSnk += mr
	cs.CPool -= mr

	// photosynthesis
	gpp := cf.GPP()
	cs.PsnSrc += gpp
	cs.CPool += gpp

	// fragmentation and decomposition
	for i, dst := range litter {
		move(&cs.CwdC, dst, cf.CwdCToLitr[i])
	}
	move(&cs.Litr3C, &cs.Litr2C, cf.Litr3CToLitr2C)
	decompC(cs, cf)

	// allocation
	move(&cs.CPool, &cs.LeafC, cf.CPoolToLeafC)
	move(&cs.CPool, &cs.LeafCStorage, cf.CPoolToLeafCStorage)
	move(&cs.CPool, &cs.FrootC, cf.CPoolToFrootC)
	move(&cs.CPool, &cs.FrootCStorage, cf.CPoolToFrootCStorage)
	move(&cs.CPool, &cs.LivestemC, cf.CPoolToLivestemC)
	move(&cs.CPool, &cs.LivestemCStorage, cf.CPoolToLivestemCStorage)
	move(&cs.CPool, &cs.DeadstemC, cf.CPoolToDeadstemC)
	move(&cs.CPool, &cs.DeadstemCStorage, cf.CPoolToDeadstemCStorage)
	move(&cs.CPool, &cs.LivecrootC, cf.CPoolToLivecrootC)
	move(&cs.CPool, &cs.LivecrootCStorage, cf.CPoolToLivecrootCStorage)
	move(&cs.CPool, &cs.DeadcrootC, cf.CPoolToDeadcrootC)
	move(&cs.CPool, &cs.DeadcrootCStorage, cf.CPoolToDeadcrootCStorage)
	move(&cs.CPool, &cs.GrespStorage, cf.CPoolToGrespStorage)

	// growth respiration
	gr := cf.CPoolLeafGR + cf.CPoolFrootGR + cf.CPoolLivestemGR + cf.CPoolDeadstemGR +
		cf.CPoolLivecrootGR + cf.CPoolDeadcrootGR
	cs.CPool -= gr
	cs.GrespTransfer -= cf.TransferGR
	cs.GRSnk += gr + cf.TransferGR

	if annualAlloc {
		storageToTransfer(cs, cf)
	}
}

func decompC(cs *bgc.CarbonState, cf *bgc.CarbonFlux) {
	type edge struct{ src, dst *float64 }
	edges := [bgc.NumDecompSteps]edge{
		bgc.StepL1S1: {&cs.Litr1C, &cs.Soil1C},
		bgc.StepL2S2: {&cs.Litr2C, &cs.Soil2C},
		bgc.StepL4S3: {&cs.Litr4C, &cs.Soil3C},
		bgc.StepS1S2: {&cs.Soil1C, &cs.Soil2C},
		bgc.StepS2S3: {&cs.Soil2C, &cs.Soil3C},
		bgc.StepS3S4: {&cs.Soil3C, &cs.Soil4C},
		bgc.StepS4:   {&cs.Soil4C, nil},
	}
	for i, e := range edges {
		d := cf.Decomp[i]
		*e.src -= d.HR
		cs.HRSnk += d.HR
		if e.dst != nil {
			move(e.src, e.dst, d.ToDest)
		}
	}
}

func storageToTransfer(cs *bgc.CarbonState, cf *bgc.CarbonFlux) {
	cf.LeafCStorageToTransfer = cs.LeafCStorage
	cf.FrootCStorageToTransfer = cs.FrootCStorage
	cf.LivestemCStorageToTransfer = cs.LivestemCStorage
	cf.DeadstemCStorageToTransfer = cs.DeadstemCStorage
	cf.LivecrootCStorageToTransfer = cs.LivecrootCStorage
	cf.DeadcrootCStorageToTransfer = cs.DeadcrootCStorage
	cf.GrespStorageToTransfer = cs.GrespStorage

	move(&cs.LeafCStorage, &cs.LeafCTransfer, cf.LeafCStorageToTransfer)
	move(&cs.FrootCStorage, &cs.FrootCTransfer, cf.FrootCStorageToTransfer)
	move(&cs.LivestemCStorage, &cs.LivestemCTransfer, cf.LivestemCStorageToTransfer)
	move(&cs.DeadstemCStorage, &cs.DeadstemCTransfer, cf.DeadstemCStorageToTransfer)
	move(&cs.LivecrootCStorage, &cs.LivecrootCTransfer, cf.LivecrootCStorageToTransfer)
	move(&cs.DeadcrootCStorage, &cs.DeadcrootCTransfer, cf.DeadcrootCStorageToTransfer)
	move(&cs.GrespStorage, &cs.GrespTransfer, cf.GrespStorageToTransfer)
}

func litterPools(cs *bgc.CarbonState) [4]*float64 {
	return [4]*float64{&cs.Litr1C, &cs.Litr2C, &cs.Litr3C, &cs.Litr4C}
}

// move transfers amount from src to dst.
func move(src, dst *float64, amount float64) {
	*src -= amount
	*dst += amount
}
