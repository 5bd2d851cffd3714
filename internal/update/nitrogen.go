package update

import "github.com/san-kum/ecosim/internal/bgc"

// Nitrogen applies every non-mortality nitrogen flux of the day, mirroring
// Carbon, plus the mineral N inputs and losses.
func Nitrogen(ns *bgc.NitrogenState, nf *bgc.NitrogenFlux, annualAlloc bool) {
	ns.NdepSrc += nf.NdepToSminN
	ns.NfixSrc += nf.NfixToSminN
	ns.SpinupSrc += nf.SpinupToSminN
	ns.SminN += nf.NdepToSminN + nf.NfixToSminN + nf.SpinupToSminN

	move(&ns.LeafNTransfer, &ns.LeafN, nf.LeafNTransferToLeafN)
	move(&ns.FrootNTransfer, &ns.FrootN, nf.FrootNTransferToFrootN)
	move(&ns.LivestemNTransfer, &ns.LivestemN, nf.LivestemNTransferToLivestemN)
	move(&ns.DeadstemNTransfer, &ns.DeadstemN, nf.DeadstemNTransferToDeadstemN)
	move(&ns.LivecrootNTransfer, &ns.LivecrootN, nf.LivecrootNTransferToLivecrootN)
	move(&ns.DeadcrootNTransfer, &ns.DeadcrootN, nf.DeadcrootNTransferToDeadcrootN)

	litter := [4]*float64{&ns.Litr1N, &ns.Litr2N, &ns.Litr3N, &ns.Litr4N}
	for i, dst := range litter {
		move(&ns.LeafN, dst, nf.LeafNToLitr[i])
		move(&ns.FrootN, dst, nf.FrootNToLitr[i])
	}
	move(&ns.LeafN, &ns.RetransN, nf.LeafNToRetransN)

	move(&ns.LivestemN, &ns.DeadstemN, nf.LivestemNToDeadstemN)
	move(&ns.LivestemN, &ns.RetransN, nf.LivestemNToRetransN)
	move(&ns.LivecrootN, &ns.DeadcrootN, nf.LivecrootNToDeadcrootN)
	move(&ns.LivecrootN, &ns.RetransN, nf.LivecrootNToRetransN)

	for i, dst := range litter {
		move(&ns.CwdN, dst, nf.CwdNToLitr[i])
	}
	move(&ns.Litr3N, &ns.Litr2N, nf.Litr3NToLitr2N)
	decompN(ns, nf)

	move(&ns.RetransN, &ns.NPool, nf.RetransNToNPool)
	move(&ns.SminN, &ns.NPool, nf.SminNToNPool)
	ns.SminN -= nf.SminNToDenitrif
	ns.NVolSnk += nf.SminNToDenitrif

	move(&ns.NPool, &ns.LeafN, nf.NPoolToLeafN)
	move(&ns.NPool, &ns.LeafNStorage, nf.NPoolToLeafNStorage)
	move(&ns.NPool, &ns.FrootN, nf.NPoolToFrootN)
	move(&ns.NPool, &ns.FrootNStorage, nf.NPoolToFrootNStorage)
	move(&ns.NPool, &ns.LivestemN, nf.NPoolToLivestemN)
	move(&ns.NPool, &ns.LivestemNStorage, nf.NPoolToLivestemNStorage)
	move(&ns.NPool, &ns.DeadstemN, nf.NPoolToDeadstemN)
	move(&ns.NPool, &ns.DeadstemNStorage, nf.NPoolToDeadstemNStorage)
	move(&ns.NPool, &ns.LivecrootN, nf.NPoolToLivecrootN)
	move(&ns.NPool, &ns.LivecrootNStorage, nf.NPoolToLivecrootNStorage)
	move(&ns.NPool, &ns.DeadcrootN, nf.NPoolToDeadcrootN)
	move(&ns.NPool, &ns.DeadcrootNStorage, nf.NPoolToDeadcrootNStorage)

	if annualAlloc {
		nf.LeafNStorageToTransfer = ns.LeafNStorage
		nf.FrootNStorageToTransfer = ns.FrootNStorage
		nf.LivestemNStorageToTransfer = ns.LivestemNStorage
		nf.DeadstemNStorageToTransfer = ns.DeadstemNStorage
		nf.LivecrootNStorageToTransfer = ns.LivecrootNStorage
		nf.DeadcrootNStorageToTransfer = ns.DeadcrootNStorage
		move(&ns.LeafNStorage, &ns.LeafNTransfer, nf.LeafNStorageToTransfer)
		move(&ns.FrootNStorage, &ns.FrootNTransfer, nf.FrootNStorageToTransfer)
		move(&ns.LivestemNStorage, &ns.LivestemNTransfer, nf.LivestemNStorageToTransfer)
		move(&ns.DeadstemNStorage, &ns.DeadstemNTransfer, nf.DeadstemNStorageToTransfer)
		move(&ns.LivecrootNStorage, &ns.LivecrootNTransfer, nf.LivecrootNStorageToTransfer)
		move(&ns.DeadcrootNStorage, &ns.DeadcrootNTransfer, nf.DeadcrootNStorageToTransfer)
	}
}

// decompN applies the finalized cascade. The receiver gains the donor's N
// plus immobilized N, less what is mineralized back to soil mineral N.
func decompN(ns *bgc.NitrogenState, nf *bgc.NitrogenFlux) {
	type edge struct{ src, dst *float64 }
	edges := [bgc.NumDecompSteps]edge{
		bgc.StepL1S1: {&ns.Litr1N, &ns.Soil1N},
		bgc.StepL2S2: {&ns.Litr2N, &ns.Soil2N},
		bgc.StepL4S3: {&ns.Litr4N, &ns.Soil3N},
		bgc.StepS1S2: {&ns.Soil1N, &ns.Soil2N},
		bgc.StepS2S3: {&ns.Soil2N, &ns.Soil3N},
		bgc.StepS3S4: {&ns.Soil3N, &ns.Soil4N},
		bgc.StepS4:   {&ns.Soil4N, nil},
	}
	for i, e := range edges {
		d := nf.Decomp[i]
		if e.dst == nil {
			move(e.src, &ns.SminN, d.Mineral)
		} else {
			move(e.src, e.dst, d.ToDest)
			move(&ns.SminN, e.dst, d.Immob)
			move(e.dst, &ns.SminN, d.Mineral)
		}
		ns.SminN -= d.Vol
		ns.NVolSnk += d.Vol
	}
}

// Leaching applies the post-update mineral N loss to drainage.
func Leaching(ns *bgc.NitrogenState, nf *bgc.NitrogenFlux) {
	ns.SminN -= nf.SminNLeached
	ns.NLeachSnk += nf.SminNLeached
}
