package sim

import (
	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/config"
)

// InitialState builds a cold-start state. The first year's leaf and stem
// carbon sit in the transfer pools, except for evergreen leaves which start
// displayed; tissue and detritus nitrogen follow the C:N ratios.
func InitialState(ic config.InitConfig, epc *bgc.EPC, site *bgc.Site) *bgc.State {
	s := &bgc.State{}
	cs, ns, ws := &s.Carbon, &s.Nitrogen, &s.Water

	ws.SoilW = ic.SoilWFrac * site.SoilWSat
	ws.SnowW = ic.SnowW

	if epc.Evergreen {
		cs.LeafC = ic.LeafCMax * (1 - epc.LeafTurnover)
		cs.LeafCTransfer = ic.LeafCMax * epc.LeafTurnover
	} else {
		cs.LeafCTransfer = ic.LeafCMax
	}
	cs.FrootC = cs.LeafC * epc.AllocFrootCLeafC
	cs.FrootCTransfer = cs.LeafCTransfer * epc.AllocFrootCLeafC

	if epc.Woody {
		live := epc.AllocNewLiveCNewWoodC
		cs.LivestemCTransfer = ic.StemCMax * live
		cs.DeadstemCTransfer = ic.StemCMax * (1 - live)
		cs.LivecrootCTransfer = cs.LivestemCTransfer * epc.AllocCrootCStemC
		cs.DeadcrootCTransfer = cs.DeadstemCTransfer * epc.AllocCrootCStemC
	}

	ns.LeafN = cs.LeafC / epc.LeafCN
	ns.LeafNTransfer = cs.LeafCTransfer / epc.LeafCN
	ns.FrootN = cs.FrootC / epc.FrootCN
	ns.FrootNTransfer = cs.FrootCTransfer / epc.FrootCN
	if epc.Woody {
		ns.LivestemNTransfer = cs.LivestemCTransfer / epc.LivewoodCN
		ns.DeadstemNTransfer = cs.DeadstemCTransfer / epc.DeadwoodCN
		ns.LivecrootNTransfer = cs.LivecrootCTransfer / epc.LivewoodCN
		ns.DeadcrootNTransfer = cs.DeadcrootCTransfer / epc.DeadwoodCN
	}

	cs.CwdC = ic.CwdC
	cwdCN := epc.LeafLitrCN
	if epc.Woody {
		cwdCN = epc.DeadwoodCN
	}
	ns.CwdN = cs.CwdC / cwdCN

	cs.Litr1C, cs.Litr2C, cs.Litr3C, cs.Litr4C = ic.Litr1C, ic.Litr2C, ic.Litr3C, ic.Litr4C
	ns.Litr1N = cs.Litr1C / epc.LeafLitrCN
	ns.Litr2N = cs.Litr2C / epc.LeafLitrCN
	ns.Litr3N = cs.Litr3C / epc.LeafLitrCN
	ns.Litr4N = cs.Litr4C / epc.LeafLitrCN

	cs.Soil1C, cs.Soil2C, cs.Soil3C, cs.Soil4C = ic.Soil1C, ic.Soil2C, ic.Soil3C, ic.Soil4C
	ns.Soil1N = cs.Soil1C / bgc.Soil1CN
	ns.Soil2N = cs.Soil2C / bgc.Soil2CN
	ns.Soil3N = cs.Soil3C / bgc.Soil3CN
	ns.Soil4N = cs.Soil4C / bgc.Soil4CN
	ns.SminN = ic.SminN
	return s
}
