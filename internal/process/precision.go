package process

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Clamped reports the mass removed by one PrecisionControl call.
type Clamped struct {
	Water    float64
	Carbon   float64
	Nitrogen float64
	Pools    int
}

type cnPair struct {
	c, n *float64
}

// PrecisionControl zeroes pools whose magnitude is below bgc.CritPrec. The
// removed amount goes to a sink of the same element so that balances are
// unaffected: plant tissue to the fire sinks, detritus carbon to
// heterotrophic respiration and detritus or mineral nitrogen to
// volatilization. The cpool is left alone since it may carry a deficit.
func PrecisionControl(s *bgc.State) Clamped {
	var out Clamped
	cs, ns, ws := &s.Carbon, &s.Nitrogen, &s.Water

	tissue := []cnPair{
		{&cs.LeafC, &ns.LeafN}, {&cs.LeafCStorage, &ns.LeafNStorage}, {&cs.LeafCTransfer, &ns.LeafNTransfer},
		{&cs.FrootC, &ns.FrootN}, {&cs.FrootCStorage, &ns.FrootNStorage}, {&cs.FrootCTransfer, &ns.FrootNTransfer},
		{&cs.LivestemC, &ns.LivestemN}, {&cs.LivestemCStorage, &ns.LivestemNStorage}, {&cs.LivestemCTransfer, &ns.LivestemNTransfer},
		{&cs.DeadstemC, &ns.DeadstemN}, {&cs.DeadstemCStorage, &ns.DeadstemNStorage}, {&cs.DeadstemCTransfer, &ns.DeadstemNTransfer},
		{&cs.LivecrootC, &ns.LivecrootN}, {&cs.LivecrootCStorage, &ns.LivecrootNStorage}, {&cs.LivecrootCTransfer, &ns.LivecrootNTransfer},
		{&cs.DeadcrootC, &ns.DeadcrootN}, {&cs.DeadcrootCStorage, &ns.DeadcrootNStorage}, {&cs.DeadcrootCTransfer, &ns.DeadcrootNTransfer},
	}
	for _, p := range tissue {
		if math.Abs(*p.c) < bgc.CritPrec {
			out.add(&cs.FireSnk, p.c, &out.Carbon)
			out.add(&ns.FireSnk, p.n, &out.Nitrogen)
		}
	}
	for _, c := range []*float64{&cs.GrespStorage, &cs.GrespTransfer} {
		if math.Abs(*c) < bgc.CritPrec {
			out.add(&cs.FireSnk, c, &out.Carbon)
		}
	}

	detritus := []cnPair{
		{&cs.CwdC, &ns.CwdN},
		{&cs.Litr1C, &ns.Litr1N}, {&cs.Litr2C, &ns.Litr2N}, {&cs.Litr3C, &ns.Litr3N}, {&cs.Litr4C, &ns.Litr4N},
		{&cs.Soil1C, &ns.Soil1N}, {&cs.Soil2C, &ns.Soil2N}, {&cs.Soil3C, &ns.Soil3N}, {&cs.Soil4C, &ns.Soil4N},
	}
	for _, p := range detritus {
		if math.Abs(*p.c) < bgc.CritPrec {
			out.add(&cs.HRSnk, p.c, &out.Carbon)
			out.add(&ns.NVolSnk, p.n, &out.Nitrogen)
		}
	}
	for _, n := range []*float64{&ns.SminN, &ns.RetransN, &ns.NPool} {
		if math.Abs(*n) < bgc.CritPrec {
			out.add(&ns.NVolSnk, n, &out.Nitrogen)
		}
	}

	if math.Abs(ws.SoilW) < bgc.CritPrec {
		out.add(&ws.OutflowSnk, &ws.SoilW, &out.Water)
	}
	if math.Abs(ws.SnowW) < bgc.CritPrec {
		out.add(&ws.SnowSublSnk, &ws.SnowW, &out.Water)
	}
	if math.Abs(ws.CanopyW) < bgc.CritPrec {
		out.add(&ws.CanopyEvapSnk, &ws.CanopyW, &out.Water)
	}
	return out
}

func (c *Clamped) add(sink, pool, total *float64) {
	if *pool == 0 {
		return
	}
	*sink += *pool
	*total += *pool
	*pool = 0
	c.Pools++
}
