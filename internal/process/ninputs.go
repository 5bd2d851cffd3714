package process

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// NitrogenInputs sets the daily atmospheric deposition and biological
// fixation into soil mineral N.
func NitrogenInputs(site *bgc.Site, nf *bgc.NitrogenFlux) {
	nf.NdepToSminN = site.NDep
	nf.NfixToSminN = site.NFix
}

// Leaching removes the mobile fraction of mineral N with drainage. It runs
// after the daily update so that it sees the N left by every other consumer.
func Leaching(ns *bgc.NitrogenState, ws *bgc.WaterState, wf *bgc.WaterFlux, nf *bgc.NitrogenFlux) {
	nf.SminNLeached = 0
	if wf.SoilWOutflow <= 0 || ns.SminN <= 0 {
		return
	}
	var leached float64
	if ws.SoilW > 0 {
		leached = ns.SminN * bgc.MobileNProportion * wf.SoilWOutflow / ws.SoilW
	} else {
		leached = ns.SminN * bgc.MobileNProportion
	}
	nf.SminNLeached = math.Min(leached, ns.SminN)
}
