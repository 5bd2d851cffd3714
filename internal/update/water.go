package update

import (
	"fmt"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Water applies the day's water fluxes. If evaporation and transpiration
// together would empty the soil below zero, both are cancelled before they
// are committed; a negative result after that is fatal. It reports whether
// the cancellation happened.
func Water(ws *bgc.WaterState, wf *bgc.WaterFlux) (bool, error) {
	ws.PrcpSrc += wf.PrcpToCanopyW + wf.PrcpToSoilW + wf.PrcpToSnowW

	ws.CanopyW += wf.PrcpToCanopyW - wf.CanopyWEvap - wf.CanopyWToSoilW
	ws.CanopyEvapSnk += wf.CanopyWEvap

	ws.SnowW += wf.PrcpToSnowW - wf.SnowWToSoilW - wf.SnowWSubl
	ws.SnowSublSnk += wf.SnowWSubl

	ws.SoilW += wf.PrcpToSoilW + wf.SnowWToSoilW + wf.CanopyWToSoilW

	reverted := false
	if ws.SoilW-wf.SoilWEvap-wf.SoilWTrans < 0 {
		wf.SoilWEvap = 0
		wf.SoilWTrans = 0
		reverted = true
	}
	ws.SoilW -= wf.SoilWEvap + wf.SoilWTrans
	ws.SoilEvapSnk += wf.SoilWEvap
	ws.TransSnk += wf.SoilWTrans

	ws.SoilW -= wf.SoilWOutflow
	ws.OutflowSnk += wf.SoilWOutflow

	if ws.SoilW < 0 {
		return reverted, fmt.Errorf("%w: soilw = %g", bgc.ErrNegativeSoilWater, ws.SoilW)
	}
	return reverted, nil
}
