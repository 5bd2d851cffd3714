package process

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

func mrRate(n, t float64) float64 {
	return n * bgc.MRPerN * math.Pow(bgc.MRQ10, (t-20)/10)
}

// MaintenanceResp computes tissue-N based maintenance respiration. Leaf
// respiration is split between daylight and night hours; live wood is only
// respired for woody types.
func MaintenanceResp(met *bgc.DailyMet, ns *bgc.NitrogenState, epc *bgc.EPC, cf *bgc.CarbonFlux) {
	dayFrac := met.Dayl / bgc.SecPerDay
	cf.LeafDayMR = mrRate(ns.LeafN, met.Tday) * dayFrac
	cf.LeafNightMR = mrRate(ns.LeafN, met.Tnight) * (1 - dayFrac)
	cf.FrootMR = mrRate(ns.FrootN, met.Tsoil)
	if epc.Woody {
		cf.LivestemMR = mrRate(ns.LivestemN, met.Tavg)
		cf.LivecrootMR = mrRate(ns.LivecrootN, met.Tsoil)
	}
}
