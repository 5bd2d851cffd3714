package process

import "github.com/san-kum/ecosim/internal/bgc"

// CorrectSoilTemperature pulls the running-mean soil temperature toward
// the long-term air temperature, much harder when snow insulates the soil.
func CorrectSoilTemperature(met *bgc.DailyMet, snoww float64) {
	tdiff := met.TairAvg - met.Tsoil
	if snoww > 0 {
		met.Tsoil += 0.83 * tdiff
	} else {
		met.Tsoil += 0.2 * tdiff
	}
}
