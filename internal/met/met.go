// Package met holds the daily meteorology arrays that drive a run.
//
// Arrays use a 365-day calendar and are indexed by metYear*365 + yday.
// The derived quantities (mean and night temperature, the running soil
// temperature, PAR) are computed once when a record is built.
package met

import (
	"fmt"

	"github.com/san-kum/ecosim/internal/bgc"
)

// tsoilWindow is the length of the running mean that approximates soil
// temperature.
const tsoilWindow = 11

// Record is a complete multi-year daily meteorology record.
type Record struct {
	Years []int

	Tmax []float64 // °C
	Tmin []float64 // °C
	Tday []float64 // °C
	Prcp []float64 // kg m⁻² d⁻¹
	VPD  []float64 // Pa
	SW   []float64 // W m⁻², daylight average
	Dayl []float64 // s

	Tavg   []float64
	Tnight []float64
	Tsoil  []float64
	PAR    []float64

	// TairAvg is the mean of Tavg over the whole record.
	TairAvg float64
}

// NumYears is the number of complete years in the record.
func (r *Record) NumYears() int { return len(r.Years) }

func (r *Record) index(metYear, yday int) (int, error) {
	if metYear < 0 || metYear >= r.NumYears() {
		return 0, fmt.Errorf("met year %d out of range [0,%d)", metYear, r.NumYears())
	}
	if yday < 0 || yday >= bgc.DaysPerYear {
		return 0, fmt.Errorf("yday %d out of range [0,%d)", yday, bgc.DaysPerYear)
	}
	return metYear*bgc.DaysPerYear + yday, nil
}

// Day extracts one day of driving meteorology. Air pressure and CO2 come
// from the site.
func (r *Record) Day(metYear, yday int, site *bgc.Site) (bgc.DailyMet, error) {
	i, err := r.index(metYear, yday)
	if err != nil {
		return bgc.DailyMet{}, err
	}
	return bgc.DailyMet{
		Tmax:    r.Tmax[i],
		Tmin:    r.Tmin[i],
		Tavg:    r.Tavg[i],
		Tday:    r.Tday[i],
		Tnight:  r.Tnight[i],
		Tsoil:   r.Tsoil[i],
		TairAvg: r.TairAvg,
		Prcp:    r.Prcp[i],
		VPD:     r.VPD[i],
		SW:      r.SW[i],
		PAR:     r.PAR[i],
		Dayl:    r.Dayl[i],
		Pa:      site.AirPressure(),
		CO2:     site.CO2,
	}, nil
}

// derive fills the derived arrays from the raw columns.
func (r *Record) derive() {
	n := len(r.Tmax)
	r.Tavg = make([]float64, n)
	r.Tnight = make([]float64, n)
	r.Tsoil = make([]float64, n)
	r.PAR = make([]float64, n)

	var total float64
	for i := 0; i < n; i++ {
		r.Tavg[i] = (r.Tmax[i] + r.Tmin[i]) / 2
		r.Tnight[i] = (r.Tday[i] + r.Tmin[i]) / 2
		r.PAR[i] = r.SW[i] * bgc.ParPerSW
		total += r.Tavg[i]
	}
	if n > 0 {
		r.TairAvg = total / float64(n)
	}

	// The first days of the record average over what is available.
	var window float64
	for i := 0; i < n; i++ {
		window += r.Tavg[i]
		if i >= tsoilWindow {
			window -= r.Tavg[i-tsoilWindow]
		}
		r.Tsoil[i] = window / float64(min(i+1, tsoilWindow))
	}
}
