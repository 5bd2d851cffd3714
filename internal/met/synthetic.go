package met

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Climate parameterizes the synthetic generator.
type Climate struct {
	Years         int
	FirstYear     int
	MeanTemp      float64 // °C
	TempAmplitude float64 // °C, half the annual range of daily means
	AnnualPrcp    float64 // kg m⁻² yr⁻¹
	Latitude      float64 // degrees
}

const (
	diurnalRange = 10.0
	wetEvery     = 3
	coldestYDay  = 15
)

// Synthetic builds a deterministic record: a sinusoidal temperature cycle,
// rain on a fixed subset of days and clear-sky radiation for the latitude.
func Synthetic(c Climate) *Record {
	n := c.Years * bgc.DaysPerYear
	rec := &Record{
		Years: make([]int, c.Years),
		Tmax:  make([]float64, n),
		Tmin:  make([]float64, n),
		Tday:  make([]float64, n),
		Prcp:  make([]float64, n),
		VPD:   make([]float64, n),
		SW:    make([]float64, n),
		Dayl:  make([]float64, n),
	}

	wetDays := 0
	for d := 0; d < bgc.DaysPerYear; d++ {
		if d%wetEvery == 0 {
			wetDays++
		}
	}
	perWetDay := c.AnnualPrcp / float64(wetDays)

	for y := 0; y < c.Years; y++ {
		rec.Years[y] = c.FirstYear + y
		// A small interannual wobble keeps years distinguishable.
		offset := 0.3 * math.Sin(float64(y))
		for d := 0; d < bgc.DaysPerYear; d++ {
			i := y*bgc.DaysPerYear + d
			phase := 2 * math.Pi * float64(d-coldestYDay) / bgc.DaysPerYear
			tavg := c.MeanTemp + offset - c.TempAmplitude*math.Cos(phase)

			rec.Tmax[i] = tavg + diurnalRange/2
			rec.Tmin[i] = tavg - diurnalRange/2
			rec.Tday[i] = 0.212*(rec.Tmax[i]-tavg) + tavg
			if d%wetEvery == 0 {
				rec.Prcp[i] = perWetDay
			}
			rec.VPD[i] = math.Max(satVP(rec.Tday[i])-satVP(rec.Tmin[i]), 0)
			rec.Dayl[i] = dayLength(c.Latitude, d)
			rec.SW[i] = 150 + 200*(rec.Dayl[i]/bgc.SecPerDay)
		}
	}
	rec.derive()
	return rec
}

// satVP is the saturation vapor pressure (Pa) over water.
func satVP(t float64) float64 {
	return 610.7 * math.Exp(17.38*t/(239.0+t))
}

// dayLength is the daylight duration (s) from solar declination.
func dayLength(lat float64, yday int) float64 {
	decl := -23.45 * math.Pi / 180 * math.Cos(2*math.Pi*float64(yday+10)/bgc.DaysPerYear)
	phi := lat * math.Pi / 180
	x := -math.Tan(phi) * math.Tan(decl)
	switch {
	case x <= -1:
		return bgc.SecPerDay
	case x >= 1:
		return 0
	}
	return bgc.SecPerDay * math.Acos(x) / math.Pi
}
