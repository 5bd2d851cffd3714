package bgc

// DailyMet is one day of meteorology, as served by the met collaborator.
type DailyMet struct {
	Tmax    float64 // °C
	Tmin    float64 // °C
	Tavg    float64 // °C
	Tday    float64 // °C
	Tnight  float64 // °C
	Tsoil   float64 // °C, 11-day running mean of tavg before correction
	TairAvg float64 // °C, whole-record mean of tavg
	Prcp    float64 // kg m⁻² d⁻¹
	VPD     float64 // Pa
	SW      float64 // W m⁻², daylight average
	PAR     float64 // W m⁻², daylight average
	Dayl    float64 // s
	Pa      float64 // Pa
	CO2     float64 // ppm
}

// PhenologyDay is one day of the precomputed phenology signal.
type PhenologyDay struct {
	RemDaysCurGrowth float64
	RemDaysTransfer  float64
	RemDaysLitfall   float64
	PreDaysTransfer  float64
	PreDaysLitfall   float64
}

// LastLitfallDay reports whether today closes the litterfall period.
func (p PhenologyDay) LastLitfallDay() bool { return p.RemDaysLitfall == 1 }

// Day is the working set of one simulated day. Stages receive it by pointer
// and must not retain it.
type Day struct {
	Year    int
	YDay    int
	MetYear int
	First   bool

	Met  DailyMet
	Phen PhenologyDay

	State *State
	Flux  *Flux
	EPC   *EPC
	Site  *Site

	// NAddFrac scales the spinup mineral-N supplement; zero outside the
	// supplemented spinup phase.
	NAddFrac float64

	Summary Summary
}
