package process

import "math"

const (
	airCp    = 1010.0
	sbc      = 5.67e-8
	epsVapor = 0.6219
)

// PenMonInput are the drivers of one Penman-Monteith evaluation. Rv and Rh
// are resistances (s m⁻¹) to vapour and sensible heat.
type PenMonInput struct {
	Tair float64 // °C
	Pa   float64 // Pa
	VPD  float64 // Pa
	Irad float64 // W m⁻²
	Rv   float64
	Rh   float64
}

// PenMon returns the evaporation rate (kg m⁻² s⁻¹) of the combination
// equation, with radiative and convective heat resistances in parallel.
func PenMon(in PenMonInput) float64 {
	t := in.Tair
	tk := t + 273.15
	rho := 1.292 - 0.00428*t
	lhvap := 2.5023e6 - 2430.54*t

	rr := rho * airCp / (4.0 * sbc * tk * tk * tk)
	rhr := (in.Rh * rr) / (in.Rh + rr)

	const dt = 0.2
	t1, t2 := t+dt, t-dt
	pvs1 := 610.7 * math.Exp(17.38*t1/(239.0+t1))
	pvs2 := 610.7 * math.Exp(17.38*t2/(239.0+t2))
	s := (pvs1 - pvs2) / (t1 - t2)

	e := (s*in.Irad + rho*airCp*in.VPD/rhr) /
		(((in.Pa * airCp * in.Rv) / (lhvap * epsVapor * rhr)) + s)
	return e / lhvap
}
