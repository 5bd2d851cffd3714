package process

import (
	"fmt"
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Rubisco kinetics at 25 °C and their Q10s (Woodrow and Berry 1980).
const (
	fnr     = 7.16
	act25   = 3.6
	q10Act  = 2.4
	kc25    = 40.4
	q10Kc   = 2.1
	ko25    = 24800.0
	q10Ko   = 1.2
	jmaxVc  = 2.1
	thetaJ  = 0.7
	gasR    = 8.3143
	o2Frac  = 0.2095
	vomaxVc = 0.21
)

// PsnInput describes one leaf class for Farquhar photosynthesis.
type PsnInput struct {
	T    float64 // leaf temperature, °C
	Pa   float64 // Pa
	CO2  float64 // ppm
	G    float64 // leaf conductance to CO2, m s⁻¹
	LNC  float64 // leaf N per area, kg m⁻²
	FLNR float64
	PPFD float64 // absorbed, µmol m⁻² s⁻¹
	Rd   float64 // day respiration, µmol m⁻² s⁻¹
}

// PsnOutput holds the limiting rates, µmol m⁻² s⁻¹.
type PsnOutput struct {
	A    float64
	Av   float64
	Aj   float64
	Ci   float64
	Vmax float64
	Jmax float64
	J    float64
}

// Farquhar solves the coupled diffusion and biochemistry of C3 leaves for
// net assimilation, taking the lesser of the Rubisco- and
// electron-transport-limited rates.
func Farquhar(in PsnInput) (PsnOutput, error) {
	var out PsnOutput
	if in.G <= 0 {
		return out, nil
	}
	tk := in.T + 273.15
	q := (in.T - 25) / 10

	kc := kc25 * math.Pow(q10Kc, q)
	ko := ko25 * math.Pow(q10Ko, q)
	act := act25 * math.Pow(q10Act, q) * 1e6 / 60.0

	out.Vmax = in.LNC * in.FLNR * fnr * act
	out.Jmax = jmaxVc * out.Vmax

	o2 := o2Frac * in.Pa
	ca := in.CO2 * 1e-6 * in.Pa
	gamma := 0.5 * vomaxVc * kc * o2 / ko
	k := kc * (1 + o2/ko)
	g := in.G * 1e6 / (gasR * tk)

	a := -1.0 / g
	b := ca + k + (out.Vmax-in.Rd)/g
	c := out.Vmax*(gamma-ca) + in.Rd*(ca+k)
	av, err := lowerRoot(a, b, c)
	if err != nil {
		return out, fmt.Errorf("rubisco-limited rate: %w", err)
	}
	out.Av = av

	i2 := in.PPFD * 0.85 / 2
	j, err := lowerRoot(thetaJ, -(out.Jmax + i2), out.Jmax*i2)
	if err != nil {
		return out, fmt.Errorf("electron transport: %w", err)
	}
	out.J = j

	a = -4.5 / g
	b = 4.5*ca + 10.5*gamma + j/g - 4.5*in.Rd/g
	c = -j*(ca-gamma) + in.Rd*(4.5*ca+10.5*gamma)
	aj, err := lowerRoot(a, b, c)
	if err != nil {
		return out, fmt.Errorf("light-limited rate: %w", err)
	}
	out.Aj = aj

	out.A = math.Min(out.Av, out.Aj)
	out.Ci = ca - out.A/g
	return out, nil
}

// lowerRoot returns the physically meaningful root of ax²+bx+c.
func lowerRoot(a, b, c float64) (float64, error) {
	det := b*b - 4*a*c
	if det < 0 {
		return 0, fmt.Errorf("%w: determinant %g", bgc.ErrQuadratic, det)
	}
	if a > 0 {
		return (-b - math.Sqrt(det)) / (2 * a), nil
	}
	return (-b + math.Sqrt(det)) / (2 * a), nil
}
