// Package metrics accumulates per-run statistics over the simulated days
// and exposes run counters through a Prometheus registry.
package metrics

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Metric observes every simulated day.
type Metric interface {
	Name() string
	Observe(d *bgc.Day)
	Value() float64
	Reset()
}

// Mean averages a daily quantity.
type Mean struct {
	name    string
	get     func(d *bgc.Day) float64
	sum     float64
	samples int
}

func NewMean(name string, get func(d *bgc.Day) float64) *Mean {
	return &Mean{name: name, get: get}
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(d *bgc.Day) {
	m.sum += m.get(d)
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Peak tracks the largest value of a daily quantity.
type Peak struct {
	name string
	get  func(d *bgc.Day) float64
	max  float64
	seen bool
}

func NewPeak(name string, get func(d *bgc.Day) float64) *Peak {
	return &Peak{name: name, get: get}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(d *bgc.Day) {
	v := p.get(d)
	if !p.seen || v > p.max {
		p.max = v
		p.seen = true
	}
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() {
	p.max = 0
	p.seen = false
}

// Fraction is the share of days on which a condition held.
type Fraction struct {
	name    string
	cond    func(d *bgc.Day) bool
	hits    int
	samples int
}

func NewFraction(name string, cond func(d *bgc.Day) bool) *Fraction {
	return &Fraction{name: name, cond: cond}
}

func (f *Fraction) Name() string { return f.name }

func (f *Fraction) Observe(d *bgc.Day) {
	f.samples++
	if f.cond(d) {
		f.hits++
	}
}

func (f *Fraction) Value() float64 {
	if f.samples == 0 {
		return math.NaN()
	}
	return float64(f.hits) / float64(f.samples)
}

func (f *Fraction) Reset() {
	f.hits = 0
	f.samples = 0
}

// Defaults is the metric set attached to every run.
func Defaults() []Metric {
	return []Metric{
		NewMean("mean_daily_gpp", func(d *bgc.Day) float64 { return d.Summary.GPP }),
		NewMean("mean_daily_nep", func(d *bgc.Day) float64 { return d.Summary.NEP }),
		NewMean("mean_daily_et", func(d *bgc.Day) float64 { return d.Summary.ET }),
		NewPeak("peak_lai", func(d *bgc.Day) float64 { return d.Summary.LAI }),
		NewPeak("peak_snoww", func(d *bgc.Day) float64 { return d.State.Water.SnowW }),
		NewFraction("n_limited_days", func(d *bgc.Day) bool { return d.Flux.Diag.NLimit }),
		NewFraction("growing_season_days", func(d *bgc.Day) bool { return d.Flux.Diag.InGrowingSeason }),
	}
}
