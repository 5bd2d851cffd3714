// Package balance verifies daily mass conservation of water, carbon and
// nitrogen.
package balance

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Domain indexes the three conserved quantities.
type Domain int

const (
	Water Domain = iota
	Carbon
	Nitrogen
	numDomains
)

var domainNames = [numDomains]string{"water", "carbon", "nitrogen"}

func (d Domain) String() string { return domainNames[d] }

// Tolerance is the largest day-to-day balance change accepted per domain.
func (d Domain) Tolerance() float64 {
	switch d {
	case Water:
		return bgc.WaterBalanceTol
	case Carbon:
		return bgc.CarbonBalanceTol
	default:
		return bgc.NitrogenBalanceTol
	}
}

type accounts interface {
	Sources() float64
	Sinks() float64
	Storage() float64
}

func accountsOf(s *bgc.State, d Domain) accounts {
	switch d {
	case Water:
		return &s.Water
	case Carbon:
		return &s.Carbon
	default:
		return &s.Nitrogen
	}
}

// Checker compares each day's balance with the previous day's. The first
// day it sees only records the reference values.
type Checker struct {
	prev    [numDomains]float64
	started bool
	drift   [numDomains]float64
}

func NewChecker() *Checker { return &Checker{} }

// Check returns a *bgc.BalanceError for the first domain whose balance
// moved by more than its tolerance since the last call.
func (c *Checker) Check(s *bgc.State, year, yday int) error {
	var now [numDomains]float64
	for d := Domain(0); d < numDomains; d++ {
		a := accountsOf(s, d)
		now[d] = a.Sources() - a.Sinks() - a.Storage()
	}
	if !c.started {
		c.prev = now
		c.started = true
		return nil
	}
	for d := Domain(0); d < numDomains; d++ {
		delta := math.Abs(now[d] - c.prev[d])
		c.drift[d] = math.Max(c.drift[d], delta)
		if delta > d.Tolerance() {
			a := accountsOf(s, d)
			return &bgc.BalanceError{
				Domain:   d.String(),
				Year:     year,
				YDay:     yday,
				Balance:  now[d],
				Previous: c.prev[d],
				Sources:  a.Sources(),
				Sinks:    a.Sinks(),
				Storage:  a.Storage(),
				Tol:      d.Tolerance(),
			}
		}
	}
	c.prev = now
	return nil
}

// MaxDrift is the largest day-to-day change seen for the domain.
func (c *Checker) MaxDrift(d Domain) float64 { return c.drift[d] }

// Reset forgets the reference so the next Check is treated as a first day.
func (c *Checker) Reset() { *c = Checker{} }
