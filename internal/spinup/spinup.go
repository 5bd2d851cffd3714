// Package spinup decides when a cyclic-meteorology run has reached a soil
// carbon steady state.
//
// Years run in blocks of NBlock. The first block of each cycle is
// supplemented with mineral N while soil carbon is still rising; the next
// two blocks are measured and their mean daily soil carbon compared. A
// trend below the tolerance marks the first steady state, which must then
// be confirmed by a second, unsupplemented comparison.
package spinup

import (
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// NBlock is the number of years in one block. Short records are cycled
// roughly a hundred times per block.
func NBlock(metYears int) int {
	if metYears < 50 {
		return metYears * (100/metYears + 1)
	}
	return metYears
}

// Machine is the convergence state machine. The zero value is not usable;
// call New.
type Machine struct {
	nblock   int
	maxYears int
	tol      float64

	Rising   bool
	Metcycle int
	Steady1  bool
	Steady2  bool

	// SpinYears counts every simulated year so far.
	SpinYears int
	// Trend is the last measured soil carbon trend, kgC m⁻² yr⁻¹.
	Trend float64

	blockYear int
	tally1    float64
	tally2    float64
}

func New(metYears, maxYears int) *Machine {
	return &Machine{
		nblock:   NBlock(metYears),
		maxYears: maxYears,
		tol:      bgc.SpinupTolerance,
		Rising:   true,
	}
}

func (m *Machine) NBlock() int { return m.nblock }

// BlockYear is the position of the current year inside its block.
func (m *Machine) BlockYear() int { return m.blockYear }

// NAddFrac is the fraction of the N deficit supplemented this year. It
// decays linearly over the supplemented block and is zero otherwise.
func (m *Machine) NAddFrac() float64 {
	if m.Rising && !m.Steady1 && m.Metcycle == 0 {
		return 1 - float64(m.blockYear)/float64(m.nblock)
	}
	return 0
}

// AccumulateDay adds one day's soil carbon to the tally of the current
// measurement block.
func (m *Machine) AccumulateDay(soilC float64) {
	switch m.Metcycle {
	case 1:
		m.tally1 += soilC
	case 2:
		m.tally2 += soilC
	}
}

// EndYear closes a simulated year and, at a block boundary, advances the
// cycle. It reports whether a block ended.
func (m *Machine) EndYear() bool {
	m.SpinYears++
	m.blockYear++
	if m.blockYear < m.nblock {
		return false
	}
	m.blockYear = 0
	m.endBlock()
	return true
}

func (m *Machine) endBlock() {
	if m.Metcycle < 2 {
		m.Metcycle++
		return
	}

	days := float64(bgc.DaysPerYear * m.nblock)
	m.tally1 /= days
	m.tally2 /= days
	m.Trend = (m.tally2 - m.tally1) / float64(m.nblock)

	if !m.Steady1 {
		m.Rising = m.tally2 > m.tally1
		m.Steady1 = math.Abs(m.Trend) < m.tol
	} else {
		m.Steady2 = math.Abs(m.Trend) < m.tol
		if m.Trend > m.tol {
			m.Steady1 = false
			m.Rising = true
		}
	}

	m.Metcycle = 0
	m.tally1, m.tally2 = 0, 0
}

// Done reports whether the spinup should stop: steady state confirmed, or
// the year cap reached at the end of a full comparison cycle. It is false
// inside a block.
func (m *Machine) Done() bool {
	if m.blockYear != 0 || m.SpinYears == 0 {
		return false
	}
	if m.Steady1 && m.Steady2 {
		return true
	}
	return m.SpinYears >= m.maxYears && m.Metcycle == 0
}

// Converged reports a confirmed steady state, as opposed to hitting the cap.
func (m *Machine) Converged() bool { return m.Steady1 && m.Steady2 }
