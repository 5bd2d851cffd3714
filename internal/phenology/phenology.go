// Package phenology precomputes the daily phenology signal: the remaining
// and elapsed days of the leaf transfer and litterfall periods for every
// day of the meteorology record.
package phenology

import (
	"fmt"
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/met"
)

const (
	// midsummer is the first yday searched for a temperature-driven offset.
	midsummer = 182
	// offsetTsoil is the running soil temperature (°C) that ends the season.
	offsetTsoil = 5.0
)

// Signal is the per-day phenology signal, indexed metYear*365 + yday.
type Signal struct {
	days []bgc.PhenologyDay
	// Seasons records the onset and offset yday chosen for each met year.
	Seasons []Season
}

// Season is one year's growing season. Modeled is false when the
// temperature model found no season and the configured days were used.
type Season struct {
	Onset   int
	Offset  int
	Modeled bool
}

// Build computes the signal for every year of rec.
func Build(epc *bgc.EPC, rec *met.Record) (*Signal, error) {
	years := rec.NumYears()
	if years == 0 {
		return nil, bgc.ErrNoMetYears
	}
	s := &Signal{
		days:    make([]bgc.PhenologyDay, years*bgc.DaysPerYear),
		Seasons: make([]Season, years),
	}
	for y := 0; y < years; y++ {
		season := Season{Onset: 0, Offset: bgc.DaysPerYear - 1}
		if !epc.Evergreen {
			season = Season{Onset: epc.OnsetDay, Offset: epc.OffsetDay}
			if epc.ModelPhenology {
				if on, off, ok := modelSeason(rec.Tsoil[y*bgc.DaysPerYear : (y+1)*bgc.DaysPerYear]); ok {
					season = Season{Onset: on, Offset: off, Modeled: true}
				}
			}
			if season.Offset <= season.Onset {
				return nil, fmt.Errorf("%w: met year %d: offset %d not after onset %d",
					bgc.ErrInvalidEPC, y, season.Offset, season.Onset)
			}
		}
		s.Seasons[y] = season
		fill(s.days[y*bgc.DaysPerYear:(y+1)*bgc.DaysPerYear], season, epc)
	}
	return s, nil
}

// fill writes one year of signal for a season.
func fill(year []bgc.PhenologyDay, season Season, epc *bgc.EPC) {
	length := season.Offset - season.Onset + 1
	ntransfer := max(int(epc.TransferDays*float64(length)), 1)
	nlitfall := max(int(epc.LitfallDays*float64(length)), 1)
	litfallStart := season.Offset - nlitfall + 1

	for d := range year {
		var p bgc.PhenologyDay
		if d >= season.Onset && d <= season.Offset {
			p.RemDaysCurGrowth = float64(season.Offset - d + 1)
		}
		if d >= season.Onset && d < season.Onset+ntransfer {
			p.RemDaysTransfer = float64(season.Onset + ntransfer - d)
			p.PreDaysTransfer = float64(d - season.Onset)
		}
		if d >= litfallStart && d <= season.Offset {
			p.RemDaysLitfall = float64(season.Offset - d + 1)
			p.PreDaysLitfall = float64(d - litfallStart)
		}
		year[d] = p
	}
	if epc.Evergreen {
		// Evergreen litterfall runs all year and closes on the last day.
		for d := range year {
			year[d].RemDaysLitfall = float64(len(year) - d)
			year[d].PreDaysLitfall = float64(d)
		}
	}
}

// modelSeason finds onset from accumulated positive soil degree-days and
// offset from the first post-midsummer day below offsetTsoil.
func modelSeason(tsoil []float64) (onset, offset int, ok bool) {
	var mean float64
	for _, t := range tsoil {
		mean += t
	}
	mean /= float64(len(tsoil))
	critSum := math.Exp(4.795 + 0.129*mean)

	onset = -1
	var sum float64
	for d := 0; d < midsummer; d++ {
		if tsoil[d] > 0 {
			sum += tsoil[d]
		}
		if sum > critSum {
			onset = d
			break
		}
	}
	if onset < 0 {
		return 0, 0, false
	}

	offset = -1
	for d := max(midsummer, onset+1); d < len(tsoil); d++ {
		if tsoil[d] < offsetTsoil {
			offset = d
			break
		}
	}
	if offset < 0 {
		return 0, 0, false
	}
	return onset, offset, true
}

// Day returns the signal for one day.
func (s *Signal) Day(metYear, yday int) (bgc.PhenologyDay, error) {
	i := metYear*bgc.DaysPerYear + yday
	if metYear < 0 || yday < 0 || yday >= bgc.DaysPerYear || i >= len(s.days) {
		return bgc.PhenologyDay{}, fmt.Errorf("phenology day %d/%d out of range", metYear, yday)
	}
	return s.days[i], nil
}

// NumYears is the number of met years covered.
func (s *Signal) NumYears() int { return len(s.Seasons) }
