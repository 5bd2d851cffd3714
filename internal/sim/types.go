package sim

import (
	"fmt"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Mode selects the driver semantics.
type Mode int

const (
	// ModeModel runs a fixed number of calendar years.
	ModeModel Mode = iota
	// ModeSpinup cycles meteorology until soil carbon is steady or the year
	// cap is reached.
	ModeSpinup
)

func (m Mode) String() string {
	switch m {
	case ModeModel:
		return "model"
	case ModeSpinup:
		return "spinup"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts "model" and "spinup".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "model":
		return ModeModel, nil
	case "spinup":
		return ModeSpinup, nil
	}
	return 0, fmt.Errorf("%w: %q", bgc.ErrUnknownMode, s)
}

// Config controls one driver run.
type Config struct {
	Mode      Mode
	Years     int // model mode only
	FirstYear int
	MaxYears  int // spinup cap
	// StartMetYear is the met year of the first simulated year.
	StartMetYear int
}

// Observer receives every completed day and year.
type Observer interface {
	OnDay(d *bgc.Day) error
	OnYear(a bgc.AnnualSummary, d *bgc.Day) error
}

// SpinupOutcome describes how a spinup ended.
type SpinupOutcome struct {
	Converged bool    `json:"converged"`
	Years     int     `json:"years"`
	NBlock    int     `json:"nblock"`
	Trend     float64 `json:"trend"`
}

type Result struct {
	Mode   Mode
	State  *bgc.State
	Annual []bgc.AnnualSummary
	// NextMetYear is the met year a continuation run should start at.
	NextMetYear int
	Days        int
	Metrics     map[string]float64
	MaxDrift    map[string]float64
	Spinup      *SpinupOutcome
}
