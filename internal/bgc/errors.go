package bgc

import (
	"errors"
	"fmt"
)

// Physical or logical impossibilities detected by a stage.
var (
	ErrNegativeLeafC     = errors.New("bgc: negative leaf carbon")
	ErrNegativeShadeLAI  = errors.New("bgc: negative shaded leaf area")
	ErrQuadratic         = errors.New("bgc: unresolvable quadratic in assimilation")
	ErrNegativeSoilWater = errors.New("bgc: negative soil water")
	ErrNegativePool      = errors.New("bgc: negative pool after update")
	ErrInvalidState      = errors.New("bgc: invalid state (NaN or Inf detected)")
)

// Configuration inconsistencies, rejected before any state is touched.
var (
	ErrUnknownMode   = errors.New("bgc: unknown run mode")
	ErrInvalidEPC    = errors.New("bgc: invalid ecophysiological constants")
	ErrNoMetYears    = errors.New("bgc: meteorology holds no complete years")
	ErrInvalidConfig = errors.New("bgc: invalid configuration")
)

// ErrBalance is matched by every *BalanceError.
var ErrBalance = errors.New("bgc: mass balance violated")

// Kind is the error taxonomy of a failed run.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindPhysical
	KindConservation
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindPhysical:
		return "physical"
	case KindConservation:
		return "conservation"
	case KindConfig:
		return "config"
	}
	return "unknown"
}

// IOError marks a file or allocation failure of an external collaborator.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// StageError wraps a failure with the stage and simulated day it occurred on.
type StageError struct {
	Stage string
	Year  int
	YDay  int
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("year %d day %d: %s: %v", e.Year, e.YDay, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// BalanceError reports a conservation violation with its full breakdown.
type BalanceError struct {
	Domain   string
	Year     int
	YDay     int
	Balance  float64
	Previous float64
	Sources  float64
	Sinks    float64
	Storage  float64
	Tol      float64
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("%s balance drift %.3e exceeds %.0e (balance %.10e, previous %.10e, sources %.10e, sinks %.10e, storage %.10e)",
		e.Domain, e.Balance-e.Previous, e.Tol, e.Balance, e.Previous, e.Sources, e.Sinks, e.Storage)
}

func (e *BalanceError) Is(target error) bool { return target == ErrBalance }

// Classify maps an error onto the taxonomy.
func Classify(err error) Kind {
	var ioe *IOError
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrBalance):
		return KindConservation
	case errors.Is(err, ErrUnknownMode), errors.Is(err, ErrInvalidEPC), errors.Is(err, ErrNoMetYears),
		errors.Is(err, ErrInvalidConfig):
		return KindConfig
	case errors.As(err, &ioe):
		return KindIO
	case errors.Is(err, ErrNegativeLeafC), errors.Is(err, ErrNegativeShadeLAI), errors.Is(err, ErrQuadratic),
		errors.Is(err, ErrNegativeSoilWater), errors.Is(err, ErrNegativePool), errors.Is(err, ErrInvalidState):
		return KindPhysical
	}
	return KindUnknown
}
