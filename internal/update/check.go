package update

import (
	"fmt"

	"github.com/san-kum/ecosim/internal/bgc"
)

// CheckNonNegative fails on any pool below -bgc.CritPrec. The cpool may
// carry a deficit and is exempt; smaller negatives are rounding residue
// that precision control removes at the start of the next day.
func CheckNonNegative(s *bgc.State) error {
	for _, p := range s.Carbon.Pools() {
		if p.Name == "cpool" {
			continue
		}
		if *p.Value < -bgc.CritPrec {
			return fmt.Errorf("%w: %s = %g", bgc.ErrNegativePool, p.Name, *p.Value)
		}
	}
	for _, p := range s.Nitrogen.Pools() {
		if *p.Value < -bgc.CritPrec {
			return fmt.Errorf("%w: %s = %g", bgc.ErrNegativePool, p.Name, *p.Value)
		}
	}
	for name, v := range map[string]float64{"snoww": s.Water.SnowW, "canopyw": s.Water.CanopyW} {
		if v < -bgc.CritPrec {
			return fmt.Errorf("%w: %s = %g", bgc.ErrNegativePool, name, v)
		}
	}
	return nil
}
