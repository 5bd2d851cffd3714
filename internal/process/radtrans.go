package process

import (
	"fmt"
	"math"

	"github.com/san-kum/ecosim/internal/bgc"
)

// CanopyStructure sets projected, all-sided, sunlit and shaded LAI from
// leaf carbon.
func CanopyStructure(leafc float64, epc *bgc.EPC, d *bgc.Diag) error {
	if leafc < 0 {
		return fmt.Errorf("%w: leafc = %g", bgc.ErrNegativeLeafC, leafc)
	}
	d.ProjLAI = leafc * epc.SLA
	d.AllLAI = d.ProjLAI * epc.LAIRatio
	d.PlaiSun, d.PlaiShade = 0, 0
	if d.ProjLAI > 0 {
		d.PlaiSun = -math.Expm1(-d.ProjLAI)
		d.PlaiShade = d.ProjLAI - d.PlaiSun
		if d.PlaiShade < 0 {
			return fmt.Errorf("%w: proj_lai %g, sunlit %g", bgc.ErrNegativeShadeLAI, d.ProjLAI, d.PlaiSun)
		}
	}
	return nil
}

// RadTrans partitions absorbed shortwave and PAR between sunlit and shaded
// leaves with Beer's law. Per-leaf-area values are zero for empty classes.
func RadTrans(met *bgc.DailyMet, epc *bgc.EPC, site *bgc.Site, d *bgc.Diag) {
	d.SWAbs, d.SWAbsSun, d.SWAbsShade = 0, 0, 0
	d.PPFDSun, d.PPFDShade = 0, 0

	sw := met.SW * (1 - site.SWAlbedo)
	if d.ProjLAI <= 0 || sw <= 0 {
		d.SWTrans = sw
		return
	}
	k := epc.ExtCoef
	d.SWAbs = sw * -math.Expm1(-k*d.ProjLAI)
	d.SWTrans = sw - d.SWAbs

	sun := math.Min(k*sw*d.PlaiSun, d.SWAbs)
	shade := d.SWAbs - sun
	d.SWAbsSun = sun / d.PlaiSun
	if d.PlaiShade > 0 {
		d.SWAbsShade = math.Max(shade/d.PlaiShade, 0)
	}

	parFrac := 0.0
	if met.SW > 0 {
		parFrac = met.PAR / met.SW
	}
	d.PPFDSun = d.SWAbsSun * parFrac * bgc.EPar
	d.PPFDShade = d.SWAbsShade * parFrac * bgc.EPar
}
