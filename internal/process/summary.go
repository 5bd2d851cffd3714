package process

import "github.com/san-kum/ecosim/internal/bgc"

// Summarize derives the daily ecosystem totals reported to the outputs.
func Summarize(s *bgc.State, f *bgc.Flux, out *bgc.Summary) {
	cf, wf := &f.Carbon, &f.Water
	cs := &s.Carbon

	out.GPP = cf.GPP()
	out.MR = cf.MR()
	out.GR = cf.GR()
	out.HR = cf.HR()
	out.Fire = cf.FireToSnk
	out.NPP = out.GPP - out.MR - out.GR
	out.NEP = out.NPP - out.HR
	out.NEE = out.NEP - out.Fire
	out.ET = wf.CanopyWEvap + wf.SnowWSubl + wf.SoilWEvap + wf.SoilWTrans
	out.Outflow = wf.SoilWOutflow
	out.LAI = f.Diag.ProjLAI
	out.SoilC = cs.SoilC()
	out.LitterC = cs.LitterC() + cs.CwdC
	out.VegC = cs.VegC()
	out.TotalC = out.SoilC + out.LitterC + out.VegC + cs.CPool
	out.SoilN = s.Nitrogen.SoilN()
	out.SminN = s.Nitrogen.SminN
}
