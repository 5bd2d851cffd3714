package config

import (
	"sort"

	"github.com/san-kum/ecosim/internal/bgc"
)

// Presets are the ecophysiological constants of the bundled vegetation
// types.
var Presets = map[string]bgc.EPC{
	"enf": {
		Name:                  "evergreen needleleaf forest",
		Woody:                 true,
		Evergreen:             true,
		OnsetDay:              0,
		OffsetDay:             364,
		TransferDays:          0.3,
		LitfallDays:           0.3,
		LeafTurnover:          0.25,
		FrootTurnover:         0.25,
		LivewoodTurnover:      0.7,
		WholePlantMort:        0.005,
		FireMort:              0.005,
		AllocFrootCLeafC:      1.4,
		AllocCrootCStemC:      0.3,
		AllocNewStemCNewLeafC: 2.2,
		AllocNewLiveCNewWoodC: 0.071,
		AllocPropCurGrowth:    0.5,
		LeafCN:                42,
		LeafLitrCN:            93,
		FrootCN:               42,
		LivewoodCN:            50,
		DeadwoodCN:            729,
		LeafLitr:              bgc.LitterFractions{Lab: 0.31, UCel: 0.3348, SCel: 0.1152, Lig: 0.24},
		FrootLitr:             bgc.LitterFractions{Lab: 0.23, UCel: 0.082, SCel: 0.328, Lig: 0.36},
		DeadWood:              bgc.LitterFractions{UCel: 0.71, Lig: 0.29},
		IntCoef:               0.045,
		ExtCoef:               0.51,
		LAIRatio:              2.6,
		SLA:                   8.2,
		FLNR:                  0.04,
		MaxConductance:        0.006,
		CuticularCond:         0.00001,
		BoundaryCond:          0.08,
		PsiOpen:               -0.65,
		PsiClose:              -2.5,
		VPDOpen:               930,
		VPDClose:              4100,
	},
	"dbf": {
		Name:                  "deciduous broadleaf forest",
		Woody:                 true,
		OnsetDay:              120,
		OffsetDay:             280,
		TransferDays:          0.2,
		LitfallDays:           0.2,
		LeafTurnover:          1,
		FrootTurnover:         1,
		LivewoodTurnover:      0.7,
		WholePlantMort:        0.005,
		FireMort:              0.0025,
		AllocFrootCLeafC:      1.2,
		AllocCrootCStemC:      0.22,
		AllocNewStemCNewLeafC: 2.2,
		AllocNewLiveCNewWoodC: 0.16,
		AllocPropCurGrowth:    0.5,
		LeafCN:                24,
		LeafLitrCN:            49,
		FrootCN:               42,
		LivewoodCN:            50,
		DeadwoodCN:            550,
		LeafLitr:              bgc.LitterFractions{Lab: 0.38, UCel: 0.44, Lig: 0.18},
		FrootLitr:             bgc.LitterFractions{Lab: 0.34, UCel: 0.3696, SCel: 0.0704, Lig: 0.22},
		DeadWood:              bgc.LitterFractions{UCel: 0.77, Lig: 0.23},
		IntCoef:               0.045,
		ExtCoef:               0.54,
		LAIRatio:              2.0,
		SLA:                   32,
		FLNR:                  0.08,
		MaxConductance:        0.006,
		CuticularCond:         0.00001,
		BoundaryCond:          0.01,
		PsiOpen:               -0.34,
		PsiClose:              -2.2,
		VPDOpen:               1100,
		VPDClose:              3600,
	},
	"c3grass": {
		Name:               "C3 grassland",
		OnsetDay:           100,
		OffsetDay:          290,
		TransferDays:       0.5,
		LitfallDays:        0.1,
		LeafTurnover:       1,
		FrootTurnover:      1,
		WholePlantMort:     0.1,
		FireMort:           0.1,
		AllocFrootCLeafC:   1.0,
		AllocPropCurGrowth: 0.5,
		LeafCN:             24,
		LeafLitrCN:         49,
		FrootCN:            42,
		LivewoodCN:         50,
		DeadwoodCN:         729,
		LeafLitr:           bgc.LitterFractions{Lab: 0.68, UCel: 0.23, Lig: 0.09},
		FrootLitr:          bgc.LitterFractions{Lab: 0.34, UCel: 0.3696, SCel: 0.0704, Lig: 0.22},
		IntCoef:            0.021,
		ExtCoef:            0.6,
		LAIRatio:           2.0,
		SLA:                49,
		FLNR:               0.1,
		MaxConductance:     0.005,
		CuticularCond:      0.00001,
		BoundaryCond:       0.04,
		PsiOpen:            -0.73,
		PsiClose:           -2.7,
		VPDOpen:            1000,
		VPDClose:           5000,
	},
}

// GetPreset returns a copy of the named vegetation constants, or nil.
func GetPreset(name string) *bgc.EPC {
	epc, ok := Presets[name]
	if !ok {
		return nil
	}
	return &epc
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
