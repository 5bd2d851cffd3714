package bgc

import (
	"fmt"
	"math"
)

// LitterFractions splits litter carbon into labile, unshielded cellulose,
// shielded cellulose and lignin.
type LitterFractions struct {
	Lab  float64 `yaml:"lab" validate:"gte=0,lte=1"`
	UCel float64 `yaml:"ucel" validate:"gte=0,lte=1"`
	SCel float64 `yaml:"scel" validate:"gte=0,lte=1"`
	Lig  float64 `yaml:"lig" validate:"gte=0,lte=1"`
}

func (l LitterFractions) Array() [4]float64 { return [4]float64{l.Lab, l.UCel, l.SCel, l.Lig} }

func (l LitterFractions) Sum() float64 { return l.Lab + l.UCel + l.SCel + l.Lig }

// EPC are the ecophysiological constants of one vegetation type. They are
// read-only for the run.
type EPC struct {
	Name      string `yaml:"name"`
	Woody     bool   `yaml:"woody"`
	Evergreen bool   `yaml:"evergreen"`

	// ModelPhenology selects temperature-driven onset/offset; otherwise the
	// user-specified OnsetDay/OffsetDay are used.
	ModelPhenology bool `yaml:"model_phenology"`
	OnsetDay       int  `yaml:"onset_day" validate:"gte=0,lt=365"`
	OffsetDay      int  `yaml:"offset_day" validate:"gte=0,lt=365"`

	TransferDays float64 `yaml:"transfer_days" validate:"gt=0,lte=1"`
	LitfallDays  float64 `yaml:"litfall_days" validate:"gt=0,lte=1"`

	LeafTurnover     float64 `yaml:"leaf_turnover" validate:"gte=0,lte=1"`
	FrootTurnover    float64 `yaml:"froot_turnover" validate:"gte=0,lte=1"`
	LivewoodTurnover float64 `yaml:"livewood_turnover" validate:"gte=0,lte=1"`
	WholePlantMort   float64 `yaml:"whole_plant_mortality" validate:"gte=0,lt=1"`
	FireMort         float64 `yaml:"fire_mortality" validate:"gte=0,lt=1"`

	AllocFrootCLeafC      float64 `yaml:"alloc_frootc_leafc" validate:"gte=0"`
	AllocCrootCStemC      float64 `yaml:"alloc_crootc_stemc" validate:"gte=0"`
	AllocNewStemCNewLeafC float64 `yaml:"alloc_newstemc_newleafc" validate:"gte=0"`
	AllocNewLiveCNewWoodC float64 `yaml:"alloc_newlivewoodc_newwoodc" validate:"gte=0,lte=1"`
	AllocPropCurGrowth    float64 `yaml:"alloc_prop_curgrowth" validate:"gte=0,lte=1"`

	LeafCN     float64 `yaml:"leaf_cn" validate:"gt=0"`
	LeafLitrCN float64 `yaml:"leaflitr_cn" validate:"gt=0"`
	FrootCN    float64 `yaml:"froot_cn" validate:"gt=0"`
	LivewoodCN float64 `yaml:"livewood_cn" validate:"gt=0"`
	DeadwoodCN float64 `yaml:"deadwood_cn" validate:"gt=0"`

	LeafLitr  LitterFractions `yaml:"leaflitr"`
	FrootLitr LitterFractions `yaml:"frootlitr"`
	DeadWood  LitterFractions `yaml:"deadwood"`

	IntCoef  float64 `yaml:"int_coef" validate:"gte=0"`
	ExtCoef  float64 `yaml:"ext_coef" validate:"gt=0"`
	LAIRatio float64 `yaml:"lai_ratio" validate:"gt=0"`
	SLA      float64 `yaml:"sla" validate:"gt=0"`
	FLNR     float64 `yaml:"flnr" validate:"gt=0,lte=1"`

	MaxConductance float64 `yaml:"gl_smax" validate:"gt=0"`
	CuticularCond  float64 `yaml:"gl_c" validate:"gte=0"`
	BoundaryCond   float64 `yaml:"gl_bl" validate:"gt=0"`
	PsiOpen        float64 `yaml:"psi_open" validate:"lte=0"`
	PsiClose       float64 `yaml:"psi_close" validate:"lt=0"`
	VPDOpen        float64 `yaml:"vpd_open" validate:"gte=0"`
	VPDClose       float64 `yaml:"vpd_close" validate:"gt=0"`
}

// Check performs the cross-field tests that struct tags cannot express.
func (e *EPC) Check() error {
	for name, lf := range map[string]LitterFractions{"leaflitr": e.LeafLitr, "frootlitr": e.FrootLitr, "deadwood": e.DeadWood} {
		if name == "deadwood" && !e.Woody {
			continue
		}
		if math.Abs(lf.Sum()-1) > 1e-6 {
			return fmt.Errorf("%w: %s fractions sum to %g, want 1", ErrInvalidEPC, name, lf.Sum())
		}
	}
	if e.DeadWood.Lab != 0 {
		return fmt.Errorf("%w: deadwood labile fraction must be 0", ErrInvalidEPC)
	}
	if e.WholePlantMort+e.FireMort >= 1 {
		return fmt.Errorf("%w: mortality + fire mortality must be < 1", ErrInvalidEPC)
	}
	if e.PsiClose >= e.PsiOpen {
		return fmt.Errorf("%w: psi_close must be below psi_open", ErrInvalidEPC)
	}
	if e.VPDClose <= e.VPDOpen {
		return fmt.Errorf("%w: vpd_close must exceed vpd_open", ErrInvalidEPC)
	}
	if e.LeafLitrCN < e.LeafCN {
		return fmt.Errorf("%w: leaf litter C:N below leaf C:N", ErrInvalidEPC)
	}
	if e.Woody && e.DeadwoodCN < e.LivewoodCN {
		return fmt.Errorf("%w: dead wood C:N below live wood C:N", ErrInvalidEPC)
	}
	if !e.Evergreen && !e.ModelPhenology && e.OffsetDay <= e.OnsetDay {
		return fmt.Errorf("%w: offset day %d not after onset day %d", ErrInvalidEPC, e.OffsetDay, e.OnsetDay)
	}
	return nil
}

// Site holds soil and site parameters.
type Site struct {
	SoilDepth float64 `yaml:"soil_depth" validate:"gt=0"`
	Sand      float64 `yaml:"sand" validate:"gte=0,lte=100"`
	Silt      float64 `yaml:"silt" validate:"gte=0,lte=100"`
	Clay      float64 `yaml:"clay" validate:"gte=0,lte=100"`
	Elevation float64 `yaml:"elevation"`
	Latitude  float64 `yaml:"latitude" validate:"gte=-90,lte=90"`
	SWAlbedo  float64 `yaml:"sw_albedo" validate:"gte=0,lte=1"`
	NDep      float64 `yaml:"ndep" validate:"gte=0"`
	NFix      float64 `yaml:"nfix" validate:"gte=0"`
	CO2       float64 `yaml:"co2" validate:"gt=0"`

	SoilB    float64 `yaml:"-"`
	VWCSat   float64 `yaml:"-"`
	VWCFC    float64 `yaml:"-"`
	PsiSat   float64 `yaml:"-"`
	SoilWSat float64 `yaml:"-"`
	SoilWFC  float64 `yaml:"-"`
}

// Derive fills the soil hydraulic parameters from texture (Cosby et al. 1984).
func (s *Site) Derive() {
	s.SoilB = -(3.10 + 0.157*s.Clay - 0.003*s.Sand)
	s.VWCSat = (50.5 - 0.142*s.Sand - 0.037*s.Clay) / 100.0
	s.PsiSat = -(math.Exp((1.54-0.0095*s.Sand+0.0063*s.Silt)*math.Log(10.0)) * 9.8e-5)
	s.VWCFC = s.VWCSat * math.Pow(-0.015/s.PsiSat, 1.0/s.SoilB)
	s.SoilWSat = 1000.0 * s.VWCSat * s.SoilDepth
	s.SoilWFC = 1000.0 * s.VWCFC * s.SoilDepth
}

// AirPressure returns the standard-atmosphere pressure (Pa) at the site.
func (s *Site) AirPressure() float64 {
	const (
		g  = 9.80665
		r  = 8.3143
		ma = 28.9644e-3
		lr = 0.0065
		t0 = 288.15
		p0 = 101325.0
	)
	t1 := 1.0 - (lr*s.Elevation)/t0
	return p0 * math.Pow(t1, g/(lr*(r/ma)))
}
