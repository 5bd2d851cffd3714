package bgc

// Numerical and physical constants of the engine.
const (
	// CritPrec is the magnitude below which precision control zeroes a pool.
	CritPrec = 1e-15

	DaysPerYear = 365
	SecPerDay   = 86400.0

	// GRPerc is the growth respiration cost per unit of new tissue carbon.
	GRPerc = 0.3

	// MRPerN is maintenance respiration at 20 °C (kgC kgN⁻¹ d⁻¹).
	MRPerN = 0.218
	MRQ10  = 2.0

	// DaysCRecover spreads a cpool deficit over this many days.
	DaysCRecover = 365.0

	BulkDenitrifProportion = 0.5
	DenitrifProportion     = 0.01
	MobileNProportion      = 0.1
	RetransAvailFraction   = 0.1

	SpinupTolerance = 0.0005

	SnowTCoef   = 0.65
	SnowAlbedo  = 0.6
	LHFus       = 3.35e5
	LHSub       = 2.845e6
	PPFD50      = 75.0
	ParPerSW    = 0.45
	EPar        = 4.55
	MolCPerUmol = 12.011e-9
)

// Soil organic matter C:N ratios.
const (
	Soil1CN = 12.0
	Soil2CN = 12.0
	Soil3CN = 10.0
	Soil4CN = 10.0
)

// Base decomposition rates (d⁻¹) and respiration fractions of each transfer.
const (
	KL1Base   = 0.7
	KL2Base   = 0.07
	KL4Base   = 0.014
	KS1Base   = 0.07
	KS2Base   = 0.014
	KS3Base   = 0.0014
	KS4Base   = 0.0001
	KFragBase = 0.001

	RFL1S1 = 0.39
	RFL2S2 = 0.55
	RFL4S3 = 0.29
	RFS1S2 = 0.28
	RFS2S3 = 0.46
	RFS3S4 = 0.55
)

// Balance tolerances.
const (
	WaterBalanceTol    = 1e-4
	CarbonBalanceTol   = 1e-8
	NitrogenBalanceTol = 1e-8
)
