package bgc

// WaterFlux is one day of water fluxes.
type WaterFlux struct {
	PrcpToCanopyW  float64
	PrcpToSoilW    float64
	PrcpToSnowW    float64
	CanopyWEvap    float64
	CanopyWToSoilW float64
	SnowWToSoilW   float64
	SnowWSubl      float64
	SoilWEvap      float64
	SoilWTrans     float64
	SoilWOutflow   float64
}

// Decomposition transfer steps, in the order they are computed.
const (
	StepL1S1 = iota
	StepL2S2
	StepL4S3
	StepS1S2
	StepS2S3
	StepS3S4
	StepS4
	NumDecompSteps
)

// DecompPotential is the N-unlimited outcome of one decomposition step.
// MNF > 0 is an immobilization demand, MNF < 0 net mineralization.
type DecompPotential struct {
	CLoss float64
	MNF   float64
}

// DecompC is the carbon side of one finalized decomposition step.
type DecompC struct {
	ToDest float64
	HR     float64
}

// DecompN is the nitrogen side of one finalized decomposition step.
type DecompN struct {
	ToDest  float64
	Immob   float64
	Mineral float64
	Vol     float64
}

// CarbonFlux is one day of carbon fluxes.
type CarbonFlux struct {
	LeafCTransferToLeafC           float64
	FrootCTransferToFrootC         float64
	LivestemCTransferToLivestemC   float64
	DeadstemCTransferToDeadstemC   float64
	LivecrootCTransferToLivecrootC float64
	DeadcrootCTransferToDeadcrootC float64

	LeafCToLitr  [4]float64
	FrootCToLitr [4]float64

	LivestemCToDeadstemC   float64
	LivecrootCToDeadcrootC float64

	LeafDayMR   float64
	LeafNightMR float64
	FrootMR     float64
	LivestemMR  float64
	LivecrootMR float64

	PsnSunToCPool   float64
	PsnShadeToCPool float64

	Decomp         [NumDecompSteps]DecompC
	Litr3CToLitr2C float64
	CwdCToLitr     [4]float64

	CPoolToLeafC             float64
	CPoolToLeafCStorage      float64
	CPoolToFrootC            float64
	CPoolToFrootCStorage     float64
	CPoolToLivestemC         float64
	CPoolToLivestemCStorage  float64
	CPoolToDeadstemC         float64
	CPoolToDeadstemCStorage  float64
	CPoolToLivecrootC        float64
	CPoolToLivecrootCStorage float64
	CPoolToDeadcrootC        float64
	CPoolToDeadcrootCStorage float64
	CPoolToGrespStorage      float64

	CPoolLeafGR      float64
	CPoolFrootGR     float64
	CPoolLivestemGR  float64
	CPoolDeadstemGR  float64
	CPoolLivecrootGR float64
	CPoolDeadcrootGR float64
	TransferGR       float64

	LeafCStorageToTransfer      float64
	FrootCStorageToTransfer     float64
	LivestemCStorageToTransfer  float64
	DeadstemCStorageToTransfer  float64
	LivecrootCStorageToTransfer float64
	DeadcrootCStorageToTransfer float64
	GrespStorageToTransfer      float64

	MortToLitr float64
	MortToCwd  float64
	FireToSnk  float64
}

// GPP is gross photosynthesis committed to the cpool today.
func (f *CarbonFlux) GPP() float64 { return f.PsnSunToCPool + f.PsnShadeToCPool }

func (f *CarbonFlux) MR() float64 {
	return f.LeafDayMR + f.LeafNightMR + f.FrootMR + f.LivestemMR + f.LivecrootMR
}

func (f *CarbonFlux) GR() float64 {
	return f.CPoolLeafGR + f.CPoolFrootGR + f.CPoolLivestemGR + f.CPoolDeadstemGR +
		f.CPoolLivecrootGR + f.CPoolDeadcrootGR + f.TransferGR
}

func (f *CarbonFlux) HR() float64 {
	var hr float64
	for _, d := range f.Decomp {
		hr += d.HR
	}
	return hr
}

// Allocated sums new tissue carbon, current growth and storage.
func (f *CarbonFlux) Allocated() float64 {
	return f.CPoolToLeafC + f.CPoolToLeafCStorage + f.CPoolToFrootC + f.CPoolToFrootCStorage +
		f.CPoolToLivestemC + f.CPoolToLivestemCStorage + f.CPoolToDeadstemC + f.CPoolToDeadstemCStorage +
		f.CPoolToLivecrootC + f.CPoolToLivecrootCStorage + f.CPoolToDeadcrootC + f.CPoolToDeadcrootCStorage
}

// NitrogenFlux is one day of nitrogen fluxes.
type NitrogenFlux struct {
	LeafNTransferToLeafN           float64
	FrootNTransferToFrootN         float64
	LivestemNTransferToLivestemN   float64
	DeadstemNTransferToDeadstemN   float64
	LivecrootNTransferToLivecrootN float64
	DeadcrootNTransferToDeadcrootN float64

	LeafNToLitr     [4]float64
	LeafNToRetransN float64
	FrootNToLitr    [4]float64

	LivestemNToDeadstemN   float64
	LivestemNToRetransN    float64
	LivecrootNToDeadcrootN float64
	LivecrootNToRetransN   float64

	NdepToSminN   float64
	NfixToSminN   float64
	SpinupToSminN float64

	Decomp         [NumDecompSteps]DecompN
	Litr3NToLitr2N float64
	CwdNToLitr     [4]float64

	RetransNToNPool float64
	SminNToNPool    float64
	SminNToDenitrif float64

	NPoolToLeafN             float64
	NPoolToLeafNStorage      float64
	NPoolToFrootN            float64
	NPoolToFrootNStorage     float64
	NPoolToLivestemN         float64
	NPoolToLivestemNStorage  float64
	NPoolToDeadstemN         float64
	NPoolToDeadstemNStorage  float64
	NPoolToLivecrootN        float64
	NPoolToLivecrootNStorage float64
	NPoolToDeadcrootN        float64
	NPoolToDeadcrootNStorage float64

	LeafNStorageToTransfer      float64
	FrootNStorageToTransfer     float64
	LivestemNStorageToTransfer  float64
	DeadstemNStorageToTransfer  float64
	LivecrootNStorageToTransfer float64
	DeadcrootNStorageToTransfer float64

	SminNLeached float64

	MortToLitr float64
	MortToCwd  float64
	FireToSnk  float64
}

// Allocated sums new tissue nitrogen, current growth and storage.
func (f *NitrogenFlux) Allocated() float64 {
	return f.NPoolToLeafN + f.NPoolToLeafNStorage + f.NPoolToFrootN + f.NPoolToFrootNStorage +
		f.NPoolToLivestemN + f.NPoolToLivestemNStorage + f.NPoolToDeadstemN + f.NPoolToDeadstemNStorage +
		f.NPoolToLivecrootN + f.NPoolToLivecrootNStorage + f.NPoolToDeadcrootN + f.NPoolToDeadcrootNStorage
}

// Diag carries per-day intermediate quantities shared between stages.
type Diag struct {
	ProjLAI   float64
	AllLAI    float64
	PlaiSun   float64
	PlaiShade float64

	SWAbs      float64
	SWTrans    float64
	SWAbsSun   float64
	SWAbsShade float64
	PPFDSun    float64
	PPFDShade  float64

	VWC float64
	Psi float64

	PotEvap float64

	GlSun      float64
	GlShade    float64
	AssimSun   float64
	AssimShade float64

	// TransferFrac is today's fraction of transfer pools moved to display.
	TransferFrac float64

	InGrowingSeason bool
	AnnualAlloc     bool

	AvailC         float64
	CPoolRecovery  float64
	PlantNDemand   float64
	PotentialImmob float64
	ActualImmob    float64
	Mineralized    float64
	PlantCAlloc    float64
	PlantNAlloc    float64
	ExcessC        float64
	FPI            float64
	NLimit         bool
}

// Flux is the complete daily flux record, reset at the top of each day.
type Flux struct {
	Water     WaterFlux
	Carbon    CarbonFlux
	Nitrogen  NitrogenFlux
	Potential [NumDecompSteps]DecompPotential
	Diag      Diag
}

func (f *Flux) Reset() { *f = Flux{} }
