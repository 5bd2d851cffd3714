package bgc

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// WaterState holds the water stocks and their lifetime accumulators.
type WaterState struct {
	SoilW   float64
	SnowW   float64
	CanopyW float64

	PrcpSrc       float64
	OutflowSnk    float64
	SoilEvapSnk   float64
	CanopyEvapSnk float64
	SnowSublSnk   float64
	TransSnk      float64
}

func (w *WaterState) Storage() float64 { return w.SoilW + w.SnowW + w.CanopyW }
func (w *WaterState) Sources() float64 { return w.PrcpSrc }

func (w *WaterState) Sinks() float64 {
	return w.OutflowSnk + w.SoilEvapSnk + w.CanopyEvapSnk + w.SnowSublSnk + w.TransSnk
}

// Balance is sources minus sinks minus storage. It must not drift.
func (w *WaterState) Balance() float64 { return w.Sources() - w.Sinks() - w.Storage() }

// CarbonState holds every carbon pool of the patch.
type CarbonState struct {
	LeafC              float64
	LeafCStorage       float64
	LeafCTransfer      float64
	FrootC             float64
	FrootCStorage      float64
	FrootCTransfer     float64
	LivestemC          float64
	LivestemCStorage   float64
	LivestemCTransfer  float64
	DeadstemC          float64
	DeadstemCStorage   float64
	DeadstemCTransfer  float64
	LivecrootC         float64
	LivecrootCStorage  float64
	LivecrootCTransfer float64
	DeadcrootC         float64
	DeadcrootCStorage  float64
	DeadcrootCTransfer float64
	GrespStorage       float64
	GrespTransfer      float64
	CPool              float64
	CwdC               float64
	Litr1C             float64
	Litr2C             float64
	Litr3C             float64
	Litr4C             float64
	Soil1C             float64
	Soil2C             float64
	Soil3C             float64
	Soil4C             float64

	PsnSrc  float64
	MRSnk   float64
	GRSnk   float64
	HRSnk   float64
	FireSnk float64
}

// Pool is a named handle on one scalar stock.
type Pool struct {
	Name  string
	Value *float64
}

// Pools lists every carbon stock in declaration order.
func (c *CarbonState) Pools() []Pool {
	return []Pool{
		{"leafc", &c.LeafC}, {"leafc_storage", &c.LeafCStorage}, {"leafc_transfer", &c.LeafCTransfer},
		{"frootc", &c.FrootC}, {"frootc_storage", &c.FrootCStorage}, {"frootc_transfer", &c.FrootCTransfer},
		{"livestemc", &c.LivestemC}, {"livestemc_storage", &c.LivestemCStorage}, {"livestemc_transfer", &c.LivestemCTransfer},
		{"deadstemc", &c.DeadstemC}, {"deadstemc_storage", &c.DeadstemCStorage}, {"deadstemc_transfer", &c.DeadstemCTransfer},
		{"livecrootc", &c.LivecrootC}, {"livecrootc_storage", &c.LivecrootCStorage}, {"livecrootc_transfer", &c.LivecrootCTransfer},
		{"deadcrootc", &c.DeadcrootC}, {"deadcrootc_storage", &c.DeadcrootCStorage}, {"deadcrootc_transfer", &c.DeadcrootCTransfer},
		{"gresp_storage", &c.GrespStorage}, {"gresp_transfer", &c.GrespTransfer},
		{"cpool", &c.CPool},
		{"cwdc", &c.CwdC},
		{"litr1c", &c.Litr1C}, {"litr2c", &c.Litr2C}, {"litr3c", &c.Litr3C}, {"litr4c", &c.Litr4C},
		{"soil1c", &c.Soil1C}, {"soil2c", &c.Soil2C}, {"soil3c", &c.Soil3C}, {"soil4c", &c.Soil4C},
	}
}

func (c *CarbonState) Storage() float64 { return sumPools(c.Pools()) }
func (c *CarbonState) Sources() float64 { return c.PsnSrc }
func (c *CarbonState) Sinks() float64   { return c.MRSnk + c.GRSnk + c.HRSnk + c.FireSnk }
func (c *CarbonState) Balance() float64 { return c.Sources() - c.Sinks() - c.Storage() }

// SoilC is the soil organic matter carbon used by the spinup steady-state test.
func (c *CarbonState) SoilC() float64 { return c.Soil1C + c.Soil2C + c.Soil3C + c.Soil4C }

func (c *CarbonState) LitterC() float64 { return c.Litr1C + c.Litr2C + c.Litr3C + c.Litr4C }

func (c *CarbonState) VegC() float64 {
	return c.LeafC + c.LeafCStorage + c.LeafCTransfer +
		c.FrootC + c.FrootCStorage + c.FrootCTransfer +
		c.LivestemC + c.LivestemCStorage + c.LivestemCTransfer +
		c.DeadstemC + c.DeadstemCStorage + c.DeadstemCTransfer +
		c.LivecrootC + c.LivecrootCStorage + c.LivecrootCTransfer +
		c.DeadcrootC + c.DeadcrootCStorage + c.DeadcrootCTransfer +
		c.GrespStorage + c.GrespTransfer
}

// NitrogenState mirrors the carbon pools, plus mineral and retranslocated N.
type NitrogenState struct {
	LeafN              float64
	LeafNStorage       float64
	LeafNTransfer      float64
	FrootN             float64
	FrootNStorage      float64
	FrootNTransfer     float64
	LivestemN          float64
	LivestemNStorage   float64
	LivestemNTransfer  float64
	DeadstemN          float64
	DeadstemNStorage   float64
	DeadstemNTransfer  float64
	LivecrootN         float64
	LivecrootNStorage  float64
	LivecrootNTransfer float64
	DeadcrootN         float64
	DeadcrootNStorage  float64
	DeadcrootNTransfer float64
	NPool              float64
	RetransN           float64
	CwdN               float64
	Litr1N             float64
	Litr2N             float64
	Litr3N             float64
	Litr4N             float64
	Soil1N             float64
	Soil2N             float64
	Soil3N             float64
	Soil4N             float64
	SminN              float64

	NfixSrc   float64
	NdepSrc   float64
	SpinupSrc float64
	NLeachSnk float64
	NVolSnk   float64
	FireSnk   float64
}

// Pools lists every nitrogen stock in declaration order.
func (n *NitrogenState) Pools() []Pool {
	return []Pool{
		{"leafn", &n.LeafN}, {"leafn_storage", &n.LeafNStorage}, {"leafn_transfer", &n.LeafNTransfer},
		{"frootn", &n.FrootN}, {"frootn_storage", &n.FrootNStorage}, {"frootn_transfer", &n.FrootNTransfer},
		{"livestemn", &n.LivestemN}, {"livestemn_storage", &n.LivestemNStorage}, {"livestemn_transfer", &n.LivestemNTransfer},
		{"deadstemn", &n.DeadstemN}, {"deadstemn_storage", &n.DeadstemNStorage}, {"deadstemn_transfer", &n.DeadstemNTransfer},
		{"livecrootn", &n.LivecrootN}, {"livecrootn_storage", &n.LivecrootNStorage}, {"livecrootn_transfer", &n.LivecrootNTransfer},
		{"deadcrootn", &n.DeadcrootN}, {"deadcrootn_storage", &n.DeadcrootNStorage}, {"deadcrootn_transfer", &n.DeadcrootNTransfer},
		{"npool", &n.NPool}, {"retransn", &n.RetransN},
		{"cwdn", &n.CwdN},
		{"litr1n", &n.Litr1N}, {"litr2n", &n.Litr2N}, {"litr3n", &n.Litr3N}, {"litr4n", &n.Litr4N},
		{"soil1n", &n.Soil1N}, {"soil2n", &n.Soil2N}, {"soil3n", &n.Soil3N}, {"soil4n", &n.Soil4N},
		{"sminn", &n.SminN},
	}
}

func (n *NitrogenState) Storage() float64 { return sumPools(n.Pools()) }
func (n *NitrogenState) Sources() float64 { return n.NfixSrc + n.NdepSrc + n.SpinupSrc }
func (n *NitrogenState) Sinks() float64   { return n.NLeachSnk + n.NVolSnk + n.FireSnk }
func (n *NitrogenState) Balance() float64 { return n.Sources() - n.Sinks() - n.Storage() }

func (n *NitrogenState) SoilN() float64 { return n.Soil1N + n.Soil2N + n.Soil3N + n.Soil4N }

// EPV holds ecophysiological variables that persist across days.
type EPV struct {
	// DSR counts days since a soil-wetting rain, for bare-soil drying.
	DSR float64

	DayLeafCLitfallIncrement       float64
	DayFrootCLitfallIncrement      float64
	DayLivestemCTurnoverIncrement  float64
	DayLivecrootCTurnoverIncrement float64

	AnnMaxLAI float64
}

// State is the full persistent state of one patch.
type State struct {
	Water    WaterState
	Carbon   CarbonState
	Nitrogen NitrogenState
	EPV      EPV
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := *s
	return &c
}

func sumPools(pools []Pool) float64 {
	v := make([]float64, len(pools))
	for i, p := range pools {
		v[i] = *p.Value
	}
	return floats.Sum(v)
}

// IsValid reports whether every stock and accumulator is finite.
func (s *State) IsValid() bool {
	pools := append(s.Carbon.Pools(), s.Nitrogen.Pools()...)
	pools = append(pools,
		Pool{"soilw", &s.Water.SoilW}, Pool{"snoww", &s.Water.SnowW}, Pool{"canopyw", &s.Water.CanopyW})
	for _, p := range pools {
		if math.IsNaN(*p.Value) || math.IsInf(*p.Value, 0) {
			return false
		}
	}
	return true
}
