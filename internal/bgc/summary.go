package bgc

// Summary aggregates one day for output.
type Summary struct {
	GPP     float64
	MR      float64
	GR      float64
	HR      float64
	Fire    float64
	NPP     float64
	NEP     float64
	NEE     float64
	ET      float64
	Outflow float64
	LAI     float64

	SoilC   float64
	LitterC float64
	VegC    float64
	TotalC  float64
	SoilN   float64
	SminN   float64
}

// AnnualSummary accumulates daily summaries over one simulated year.
type AnnualSummary struct {
	Year    int     `json:"year"`
	MetYear int     `json:"met_year"`
	GPP     float64 `json:"gpp"`
	NPP     float64 `json:"npp"`
	NEP     float64 `json:"nep"`
	NEE     float64 `json:"nee"`
	HR      float64 `json:"hr"`
	Prcp    float64 `json:"prcp"`
	ET      float64 `json:"et"`
	Outflow float64 `json:"outflow"`
	MaxLAI  float64 `json:"max_lai"`
	SoilC   float64 `json:"soil_c"`
	VegC    float64 `json:"veg_c"`
	TotalC  float64 `json:"total_c"`
	SoilN   float64 `json:"soil_n"`
}

// Add folds one day into the annual totals. Stocks take the last day's value.
func (a *AnnualSummary) Add(d Summary, prcp float64) {
	a.GPP += d.GPP
	a.NPP += d.NPP
	a.NEP += d.NEP
	a.NEE += d.NEE
	a.HR += d.HR
	a.Prcp += prcp
	a.ET += d.ET
	a.Outflow += d.Outflow
	if d.LAI > a.MaxLAI {
		a.MaxLAI = d.LAI
	}
	a.SoilC = d.SoilC
	a.VegC = d.VegC
	a.TotalC = d.TotalC
	a.SoilN = d.SoilN
}
