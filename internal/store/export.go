// Package store exports catalogued runs as JSON documents.
package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/storage"
)

type ExportData struct {
	Run         storage.RunMetadata `json:"run"`
	Years       int                 `json:"years"`
	MeanNEP     float64             `json:"mean_nep"`
	MeanGPP     float64             `json:"mean_gpp"`
	SoilCChange float64             `json:"soil_c_change"`
	Annual      []bgc.AnnualSummary `json:"annual"`
}

func newExportData(meta storage.RunMetadata, annual []bgc.AnnualSummary) ExportData {
	data := ExportData{Run: meta, Years: len(annual), Annual: annual}
	if len(annual) == 0 {
		data.Annual = []bgc.AnnualSummary{}
		return data
	}
	for _, a := range annual {
		data.MeanNEP += a.NEP
		data.MeanGPP += a.GPP
	}
	n := float64(len(annual))
	data.MeanNEP /= n
	data.MeanGPP /= n
	data.SoilCChange = annual[len(annual)-1].SoilC - annual[0].SoilC
	return data
}

// Export writes the run document to w.
func Export(w io.Writer, meta storage.RunMetadata, annual []bgc.AnnualSummary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(meta, annual))
}

func ExportJSON(path string, meta storage.RunMetadata, annual []bgc.AnnualSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return &bgc.IOError{Op: "export", Path: path, Err: err}
	}
	defer file.Close()
	return Export(file, meta, annual)
}

func ExportJSONStdout(meta storage.RunMetadata, annual []bgc.AnnualSummary) error {
	return Export(os.Stdout, meta, annual)
}
