package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/storage"
)

func TestExport(t *testing.T) {
	meta := storage.RunMetadata{ID: "abc", Mode: "model"}
	annual := []bgc.AnnualSummary{
		{Year: 2000, GPP: 1.0, NEP: 0.1, SoilC: 10},
		{Year: 2001, GPP: 1.2, NEP: 0.3, SoilC: 10.25},
	}

	var buf bytes.Buffer
	if err := Export(&buf, meta, annual); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.Run.ID != "abc" || got.Years != 2 {
		t.Errorf("unexpected header %+v", got)
	}
	if diff := got.MeanNEP - 0.2; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected mean nep 0.2, got %f", got.MeanNEP)
	}
	if got.SoilCChange != 0.25 {
		t.Errorf("expected soil C change 0.25, got %f", got.SoilCChange)
	}
}

func TestExportJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, storage.RunMetadata{ID: "empty"}, nil); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Contains(data, []byte(`"annual": []`)) {
		t.Errorf("expected an empty annual array, got %s", data)
	}
}
