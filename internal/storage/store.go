// Package storage keeps a catalogue of completed runs, one directory per
// run holding metadata.json and annual.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/experiment"
	"github.com/san-kum/ecosim/internal/sim"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return &bgc.IOError{Op: "create catalogue", Path: s.baseDir, Err: err}
	}
	return nil
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Mode       string             `json:"mode"`
	Vegetation string             `json:"vegetation"`
	Timestamp  time.Time          `json:"timestamp"`
	Elapsed    float64            `json:"elapsed_seconds"`
	FirstYear  int                `json:"first_year"`
	Years      int                `json:"years"`
	Spinup     *sim.SpinupOutcome `json:"spinup,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	MaxDrift   map[string]float64 `json:"max_drift"`
	Restart    string             `json:"restart,omitempty"`
}

// MetadataFor describes a finished experiment.
func MetadataFor(out *experiment.Outcome) RunMetadata {
	final := out.Final()
	meta := RunMetadata{
		ID:         out.RunID.String(),
		Mode:       out.Mode,
		Vegetation: out.Vegetation,
		Timestamp:  out.Started,
		Elapsed:    out.Elapsed.Seconds(),
		Years:      len(final.Annual),
		Metrics:    final.Metrics,
		MaxDrift:   final.MaxDrift,
		Restart:    out.Restart,
	}
	if len(final.Annual) > 0 {
		meta.FirstYear = final.Annual[0].Year
	}
	if out.Spinup != nil {
		meta.Spinup = out.Spinup.Spinup
	}
	return meta
}

var annualHeader = []string{
	"year", "met_year", "gpp", "npp", "nep", "nee", "hr", "prcp", "et", "outflow", "max_lai",
	"soil_c", "veg_c", "total_c", "soil_n",
}

// Save writes a run directory named by meta.ID, assigning a fresh id when
// it is empty, and returns the id.
func (s *Store) Save(meta RunMetadata, annual []bgc.AnnualSummary) (string, error) {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", &bgc.IOError{Op: "create run dir", Path: runDir, Err: err}
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", &bgc.IOError{Op: "write metadata", Path: metaPath, Err: err}
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "annual.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", &bgc.IOError{Op: "write annual", Path: csvPath, Err: err}
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(annualHeader); err != nil {
		return "", err
	}
	for _, a := range annual {
		row := []string{strconv.Itoa(a.Year), strconv.Itoa(a.MetYear)}
		for _, v := range []float64{a.GPP, a.NPP, a.NEP, a.NEE, a.HR, a.Prcp, a.ET, a.Outflow, a.MaxLAI,
			a.SoilC, a.VegC, a.TotalC, a.SoilN} {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", &bgc.IOError{Op: "write annual", Path: csvPath, Err: err}
	}
	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, &bgc.IOError{Op: "list runs", Path: s.baseDir, Err: err}
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadAnnual reads the annual.csv of a run back into summaries.
func (s *Store) LoadAnnual(runID string) ([]bgc.AnnualSummary, error) {
	csvPath := filepath.Join(s.baseDir, runID, "annual.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, &bgc.IOError{Op: "read annual", Path: csvPath, Err: err}
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, &bgc.IOError{Op: "read annual", Path: csvPath, Err: err}
	}
	if len(records) < 2 {
		return []bgc.AnnualSummary{}, nil
	}

	out := make([]bgc.AnnualSummary, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(annualHeader) {
			return nil, fmt.Errorf("%s row %d: %d fields, want %d", csvPath, i+1, len(record), len(annualHeader))
		}
		var a bgc.AnnualSummary
		if a.Year, err = strconv.Atoi(record[0]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", csvPath, i+1, err)
		}
		if a.MetYear, err = strconv.Atoi(record[1]); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", csvPath, i+1, err)
		}
		fields := []*float64{&a.GPP, &a.NPP, &a.NEP, &a.NEE, &a.HR, &a.Prcp, &a.ET, &a.Outflow, &a.MaxLAI,
			&a.SoilC, &a.VegC, &a.TotalC, &a.SoilN}
		for j, f := range fields {
			if *f, err = strconv.ParseFloat(record[j+2], 64); err != nil {
				return nil, fmt.Errorf("%s row %d: %w", csvPath, i+1, err)
			}
		}
		out = append(out, a)
	}
	return out, nil
}
