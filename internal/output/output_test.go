package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ecosim/internal/bgc"
)

func TestRegistryListing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "vars", buf.Bytes())
}

func TestRegistryCodesUnique(t *testing.T) {
	seen := map[int]string{}
	for _, v := range All() {
		if prev, ok := seen[v.Code]; ok {
			t.Fatalf("code %d used by %s and %s", v.Code, prev, v.Name)
		}
		seen[v.Code] = v.Name
	}
	// Pool blocks must not spill into the sink blocks.
	assert.Less(t, len((&bgc.CarbonState{}).Pools()), blockCarbonSinks-blockCarbonState)
	assert.Less(t, len((&bgc.NitrogenState{}).Pools()), blockNitrogenSinks-blockNitrogenState)
}

func TestLookupAndGetters(t *testing.T) {
	s := &bgc.State{}
	s.Water.SoilW = 150
	s.Carbon.Soil4C = 7.5
	s.Nitrogen.SminN = 0.004
	f := &bgc.Flux{}
	f.Carbon.PsnSunToCPool = 0.002
	f.Carbon.PsnShadeToCPool = 0.001
	sum := &bgc.Summary{SoilC: 9, TotalC: 20}

	tests := []struct {
		name string
		want float64
	}{
		{"ws.soilw", 150},
		{"cs.soil4c", 7.5},
		{"ns.sminn", 0.004},
		{"cf.gpp", 0.003},
		{"summary.soil_c", 9},
		{"summary.total_c", 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Lookup(tt.name)
			require.True(t, ok)
			assert.InDelta(t, tt.want, v.Get(s, f, sum), 1e-15)

			byCode, ok := ByCode(v.Code)
			require.True(t, ok)
			assert.Equal(t, tt.name, byCode.Name)
		})
	}

	_, ok := Lookup("cs.nope")
	assert.False(t, ok)

	_, err := Resolve([]string{"ws.soilw", "bogus"})
	assert.True(t, errors.Is(err, bgc.ErrInvalidConfig))
}

func TestWriterBinaryAndText(t *testing.T) {
	dir := t.TempDir()
	vars, err := Resolve([]string{"ws.soilw", "summary.soil_c"})
	require.NoError(t, err)

	w, err := Create(filepath.Join(dir, "run.dayout"), vars, true)
	require.NoError(t, err)

	s := &bgc.State{}
	sum := &bgc.Summary{}
	for d := 0; d < 3; d++ {
		s.Water.SoilW = float64(100 + d)
		sum.SoilC = float64(d) / 2
		require.NoError(t, w.Record(2000, d, s, &bgc.Flux{}, sum))
	}
	assert.Equal(t, 3, w.Records())
	require.NoError(t, w.Close())

	data, err := os.ReadFile(filepath.Join(dir, "run.dayout.bin"))
	require.NoError(t, err)
	assert.Len(t, data, 3*2*4)

	recs, err := ReadRecords(bytes.NewReader(data), 2)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []float32{102, 1}, recs[2])

	text, err := os.ReadFile(filepath.Join(dir, "run.dayout.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(text)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "year\tyday\tws.soilw\tsummary.soil_c", lines[0])
	assert.Equal(t, "2000\t1\t101\t0.5", lines[2])
}

func TestCreateFailsOnMissingDir(t *testing.T) {
	_, err := Create("/nonexistent/dir/out", nil, false)
	require.Error(t, err)
	assert.Equal(t, bgc.KindIO, bgc.Classify(err))
}

func TestSQLiteSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annual.db")
	id := uuid.New()

	sink, err := OpenSQLite(path, id, "model")
	require.NoError(t, err)
	defer sink.Close()

	for y := 0; y < 3; y++ {
		require.NoError(t, sink.WriteAnnual(bgc.AnnualSummary{Year: 2000 + y, MetYear: y, NEP: 0.1 * float64(y), SoilC: 10}))
	}
	// Same year twice violates the key.
	assert.Error(t, sink.WriteAnnual(bgc.AnnualSummary{Year: 2000}))

	rows, err := sink.Annual()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2002, rows[2].Year)
	assert.InDelta(t, 0.2, rows[2].NEP, 1e-12)
	assert.Equal(t, 10.0, rows[0].SoilC)

	other, err := OpenSQLite(path, uuid.New(), "spinup")
	require.NoError(t, err)
	defer other.Close()
	rows, err = other.Annual()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadAnnualByRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.db")
	id := uuid.New()
	sink, err := OpenSQLite(path, id, "model")
	require.NoError(t, err)
	require.NoError(t, sink.WriteAnnual(bgc.AnnualSummary{Year: 1990, TotalC: 12.5}))
	require.NoError(t, sink.Close())

	rows, err := ReadAnnual(path, id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 12.5, rows[0].TotalC)

	rows, err = ReadAnnual(path, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, rows)
}
