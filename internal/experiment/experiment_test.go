package experiment

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/config"
	"github.com/san-kum/ecosim/internal/logging"
	"github.com/san-kum/ecosim/internal/output"
	"github.com/san-kum/ecosim/internal/restart"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.EPC = *config.GetPreset("c3grass")
	cfg.Vegetation = "c3grass"
	cfg.Years = 2
	cfg.Met.SyntheticYears = 3
	cfg.Output.Dir = t.TempDir()
	cfg.Output.Prefix = "grass"
	return cfg
}

func TestModelRunWritesOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Daily = []string{"ws.soilw", "cs.leafc", "summary.daily_nep"}
	cfg.Output.Annual = []string{"summary.soil_c"}
	cfg.Output.Text = true
	cfg.Output.SQLite = filepath.Join(cfg.Output.Dir, "runs.db")
	cfg.Restart.Write = filepath.Join(cfg.Output.Dir, "grass.restart")

	out, err := New(cfg, logging.Discard()).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out.Model)
	assert.Nil(t, out.Spinup)
	assert.Same(t, out.Model, out.Final())
	assert.Len(t, out.Model.Annual, 2)
	assert.Equal(t, 2, out.Model.NextMetYear)
	assert.Equal(t, cfg.Restart.Write, out.Restart)

	f, err := os.Open(filepath.Join(cfg.Output.Dir, "grass.day.bin"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := output.ReadRecords(f, 3)
	require.NoError(t, err)
	assert.Len(t, rows, 2*bgc.DaysPerYear)

	_, err = os.Stat(filepath.Join(cfg.Output.Dir, "grass.ann.txt"))
	assert.NoError(t, err)

	annual, err := output.ReadAnnual(cfg.Output.SQLite, out.RunID)
	require.NoError(t, err)
	require.Len(t, annual, 2)
	assert.Equal(t, out.Model.Annual[1].Year, annual[1].Year)
	assert.InDelta(t, out.Model.Annual[1].SoilC, annual[1].SoilC, 1e-12)

	var saved bgc.State
	metYear, err := restart.Load(cfg.Restart.Write, &saved)
	require.NoError(t, err)
	assert.Equal(t, 2, metYear)
	assert.Equal(t, out.Model.State.Carbon.SoilC(), saved.Carbon.SoilC())
}

func TestRestartContinuesMetCycle(t *testing.T) {
	cfg := testConfig(t)
	cfg.Restart.Write = filepath.Join(cfg.Output.Dir, "first.restart")
	first, err := New(cfg, logging.Discard()).Run(context.Background())
	require.NoError(t, err)

	next := testConfig(t)
	next.Years = 1
	next.Restart.Read = cfg.Restart.Write
	next.Restart.KeepMetYear = true
	second, err := New(next, logging.Discard()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, second.Model.Annual[0].MetYear)
	assert.Equal(t, first.Model.NextMetYear, second.Model.Annual[0].MetYear)

	next.Restart.KeepMetYear = false
	third, err := New(next, logging.Discard()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, third.Model.Annual[0].MetYear)
}

func TestSpinAndGo(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = config.ModeSpinAndGo
	cfg.Met.SyntheticYears = 1
	cfg.Spinup.MaxYears = 1
	cfg.Years = 1
	metricsFile := filepath.Join(cfg.Output.Dir, "ecosim.prom")

	e := New(cfg, logging.Discard())
	e.SetMetricsFile(metricsFile)
	out, err := e.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, out.Spinup)
	require.NotNil(t, out.Model)
	assert.Equal(t, 303, out.Spinup.Spinup.Years)
	assert.Len(t, out.Model.Annual, 1)
	assert.Equal(t, out.Spinup.NextMetYear, out.Model.Annual[0].MetYear)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ecosim_days_simulated_total")
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = "transient"
	_, err := New(cfg, logging.Discard()).Run(context.Background())
	assert.ErrorIs(t, err, bgc.ErrUnknownMode)

	cfg = testConfig(t)
	cfg.Met.File = filepath.Join(t.TempDir(), "missing.met")
	_, err = New(cfg, logging.Discard()).Run(context.Background())
	assert.Equal(t, bgc.KindIO, bgc.Classify(err))
}

func TestCancelledRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := New(testConfig(t), logging.Discard()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, out)
	assert.Empty(t, out.Model.Annual)
}
