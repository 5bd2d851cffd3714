package sim

import (
	"errors"
	"testing"

	"github.com/san-kum/ecosim/internal/balance"
	"github.com/san-kum/ecosim/internal/bgc"
	"github.com/san-kum/ecosim/internal/logging"
)

func TestDailyPipelineOrder(t *testing.T) {
	p := DailyPipeline(nil, nil, balance.NewChecker(), logging.Discard())
	if err := p.Validate(); err != nil {
		t.Fatalf("daily pipeline invalid: %v", err)
	}
	want := []string{
		"precision_control", "met", "soil_temperature", "phenology", "radiation", "precipitation",
		"snow_soil_evap", "soil_psi", "maintenance_resp", "canopy_et_psn", "outflow", "n_inputs",
		"decomposition", "allocation", "annual_rates", "growth_resp", "state_update", "leaching",
		"mortality", "balance", "summary",
	}
	got := p.Names()
	if len(got) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("stage %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBalanceStageResetsOnFirstDay(t *testing.T) {
	checker := balance.NewChecker()
	var stage Stage
	for _, st := range DailyPipeline(nil, nil, checker, logging.Discard()) {
		if st.Name() == "balance" {
			stage = st
		}
	}
	if stage == nil {
		t.Fatal("daily pipeline has no balance stage")
	}

	if err := stage.Run(&bgc.Day{Year: 1990, State: &bgc.State{}}); err != nil {
		t.Fatalf("reference day: %v", err)
	}
	moved := &bgc.State{}
	moved.Carbon.CPool = 1

	if err := stage.Run(&bgc.Day{Year: 2000, First: true, State: moved}); err != nil {
		t.Errorf("first day of a run must start a new reference, got %v", err)
	}

	err := stage.Run(&bgc.Day{Year: 2000, YDay: 1, State: &bgc.State{}})
	var be *bgc.BalanceError
	if !errors.As(err, &be) {
		t.Errorf("expected a balance error on a later day, got %v", err)
	}
}

func TestPipelineValidate(t *testing.T) {
	noop := func(*bgc.Day) error { return nil }

	tests := []struct {
		name    string
		p       Pipeline
		wantErr bool
	}{
		{"ordered", Pipeline{
			NewStage("a", reads(ResState), writes(ResMet), noop),
			NewStage("b", reads(ResMet), writes(ResCanopy), noop),
		}, false},
		{"read before write", Pipeline{
			NewStage("b", reads(ResMet), writes(ResCanopy), noop),
			NewStage("a", reads(ResState), writes(ResMet), noop),
		}, true},
		{"duplicate name", Pipeline{
			NewStage("a", reads(ResState), writes(ResMet), noop),
			NewStage("a", reads(ResMet), nil, noop),
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPipelineStopsAtFailure(t *testing.T) {
	ran := 0
	count := func(*bgc.Day) error { ran++; return nil }
	p := Pipeline{
		NewStage("first", nil, nil, count),
		NewStage("broken", nil, nil, func(*bgc.Day) error { return bgc.ErrNegativeLeafC }),
		NewStage("never", nil, nil, count),
	}

	err := p.Run(&bgc.Day{Year: 1990, YDay: 41})
	var se *bgc.StageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if se.Stage != "broken" || se.Year != 1990 || se.YDay != 41 {
		t.Errorf("unexpected stage error %+v", se)
	}
	if !errors.Is(err, bgc.ErrNegativeLeafC) {
		t.Error("stage error should unwrap to the cause")
	}
	if ran != 1 {
		t.Errorf("expected 1 stage before failure, got %d", ran)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeModel, ModeSpinup} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("transient"); !errors.Is(err, bgc.ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}
