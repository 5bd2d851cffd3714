package bgc

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestWaterBalance(t *testing.T) {
	w := WaterState{SoilW: 100, SnowW: 5, CanopyW: 1, PrcpSrc: 150, OutflowSnk: 20, SoilEvapSnk: 10, TransSnk: 14}
	if got := w.Balance(); math.Abs(got-0) > 1e-12 {
		t.Errorf("Balance() = %v, want 0", got)
	}

	w.SoilW -= 3
	w.TransSnk += 3
	if got := w.Balance(); math.Abs(got) > 1e-12 {
		t.Errorf("moving mass between stock and sink changed balance: %v", got)
	}
}

func TestCarbonPoolsCoverStorage(t *testing.T) {
	var c CarbonState
	pools := c.Pools()
	if len(pools) != 30 {
		t.Fatalf("expected 30 carbon pools, got %d", len(pools))
	}
	for i, p := range pools {
		*p.Value = float64(i + 1)
	}
	want := 30.0 * 31.0 / 2.0
	if got := c.Storage(); got != want {
		t.Errorf("Storage() = %v, want %v", got, want)
	}
	if got := c.SoilC(); got != 27+28+29+30 {
		t.Errorf("SoilC() = %v", got)
	}
}

func TestNitrogenPoolsUnique(t *testing.T) {
	var n NitrogenState
	seen := map[*float64]string{}
	for _, p := range n.Pools() {
		if prev, ok := seen[p.Value]; ok {
			t.Errorf("pool %s aliases %s", p.Name, prev)
		}
		seen[p.Value] = p.Name
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(s *State)
		valid bool
	}{
		{"zero", func(s *State) {}, true},
		{"NaN leafc", func(s *State) { s.Carbon.LeafC = math.NaN() }, false},
		{"Inf sminn", func(s *State) { s.Nitrogen.SminN = math.Inf(1) }, false},
		{"-Inf soilw", func(s *State) { s.Water.SoilW = math.Inf(-1) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &State{}
			tt.mut(s)
			if got := s.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestSiteDerive(t *testing.T) {
	s := Site{SoilDepth: 1, Sand: 30, Silt: 50, Clay: 20}
	s.Derive()
	if s.SoilB >= 0 {
		t.Errorf("soil_b should be negative, got %v", s.SoilB)
	}
	if !(s.SoilWFC > 0 && s.SoilWFC < s.SoilWSat) {
		t.Errorf("expected 0 < fc (%v) < sat (%v)", s.SoilWFC, s.SoilWSat)
	}
	if math.Abs(s.SoilWSat-455.0) > 1 {
		t.Errorf("soilw_sat = %v, want ~455", s.SoilWSat)
	}
}

func TestAirPressure(t *testing.T) {
	s := Site{}
	if p := s.AirPressure(); math.Abs(p-101325) > 1e-6 {
		t.Errorf("sea level pressure = %v", p)
	}
	s.Elevation = 1000
	if p := s.AirPressure(); p >= 101325 || p < 85000 {
		t.Errorf("pressure at 1000 m = %v", p)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{&BalanceError{Domain: "carbon"}, KindConservation},
		{fmt.Errorf("wrap: %w", &StageError{Stage: "radtrans", Err: ErrNegativeLeafC}), KindPhysical},
		{&IOError{Op: "open", Path: "x", Err: errors.New("boom")}, KindIO},
		{fmt.Errorf("mode: %w", ErrUnknownMode), KindConfig},
		{errors.New("other"), KindUnknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("Classify(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestStageError(t *testing.T) {
	err := &StageError{Stage: "decomp", Year: 3, YDay: 120, Err: ErrQuadratic}
	want := "year 3 day 120: decomp: bgc: unresolvable quadratic in assimilation"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrQuadratic) {
		t.Error("StageError does not unwrap")
	}
}
