package rail

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/solarrail/internal/errs"
)

func TestNominalMoment(t *testing.T) {
	tests := []struct {
		p, l, sf float64
		want     float64
	}{
		{4.0, 1.0, 1.0, 1.0},
		{3.2, 1.2, 1.5, 0.64},
		{10, 2, 2, 2.5},
	}
	for _, tt := range tests {
		got, err := NominalMoment(tt.p, tt.l, tt.sf)
		if err != nil {
			t.Fatalf("NominalMoment(%v, %v, %v) error: %v", tt.p, tt.l, tt.sf, err)
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("NominalMoment(%v, %v, %v) = %v, want %v", tt.p, tt.l, tt.sf, got, tt.want)
		}
	}
}

func TestNominalMomentRejectsSafetyFactor(t *testing.T) {
	for _, sf := range []float64{0, -1, math.NaN()} {
		_, err := NominalMoment(4, 1, sf)
		if !errors.Is(err, errs.ErrInvalidInput) {
			t.Errorf("NominalMoment(sf=%v) error = %v, want ErrInvalidInput", sf, err)
		}
		var ie *errs.InputError
		if !errors.As(err, &ie) || ie.Field != "safety_factor" {
			t.Errorf("NominalMoment(sf=%v) error field not safety_factor: %v", sf, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "rail.json")
	os.WriteFile(jsonPath, []byte(`{"brand":"Acme","model":"R-40","breaking_load_kn":3.2,"test_span_m":1.2,"safety_factor":1.5,"pull_out_capacity_kn":2}`), 0644)

	r, err := LoadFromFile(jsonPath)
	if err != nil {
		t.Fatalf("LoadFromFile(json) failed: %v", err)
	}
	if r.Name() != "Acme R-40" {
		t.Errorf("Name() = %q, want %q", r.Name(), "Acme R-40")
	}
	if r.PullOutCapacity != 2 {
		t.Errorf("pull_out_capacity_kn = %v, want 2", r.PullOutCapacity)
	}

	yamlPath := filepath.Join(dir, "rail.yaml")
	os.WriteFile(yamlPath, []byte("breaking_load_kn: 4\ntest_span_m: 1\nsafety_factor: 2\n"), 0644)
	r, err = LoadFromFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadFromFile(yaml) failed: %v", err)
	}
	mn, _ := r.NominalMoment()
	if mn != 0.5 {
		t.Errorf("Mn = %v, want 0.5", mn)
	}
	if r.Name() != "custom rail" {
		t.Errorf("Name() = %q, want custom rail", r.Name())
	}

	badPath := filepath.Join(dir, "bad.json")
	os.WriteFile(badPath, []byte(`{"breaking_load_kn":3,"test_span_m":1,"safety_factor":0}`), 0644)
	if _, err := LoadFromFile(badPath); !errors.Is(err, errs.ErrInvalidInput) {
		t.Errorf("LoadFromFile(bad) error = %v, want ErrInvalidInput", err)
	}
}
