package asnzs

import (
	"errors"
	"testing"

	"github.com/alexiusacademia/solarrail/internal/errs"
)

func TestDefaultTableValid(t *testing.T) {
	if err := DefaultTable().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestTerrainCategoriesSorted(t *testing.T) {
	cats := DefaultTable().TerrainCategories()
	want := []float64{1, 1.5, 2, 2.5, 3, 4}
	if len(cats) != len(want) {
		t.Fatalf("TerrainCategories() = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("category %d = %v, want %v", i, cats[i], want[i])
		}
	}
}

func TestValidateRejectsBrokenTable(t *testing.T) {
	tbl := DefaultTable()
	tbl.Zones = nil
	if err := tbl.Validate(); err == nil {
		t.Error("expected error for table without zones")
	}

	tbl = DefaultTable()
	delete(tbl.Terrain, tbl.DefaultTerrain)
	if err := tbl.Validate(); err == nil {
		t.Error("expected error for missing default terrain")
	}
}

func TestParseRoofType(t *testing.T) {
	tests := []struct {
		in   string
		want RoofType
		ok   bool
	}{
		{"gable", Gable, true},
		{"Monoslope", Monoslope, true},
		{"mono", Monoslope, true},
		{"hip", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRoofType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseRoofType(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFindZone(t *testing.T) {
	z, err := FindZone(Zones, "RA2")
	if err != nil {
		t.Fatalf("FindZone error: %v", err)
	}
	if z.Kl != 2.0 {
		t.Errorf("RA2 Kl = %v, want 2", z.Kl)
	}
	if _, err := FindZone(Zones, "RA9"); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("FindZone(RA9) error = %v, want ErrConfiguration", err)
	}
}
