package diagram

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/span"
)

func solved(t *testing.T) *beam.AnalysisResult {
	t.Helper()
	res, err := beam.Solve(1.2, 3, 1.5)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	return res
}

func TestDrawBeamSchematic(t *testing.T) {
	out := DrawBeamSchematic(solved(t))
	if got := strings.Count(out, "△"); got != 4 {
		t.Errorf("support markers = %d, want 4", got)
	}
	if !strings.Contains(out, "w = 1.500 kN/m") || !strings.Contains(out, "R4") {
		t.Errorf("schematic missing load or reactions:\n%s", out)
	}
}

func TestDrawForceDiagrams(t *testing.T) {
	res := solved(t)
	if out := DrawShearDiagram(res); !strings.Contains(out, "Shear force V (kN)") {
		t.Errorf("shear chart missing caption:\n%s", out)
	}
	if out := DrawMomentDiagram(res); !strings.Contains(out, "Bending moment M (kN-m)") {
		t.Errorf("moment chart missing caption:\n%s", out)
	}
}

func TestDrawUtilizationHistory(t *testing.T) {
	if DrawUtilizationHistory(nil) != "" {
		t.Error("empty history should draw nothing")
	}

	res, err := span.Optimize(0.5, 1.0, 2, span.DefaultOptions())
	if err != nil {
		t.Fatalf("Optimize error: %v", err)
	}
	out := DrawUtilizationHistory(res.History)
	if !strings.Contains(out, "Utilization (%)") {
		t.Errorf("history chart missing caption:\n%s", out)
	}

	single := DrawUtilizationHistory(res.History[:1])
	if single == "" {
		t.Error("single-step history should still draw")
	}
}

func TestDrawSummaryBoxAligned(t *testing.T) {
	out := DrawSummaryBox("CRITICAL CASE", []string{"Zone: RA4", "Span: 1.35 m", "M* = 0.62 kN-m ≤ Mn"})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	width := utf8.RuneCountInString(lines[0])
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n != width {
			t.Errorf("line %d width = %d, want %d: %q", i, n, width, l)
		}
	}
}

func TestExportForceDiagrams(t *testing.T) {
	dir := t.TempDir()
	paths, err := ExportForceDiagrams(solved(t), filepath.Join(dir, "out", "rail.png"))
	if err != nil {
		t.Fatalf("ExportForceDiagrams error: %v", err)
	}
	want := []string{"rail_sfd.png", "rail_bmd.png"}
	for i, p := range paths {
		if filepath.Base(p) != want[i] {
			t.Errorf("path %d = %s, want %s", i, filepath.Base(p), want[i])
		}
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

func TestExportHistory(t *testing.T) {
	res, err := span.Optimize(0.5, 1.0, 1, span.DefaultOptions())
	if err != nil {
		t.Fatalf("Optimize error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "history.svg")
	if err := ExportHistory(res.History, path); err != nil {
		t.Fatalf("ExportHistory error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("history image not written: %v", err)
	}
	if err := ExportHistory(nil, path); err == nil {
		t.Error("expected error for empty history")
	}
}

func TestSiblingPath(t *testing.T) {
	tests := []struct {
		in, suffix, want string
	}{
		{"out/rail.png", "_sfd", "out/rail_sfd.png"},
		{"rail.svg", "_bmd", "rail_bmd.svg"},
		{"rail", "_history", "rail_history.png"},
		{"rail.jpg", "_sfd", "rail_sfd.png"},
	}
	for _, tt := range tests {
		if got := SiblingPath(tt.in, tt.suffix); got != tt.want {
			t.Errorf("SiblingPath(%q, %q) = %q, want %q", tt.in, tt.suffix, got, tt.want)
		}
	}
}
