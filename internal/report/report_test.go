package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/solarrail/internal/analysis"
	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/rail"
	"github.com/alexiusacademia/solarrail/internal/span"
)

func sampleResult(t *testing.T) *analysis.Result {
	t.Helper()
	in := analysis.Input{
		Project:  "Depot roof",
		Site:     analysis.Site{Region: "B1", ImportanceLevel: 2, DesignLife: 25, TerrainCategory: 3, Height: 6},
		Building: analysis.Building{Width: 30, Depth: 12, RoofType: "monoslope", RoofAngle: 15},
		Panel:    analysis.Panel{Width: 1.13, Depth: 2.28, RailOrientation: "width"},
		Rail:     rail.Rail{Brand: "Acme", Model: "R-40", BreakingLoad: 3.2, TestSpan: 1.2, SafetyFactor: 1.5, PullOutCapacity: 2.5},
		NumSpans: 4,
	}
	res, err := analysis.NewAnalyzer(asnzs.DefaultTable(), span.DefaultOptions()).Run(in)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	return res
}

func TestWriteText(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	opts := Options{Diagrams: true, Now: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	if err := WriteText(&buf, res, opts); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"SOLAR RAIL SPAN REPORT",
		"Depot roof",
		"2026-03-01",
		"WIND ACTIONS",
		"ZONE RESULTS",
		"OPTIMIZATION TRACE - ZONE " + res.CriticalZone().Zone.Code,
		"CRITICAL CASE",
		"Acme R-40",
		"Shear force V (kN)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
	for _, z := range res.Zones {
		if !strings.Contains(out, "  "+z.Zone.Code+" ") {
			t.Errorf("zone table missing %s", z.Zone.Code)
		}
	}
}

func TestWriteTrace(t *testing.T) {
	opt, err := span.Optimize(0.5, 1.0, 1, span.DefaultOptions())
	if err != nil {
		t.Fatalf("Optimize error: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteTrace(&buf, opt.History); err != nil {
		t.Fatalf("WriteTrace error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(opt.History)+1 {
		t.Errorf("trace lines = %d, want %d", len(lines), len(opt.History)+1)
	}
	if !strings.Contains(lines[len(lines)-1], "FAIL (bending)") {
		t.Errorf("last line = %q, want failing bending step", lines[len(lines)-1])
	}
}

func TestStatus(t *testing.T) {
	if Status(true) != "SAFE" || Status(false) != "UNSAFE" {
		t.Errorf("Status = %s/%s, want SAFE/UNSAFE", Status(true), Status(false))
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, sampleResult(t), Options{}); err != nil {
		t.Fatalf("WritePDF error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
}

func TestSaveXLSX(t *testing.T) {
	res := sampleResult(t)
	path := filepath.Join(t.TempDir(), "reports", "rail.xlsx")
	if err := SaveXLSX(path, res); err != nil {
		t.Fatalf("SaveXLSX error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetZones)
	if err != nil {
		t.Fatalf("GetRows error: %v", err)
	}
	if len(rows) != len(res.Zones)+1 {
		t.Errorf("zone rows = %d, want %d", len(rows), len(res.Zones)+1)
	}
	if rows[1][0] != res.Zones[0].Zone.Code {
		t.Errorf("first zone = %q, want %q", rows[1][0], res.Zones[0].Zone.Code)
	}

	for _, z := range res.Zones {
		hist, err := f.GetRows(HistorySheet(z.Zone.Code))
		if err != nil {
			t.Fatalf("history sheet %s: %v", z.Zone.Code, err)
		}
		if len(hist) != len(z.History)+1 {
			t.Errorf("%s: history rows = %d, want %d", z.Zone.Code, len(hist), len(z.History)+1)
		}
	}

	beamRows, err := f.GetRows(SheetCritical)
	if err != nil {
		t.Fatalf("critical sheet: %v", err)
	}
	if len(beamRows) != len(res.CriticalZone().Beam.X)+1 {
		t.Errorf("beam rows = %d, want %d", len(beamRows), len(res.CriticalZone().Beam.X)+1)
	}
}
