package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/alexiusacademia/solarrail/internal/analysis"
)

// Sheet names
const (
	SheetZones    = "Zones"
	SheetDesign   = "Design"
	SheetCritical = "Critical Beam"
)

// HistorySheet is the sheet holding one zone's optimization history
func HistorySheet(code string) string {
	return "History " + code
}

// WriteXLSX writes the zone table, design values, per-zone histories and
// the critical beam diagrams as a workbook
func WriteXLSX(out io.Writer, res *analysis.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetZones); err != nil {
		return err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	rows := [][]any{{"Zone", "Description", "Kl", "Pressure (kPa)", "Line load (kN/m)",
		"Optimal span (m)", "M* (kN-m)", "V* (kN)", "R* (kN)", "Utilization (%)", "Status", "Outcome", "Critical"}}
	for i, z := range res.Zones {
		rows = append(rows, []any{z.Zone.Code, z.Zone.Description, z.Zone.Kl, z.Pressure, z.LineLoad,
			z.OptimalSpan, z.MaxMoment, z.MaxShear, z.MaxReaction, z.Utilization,
			Status(z.Passed), string(z.Outcome), i == res.Critical})
	}
	if err := writeRows(f, SheetZones, rows, header); err != nil {
		return err
	}

	dc := res.Design
	in := res.Input
	if _, err := f.NewSheet(SheetDesign); err != nil {
		return err
	}
	design := [][]any{
		{"Quantity", "Value", "Unit"},
		{"Run ID", res.RunID, ""},
		{"Project", in.Project, ""},
		{"Region", in.Site.Region, ""},
		{"Return period", dc.ReturnPeriod, "years"},
		{"V_R", dc.RegionalSpeed, "m/s"},
		{"Mz,cat", dc.Mz, ""},
		{"Terrain category", float64(dc.TerrainCategory), ""},
		{"V_des", dc.DesignSpeed, "m/s"},
		{"Cpe θ=0", dc.Cpe.Theta0.Coefficient, string(dc.Cpe.Theta0.Source)},
		{"Cpe θ=90", dc.Cpe.Theta90.Coefficient, string(dc.Cpe.Theta90.Source)},
		{"Governing Cpe", dc.Cpe.Governing.Coefficient, fmt.Sprintf("θ=%d", dc.Cpe.Governing.Direction)},
		{"Tributary width", dc.TributaryWidth, "m"},
		{"Rail", res.Rail, ""},
		{"Mn", dc.NominalMoment, "kN-m"},
		{"Spans", in.NumSpans, ""},
	}
	if err := writeRows(f, SheetDesign, design, header); err != nil {
		return err
	}

	for _, z := range res.Zones {
		sheet := HistorySheet(z.Zone.Code)
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		hist := [][]any{{"Step", "Span (m)", "M* (kN-m)", "R* (kN)", "M*/Mn", "R*/capacity", "Utilization (%)", "Status", "Governing"}}
		for i, s := range z.History {
			hist = append(hist, []any{i + 1, s.Span, s.MaxMoment, s.MaxReaction, s.MomentRatio,
				s.PullOutRatio, s.Utilization, s.Status(), string(s.Governing)})
		}
		if err := writeRows(f, sheet, hist, header); err != nil {
			return err
		}
	}

	if crit := res.CriticalZone(); crit.Beam != nil {
		if _, err := f.NewSheet(SheetCritical); err != nil {
			return err
		}
		b := crit.Beam
		beamRows := [][]any{{"x (m)", "V (kN)", "M (kN-m)"}}
		for i := range b.X {
			beamRows = append(beamRows, []any{b.X[i], b.Shear[i], b.Moment[i]})
		}
		if err := writeRows(f, SheetCritical, beamRows, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(out)
	return err
}

// SaveXLSX writes the workbook to path
func SaveXLSX(path string, res *analysis.Result) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteXLSX(f, res); err != nil {
		return err
	}
	return f.Close()
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
