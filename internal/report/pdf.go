package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"

	"github.com/alexiusacademia/solarrail/internal/analysis"
)

// WritePDF writes the engineering report as an A4 PDF
func WritePDF(out io.Writer, res *analysis.Result, opts Options) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	in := res.Input
	dc := res.Design

	pdf.SetTitle("Solar Rail Span Report", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Solar Rail Span Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	line := func(format string, args ...any) {
		pdf.Cell(0, 6, tr(fmt.Sprintf(format, args...)))
		pdf.Ln(6)
	}
	heading := func(title string) {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, title)
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
	}

	if in.Project != "" {
		line("Project: %s", in.Project)
	}
	line("Date: %s", opts.date())
	line("Run ID: %s", res.RunID)
	line("Rail: %s, %d continuous spans", res.Rail, in.NumSpans)

	heading("Wind actions (AS/NZS 1170.2)")
	line("Region %s, importance level %d, design life %d years, return period 1/%d",
		in.Site.Region, in.Site.ImportanceLevel, in.Site.DesignLife, dc.ReturnPeriod)
	line("V_R = %.2f m/s, Mz,cat = %.4f (TC %g, h = %.2f m)", dc.RegionalSpeed, dc.Mz, float64(dc.TerrainCategory), in.Site.Height)
	line("V_des = %.2f m/s", dc.DesignSpeed)
	line("Cpe theta=0: %.3f (%s), theta=90: %.3f (%s)",
		dc.Cpe.Theta0.Coefficient, dc.Cpe.Theta0.Source, dc.Cpe.Theta90.Coefficient, dc.Cpe.Theta90.Source)
	line("Governing Cpe = %.3f at theta = %d", dc.Cpe.Governing.Coefficient, dc.Cpe.Governing.Direction)
	line("Tributary width = %.3f m", dc.TributaryWidth)

	heading("Rail capacity")
	line("P = %.3f kN, L_test = %.3f m, SF = %.2f", in.Rail.BreakingLoad, in.Rail.TestSpan, in.Rail.SafetyFactor)
	line("Mn = PL/4/SF = %.4f kN-m", dc.NominalMoment)

	heading("Zone results")
	cols := []struct {
		title string
		width float64
	}{
		{"Zone", 18}, {"Kl", 14}, {"p (kPa)", 22}, {"w (kN/m)", 22},
		{"Span (m)", 22}, {"M* (kN-m)", 24}, {"R* (kN)", 22}, {"Util", 18}, {"Status", 20},
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, z := range res.Zones {
		if i == res.Critical {
			pdf.SetFont("Helvetica", "B", 10)
		}
		cells := []string{
			z.Zone.Code,
			fmt.Sprintf("%.1f", z.Zone.Kl),
			fmt.Sprintf("%.3f", z.Pressure),
			fmt.Sprintf("%.3f", z.LineLoad),
			fmt.Sprintf("%.2f", z.OptimalSpan),
			fmt.Sprintf("%.4f", z.MaxMoment),
			fmt.Sprintf("%.3f", z.MaxReaction),
			fmt.Sprintf("%.1f%%", z.Utilization),
			Status(z.Passed),
		}
		for j, c := range cells {
			pdf.CellFormat(cols[j].width, 6, c, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}

	crit := res.CriticalZone()
	heading(fmt.Sprintf("Critical case: zone %s", crit.Zone.Code))
	line("%s, Kl = %.1f, p = %.3f kPa, w = %.3f kN/m", crit.Zone.Description, crit.Zone.Kl, crit.Pressure, crit.LineLoad)
	line("Maximum span %.2f m: M* = %.4f kN-m, V* = %.3f kN, R* = %.3f kN",
		crit.OptimalSpan, crit.MaxMoment, crit.MaxShear, crit.MaxReaction)
	line("Status: %s (%s)", Status(crit.Passed), crit.Outcome)

	heading("Optimization trace")
	pdf.SetFont("Courier", "", 8)
	for i, s := range crit.History {
		pdf.Cell(0, 4, fmt.Sprintf("%3d  L=%5.2f m  M*=%8.4f  R*=%7.3f  util=%6.1f%%  %s %s",
			i+1, s.Span, s.MaxMoment, s.MaxReaction, s.Utilization, s.Status(), s.Governing))
		pdf.Ln(4)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(out)
}

// SavePDF writes the PDF report to path
func SavePDF(path string, res *analysis.Result, opts Options) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WritePDF(f, res, opts); err != nil {
		return err
	}
	return f.Close()
}

// createFile creates path, making parent directories as needed
func createFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}
