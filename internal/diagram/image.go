package diagram

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/span"
)

var (
	shearColor  = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	shearFill   = color.RGBA{R: 144, G: 238, B: 144, A: 150}
	momentColor = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	momentFill  = color.RGBA{R: 100, G: 149, B: 237, A: 150}
	limitColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// ExportShearDiagram exports the shear force diagram to an image file.
// The format follows the extension (.png, .svg, .pdf); anything else gets .png.
func ExportShearDiagram(res *beam.AnalysisResult, filename string) error {
	p := forcePlot(res, res.Shear, "Shear Force Diagram", "V (kN)", shearColor, shearFill)
	if err := addSupports(p, res); err != nil {
		return err
	}
	return save(p, 8*vg.Inch, 4*vg.Inch, filename)
}

// ExportMomentDiagram exports the bending moment diagram to an image file
func ExportMomentDiagram(res *beam.AnalysisResult, filename string) error {
	p := forcePlot(res, res.Moment, "Bending Moment Diagram", "M (kN-m), sagging +", momentColor, momentFill)
	if err := addSupports(p, res); err != nil {
		return err
	}
	return save(p, 8*vg.Inch, 4*vg.Inch, filename)
}

// ExportForceDiagrams writes <base>_sfd<ext> and <base>_bmd<ext> and
// returns the two paths.
func ExportForceDiagrams(res *beam.AnalysisResult, filename string) ([]string, error) {
	sfd := SiblingPath(filename, "_sfd")
	bmd := SiblingPath(filename, "_bmd")
	if err := ExportShearDiagram(res, sfd); err != nil {
		return nil, err
	}
	if err := ExportMomentDiagram(res, bmd); err != nil {
		return nil, err
	}
	return []string{sfd, bmd}, nil
}

// ExportHistory plots utilization against span with the 100% limit line
func ExportHistory(history []span.Step, filename string) error {
	if len(history) == 0 {
		return fmt.Errorf("empty optimization history")
	}

	p := plot.New()
	p.Title.Text = "Span Optimization"
	p.X.Label.Text = "Span (m)"
	p.Y.Label.Text = "Utilization M*/Mn (%)"

	pts := make(plotter.XYs, len(history))
	var passed, failed plotter.XYs
	for i, s := range history {
		pts[i] = plotter.XY{X: s.Span, Y: s.Utilization}
		if s.Passed {
			passed = append(passed, pts[i])
		} else {
			failed = append(failed, pts[i])
		}
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = momentColor
	p.Add(line)

	limit, err := plotter.NewLine(plotter.XYs{
		{X: history[0].Span, Y: 100},
		{X: history[len(history)-1].Span, Y: 100},
	})
	if err != nil {
		return err
	}
	limit.LineStyle.Color = limitColor
	limit.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(limit)

	if len(passed) > 0 {
		ok, err := plotter.NewScatter(passed)
		if err != nil {
			return err
		}
		ok.GlyphStyle.Color = shearColor
		ok.GlyphStyle.Radius = vg.Points(2)
		ok.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(ok)
	}
	if len(failed) > 0 {
		bad, err := plotter.NewScatter(failed)
		if err != nil {
			return err
		}
		bad.GlyphStyle.Color = limitColor
		bad.GlyphStyle.Radius = vg.Points(4)
		bad.GlyphStyle.Shape = draw.CrossGlyph{}
		p.Add(bad)
	}

	return save(p, 8*vg.Inch, 5*vg.Inch, filename)
}

// forcePlot draws a filled diagram between the curve and the beam axis
func forcePlot(res *beam.AnalysisResult, values []float64, title, yLabel string, lineColor, fillColor color.Color) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = yLabel

	curve := make(plotter.XYs, len(values))
	for i := range values {
		curve[i] = plotter.XY{X: res.X[i], Y: values[i]}
	}

	// The curve closed down to the axis at both ends
	area := make(plotter.XYs, 0, len(curve)+2)
	area = append(area, plotter.XY{X: curve[0].X, Y: 0})
	area = append(area, curve...)
	area = append(area, plotter.XY{X: curve[len(curve)-1].X, Y: 0})
	if poly, err := plotter.NewPolygon(area); err == nil {
		poly.Color = fillColor
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	if line, err := plotter.NewLine(curve); err == nil {
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = lineColor
		p.Add(line)
	}

	axis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: float64(res.NumSpans) * res.SpanLength, Y: 0}})
	if err == nil {
		axis.LineStyle.Width = vg.Points(1)
		axis.LineStyle.Color = color.Black
		p.Add(axis)
	}

	p.Add(plotter.NewGrid())
	return p
}

// addSupports marks each support on the beam axis
func addSupports(p *plot.Plot, res *beam.AnalysisResult) error {
	pts := make(plotter.XYs, res.NumSpans+1)
	labels := make([]string, res.NumSpans+1)
	for i := range pts {
		pts[i] = plotter.XY{X: float64(i) * res.SpanLength, Y: 0}
		labels[i] = fmt.Sprintf("R=%.2f", res.Reactions[i])
	}

	supports, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	supports.GlyphStyle.Color = color.Black
	supports.GlyphStyle.Radius = vg.Points(5)
	supports.GlyphStyle.Shape = draw.TriangleGlyph{}
	p.Add(supports)

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
	if err != nil {
		return err
	}
	p.Add(l)
	return nil
}

// SiblingPath returns <base><suffix><ext> for filename, with an image
// extension defaulting to .png
func SiblingPath(filename, suffix string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return base + suffix + imageExt(filename)
}

func imageExt(filename string) string {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".png", ".svg", ".pdf":
		return ext
	}
	return ".png"
}

func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if imageExt(filename) != strings.ToLower(filepath.Ext(filename)) {
		filename += ".png"
	}
	return p.Save(width, height, filename)
}
