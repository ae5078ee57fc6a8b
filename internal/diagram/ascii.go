package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guptarohit/asciigraph"

	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/span"
)

// Chart size in terminal cells
const (
	chartHeight = 10
	chartWidth  = 64
)

// DrawBeamSchematic draws the loaded rail on its supports with reactions
func DrawBeamSchematic(res *beam.AnalysisResult) string {
	var sb strings.Builder

	cell := 12
	n := res.NumSpans
	length := n * cell

	sb.WriteString("\n")
	sb.WriteString("  CONTINUOUS RAIL\n")
	sb.WriteString("  ───────────────\n\n")
	sb.WriteString(fmt.Sprintf("  w = %.3f kN/m\n", res.Load))
	sb.WriteString("  " + strings.Repeat("↓", length+1) + "\n")
	sb.WriteString("  " + strings.Repeat("═", length+1) + "\n")

	supports := []rune(strings.Repeat(" ", length+1))
	for i := 0; i <= n; i++ {
		supports[i*cell] = '△'
	}
	sb.WriteString("  " + string(supports) + "\n")

	sb.WriteString("  ")
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("L=%.2f", res.SpanLength)
		pad := cell - utf8.RuneCountInString(label)
		left := pad / 2
		sb.WriteString(strings.Repeat(" ", left) + label + strings.Repeat(" ", pad-left))
	}
	sb.WriteString("\n\n")

	for i, r := range res.Reactions {
		sb.WriteString(fmt.Sprintf("  R%-2d = %8.3f kN   M = %8.3f kN-m\n", i+1, r, res.SupportMoments[i]))
	}

	return sb.String()
}

// DrawShearDiagram plots V(x) along the rail
func DrawShearDiagram(res *beam.AnalysisResult) string {
	return "\n" + asciigraph.Plot(res.Shear,
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.Precision(3),
		asciigraph.Caption(fmt.Sprintf("Shear force V (kN), max |V| = %.3f", res.MaxShear)),
	) + "\n"
}

// DrawMomentDiagram plots M(x) along the rail, sagging positive
func DrawMomentDiagram(res *beam.AnalysisResult) string {
	return "\n" + asciigraph.Plot(res.Moment,
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.Precision(3),
		asciigraph.Caption(fmt.Sprintf("Bending moment M (kN-m), max |M| = %.3f", res.MaxMoment)),
	) + "\n"
}

// DrawUtilizationHistory plots M*/Mn (%) per search step against the 100% limit
func DrawUtilizationHistory(history []span.Step) string {
	if len(history) == 0 {
		return ""
	}

	util := make([]float64, len(history))
	limit := make([]float64, len(history))
	for i, s := range history {
		util[i] = s.Utilization
		limit[i] = 100
	}

	// asciigraph needs at least two points to draw a line
	if len(util) == 1 {
		util = append(util, util[0])
		limit = append(limit, 100)
	}

	caption := fmt.Sprintf("Utilization (%%) over %d steps, %.2f m to %.2f m",
		len(history), history[0].Span, history[len(history)-1].Span)

	return "\n" + asciigraph.PlotMany([][]float64{util, limit},
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(asciigraph.Default, asciigraph.Red),
		asciigraph.Caption(caption),
	) + "\n"
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > maxLen {
			maxLen = n
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", padRight(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s  ║\n", padRight(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

func padRight(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
