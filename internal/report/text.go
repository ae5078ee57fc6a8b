package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alexiusacademia/solarrail/internal/analysis"
	"github.com/alexiusacademia/solarrail/internal/diagram"
	"github.com/alexiusacademia/solarrail/internal/span"
)

const (
	heavyRule = "═══════════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────────"
)

// Status is SAFE or UNSAFE.
func Status(passed bool) string {
	if passed {
		return "SAFE"
	}
	return "UNSAFE"
}

// Options selects optional report sections
type Options struct {
	Diagrams bool      // ASCII beam, shear, moment and utilization charts
	Now      time.Time // report date, zero means time.Now
}

func (o Options) date() string {
	if o.Now.IsZero() {
		return time.Now().Format("2006-01-02")
	}
	return o.Now.Format("2006-01-02")
}

// WriteText writes the plain-text engineering report
func WriteText(out io.Writer, res *analysis.Result, opts Options) error {
	var sb strings.Builder
	in := res.Input
	dc := res.Design

	section := func(title string) {
		sb.WriteString("\n" + title + ":\n" + lightRule + "\n")
	}
	table := func(rows func(w *tabwriter.Writer)) {
		w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		rows(w)
		w.Flush()
	}

	sb.WriteString("\n" + heavyRule + "\n")
	sb.WriteString("     SOLAR RAIL SPAN REPORT - AS/NZS 1170.2\n")
	sb.WriteString(heavyRule + "\n")

	section("PROJECT")
	table(func(w *tabwriter.Writer) {
		project := in.Project
		if project == "" {
			project = "-"
		}
		fmt.Fprintf(w, "  Project:\t%s\n", project)
		fmt.Fprintf(w, "  Run ID:\t%s\n", res.RunID)
		fmt.Fprintf(w, "  Date:\t%s\n", opts.date())
		fmt.Fprintf(w, "  Rail:\t%s\n", res.Rail)
		fmt.Fprintf(w, "  Continuous spans:\t%d\n", in.NumSpans)
	})

	section("WIND ACTIONS")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "  Region:\t%s\n", in.Site.Region)
		fmt.Fprintf(w, "  Importance level / design life:\t%d / %d years\n", in.Site.ImportanceLevel, in.Site.DesignLife)
		fmt.Fprintf(w, "  Return period:\t1/%d\n", dc.ReturnPeriod)
		clamped := ""
		if dc.SpeedClamped {
			clamped = " (clamped to table)"
		}
		fmt.Fprintf(w, "  Regional wind speed V_R:\t%.2f m/s%s\n", dc.RegionalSpeed, clamped)
		fmt.Fprintf(w, "  Terrain category / height:\t%g / %.2f m\n", float64(dc.TerrainCategory), in.Site.Height)
		fmt.Fprintf(w, "  Mz,cat:\t%.4f\n", dc.Mz)
		fmt.Fprintf(w, "  Ms / Mt / Md:\t%.2f / %.2f / %.2f\n", analysis.Factor(in.Site.Ms), analysis.Factor(in.Site.Mt), analysis.Factor(in.Site.Md))
		fmt.Fprintf(w, "  Design wind speed V_des:\t%.2f m/s\n", dc.DesignSpeed)
	})

	section("PRESSURE COEFFICIENT")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "  Roof:\t%s, %.1f°\n", in.Building.RoofType, in.Building.RoofAngle)
		for _, d := range []struct {
			label string
			c     float64
			ratio float64
			src   string
		}{
			{"θ = 0 (h/d)", dc.Cpe.Theta0.Coefficient, dc.Cpe.Theta0.Ratio, string(dc.Cpe.Theta0.Source)},
			{"θ = 90 (h/b)", dc.Cpe.Theta90.Coefficient, dc.Cpe.Theta90.Ratio, string(dc.Cpe.Theta90.Source)},
		} {
			fmt.Fprintf(w, "  Cpe %s:\t%.3f\tratio %.3f\t%s\n", d.label, d.c, d.ratio, d.src)
		}
		fmt.Fprintf(w, "  Governing:\t%.3f\tθ = %d\t\n", dc.Cpe.Governing.Coefficient, dc.Cpe.Governing.Direction)
		fmt.Fprintf(w, "  Ka / Kc / Kp / Cdyn:\t%.2f / %.2f / %.2f / %.2f\n", dc.Factors.Ka, dc.Factors.Kc, dc.Factors.Kp, dc.Factors.Cdyn)
		fmt.Fprintf(w, "  Tributary width:\t%.3f m\n", dc.TributaryWidth)
	})

	section("RAIL CAPACITY")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "  Breaking load P:\t%.3f kN\n", in.Rail.BreakingLoad)
		fmt.Fprintf(w, "  Test span:\t%.3f m\n", in.Rail.TestSpan)
		fmt.Fprintf(w, "  Safety factor:\t%.2f\n", in.Rail.SafetyFactor)
		fmt.Fprintf(w, "  Nominal moment Mn = PL/4/SF:\t%.4f kN-m\n", dc.NominalMoment)
		if in.Rail.PullOutCapacity > 0 {
			fmt.Fprintf(w, "  Pull-out capacity:\t%.3f kN\n", in.Rail.PullOutCapacity)
		}
	})

	section("ZONE RESULTS")
	table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "  Zone\tKl\tp (kPa)\tw (kN/m)\tSpan (m)\tM* (kN-m)\tV* (kN)\tR* (kN)\tUtil\tStatus")
		for _, z := range res.Zones {
			fmt.Fprintf(w, "  %s\t%.1f\t%.3f\t%.3f\t%.2f\t%.4f\t%.3f\t%.3f\t%.1f%%\t%s\n",
				z.Zone.Code, z.Zone.Kl, z.Pressure, z.LineLoad, z.OptimalSpan,
				z.MaxMoment, z.MaxShear, z.MaxReaction, z.Utilization, Status(z.Passed))
		}
	})

	crit := res.CriticalZone()
	section(fmt.Sprintf("OPTIMIZATION TRACE - ZONE %s", crit.Zone.Code))
	writeTrace(&sb, crit.History)

	sb.WriteString("\n")
	sb.WriteString(diagram.DrawSummaryBox("CRITICAL CASE", []string{
		fmt.Sprintf("Zone:           %s (%s)", crit.Zone.Code, crit.Zone.Description),
		fmt.Sprintf("Pressure:       %.3f kPa", crit.Pressure),
		fmt.Sprintf("Line load:      %.3f kN/m", crit.LineLoad),
		fmt.Sprintf("Max span:       %.2f m", crit.OptimalSpan),
		fmt.Sprintf("M* / Mn:        %.4f / %.4f kN-m", crit.MaxMoment, dc.NominalMoment),
		fmt.Sprintf("Status:         %s (%s)", Status(crit.Passed), crit.Outcome),
	}))

	if opts.Diagrams && crit.Beam != nil {
		sb.WriteString(diagram.DrawBeamSchematic(crit.Beam))
		sb.WriteString(diagram.DrawShearDiagram(crit.Beam))
		sb.WriteString(diagram.DrawMomentDiagram(crit.Beam))
		sb.WriteString(diagram.DrawUtilizationHistory(crit.History))
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

// WriteTrace writes an optimization history as a table
func WriteTrace(out io.Writer, history []span.Step) error {
	var sb strings.Builder
	writeTrace(&sb, history)
	_, err := io.WriteString(out, sb.String())
	return err
}

func writeTrace(sb *strings.Builder, history []span.Step) {
	w := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Step\tSpan (m)\tM* (kN-m)\tR* (kN)\tUtil\tPull-out\tStatus")
	for i, s := range history {
		pullOut := "-"
		if s.PullOutRatio > 0 {
			pullOut = fmt.Sprintf("%.1f%%", s.PullOutRatio*100)
		}
		status := s.Status()
		if s.Governing != span.FailureNone {
			status += " (" + string(s.Governing) + ")"
		}
		fmt.Fprintf(w, "  %d\t%.2f\t%.4f\t%.3f\t%.1f%%\t%s\t%s\n",
			i+1, s.Span, s.MaxMoment, s.MaxReaction, s.Utilization, pullOut, status)
	}
	w.Flush()
}
