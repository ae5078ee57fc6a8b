package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/diagram"
)

var (
	beamSpan    float64
	beamSpans   int
	beamLoad    float64
	beamDiagram bool
	beamOutput  string
)

var beamCmd = &cobra.Command{
	Use:   "beam",
	Short: "Continuous rail analysis",
	Long: `Analyze a rail continuous over equal spans under a uniform line load.

Subcommands:
  solve  - Shear, moment and reactions by the three-moment equation`,
}

var beamSolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a continuous rail over equal spans",
	Long: `Solve the interior support moments of a continuous rail with the
three-moment equation, then recover shear, moment and reactions along
every span.

Examples:
  # Three 1.2 m spans under 1.5 kN/m
  solarrail beam solve --span 1.2 --spans 3 --load 1.5

  # With terminal diagrams and SFD/BMD images
  solarrail beam solve -L 1.2 -n 3 -w 1.5 --diagram --output rail.png`,
	RunE: runBeamSolve,
}

func init() {
	rootCmd.AddCommand(beamCmd)
	beamCmd.AddCommand(beamSolveCmd)

	beamSolveCmd.Flags().Float64VarP(&beamSpan, "span", "L", 0, "Span length (m) [required]")
	beamSolveCmd.Flags().IntVarP(&beamSpans, "spans", "n", 2, "Number of equal spans")
	beamSolveCmd.Flags().Float64VarP(&beamLoad, "load", "w", 0, "Uniform line load (kN/m) [required]")
	beamSolveCmd.Flags().BoolVar(&beamDiagram, "diagram", false, "Show ASCII beam, shear and moment diagrams")
	beamSolveCmd.Flags().StringVarP(&beamOutput, "output", "o", "", "Export SFD/BMD images (png, svg, pdf)")

	beamSolveCmd.MarkFlagRequired("span")
	beamSolveCmd.MarkFlagRequired("load")
}

func runBeamSolve(cmd *cobra.Command, args []string) error {
	b := beam.NewContinuous(beamSpan, beamSpans, beamLoad)
	b.PointsPerSpan = cfg.PointsPerSpan

	result, err := b.Solve()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     CONTINUOUS RAIL ANALYSIS - THREE-MOMENT EQUATION")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("INPUT DATA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Span length (L):\t%.3f m\n", result.SpanLength)
	fmt.Fprintf(w, "  Number of spans:\t%d\n", result.NumSpans)
	fmt.Fprintf(w, "  Line load (w):\t%.3f kN/m\n", result.Load)
	fmt.Fprintf(w, "  Total load:\t%.3f kN\n", result.TotalLoad())
	w.Flush()
	fmt.Println()

	fmt.Println("SUPPORTS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Support\tx (m)\tMoment (kN-m)\tReaction (kN)")
	for i := range result.Reactions {
		fmt.Fprintf(w, "  %d\t%.3f\t%.4f\t%.4f\n", i+1, float64(i)*result.SpanLength, result.SupportMoments[i], result.Reactions[i])
	}
	w.Flush()
	fmt.Println()

	fmt.Println("MAXIMA:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Max |M|:\t%.4f kN-m\n", result.MaxMoment)
	fmt.Fprintf(w, "  Max |V|:\t%.4f kN\n", result.MaxShear)
	fmt.Fprintf(w, "  Max |R|:\t%.4f kN\n", result.MaxReaction)
	fmt.Fprintf(w, "  Edge reaction:\t%.4f kN\n", result.EdgeReaction)
	if result.NumSpans > 1 {
		fmt.Fprintf(w, "  Interior reaction:\t%.4f kN\n", result.InteriorReaction)
	}
	w.Flush()
	fmt.Println()

	if beamDiagram {
		fmt.Print(diagram.DrawBeamSchematic(result))
		fmt.Print(diagram.DrawShearDiagram(result))
		fmt.Print(diagram.DrawMomentDiagram(result))
		fmt.Println()
	}

	if beamOutput != "" {
		paths, err := diagram.ExportForceDiagrams(result, beamOutput)
		if err != nil {
			return fmt.Errorf("exporting diagrams: %w", err)
		}
		for _, p := range paths {
			fmt.Printf("  Diagram exported to: %s\n", p)
		}
		fmt.Println()
	}
	return nil
}
