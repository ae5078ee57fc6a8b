package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/solarrail/internal/diagram"
	"github.com/alexiusacademia/solarrail/internal/report"
	"github.com/alexiusacademia/solarrail/internal/span"
)

var (
	spanMn      float64
	spanLoad    float64
	spanSpans   int
	spanMin     float64
	spanStep    float64
	spanMax     float64
	spanPullOut float64
	spanChart   bool
	spanOutput  string
)

var spanCmd = &cobra.Command{
	Use:   "span",
	Short: "Maximum rail span search",
}

var spanOptimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Find the largest span within rail capacity",
	Long: `Walk span lengths upward from the minimum span in fixed steps and
report the largest span whose maximum moment stays within Mn (and, when
a pull-out capacity is given, whose maximum reaction stays within it).
The search stops at the first failing span. Every step is listed.

Examples:
  # Mn = 0.64 kN-m, 1.3 kN/m over 3 spans
  solarrail span optimize --mn 0.64 --load 1.3 --spans 3

  # With a 2 kN pull-out limit and a finer step
  solarrail span optimize --mn 0.64 --load 1.3 --spans 3 --pull-out 2 --step 0.01`,
	RunE: runSpanOptimize,
}

func init() {
	rootCmd.AddCommand(spanCmd)
	spanCmd.AddCommand(spanOptimizeCmd)

	spanOptimizeCmd.Flags().Float64Var(&spanMn, "mn", 0, "Nominal moment capacity Mn (kN-m) [required]")
	spanOptimizeCmd.Flags().Float64VarP(&spanLoad, "load", "w", 0, "Uniform line load (kN/m) [required]")
	spanOptimizeCmd.Flags().IntVarP(&spanSpans, "spans", "n", 2, "Number of equal spans")
	spanOptimizeCmd.Flags().Float64Var(&spanMin, "min-span", 0, "Minimum span (m), default from configuration")
	spanOptimizeCmd.Flags().Float64Var(&spanStep, "step", 0, "Span increment (m), default from configuration")
	spanOptimizeCmd.Flags().Float64Var(&spanMax, "max-span", 0, "Maximum span (m), default from configuration")
	spanOptimizeCmd.Flags().Float64Var(&spanPullOut, "pull-out", 0, "Pull-out capacity per support (kN), 0 to skip")
	spanOptimizeCmd.Flags().BoolVar(&spanChart, "chart", false, "Show the utilization history chart")
	spanOptimizeCmd.Flags().StringVarP(&spanOutput, "output", "o", "", "Export the utilization history image (png, svg, pdf)")

	spanOptimizeCmd.MarkFlagRequired("mn")
	spanOptimizeCmd.MarkFlagRequired("load")
}

func runSpanOptimize(cmd *cobra.Command, args []string) error {
	opts := cfg.SpanOptions()
	if spanMin != 0 {
		opts.MinSpan = spanMin
	}
	if spanStep != 0 {
		opts.Step = spanStep
	}
	if spanMax != 0 {
		opts.MaxSpan = spanMax
	}
	opts.PullOutCapacity = spanPullOut

	result, err := span.Optimize(spanMn, spanLoad, spanSpans, opts)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     MAXIMUM RAIL SPAN SEARCH")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Println("ITERATIONS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	if err := report.WriteTrace(cmd.OutOrStdout(), result.History); err != nil {
		return err
	}
	fmt.Println()

	final := result.Final()
	lines := []string{
		fmt.Sprintf("Maximum span:   %.2f m", result.BestSpan),
		fmt.Sprintf("M* / Mn:        %.4f / %.4f kN-m", result.Best.MaxMoment, spanMn),
		fmt.Sprintf("R*:             %.3f kN", result.Best.MaxReaction),
		fmt.Sprintf("Outcome:        %s", result.Outcome),
	}
	if !final.Passed {
		lines = append(lines, fmt.Sprintf("Stopped at:     %.2f m (%s)", final.Span, final.Governing))
	}
	fmt.Print(diagram.DrawSummaryBox(fmt.Sprintf("RESULT: %s", report.Status(result.Passed())), lines))
	fmt.Println()

	if spanChart {
		fmt.Print(diagram.DrawUtilizationHistory(result.History))
		fmt.Println()
	}
	if spanOutput != "" {
		if err := diagram.ExportHistory(result.History, spanOutput); err != nil {
			return fmt.Errorf("exporting history: %w", err)
		}
		fmt.Printf("  History exported to: %s\n\n", spanOutput)
	}

	if !result.Passed() {
		fmt.Println("  ⚠ Even the minimum span exceeds capacity. Select a stronger rail.")
		fmt.Println()
	}
	return nil
}
