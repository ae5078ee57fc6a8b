package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/solarrail/internal/analysis"
	"github.com/alexiusacademia/solarrail/internal/diagram"
	"github.com/alexiusacademia/solarrail/internal/report"
)

var (
	analyzeFile    string
	analyzeReport  string
	analyzePDF     string
	analyzeXLSX    string
	analyzeJSON    string
	analyzeDiagram bool
	analyzeOutput  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a complete rail span design from a project file",
	Long: `Run the full design for every roof zone: wind speed, governing
pressure coefficient, zone pressures, rail line loads and the maximum
span search. The zone with the highest pressure is the critical case.

Project file (YAML or JSON):
  project: Depot roof
  site:
    region: A1
    importance_level: 2
    design_life: 50
    terrain_category: 2
    height: 8
  building:
    width: 20
    depth: 40
    roof_type: gable
    roof_angle: 15
  panel:
    width: 1.134
    depth: 2.279
    rail_orientation: width
  rail_file: acme-r40.yaml
  num_spans: 3

Examples:
  solarrail analyze --file project.yaml
  solarrail analyze -f project.yaml --report report.txt --pdf report.pdf --xlsx report.xlsx
  solarrail analyze -f project.yaml --diagram --output plots/critical.png`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "Project file (YAML or JSON) [required]")
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "Write the text report to a file")
	analyzeCmd.Flags().StringVar(&analyzePDF, "pdf", "", "Write the PDF report to a file")
	analyzeCmd.Flags().StringVar(&analyzeXLSX, "xlsx", "", "Write the XLSX workbook to a file")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "Write the full result as JSON to a file")
	analyzeCmd.Flags().BoolVar(&analyzeDiagram, "diagram", false, "Include ASCII diagrams of the critical case")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Export critical SFD/BMD and history images (png, svg, pdf)")

	analyzeCmd.MarkFlagRequired("file")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in, err := analysis.LoadInput(analyzeFile)
	if err != nil {
		return err
	}

	res, err := newAnalyzer().Run(*in)
	if err != nil {
		return err
	}

	opts := report.Options{Diagrams: analyzeDiagram}
	if err := report.WriteText(cmd.OutOrStdout(), res, opts); err != nil {
		return err
	}
	fmt.Println()

	if analyzeReport != "" {
		f, err := os.Create(analyzeReport)
		if err != nil {
			return err
		}
		err = report.WriteText(f, res, opts)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing text report: %w", err)
		}
		fmt.Printf("  Report written to: %s\n", analyzeReport)
	}

	if analyzePDF != "" {
		if err := report.SavePDF(analyzePDF, res, opts); err != nil {
			return fmt.Errorf("writing PDF report: %w", err)
		}
		fmt.Printf("  PDF report written to: %s\n", analyzePDF)
	}

	if analyzeXLSX != "" {
		if err := report.SaveXLSX(analyzeXLSX, res); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		fmt.Printf("  Workbook written to: %s\n", analyzeXLSX)
	}

	if analyzeJSON != "" {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzeJSON, data, 0644); err != nil {
			return err
		}
		fmt.Printf("  JSON result written to: %s\n", analyzeJSON)
	}

	if analyzeOutput != "" {
		crit := res.CriticalZone()
		paths, err := diagram.ExportForceDiagrams(crit.Beam, analyzeOutput)
		if err != nil {
			return fmt.Errorf("exporting diagrams: %w", err)
		}
		historyPath := diagram.SiblingPath(analyzeOutput, "_history")
		if err := diagram.ExportHistory(crit.History, historyPath); err != nil {
			return fmt.Errorf("exporting history: %w", err)
		}
		for _, p := range append(paths, historyPath) {
			fmt.Printf("  Diagram exported to: %s\n", p)
		}
	}
	fmt.Println()
	return nil
}
