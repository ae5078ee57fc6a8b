package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/errs"
	"github.com/alexiusacademia/solarrail/internal/wind"
)

var (
	// Site inputs
	windRegion     string
	windImportance int
	windLife       int
	windTerrain    float64
	windHeight     float64
	windMs         float64
	windMt         float64
	windMd         float64

	// Roof and panel inputs
	windRoof        string
	windAngle       float64
	windWidth       float64
	windDepth       float64
	windPanelWidth  float64
	windPanelDepth  float64
	windOrientation string
	windZone        string
	windKa          float64
	windKc          float64
	windKp          float64
	windCdyn        float64
)

var windCmd = &cobra.Command{
	Use:   "wind",
	Short: "Wind speed and design pressure to AS/NZS 1170.2",
	Long: `Calculate site wind speeds and roof zone design pressures
based on AS/NZS 1170.2.

Subcommands:
  speed     - Return period, regional and design wind speed
  pressure  - Pressure coefficient, zone pressures and rail line loads`,
}

var windSpeedCmd = &cobra.Command{
	Use:   "speed",
	Short: "Calculate the design wind speed for a site",
	Long: `Calculate the design wind speed V_des = V_R * Md * (Mz,cat * Ms * Mt).

The return period follows AS/NZS 1170.0 Table 3.3 from the importance
level and design life. Regional speeds are interpolated from Table 3.1
and clamped at the ends of the table.

Examples:
  # Region A1, importance level 2, 50 year design life, 8 m high
  solarrail wind speed --region A1 --height 8

  # Terrain category 3 with a topographic multiplier
  solarrail wind speed --region C --importance 3 --life 25 --terrain 3 --height 12 --mt 1.1`,
	RunE: runWindSpeed,
}

var windPressureCmd = &cobra.Command{
	Use:   "pressure",
	Short: "Calculate roof zone design pressures and rail line loads",
	Long: `Resolve the governing external pressure coefficient for both wind
directions (h/depth for θ = 0, h/width for θ = 90), then compute the
design pressure and rail line load for each roof zone.

  p = 0.5 * ρair * V_des² * (Cpe * Ka * Kc * Kl * Kp) * Cdyn

Examples:
  # Gable roof at 15°, 20 x 40 m building, portrait panels
  solarrail wind pressure --region A1 --height 8 --roof gable --angle 15 --width 20 --depth 40

  # Only the corner zone
  solarrail wind pressure --region B1 --height 6 --roof monoslope --angle 5 --width 12 --depth 30 --zone RA2`,
	RunE: runWindPressure,
}

func addSiteFlags(c *cobra.Command) {
	c.Flags().StringVarP(&windRegion, "region", "r", "", "Wind region, e.g. A1, B1, C, D, NZ2 [required]")
	c.Flags().IntVar(&windImportance, "importance", 2, "Importance level (1-4)")
	c.Flags().IntVar(&windLife, "life", 50, "Design working life (years)")
	c.Flags().Float64Var(&windTerrain, "terrain", 2, "Terrain category (1, 1.5, 2, 2.5, 3, 4)")
	c.Flags().Float64Var(&windHeight, "height", 0, "Average roof height h (m) [required]")
	c.Flags().Float64Var(&windMs, "ms", 1, "Shielding multiplier Ms")
	c.Flags().Float64Var(&windMt, "mt", 1, "Topographic multiplier Mt")
	c.Flags().Float64Var(&windMd, "md", 1, "Wind direction multiplier Md")

	c.MarkFlagRequired("region")
	c.MarkFlagRequired("height")
}

func init() {
	rootCmd.AddCommand(windCmd)
	windCmd.AddCommand(windSpeedCmd)
	windCmd.AddCommand(windPressureCmd)

	addSiteFlags(windSpeedCmd)
	addSiteFlags(windPressureCmd)

	// Roof geometry flags
	windPressureCmd.Flags().StringVar(&windRoof, "roof", "gable", "Roof type (gable, monoslope)")
	windPressureCmd.Flags().Float64Var(&windAngle, "angle", 0, "Roof pitch (degrees)")
	windPressureCmd.Flags().Float64VarP(&windWidth, "width", "b", 0, "Building width (m) [required]")
	windPressureCmd.Flags().Float64VarP(&windDepth, "depth", "d", 0, "Building depth (m) [required]")

	// Panel flags
	windPressureCmd.Flags().Float64Var(&windPanelWidth, "panel-width", 1.134, "Panel width (m)")
	windPressureCmd.Flags().Float64Var(&windPanelDepth, "panel-depth", 2.279, "Panel depth (m)")
	windPressureCmd.Flags().StringVar(&windOrientation, "orientation", "width", "Rails run parallel to panel width or depth (width, depth)")

	// Factor flags
	windPressureCmd.Flags().StringVar(&windZone, "zone", "", "Single zone code (G, RA1, RA2, RA4); all zones when empty")
	windPressureCmd.Flags().Float64Var(&windKa, "ka", 1, "Area reduction factor Ka")
	windPressureCmd.Flags().Float64Var(&windKc, "kc", 1, "Combination factor Kc")
	windPressureCmd.Flags().Float64Var(&windKp, "kp", asnzs.DefaultKp, "Porous cladding factor Kp")
	windPressureCmd.Flags().Float64Var(&windCdyn, "cdyn", asnzs.DefaultCdyn, "Dynamic response factor Cdyn")

	windPressureCmd.MarkFlagRequired("width")
	windPressureCmd.MarkFlagRequired("depth")
}

// siteSpeed holds the wind speed chain for one site
type siteSpeed struct {
	returnPeriod int
	vr           float64
	clamped      bool
	mz           float64
	terrain      asnzs.TerrainCategory
	vDes         float64
}

func resolveSite(r *wind.Resolver) (siteSpeed, error) {
	var s siteSpeed
	var err error

	if s.returnPeriod, err = r.ReturnPeriod(windImportance, windLife); err != nil {
		return s, err
	}
	if s.vr, err = r.RegionalSpeed(windRegion, float64(s.returnPeriod)); err != nil {
		return s, err
	}
	s.clamped = r.IsClamped(windRegion, float64(s.returnPeriod))
	if s.mz, s.terrain, err = r.TerrainMultiplier(windHeight, asnzs.TerrainCategory(windTerrain)); err != nil {
		return s, err
	}
	s.vDes = wind.DesignWindSpeed(s.vr, windMd, s.mz, windMs, windMt)
	return s, nil
}

func printSite(s siteSpeed) {
	fmt.Println("WIND SPEED:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Region:\t%s\n", windRegion)
	fmt.Fprintf(w, "  Importance level / design life:\t%d / %d years\n", windImportance, windLife)
	fmt.Fprintf(w, "  Return period:\t1/%d\n", s.returnPeriod)
	fmt.Fprintf(w, "  Regional wind speed (V_R):\t%.2f m/s", s.vr)
	if s.clamped {
		fmt.Fprintf(w, " ⚠ (clamped to table)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Terrain category:\t%g", float64(s.terrain))
	if float64(s.terrain) != windTerrain {
		fmt.Fprintf(w, " ⚠ (%g not tabulated)", windTerrain)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Mz,cat at %.2f m:\t%.4f\n", windHeight, s.mz)
	fmt.Fprintf(w, "  Ms / Mt / Md:\t%.2f / %.2f / %.2f\n", windMs, windMt, windMd)
	fmt.Fprintf(w, "  Design wind speed (V_des):\t%.2f m/s\n", s.vDes)
	w.Flush()
	fmt.Println()
}

func runWindSpeed(cmd *cobra.Command, args []string) error {
	r := wind.NewResolver(asnzs.DefaultTable())
	s, err := resolveSite(r)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     DESIGN WIND SPEED - AS/NZS 1170.2")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	printSite(s)
	return nil
}

func runWindPressure(cmd *cobra.Command, args []string) error {
	table := asnzs.DefaultTable()
	r := wind.NewResolver(table)

	roofType, ok := asnzs.ParseRoofType(windRoof)
	if !ok {
		return errs.Unknown("roof type", windRoof)
	}
	orientation, err := wind.ParseRailOrientation(windOrientation)
	if err != nil {
		return err
	}

	zones := table.Zones
	if windZone != "" {
		z, err := asnzs.FindZone(table.Zones, windZone)
		if err != nil {
			return err
		}
		zones = []asnzs.WindZone{z}
	}

	s, err := resolveSite(r)
	if err != nil {
		return err
	}
	cpe, err := r.Governing(windAngle, roofType, windHeight, windWidth, windDepth)
	if err != nil {
		return err
	}
	trib, err := wind.TributaryWidth(windPanelWidth, windPanelDepth, orientation)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("     ZONE DESIGN PRESSURES - AS/NZS 1170.2")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	printSite(s)
	printCpe(cpe)

	fmt.Println("ZONE PRESSURES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	fmt.Printf("  Tributary width: %.3f m (rails parallel to panel %s)\n\n", trib, orientation)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Zone\tDescription\tKl\tp (kPa)\tw (kN/m)")
	for _, z := range zones {
		f := wind.Factors{Ka: windKa, Kc: windKc, Kl: z.Kl, Kp: windKp, Cdyn: windCdyn}
		p := wind.DesignPressure(s.vDes, cpe.Governing.Coefficient, f)
		fmt.Fprintf(w, "  %s\t%s\t%.1f\t%.3f\t%.3f\n", z.Code, z.Description, z.Kl, p, wind.LineLoad(p, trib))
	}
	w.Flush()
	fmt.Println()
	return nil
}

func printCpe(g wind.GoverningCpe) {
	fmt.Println("PRESSURE COEFFICIENT:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, d := range []wind.DirectionCpe{g.Theta0, g.Theta90} {
		mark := ""
		if d.Direction == g.Governing.Direction {
			mark = " ✓ governs"
		}
		fmt.Fprintf(w, "  θ = %d (h/d = %.3f):\tCpe = %.3f\t%s%s\n", d.Direction, d.Ratio, d.Coefficient, d.Source, mark)
	}
	w.Flush()
	fmt.Println()
}
