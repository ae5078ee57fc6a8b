package asnzs

import (
	"fmt"
	"sort"
)

// SpeedPoint is one (return period, regional wind speed) pair
type SpeedPoint struct {
	ReturnPeriod float64 // years
	Speed        float64 // m/s
}

// TerrainPoint is one (height, Mz,cat) pair
type TerrainPoint struct {
	Height float64 // m
	Mz     float64
}

// RatioPoint is one (h/d, Cpe) pair of the low-pitch curve
type RatioPoint struct {
	Ratio float64
	Cpe   float64
}

// SlopeTable tabulates Cpe against roof pitch for the three h/d bands
// (≤0.25, 0.5, ≥1.0). All rows share the Angles column.
type SlopeTable struct {
	Angles []float64 // degrees, ascending
	Low    []float64 // h/d ≤ 0.25
	Mid    []float64 // h/d = 0.5
	High   []float64 // h/d ≥ 1.0
}

// CpeFamily holds the curves used for one roof type
type CpeFamily struct {
	LowPitch []RatioPoint // α < 10°
	Upwind   SlopeTable   // α ≥ 10°, windward slope
	Downwind SlopeTable   // α ≥ 10°, leeward slope
}

// ReturnPeriodKey indexes the return period table
type ReturnPeriodKey struct {
	ImportanceLevel int
	DesignLife      int // years
}

// WindDataTable bundles the reference data consumed by the wind resolvers.
// It is built once and passed by pointer; nothing mutates it afterwards.
type WindDataTable struct {
	RegionalSpeeds map[string][]SpeedPoint
	ReturnPeriods  map[ReturnPeriodKey]int
	Terrain        map[TerrainCategory][]TerrainPoint
	DefaultTerrain TerrainCategory
	Cpe            map[RoofType]CpeFamily
	Zones          []WindZone
}

// Regions returns the region codes in sorted order.
func (t *WindDataTable) Regions() []string {
	regions := make([]string, 0, len(t.RegionalSpeeds))
	for r := range t.RegionalSpeeds {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// TerrainCategories returns the tabulated terrain categories in ascending order.
func (t *WindDataTable) TerrainCategories() []float64 {
	cats := make([]float64, 0, len(t.Terrain))
	for c := range t.Terrain {
		cats = append(cats, float64(c))
	}
	sort.Float64s(cats)
	return cats
}

// Validate checks that every curve is non-empty and ascending in its
// abscissa, and that slope table rows match their angle columns.
func (t *WindDataTable) Validate() error {
	if len(t.RegionalSpeeds) == 0 {
		return fmt.Errorf("wind table has no regions")
	}
	for region, pts := range t.RegionalSpeeds {
		if len(pts) == 0 {
			return fmt.Errorf("region %s has no speed points", region)
		}
		for i := 1; i < len(pts); i++ {
			if pts[i].ReturnPeriod <= pts[i-1].ReturnPeriod {
				return fmt.Errorf("region %s: return periods not ascending at index %d", region, i)
			}
		}
	}
	if _, ok := t.Terrain[t.DefaultTerrain]; !ok {
		return fmt.Errorf("default terrain category %v has no table", t.DefaultTerrain)
	}
	for tc, pts := range t.Terrain {
		if len(pts) == 0 {
			return fmt.Errorf("terrain category %v has no points", tc)
		}
		for i := 1; i < len(pts); i++ {
			if pts[i].Height <= pts[i-1].Height {
				return fmt.Errorf("terrain category %v: heights not ascending at index %d", tc, i)
			}
		}
	}
	for rt, fam := range t.Cpe {
		if len(fam.LowPitch) == 0 {
			return fmt.Errorf("roof type %s has no low-pitch curve", rt)
		}
		for _, st := range []SlopeTable{fam.Upwind, fam.Downwind} {
			n := len(st.Angles)
			if n == 0 || len(st.Low) != n || len(st.Mid) != n || len(st.High) != n {
				return fmt.Errorf("roof type %s: slope table rows do not match angle column", rt)
			}
		}
	}
	if len(t.Zones) == 0 {
		return fmt.Errorf("wind table has no zones")
	}
	return nil
}

// standard regional wind speeds, AS/NZS 1170.2 Table 3.1
var (
	periods = []float64{1, 5, 10, 20, 25, 50, 100, 200, 250, 500, 1000, 2000, 2500, 5000, 10000}

	speedsA   = []float64{30, 32, 34, 37, 37, 39, 41, 43, 43, 45, 46, 48, 48, 50, 51}
	speedsB   = []float64{26, 28, 33, 38, 39, 44, 48, 52, 53, 57, 60, 63, 64, 67, 69}
	speedsC   = []float64{23, 33, 39, 45, 47, 52, 56, 61, 62, 66, 70, 73, 74, 78, 81}
	speedsD   = []float64{23, 35, 43, 51, 53, 60, 66, 72, 74, 80, 85, 90, 91, 95, 99}
	speedsNZ1 = []float64{31, 35, 37, 39, 39, 41, 42, 43, 44, 45, 46, 47, 47, 48, 49}
	speedsNZ3 = []float64{37, 42, 44, 46, 46, 48, 50, 51, 51, 53, 54, 55, 55, 56, 57}
	speedsNZ4 = []float64{38, 42, 43, 44, 45, 46, 47, 48, 49, 50, 50, 51, 52, 52, 53}
)

func speedCurve(speeds []float64) []SpeedPoint {
	pts := make([]SpeedPoint, len(periods))
	for i, p := range periods {
		pts[i] = SpeedPoint{ReturnPeriod: p, Speed: speeds[i]}
	}
	return pts
}

// terrain heights, AS/NZS 1170.2 Table 4.1
var terrainHeights = []float64{3, 5, 10, 15, 20, 30, 40, 50, 75, 100, 150, 200}

func terrainCurve(mz []float64) []TerrainPoint {
	pts := make([]TerrainPoint, len(terrainHeights))
	for i, h := range terrainHeights {
		pts[i] = TerrainPoint{Height: h, Mz: mz[i]}
	}
	return pts
}

// DefaultTable returns a freshly built AS/NZS 1170.2 reference table.
func DefaultTable() *WindDataTable {
	t := &WindDataTable{
		RegionalSpeeds: map[string][]SpeedPoint{
			"A0":  speedCurve(speedsA),
			"A1":  speedCurve(speedsA),
			"A2":  speedCurve(speedsA),
			"A3":  speedCurve(speedsA),
			"A4":  speedCurve(speedsA),
			"A5":  speedCurve(speedsA),
			"B1":  speedCurve(speedsB),
			"B2":  speedCurve(speedsB),
			"C":   speedCurve(speedsC),
			"D":   speedCurve(speedsD),
			"NZ1": speedCurve(speedsNZ1),
			"NZ2": speedCurve(speedsNZ1),
			"NZ3": speedCurve(speedsNZ3),
			"NZ4": speedCurve(speedsNZ4),
		},
		// AS/NZS 1170.0 Table 3.3 (simplified)
		ReturnPeriods: map[ReturnPeriodKey]int{
			{1, 5}: 25, {1, 25}: 100, {1, 50}: 250, {1, 100}: 500,
			{2, 5}: 50, {2, 25}: 250, {2, 50}: 500, {2, 100}: 1000,
			{3, 5}: 100, {3, 25}: 500, {3, 50}: 1000, {3, 100}: 2500,
			{4, 5}: 250, {4, 25}: 1000, {4, 50}: 2500, {4, 100}: 10000,
		},
		Terrain: map[TerrainCategory][]TerrainPoint{
			1:   terrainCurve([]float64{0.97, 1.01, 1.08, 1.12, 1.14, 1.18, 1.21, 1.23, 1.27, 1.31, 1.36, 1.39}),
			1.5: terrainCurve([]float64{0.94, 0.96, 1.04, 1.085, 1.11, 1.15, 1.185, 1.205, 1.245, 1.275, 1.315, 1.34}),
			2:   terrainCurve([]float64{0.91, 0.91, 1.00, 1.05, 1.08, 1.12, 1.16, 1.18, 1.22, 1.24, 1.27, 1.29}),
			2.5: terrainCurve([]float64{0.87, 0.87, 0.92, 0.97, 1.01, 1.06, 1.10, 1.13, 1.17, 1.20, 1.24, 1.27}),
			3:   terrainCurve([]float64{0.83, 0.83, 0.83, 0.89, 0.94, 1.00, 1.04, 1.07, 1.12, 1.16, 1.21, 1.24}),
			4:   terrainCurve([]float64{0.75, 0.75, 0.75, 0.75, 0.75, 0.80, 0.85, 0.90, 0.98, 1.03, 1.11, 1.16}),
		},
		DefaultTerrain: DefaultTerrainCategory,
		Cpe: map[RoofType]CpeFamily{
			Gable:     gableCpe(),
			Monoslope: monoslopeCpe(),
		},
		Zones: append([]WindZone(nil), Zones...),
	}
	return t
}

// lowPitchCpe is Table 5.3(A), upwind edge region (0 to 0.5h)
func lowPitchCpe() []RatioPoint {
	return []RatioPoint{
		{Ratio: 0.5, Cpe: -0.9},
		{Ratio: 1.0, Cpe: -1.3},
	}
}

// upwindCpe is Table 5.3(B), most negative column
func upwindCpe() SlopeTable {
	return SlopeTable{
		Angles: []float64{10, 15, 20, 25, 30, 35, 45},
		Low:    []float64{-0.7, -0.5, -0.3, -0.2, -0.2, -0.1, 0},
		Mid:    []float64{-0.9, -0.7, -0.4, -0.3, -0.2, -0.2, 0},
		High:   []float64{-1.3, -1.0, -0.7, -0.5, -0.3, -0.2, 0},
	}
}

func gableCpe() CpeFamily {
	return CpeFamily{
		LowPitch: lowPitchCpe(),
		Upwind:   upwindCpe(),
		// Table 5.3(C)
		Downwind: SlopeTable{
			Angles: []float64{10, 15, 20},
			Low:    []float64{-0.3, -0.5, -0.6},
			Mid:    []float64{-0.5, -0.5, -0.6},
			High:   []float64{-0.7, -0.6, -0.6},
		},
	}
}

// monoslopeCpe pairs Table 5.3(B) with the monoslope leeward row
func monoslopeCpe() CpeFamily {
	return CpeFamily{
		LowPitch: lowPitchCpe(),
		Upwind:   upwindCpe(),
		Downwind: SlopeTable{
			Angles: []float64{10, 15, 20, 30},
			Low:    []float64{-0.5, -0.6, -0.7, -0.7},
			Mid:    []float64{-0.6, -0.7, -0.8, -0.8},
			High:   []float64{-0.8, -0.9, -1.0, -1.0},
		},
	}
}
