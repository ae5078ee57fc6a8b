package wind

import (
	"math"

	"github.com/alexiusacademia/solarrail/internal/asnzs"
)

// TerrainMultiplier interpolates Mz,cat for height (m) in the given terrain
// category. Heights are floored at 3 m. An unknown category falls back to
// the table's default category; the category actually used is returned.
func (r *Resolver) TerrainMultiplier(height float64, category asnzs.TerrainCategory) (float64, asnzs.TerrainCategory, error) {
	pts, ok := r.table.Terrain[category]
	if !ok {
		category = r.table.DefaultTerrain
		pts = r.table.Terrain[category]
	}

	h := math.Max(height, asnzs.MinReferenceHeight)

	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.Height
		ys[i] = p.Mz
	}
	mz, err := linear(xs, ys, h)
	return mz, category, err
}
