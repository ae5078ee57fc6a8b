package wind

import (
	"fmt"

	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/errs"
)

// Resolver evaluates the AS/NZS 1170.2 lookups against an injected table
type Resolver struct {
	table *asnzs.WindDataTable
}

// NewResolver creates a resolver over table.
func NewResolver(table *asnzs.WindDataTable) *Resolver {
	return &Resolver{table: table}
}

// Table returns the reference data the resolver reads.
func (r *Resolver) Table() *asnzs.WindDataTable {
	return r.table
}

// ReturnPeriod maps importance level and design life to a return period
// AS/NZS 1170.0 Table 3.3. Pairs missing from the table fall back to a
// default that never decreases with importance level.
func (r *Resolver) ReturnPeriod(importanceLevel, designLife int) (int, error) {
	if importanceLevel < 1 || importanceLevel > 4 {
		return 0, errs.Unknown("importance level", fmt.Sprint(importanceLevel))
	}
	if designLife <= 0 {
		return 0, errs.Invalid("design_life", float64(designLife), "must be positive")
	}

	if rp, ok := r.table.ReturnPeriods[asnzs.ReturnPeriodKey{ImportanceLevel: importanceLevel, DesignLife: designLife}]; ok {
		return rp, nil
	}

	switch importanceLevel {
	case 1:
		if designLife <= 10 {
			return 25, nil
		}
		return 100, nil
	case 2:
		if designLife <= 10 {
			return 50, nil
		}
		return 500, nil
	case 3:
		if designLife <= 10 {
			return 100, nil
		}
		return 1000, nil
	default:
		return 2000, nil
	}
}

// RegionalSpeed interpolates Vr (m/s) for region at returnPeriod (years).
// Return periods outside the table are clamped to the nearest tabulated point.
func (r *Resolver) RegionalSpeed(region string, returnPeriod float64) (float64, error) {
	pts, ok := r.table.RegionalSpeeds[region]
	if !ok {
		return 0, errs.Unknown("region", region)
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = p.ReturnPeriod
		ys[i] = p.Speed
	}
	return linear(xs, ys, returnPeriod)
}

// IsClamped reports whether returnPeriod lies outside the tabulated range
// for region.
func (r *Resolver) IsClamped(region string, returnPeriod float64) bool {
	pts := r.table.RegionalSpeeds[region]
	if len(pts) == 0 {
		return false
	}
	return returnPeriod < pts[0].ReturnPeriod || returnPeriod > pts[len(pts)-1].ReturnPeriod
}

// DesignWindSpeed combines the regional speed with the site multipliers
// V_des = Vr * Md * (Mz,cat * Ms * Mt)
func DesignWindSpeed(vr, md, mzCat, ms, mt float64) float64 {
	return vr * md * (mzCat * ms * mt)
}
