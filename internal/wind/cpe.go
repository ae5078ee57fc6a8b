package wind

import (
	"fmt"

	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/errs"
)

// CpeSource names the curve that produced a coefficient
type CpeSource string

const (
	SourceLowPitch CpeSource = "low-pitch (α < 10°)"
	SourceUpwind   CpeSource = "upwind slope"
	SourceDownwind CpeSource = "downwind slope"
)

// CpeResult is a resolved external pressure coefficient
type CpeResult struct {
	Coefficient float64   `json:"coefficient"`
	Source      CpeSource `json:"source"`
}

// Cpe resolves the external pressure coefficient for a roof configuration.
//
// Below 10° a single curve keyed by h/d is used. At or above 10° both the
// upwind and downwind slope tables are evaluated (angle first, then the
// three h/d bands) and the more negative value governs.
func (r *Resolver) Cpe(roofAngle float64, roofType asnzs.RoofType, ratio float64) (CpeResult, error) {
	fam, ok := r.table.Cpe[roofType]
	if !ok {
		return CpeResult{}, errs.Unknown("roof type", string(roofType))
	}

	var res CpeResult
	if roofAngle < asnzs.SlopeThresholdDeg {
		xs := make([]float64, len(fam.LowPitch))
		ys := make([]float64, len(fam.LowPitch))
		for i, p := range fam.LowPitch {
			xs[i] = p.Ratio
			ys[i] = p.Cpe
		}
		c, err := linear(xs, ys, ratio)
		if err != nil {
			return CpeResult{}, err
		}
		res = CpeResult{Coefficient: c, Source: SourceLowPitch}
	} else {
		up, err := slopeCpe(fam.Upwind, roofAngle, ratio)
		if err != nil {
			return CpeResult{}, err
		}
		down, err := slopeCpe(fam.Downwind, roofAngle, ratio)
		if err != nil {
			return CpeResult{}, err
		}
		res = CpeResult{Coefficient: up, Source: SourceUpwind}
		if down < up {
			res = CpeResult{Coefficient: down, Source: SourceDownwind}
		}
	}

	// Uplift convention: a positive coefficient means the table is wrong.
	if res.Coefficient > 0 {
		return CpeResult{}, fmt.Errorf("%w: %s curve yields positive Cpe %.3f", errs.ErrConfiguration, res.Source, res.Coefficient)
	}
	return res, nil
}

// slopeCpe interpolates a slope table over angle, then over h/d
func slopeCpe(st asnzs.SlopeTable, angle, ratio float64) (float64, error) {
	low, err := linear(st.Angles, st.Low, angle)
	if err != nil {
		return 0, err
	}
	mid, err := linear(st.Angles, st.Mid, angle)
	if err != nil {
		return 0, err
	}
	high, err := linear(st.Angles, st.High, angle)
	if err != nil {
		return 0, err
	}
	return linear(
		[]float64{asnzs.RatioBandLow, asnzs.RatioBandMid, asnzs.RatioBandHigh},
		[]float64{low, mid, high},
		ratio,
	)
}

// Direction is the wind direction relative to the building depth
type Direction int

const (
	Theta0  Direction = 0
	Theta90 Direction = 90
)

// DirectionCpe is the coefficient resolved for one wind direction
type DirectionCpe struct {
	Direction Direction `json:"direction"`
	Ratio     float64   `json:"ratio"` // h/d used for this direction
	CpeResult
}

// GoverningCpe holds both directional coefficients and the one that governs
type GoverningCpe struct {
	Theta0    DirectionCpe `json:"theta0"`
	Theta90   DirectionCpe `json:"theta90"`
	Governing DirectionCpe `json:"governing"`
}

// SelectGoverning returns the direction whose coefficient is more negative.
// Equal values keep θ = 0.
func SelectGoverning(c0, c90 float64) Direction {
	if c90 < c0 {
		return Theta90
	}
	return Theta0
}

// Governing evaluates Cpe for both orthogonal wind directions, using
// h/depth for θ = 0 and h/width for θ = 90, and selects the governing one.
func (r *Resolver) Governing(roofAngle float64, roofType asnzs.RoofType, height, width, depth float64) (GoverningCpe, error) {
	if err := errs.Positive("building_width", width); err != nil {
		return GoverningCpe{}, err
	}
	if err := errs.Positive("building_depth", depth); err != nil {
		return GoverningCpe{}, err
	}

	var g GoverningCpe
	g.Theta0 = DirectionCpe{Direction: Theta0, Ratio: height / depth}
	g.Theta90 = DirectionCpe{Direction: Theta90, Ratio: height / width}

	c0, err := r.Cpe(roofAngle, roofType, g.Theta0.Ratio)
	if err != nil {
		return GoverningCpe{}, err
	}
	c90, err := r.Cpe(roofAngle, roofType, g.Theta90.Ratio)
	if err != nil {
		return GoverningCpe{}, err
	}
	g.Theta0.CpeResult = c0
	g.Theta90.CpeResult = c90

	g.Governing = g.Theta0
	if SelectGoverning(c0.Coefficient, c90.Coefficient) == Theta90 {
		g.Governing = g.Theta90
	}
	return g, nil
}
