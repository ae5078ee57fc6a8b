package wind

import (
	"math"

	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/errs"
)

// Factors holds the multipliers applied to Cpe to form C_fig
type Factors struct {
	Ka   float64 `json:"ka" yaml:"ka"`     // Area reduction factor
	Kc   float64 `json:"kc" yaml:"kc"`     // Combination factor
	Kl   float64 `json:"kl" yaml:"kl"`     // Local pressure factor
	Kp   float64 `json:"kp" yaml:"kp"`     // Porous cladding factor
	Cdyn float64 `json:"cdyn" yaml:"cdyn"` // Dynamic response factor
}

// NewFactors returns unit factors.
func NewFactors() Factors {
	return Factors{Ka: 1, Kc: 1, Kl: 1, Kp: asnzs.DefaultKp, Cdyn: asnzs.DefaultCdyn}
}

// DesignPressure returns the magnitude of the design wind pressure (kPa)
// p = 0.5 * ρair * V_des² * (Cpe * Ka * Kc * Kl * Kp) * Cdyn
func DesignPressure(vDes, cpe float64, f Factors) float64 {
	qz := 0.5 * asnzs.RhoAir * vDes * vDes
	cFig := cpe * f.Ka * f.Kc * f.Kl * f.Kp
	return math.Abs(qz*cFig*f.Cdyn) / 1000.0
}

// RailOrientation is the direction the rails run relative to the panel
type RailOrientation string

const (
	ParallelToWidth RailOrientation = "width"
	ParallelToDepth RailOrientation = "depth"
)

// ParseRailOrientation validates an orientation string.
func ParseRailOrientation(s string) (RailOrientation, error) {
	switch RailOrientation(s) {
	case ParallelToWidth, ParallelToDepth:
		return RailOrientation(s), nil
	}
	return "", errs.Unknown("rail orientation", s)
}

// TributaryWidth returns the strip width (m) carried by one rail: half of
// the panel dimension orthogonal to the rail.
func TributaryWidth(panelWidth, panelDepth float64, o RailOrientation) (float64, error) {
	switch o {
	case ParallelToWidth:
		if err := errs.Positive("panel_depth", panelDepth); err != nil {
			return 0, err
		}
		return panelDepth / 2.0, nil
	case ParallelToDepth:
		if err := errs.Positive("panel_width", panelWidth); err != nil {
			return 0, err
		}
		return panelWidth / 2.0, nil
	}
	return 0, errs.Unknown("rail orientation", string(o))
}

// LineLoad converts a pressure (kPa) on a tributary width (m) to kN/m.
func LineLoad(pressure, tributaryWidth float64) float64 {
	return pressure * tributaryWidth
}
