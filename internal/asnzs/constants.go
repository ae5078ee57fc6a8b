package asnzs

// AS/NZS 1170.2 constants

const (
	// RhoAir is the density of air (kg/m³), Clause 2.4.1
	RhoAir = 1.2

	// MinReferenceHeight is the lowest height used for Mz,cat lookup (m)
	MinReferenceHeight = 3.0

	// SlopeThresholdDeg separates the low-pitch Cpe curve from the
	// upwind/downwind slope tables (degrees)
	SlopeThresholdDeg = 10.0

	// Ratio bands of the sloped-roof Cpe tables (h/d)
	RatioBandLow  = 0.25
	RatioBandMid  = 0.5
	RatioBandHigh = 1.0

	// Default multipliers
	DefaultKp   = 1.0 // Porous cladding reduction factor
	DefaultCdyn = 1.0 // Dynamic response factor
)

// RoofType identifies the roof shape used for Cpe selection.
type RoofType string

const (
	Monoslope RoofType = "Monoslope"
	Gable     RoofType = "Gable"
)

// ParseRoofType accepts either canonical spelling or lower case.
func ParseRoofType(s string) (RoofType, bool) {
	switch s {
	case "Monoslope", "monoslope", "mono":
		return Monoslope, true
	case "Gable", "gable":
		return Gable, true
	}
	return "", false
}

// TerrainCategory is the AS/NZS 1170.2 terrain category (1, 1.5, 2, 2.5, 3, 4)
type TerrainCategory float64

// DefaultTerrainCategory is used when an unknown category is requested.
const DefaultTerrainCategory TerrainCategory = 2
