package asnzs

import "github.com/alexiusacademia/solarrail/internal/errs"

// WindZone represents a roof region with its local pressure factor
// Based on AS/NZS 1170.2 Table 5.6 - Local pressure factor (Kl)
type WindZone struct {
	Code        string  `json:"code" yaml:"code"`
	Description string  `json:"description" yaml:"description"`
	Kl          float64 `json:"kl" yaml:"kl"` // Local pressure factor
}

// Zones lists the roof zones checked in every analysis, in report order
var Zones = []WindZone{
	{
		Code:        "G",
		Description: "General area",
		Kl:          1.0,
	},
	{
		Code:        "RA1",
		Description: "Edge / ridge",
		Kl:          1.5,
	},
	{
		Code:        "RA2",
		Description: "Corner",
		Kl:          2.0,
	},
	{
		Code:        "RA4",
		Description: "High suction",
		Kl:          3.0,
	},
}

// FindZone returns the zone with the given code from zones.
func FindZone(zones []WindZone, code string) (WindZone, error) {
	for _, z := range zones {
		if z.Code == code {
			return z, nil
		}
	}
	return WindZone{}, errs.Unknown("wind zone", code)
}
