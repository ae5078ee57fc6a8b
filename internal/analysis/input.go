package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/solarrail/internal/errs"
	"github.com/alexiusacademia/solarrail/internal/rail"
	"github.com/alexiusacademia/solarrail/internal/span"
)

// Site holds the wind-speed inputs
type Site struct {
	Region          string   `json:"region" yaml:"region"`
	ImportanceLevel int      `json:"importance_level" yaml:"importance_level"`
	DesignLife      int      `json:"design_life" yaml:"design_life"`           // years
	TerrainCategory float64  `json:"terrain_category" yaml:"terrain_category"` // 1, 1.5, 2, 2.5, 3, 4
	Height          float64  `json:"height" yaml:"height"`                     // m
	Ms              *float64 `json:"ms,omitempty" yaml:"ms,omitempty"`         // shielding multiplier, nil is 1.0
	Mt              *float64 `json:"mt,omitempty" yaml:"mt,omitempty"`         // topographic multiplier, nil is 1.0
	Md              *float64 `json:"md,omitempty" yaml:"md,omitempty"`         // direction multiplier, nil is 1.0
}

// Building holds the roof geometry
type Building struct {
	Width     float64 `json:"width" yaml:"width"` // m
	Depth     float64 `json:"depth" yaml:"depth"` // m
	RoofType  string  `json:"roof_type" yaml:"roof_type"`
	RoofAngle float64 `json:"roof_angle" yaml:"roof_angle"` // degrees
}

// Panel holds the module dimensions and rail layout
type Panel struct {
	Width           float64 `json:"width" yaml:"width"` // m
	Depth           float64 `json:"depth" yaml:"depth"` // m
	RailOrientation string  `json:"rail_orientation" yaml:"rail_orientation"` // "width" or "depth"
}

// Factors holds the pressure factors common to every zone. A nil factor
// is 1.0; an explicit 0 is kept.
type Factors struct {
	Ka   *float64 `json:"ka,omitempty" yaml:"ka,omitempty"`
	Kc   *float64 `json:"kc,omitempty" yaml:"kc,omitempty"`
	Kp   *float64 `json:"kp,omitempty" yaml:"kp,omitempty"`
	Cdyn *float64 `json:"cdyn,omitempty" yaml:"cdyn,omitempty"`
}

// Factor returns *p, or 1.0 when p is nil.
func Factor(p *float64) float64 {
	if p == nil {
		return 1.0
	}
	return *p
}

// Float returns a pointer to v for optional multiplier fields.
func Float(v float64) *float64 {
	return &v
}

// Input is the full parameter set of one analysis run
type Input struct {
	Project  string   `json:"project,omitempty" yaml:"project,omitempty"`
	Site     Site     `json:"site" yaml:"site"`
	Building Building `json:"building" yaml:"building"`
	Panel    Panel    `json:"panel" yaml:"panel"`
	Factors  Factors  `json:"factors" yaml:"factors"`

	// Rail is given inline or read from RailFile
	Rail     rail.Rail `json:"rail" yaml:"rail"`
	RailFile string    `json:"rail_file,omitempty" yaml:"rail_file,omitempty"`

	NumSpans int          `json:"num_spans" yaml:"num_spans"`
	Search   span.Options `json:"search" yaml:"search"`
}

// ApplyDefaults fills absent multipliers with 1.0 and unset search bounds
// with defaults. Multipliers given explicitly, zero included, are kept.
func (in *Input) ApplyDefaults(defaults span.Options) {
	one := func(v **float64) {
		if *v == nil {
			*v = Float(1.0)
		}
	}
	one(&in.Site.Ms)
	one(&in.Site.Mt)
	one(&in.Site.Md)
	one(&in.Factors.Ka)
	one(&in.Factors.Kc)
	one(&in.Factors.Kp)
	one(&in.Factors.Cdyn)

	if in.Search.MinSpan == 0 {
		in.Search.MinSpan = defaults.MinSpan
	}
	if in.Search.Step == 0 {
		in.Search.Step = defaults.Step
	}
	if in.Search.MaxSpan == 0 {
		in.Search.MaxSpan = defaults.MaxSpan
	}
	if in.Search.PointsPerSpan == 0 {
		in.Search.PointsPerSpan = defaults.PointsPerSpan
	}
}

// validateMultipliers rejects negative site multipliers and pressure factors
func (in *Input) validateMultipliers() error {
	fields := []struct {
		name string
		v    *float64
	}{
		{"ms", in.Site.Ms},
		{"mt", in.Site.Mt},
		{"md", in.Site.Md},
		{"ka", in.Factors.Ka},
		{"kc", in.Factors.Kc},
		{"kp", in.Factors.Kp},
		{"cdyn", in.Factors.Cdyn},
	}
	for _, f := range fields {
		if v := Factor(f.v); v < 0 || math.IsNaN(v) {
			return errs.Invalid(f.name, v, "must not be negative")
		}
	}
	return nil
}

// LoadInput reads a project file (YAML, or JSON by extension). A relative
// rail_file is resolved against the project file's directory.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	var in Input
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &in)
	} else {
		err = yaml.Unmarshal(data, &in)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}

	if in.RailFile != "" {
		railPath := in.RailFile
		if !filepath.IsAbs(railPath) {
			railPath = filepath.Join(filepath.Dir(path), railPath)
		}
		r, err := rail.LoadFromFile(railPath)
		if err != nil {
			return nil, err
		}
		in.Rail = *r
	}

	return &in, nil
}
