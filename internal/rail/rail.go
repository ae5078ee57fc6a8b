package rail

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexiusacademia/solarrail/internal/errs"
)

// Rail describes a mounting rail and its destructive bending test
//
// Example JSON file structure:
//
//	{
//	  "brand": "Acme",
//	  "model": "R-40",
//	  "breaking_load_kn": 3.2,
//	  "test_span_m": 1.2,
//	  "safety_factor": 1.5,
//	  "pull_out_capacity_kn": 2.0
//	}
type Rail struct {
	Brand string `json:"brand" yaml:"brand"`
	Model string `json:"model" yaml:"model"`

	// Test data
	BreakingLoad float64 `json:"breaking_load_kn" yaml:"breaking_load_kn"` // P at failure (kN)
	TestSpan     float64 `json:"test_span_m" yaml:"test_span_m"`           // simple span of the test rig (m)
	SafetyFactor float64 `json:"safety_factor" yaml:"safety_factor"`

	// Connection capacity, 0 when not checked (kN)
	PullOutCapacity float64 `json:"pull_out_capacity_kn,omitempty" yaml:"pull_out_capacity_kn,omitempty"`
}

// NominalMoment derives Mn (kN-m) from a centre-point-load bending test
// Mn = (P * L / 4) / SF
func NominalMoment(breakingLoad, testSpan, safetyFactor float64) (float64, error) {
	if !(safetyFactor > 0) {
		return 0, errs.Invalid("safety_factor", safetyFactor, "invalid configuration, must be > 0")
	}
	mFailure := breakingLoad * testSpan / 4.0
	return mFailure / safetyFactor, nil
}

// NominalMoment returns Mn for the rail.
func (r *Rail) NominalMoment() (float64, error) {
	return NominalMoment(r.BreakingLoad, r.TestSpan, r.SafetyFactor)
}

// Name is "brand model", or "custom rail" when neither is set.
func (r *Rail) Name() string {
	name := strings.TrimSpace(r.Brand + " " + r.Model)
	if name == "" {
		return "custom rail"
	}
	return name
}

// Validate checks if the rail definition is valid
func (r *Rail) Validate() error {
	if err := errs.Positive("breaking_load_kn", r.BreakingLoad); err != nil {
		return err
	}
	if err := errs.Positive("test_span_m", r.TestSpan); err != nil {
		return err
	}
	if err := errs.Positive("safety_factor", r.SafetyFactor); err != nil {
		return err
	}
	if r.PullOutCapacity < 0 {
		return errs.Invalid("pull_out_capacity_kn", r.PullOutCapacity, "must not be negative")
	}
	return nil
}

// LoadFromFile loads a rail definition from a JSON or YAML file
func LoadFromFile(path string) (*Rail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rail file: %w", err)
	}

	var r Rail
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &r)
	default:
		err = json.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing rail file: %w", err)
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
