// Package analysis runs the complete rail design pipeline: wind speed,
// pressure coefficient, zone pressures and the span search per zone.
package analysis

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/alexiusacademia/solarrail/internal/asnzs"
	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/errs"
	"github.com/alexiusacademia/solarrail/internal/span"
	"github.com/alexiusacademia/solarrail/internal/wind"
)

// DesignCase holds the values shared by every zone of a run
type DesignCase struct {
	ReturnPeriod    int                   `json:"return_period"`
	RegionalSpeed   float64               `json:"vr"`    // V_R (m/s)
	SpeedClamped    bool                  `json:"vr_clamped"`
	Mz              float64               `json:"mz_cat"`
	TerrainCategory asnzs.TerrainCategory `json:"terrain_category"` // category actually used
	DesignSpeed     float64               `json:"v_des"`            // m/s
	Cpe             wind.GoverningCpe     `json:"cpe"`
	TributaryWidth  float64               `json:"tributary_width"` // m
	NominalMoment   float64               `json:"mn"`              // kN-m
	Factors         wind.Factors          `json:"factors"`         // Kl is per zone
}

// ZoneResult is the design outcome for one roof zone
type ZoneResult struct {
	Zone     asnzs.WindZone `json:"zone"`
	Pressure float64        `json:"pressure"`  // kPa
	LineLoad float64        `json:"line_load"` // kN/m

	OptimalSpan float64 `json:"optimal_span"` // m
	MaxMoment   float64 `json:"max_moment"`   // kN-m
	MaxShear    float64 `json:"max_shear"`    // kN
	MaxReaction float64 `json:"max_reaction"` // kN
	Utilization float64 `json:"utilization"`  // M*/Mn (%)
	Passed      bool    `json:"passed"`

	Outcome span.Outcome         `json:"outcome"`
	Beam    *beam.AnalysisResult `json:"beam"`
	History []span.Step          `json:"history"`
}

// Result is the output of one analysis run
type Result struct {
	RunID    string       `json:"run_id"`
	Input    Input        `json:"input"`
	Rail     string       `json:"rail"`
	Design   DesignCase   `json:"design"`
	Zones    []ZoneResult `json:"zones"`
	Critical int          `json:"critical"` // index into Zones
}

// CriticalZone returns the zone with the highest pressure.
func (r *Result) CriticalZone() *ZoneResult {
	return &r.Zones[r.Critical]
}

// Analyzer runs analyses against one reference table
type Analyzer struct {
	resolver *wind.Resolver
	defaults span.Options
}

// NewAnalyzer creates an analyzer over table using defaults for unset
// search options.
func NewAnalyzer(table *asnzs.WindDataTable, defaults span.Options) *Analyzer {
	return &Analyzer{resolver: wind.NewResolver(table), defaults: defaults}
}

// Defaults returns the search options applied to unset input fields.
func (a *Analyzer) Defaults() span.Options {
	return a.defaults
}

// Resolver exposes the wind resolver used by the analyzer.
func (a *Analyzer) Resolver() *wind.Resolver {
	return a.resolver
}

// Run evaluates every zone of the reference table for in.
func (a *Analyzer) Run(in Input) (*Result, error) {
	in.ApplyDefaults(a.defaults)

	if err := in.validateMultipliers(); err != nil {
		return nil, err
	}

	roofType, ok := asnzs.ParseRoofType(in.Building.RoofType)
	if !ok {
		return nil, fmt.Errorf("building: %w", errs.Unknown("roof type", in.Building.RoofType))
	}
	orientation, err := wind.ParseRailOrientation(in.Panel.RailOrientation)
	if err != nil {
		return nil, fmt.Errorf("panel: %w", err)
	}
	if err := in.Rail.Validate(); err != nil {
		return nil, fmt.Errorf("rail: %w", err)
	}

	runID := uuid.NewString()
	logger := log.WithFields(log.Fields{"run": runID, "project": in.Project})

	dc, err := a.designCase(in, roofType, orientation, logger)
	if err != nil {
		return nil, err
	}

	opts := in.Search
	if in.Rail.PullOutCapacity > 0 {
		opts.PullOutCapacity = in.Rail.PullOutCapacity
	}

	table := a.resolver.Table()
	result := &Result{
		RunID:  runID,
		Input:  in,
		Rail:   in.Rail.Name(),
		Design: dc,
		Zones:  make([]ZoneResult, 0, len(table.Zones)),
	}

	for _, zone := range table.Zones {
		zr, err := a.runZone(zone, dc, in.NumSpans, opts)
		if err != nil {
			return nil, fmt.Errorf("zone %s: %w", zone.Code, err)
		}
		logger.WithFields(log.Fields{
			"zone":     zone.Code,
			"pressure": zr.Pressure,
			"span":     zr.OptimalSpan,
			"outcome":  zr.Outcome,
		}).Debug("zone analyzed")
		result.Zones = append(result.Zones, zr)
	}

	result.Critical = criticalIndex(result.Zones)
	logger.WithFields(log.Fields{
		"critical": result.CriticalZone().Zone.Code,
		"span":     result.CriticalZone().OptimalSpan,
	}).Info("analysis complete")

	return result, nil
}

func (a *Analyzer) designCase(in Input, roofType asnzs.RoofType, orientation wind.RailOrientation, logger *log.Entry) (DesignCase, error) {
	r := a.resolver
	site := in.Site

	rp, err := r.ReturnPeriod(site.ImportanceLevel, site.DesignLife)
	if err != nil {
		return DesignCase{}, err
	}
	vr, err := r.RegionalSpeed(site.Region, float64(rp))
	if err != nil {
		return DesignCase{}, err
	}
	clamped := r.IsClamped(site.Region, float64(rp))
	if clamped {
		logger.WithFields(log.Fields{"region": site.Region, "return_period": rp}).
			Warn("return period outside tabulated range, regional speed clamped")
	}

	requested := asnzs.TerrainCategory(site.TerrainCategory)
	mz, used, err := r.TerrainMultiplier(site.Height, requested)
	if err != nil {
		return DesignCase{}, err
	}
	if used != requested {
		logger.WithFields(log.Fields{"requested": site.TerrainCategory, "used": float64(used)}).
			Warn("unknown terrain category, using default")
	}

	cpe, err := r.Governing(in.Building.RoofAngle, roofType, site.Height, in.Building.Width, in.Building.Depth)
	if err != nil {
		return DesignCase{}, err
	}

	trib, err := wind.TributaryWidth(in.Panel.Width, in.Panel.Depth, orientation)
	if err != nil {
		return DesignCase{}, err
	}

	mn, err := in.Rail.NominalMoment()
	if err != nil {
		return DesignCase{}, err
	}

	return DesignCase{
		ReturnPeriod:    rp,
		RegionalSpeed:   vr,
		SpeedClamped:    clamped,
		Mz:              mz,
		TerrainCategory: used,
		DesignSpeed:     wind.DesignWindSpeed(vr, Factor(site.Md), mz, Factor(site.Ms), Factor(site.Mt)),
		Cpe:             cpe,
		TributaryWidth:  trib,
		NominalMoment:   mn,
		Factors: wind.Factors{
			Ka:   Factor(in.Factors.Ka),
			Kc:   Factor(in.Factors.Kc),
			Kl:   1,
			Kp:   Factor(in.Factors.Kp),
			Cdyn: Factor(in.Factors.Cdyn),
		},
	}, nil
}

func (a *Analyzer) runZone(zone asnzs.WindZone, dc DesignCase, numSpans int, opts span.Options) (ZoneResult, error) {
	f := dc.Factors
	f.Kl = zone.Kl

	p := wind.DesignPressure(dc.DesignSpeed, dc.Cpe.Governing.Coefficient, f)
	w := wind.LineLoad(p, dc.TributaryWidth)

	opt, err := span.Optimize(dc.NominalMoment, w, numSpans, opts)
	if err != nil {
		return ZoneResult{}, err
	}

	return ZoneResult{
		Zone:        zone,
		Pressure:    p,
		LineLoad:    w,
		OptimalSpan: opt.BestSpan,
		MaxMoment:   opt.Best.MaxMoment,
		MaxShear:    opt.Best.MaxShear,
		MaxReaction: opt.Best.MaxReaction,
		Utilization: opt.Best.MaxMoment / dc.NominalMoment * 100,
		Passed:      opt.Passed(),
		Outcome:     opt.Outcome,
		Beam:        opt.Best,
		History:     opt.History,
	}, nil
}

// criticalIndex picks the highest pressure; the first zone wins ties
func criticalIndex(zones []ZoneResult) int {
	best := 0
	for i := 1; i < len(zones); i++ {
		if zones[i].Pressure > zones[best].Pressure {
			best = i
		}
	}
	return best
}
