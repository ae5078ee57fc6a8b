package span

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/solarrail/internal/beam"
	"github.com/alexiusacademia/solarrail/internal/errs"
)

// Search defaults (m)
const (
	DefaultMinSpan = 0.10
	DefaultStep    = 0.05
	DefaultMaxSpan = 4.0

	// MaxSteps bounds the number of candidate spans in one search
	MaxSteps = 1000

	// spans within this distance of MaxSpan are still evaluated
	spanTolerance = 1e-9
)

// FailureMode names the constraint that rejected a span
type FailureMode string

const (
	FailureNone    FailureMode = ""
	FailureBending FailureMode = "bending"
	FailurePullOut FailureMode = "pull-out"
)

// Outcome is the terminal state of a search
type Outcome string

const (
	AcceptedAtMax   Outcome = "accepted-at-max"   // every span up to MaxSpan passed
	RejectedAtSpan  Outcome = "rejected-at-span"  // first failing span found
	FailedAtMinimum Outcome = "failed-at-minimum" // even MinSpan fails
)

// Options controls the span search
type Options struct {
	MinSpan float64 `json:"min_span" yaml:"min_span"`
	Step    float64 `json:"step" yaml:"step"`
	MaxSpan float64 `json:"max_span" yaml:"max_span"`

	// PullOutCapacity is the connection capacity (kN); 0 skips the check
	PullOutCapacity float64 `json:"pull_out_capacity_kn,omitempty" yaml:"pull_out_capacity_kn,omitempty"`

	PointsPerSpan int `json:"points_per_span,omitempty" yaml:"points_per_span,omitempty"`
}

// DefaultOptions returns the standard search bounds.
func DefaultOptions() Options {
	return Options{
		MinSpan:       DefaultMinSpan,
		Step:          DefaultStep,
		MaxSpan:       DefaultMaxSpan,
		PointsPerSpan: beam.DefaultPointsPerSpan,
	}
}

// Step is one evaluated span in the search history
type Step struct {
	Span         float64     `json:"span"`           // m
	MaxMoment    float64     `json:"m_star"`         // M* (kN-m)
	MaxReaction  float64     `json:"r_star"`         // R* (kN)
	MomentRatio  float64     `json:"moment_ratio"`   // M*/Mn
	PullOutRatio float64     `json:"pull_out_ratio"` // R*/capacity, 0 when unchecked
	Utilization  float64     `json:"util"`           // M*/Mn (%)
	Passed       bool        `json:"passed"`
	Governing    FailureMode `json:"governing,omitempty"`
}

// Status is "OK" or "FAIL".
func (s Step) Status() string {
	if s.Passed {
		return "OK"
	}
	return "FAIL"
}

// Result is the outcome of a span search
type Result struct {
	BestSpan float64              `json:"best_span"`
	Best     *beam.AnalysisResult `json:"best"`
	History  []Step               `json:"history"`
	Outcome  Outcome              `json:"outcome"`
}

// Passed reports whether BestSpan satisfies every capacity check.
func (r *Result) Passed() bool {
	return r.Outcome != FailedAtMinimum
}

// Final returns the last evaluated step.
func (r *Result) Final() Step {
	return r.History[len(r.History)-1]
}

func (o Options) validate(nominalMoment float64) error {
	if err := errs.Positive("nominal_moment", nominalMoment); err != nil {
		return err
	}
	if err := errs.Positive("min_span", o.MinSpan); err != nil {
		return err
	}
	if err := errs.Positive("step", o.Step); err != nil {
		return err
	}
	if !(o.MaxSpan >= o.MinSpan) {
		return errs.Invalid("max_span", o.MaxSpan, fmt.Sprintf("must not be below min_span %g", o.MinSpan))
	}
	if n := o.steps(); n > MaxSteps {
		return errs.Invalid("step", o.Step, fmt.Sprintf("gives %d candidate spans, at most %d allowed", n, MaxSteps))
	}
	if o.PullOutCapacity < 0 {
		return errs.Invalid("pull_out_capacity_kn", o.PullOutCapacity, "must not be negative")
	}
	return nil
}

// steps is the number of candidate spans from MinSpan to MaxSpan
func (o Options) steps() int {
	n := math.Floor((o.MaxSpan-o.MinSpan+spanTolerance)/o.Step) + 1
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Optimize walks span lengths upward from MinSpan in fixed steps and
// returns the largest span whose demand stays within capacity. The search
// stops at the first failing span; every evaluated span is recorded.
//
// When MinSpan itself fails, the MinSpan solution is returned with
// Outcome FailedAtMinimum.
func Optimize(nominalMoment, load float64, numSpans int, opts Options) (*Result, error) {
	if opts.PointsPerSpan == 0 {
		opts.PointsPerSpan = beam.DefaultPointsPerSpan
	}
	if err := opts.validate(nominalMoment); err != nil {
		return nil, err
	}

	result := &Result{}
	for k := 0; ; k++ {
		s := math.Round((opts.MinSpan+float64(k)*opts.Step)*1e9) / 1e9
		if s > opts.MaxSpan+spanTolerance {
			result.Outcome = AcceptedAtMax
			break
		}

		b := &beam.Continuous{SpanLength: s, NumSpans: numSpans, Load: load, PointsPerSpan: opts.PointsPerSpan}
		res, err := b.Solve()
		if err != nil {
			return nil, fmt.Errorf("span %.3f m: %w", s, err)
		}

		step := evaluate(s, res, nominalMoment, opts.PullOutCapacity)
		result.History = append(result.History, step)

		if !step.Passed {
			if k == 0 {
				result.BestSpan = s
				result.Best = res
				result.Outcome = FailedAtMinimum
			} else {
				result.Outcome = RejectedAtSpan
			}
			break
		}
		result.BestSpan = s
		result.Best = res
	}

	return result, nil
}

func evaluate(s float64, res *beam.AnalysisResult, nominalMoment, pullOut float64) Step {
	step := Step{
		Span:        s,
		MaxMoment:   res.MaxMoment,
		MaxReaction: res.MaxReaction,
		MomentRatio: res.MaxMoment / nominalMoment,
	}
	step.Utilization = step.MomentRatio * 100
	if pullOut > 0 {
		step.PullOutRatio = res.MaxReaction / pullOut
	}

	step.Passed = step.MomentRatio <= 1.0 && step.PullOutRatio <= 1.0
	if !step.Passed {
		step.Governing = FailureBending
		if step.PullOutRatio > step.MomentRatio {
			step.Governing = FailurePullOut
		}
	}
	return step
}
