package beam

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/alexiusacademia/solarrail/internal/errs"
)

const (
	// MinPointsPerSpan is the lowest sampling resolution accepted
	MinPointsPerSpan = 50

	// MaxPointsPerSpan bounds the diagram sampling resolution
	MaxPointsPerSpan = 200

	// DefaultPointsPerSpan is used by Solve
	DefaultPointsPerSpan = 50

	// MaxSpans bounds the support-moment system to MaxSpans-1 unknowns
	MaxSpans = 50
)

// Continuous represents a rail continuous over equal spans on simple
// supports, carrying a uniform line load on every span
type Continuous struct {
	SpanLength float64 // L - support spacing (m)
	NumSpans   int     // number of equal spans
	Load       float64 // w - uniform line load (kN/m)

	PointsPerSpan int // diagram sampling resolution
}

// NewContinuous creates a continuous beam with the default sampling resolution
func NewContinuous(spanLength float64, numSpans int, load float64) *Continuous {
	return &Continuous{
		SpanLength:    spanLength,
		NumSpans:      numSpans,
		Load:          load,
		PointsPerSpan: DefaultPointsPerSpan,
	}
}

// AnalysisResult holds the internal force distribution of a solved beam
type AnalysisResult struct {
	// Beam definition
	SpanLength float64 `json:"span_m"`
	NumSpans   int     `json:"num_spans"`
	Load       float64 `json:"load_kn_m"`

	// Diagrams, PointsPerSpan samples per span, spans concatenated
	X      []float64 `json:"x"`      // m from the first support
	Shear  []float64 `json:"shear"`  // kN
	Moment []float64 `json:"moment"` // kN-m, sagging positive

	// Supports (NumSpans + 1 entries)
	SupportMoments []float64 `json:"support_moments"` // kN-m
	Reactions      []float64 `json:"reactions"`       // kN, upward positive

	// Maxima
	MaxMoment   float64 `json:"max_moment"`   // max |M| (kN-m)
	MaxShear    float64 `json:"max_shear"`    // max |V| (kN)
	MaxReaction float64 `json:"max_reaction"` // max |R| (kN)

	EdgeReaction     float64 `json:"edge_reaction"`     // max |R| of first/last support
	InteriorReaction float64 `json:"interior_reaction"` // max |R| of interior supports, 0 for one span
}

// Solve analyzes a continuous beam with the default sampling resolution.
func Solve(spanLength float64, numSpans int, load float64) (*AnalysisResult, error) {
	return NewContinuous(spanLength, numSpans, load).Solve()
}

// Solve computes support moments by the three-moment equation, then
// recovers shear, moment and reactions span by span.
func (b *Continuous) Solve() (*AnalysisResult, error) {
	if err := errs.Positive("span_length", b.SpanLength); err != nil {
		return nil, err
	}
	if b.NumSpans < 1 || b.NumSpans > MaxSpans {
		return nil, errs.Invalid("num_spans", float64(b.NumSpans), fmt.Sprintf("must be between 1 and %d", MaxSpans))
	}
	if b.PointsPerSpan < MinPointsPerSpan || b.PointsPerSpan > MaxPointsPerSpan {
		return nil, errs.Invalid("points_per_span", float64(b.PointsPerSpan),
			fmt.Sprintf("must be between %d and %d", MinPointsPerSpan, MaxPointsPerSpan))
	}

	L := b.SpanLength
	w := b.Load
	n := b.NumSpans

	supportMoments, err := b.supportMoments()
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		SpanLength:     L,
		NumSpans:       n,
		Load:           w,
		X:              make([]float64, 0, n*b.PointsPerSpan),
		Shear:          make([]float64, 0, n*b.PointsPerSpan),
		Moment:         make([]float64, 0, n*b.PointsPerSpan),
		SupportMoments: supportMoments,
		Reactions:      make([]float64, n+1),
	}

	xLocal := floats.Span(make([]float64, b.PointsPerSpan), 0, L)
	vStart := make([]float64, n)

	for i := 0; i < n; i++ {
		mA := supportMoments[i]
		mB := supportMoments[i+1]

		// Moment equilibrium about the right end of the span
		// M_B = M_A + V_A*L - w*L²/2
		vA := (mB-mA)/L + w*L/2
		vStart[i] = vA

		offset := float64(i) * L
		for _, x := range xLocal {
			v := vA - w*x
			m := mA + vA*x - w*x*x/2

			result.X = append(result.X, offset+x)
			result.Shear = append(result.Shear, v)
			result.Moment = append(result.Moment, m)

			result.MaxShear = math.Max(result.MaxShear, math.Abs(v))
			result.MaxMoment = math.Max(result.MaxMoment, math.Abs(m))
		}

		// Peak sagging moment where V = 0
		if w != 0 {
			xZero := vA / w
			if xZero > 0 && xZero < L {
				mPeak := mA + vA*vA/(2*w)
				result.MaxMoment = math.Max(result.MaxMoment, math.Abs(mPeak))
			}
		}
		result.MaxMoment = math.Max(result.MaxMoment, math.Max(math.Abs(mA), math.Abs(mB)))
	}

	// Reactions from the shear jump at each support
	result.Reactions[0] = vStart[0]
	for i := 1; i < n; i++ {
		vLeft := vStart[i-1] - w*L
		result.Reactions[i] = vStart[i] - vLeft
	}
	result.Reactions[n] = -(vStart[n-1] - w*L)

	abs := make([]float64, n+1)
	for i, r := range result.Reactions {
		abs[i] = math.Abs(r)
	}
	result.MaxReaction = floats.Max(abs)
	result.EdgeReaction = math.Max(abs[0], abs[n])
	if n > 1 {
		result.InteriorReaction = floats.Max(abs[1:n])
	}

	return result, nil
}

// supportMoments solves the three-moment system for equal spans and equal
// load. Row i: M_(i-1) + 4*M_i + M_(i+1) = -w*L²/2, with zero moments at
// the two end supports.
func (b *Continuous) supportMoments() ([]float64, error) {
	n := b.NumSpans
	moments := make([]float64, n+1)

	unknowns := n - 1
	if unknowns == 0 {
		return moments, nil
	}

	L := b.SpanLength
	rhs := -b.Load * L * L / 2

	a := mat.NewDense(unknowns, unknowns, nil)
	bv := mat.NewVecDense(unknowns, nil)
	for i := 0; i < unknowns; i++ {
		a.Set(i, i, 4)
		if i > 0 {
			a.Set(i, i-1, 1)
		}
		if i < unknowns-1 {
			a.Set(i, i+1, 1)
		}
		bv.SetVec(i, rhs)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, bv); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSingularSystem, err)
	}

	for i := 0; i < unknowns; i++ {
		m := x.AtVec(i)
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return nil, fmt.Errorf("%w: non-finite support moment at support %d", errs.ErrSingularSystem, i+1)
		}
		moments[i+1] = m
	}
	return moments, nil
}

// TotalLoad is the load applied over all spans (kN).
func (r *AnalysisResult) TotalLoad() float64 {
	return float64(r.NumSpans) * r.Load * r.SpanLength
}
