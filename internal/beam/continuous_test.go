package beam

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/alexiusacademia/solarrail/internal/errs"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func TestSimpleSpanReduction(t *testing.T) {
	for _, L := range []float64{0.5, 1.7, 3.0} {
		for _, w := range []float64{0.8, 2.3} {
			res, err := Solve(L, 1, w)
			if err != nil {
				t.Fatalf("Solve(%v, 1, %v) error: %v", L, w, err)
			}
			if !approx(res.MaxMoment, w*L*L/8) {
				t.Errorf("L=%v w=%v: max moment = %v, want %v", L, w, res.MaxMoment, w*L*L/8)
			}
			if !approx(res.MaxShear, w*L/2) {
				t.Errorf("L=%v w=%v: max shear = %v, want %v", L, w, res.MaxShear, w*L/2)
			}
			for i, r := range res.Reactions {
				if !approx(r, w*L/2) {
					t.Errorf("L=%v w=%v: reaction %d = %v, want %v", L, w, i, r, w*L/2)
				}
			}
			if !approx(res.Shear[0], w*L/2) || !approx(res.Shear[len(res.Shear)-1], -w*L/2) {
				t.Errorf("L=%v w=%v: shear runs %v to %v, want ±%v", L, w, res.Shear[0], res.Shear[len(res.Shear)-1], w*L/2)
			}
			if res.InteriorReaction != 0 {
				t.Errorf("interior reaction = %v, want 0 for one span", res.InteriorReaction)
			}
		}
	}
}

func TestTwoSpanInteriorMoment(t *testing.T) {
	res, err := Solve(2.0, 2, 1.0)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if res.SupportMoments[1] != -0.5 {
		t.Errorf("interior support moment = %v, want -0.5", res.SupportMoments[1])
	}
	if res.SupportMoments[0] != 0 || res.SupportMoments[2] != 0 {
		t.Errorf("end moments = %v, %v, want 0", res.SupportMoments[0], res.SupportMoments[2])
	}
	if !approx(res.EdgeReaction, 0.75) {
		t.Errorf("edge reaction = %v, want 0.75", res.EdgeReaction)
	}
	if !approx(res.InteriorReaction, 2.5) {
		t.Errorf("interior reaction = %v, want 2.5", res.InteriorReaction)
	}
	if !approx(res.MaxMoment, 0.5) {
		t.Errorf("max moment = %v, want 0.5", res.MaxMoment)
	}
	if !approx(res.MaxShear, 1.25) {
		t.Errorf("max shear = %v, want 1.25", res.MaxShear)
	}
}

func TestThreeSpanCoefficients(t *testing.T) {
	L, w := 1.5, 2.0
	res, err := Solve(L, 3, w)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	want := -w * L * L / 10
	for _, i := range []int{1, 2} {
		if !approx(res.SupportMoments[i], want) {
			t.Errorf("support moment %d = %v, want %v", i, res.SupportMoments[i], want)
		}
	}
	if !approx(res.Reactions[0], 0.4*w*L) || !approx(res.Reactions[1], 1.1*w*L) {
		t.Errorf("reactions = %v, want [0.4wL 1.1wL 1.1wL 0.4wL]", res.Reactions)
	}
}

func TestEquilibrium(t *testing.T) {
	for n := 1; n <= 8; n++ {
		res, err := Solve(1.3, n, 0.9)
		if err != nil {
			t.Fatalf("Solve(n=%d) error: %v", n, err)
		}
		sum := 0.0
		for _, r := range res.Reactions {
			sum += r
		}
		if !approx(sum, res.TotalLoad()) {
			t.Errorf("n=%d: sum of reactions = %v, want %v", n, sum, res.TotalLoad())
		}
		if len(res.X) != n*DefaultPointsPerSpan || len(res.Shear) != len(res.X) || len(res.Moment) != len(res.X) {
			t.Errorf("n=%d: diagram lengths %d/%d/%d, want %d", n, len(res.X), len(res.Shear), len(res.Moment), n*DefaultPointsPerSpan)
		}
		if len(res.Reactions) != n+1 {
			t.Errorf("n=%d: %d reactions, want %d", n, len(res.Reactions), n+1)
		}
	}
}

func TestMaxMomentIncreasesWithSpan(t *testing.T) {
	for _, n := range []int{1, 2, 4} {
		prev := -1.0
		for L := 0.1; L < 4.0; L += 0.1 {
			res, err := Solve(L, n, 1.2)
			if err != nil {
				t.Fatalf("Solve error: %v", err)
			}
			if res.MaxMoment <= prev {
				t.Errorf("n=%d L=%.2f: max moment %v not above %v", n, L, res.MaxMoment, prev)
			}
			prev = res.MaxMoment
		}
	}
}

func TestSolveIsIdempotent(t *testing.T) {
	a, err := Solve(1.35, 5, 0.77)
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	b, _ := Solve(1.35, 5, 0.77)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated Solve produced different results")
	}
}

func TestSolveRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		beam *Continuous
	}{
		{"zero span", NewContinuous(0, 2, 1)},
		{"negative span", NewContinuous(-1, 2, 1)},
		{"no spans", NewContinuous(1, 0, 1)},
		{"coarse sampling", &Continuous{SpanLength: 1, NumSpans: 2, Load: 1, PointsPerSpan: 10}},
		{"too many spans", NewContinuous(1, MaxSpans+1, 1)},
		{"fine sampling", &Continuous{SpanLength: 1, NumSpans: 2, Load: 1, PointsPerSpan: MaxPointsPerSpan + 1}},
	}
	for _, tt := range tests {
		if _, err := tt.beam.Solve(); !errors.Is(err, errs.ErrInvalidInput) {
			t.Errorf("%s: error = %v, want ErrInvalidInput", tt.name, err)
		}
	}
}

func TestSolveAtLimits(t *testing.T) {
	b := &Continuous{SpanLength: 1, NumSpans: MaxSpans, Load: 1, PointsPerSpan: MaxPointsPerSpan}
	res, err := b.Solve()
	if err != nil {
		t.Fatalf("Solve error: %v", err)
	}
	if got := len(res.Reactions); got != MaxSpans+1 {
		t.Errorf("reactions = %d, want %d", got, MaxSpans+1)
	}
	if got := len(res.X); got != MaxSpans*MaxPointsPerSpan {
		t.Errorf("samples = %d, want %d", got, MaxSpans*MaxPointsPerSpan)
	}
}
