package wind

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/alexiusacademia/solarrail/internal/errs"
)

// linear interpolates ys over xs at x, holding the end values outside
// the tabulated range.
func linear(xs, ys []float64, x float64) (float64, error) {
	switch len(xs) {
	case 0:
		return 0, fmt.Errorf("%w: empty interpolation table", errs.ErrConfiguration)
	case 1:
		return ys[0], nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrConfiguration, err)
	}
	return pl.Predict(x), nil
}
