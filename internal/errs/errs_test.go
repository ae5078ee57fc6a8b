package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestInputErrorUnwraps(t *testing.T) {
	err := fmt.Errorf("rail: %w", Invalid("safety_factor", 0, "must be positive"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("errors.Is(%v, ErrInvalidInput) = false", err)
	}
	var ie *InputError
	if !errors.As(err, &ie) || ie.Field != "safety_factor" {
		t.Errorf("errors.As field = %v, want safety_factor", ie)
	}
}

func TestPositive(t *testing.T) {
	if err := Positive("span", 1.2); err != nil {
		t.Errorf("Positive(1.2) = %v, want nil", err)
	}
	for _, v := range []float64{0, -1} {
		if err := Positive("span", v); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Positive(%v) = %v, want ErrInvalidInput", v, err)
		}
	}
}

func TestUnknown(t *testing.T) {
	err := Unknown("region", "Z9")
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Unknown() = %v, want ErrConfiguration", err)
	}
	if got, want := err.Error(), `configuration error: unknown region "Z9"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
