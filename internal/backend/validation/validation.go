package validation

import (
	"fmt"

	"github.com/jo-hoe/filterapi/internal/apperror"
)

// MaxKernelSize is the largest accepted kernel side length
const MaxKernelSize = 99

// ValidApertures lists the Sobel aperture sizes accepted by the Canny detector
var ValidApertures = []int{3, 5, 7}

// Range checks that value lies within [min, max]
func Range(name string, value, min, max int) error {
	if value < min || value > max {
		return apperror.InvalidParameter(name, value, fmt.Sprintf("deve estar entre %d e %d", min, max))
	}
	return nil
}

// RangeFloat checks that value lies within [min, max]. NaN is never in range.
func RangeFloat(name string, value, min, max float64) error {
	if !(value >= min && value <= max) {
		return apperror.InvalidParameter(name, value, fmt.Sprintf("deve estar entre %g e %g", min, max))
	}
	return nil
}

// OddKernel checks that a kernel size is positive, odd and at most MaxKernelSize.
// Even values are rejected; see OddOrIncrement for the lenient variant.
func OddKernel(name string, value int) error {
	if value <= 0 {
		return apperror.InvalidParameter(name, value, "deve ser maior que zero")
	}
	if value%2 == 0 {
		return apperror.InvalidParameter(name, value, "deve ser um número ímpar")
	}
	if value > MaxKernelSize {
		return apperror.InvalidParameter(name, value, fmt.Sprintf("muito grande, máximo permitido: %d", MaxKernelSize))
	}
	return nil
}

// Aperture checks the Canny Sobel aperture size
func Aperture(value int) error {
	for _, v := range ValidApertures {
		if v == value {
			return nil
		}
	}
	return apperror.InvalidParameter("tamanho_abertura", value, "deve ser 3, 5 ou 7")
}

// ThresholdOrder checks that the high hysteresis threshold exceeds the low one
func ThresholdOrder(low, high int) error {
	if high <= low {
		return apperror.InvalidParameter("limiar2", high, fmt.Sprintf("deve ser maior que limiar1 (%d)", low))
	}
	return nil
}

// OddOrIncrement rounds an even kernel size up to the next odd value.
// Only preset resolution uses it; custom parameters go through OddKernel.
func OddOrIncrement(value int) int {
	if value%2 == 0 {
		return value + 1
	}
	return value
}

// First returns the first non-nil error
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
