package filters

import (
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// fixed binomial weights used for small kernels when sigma is not given
var smallGaussian = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// autoSigma derives a standard deviation from the kernel size
func autoSigma(size int) float64 {
	return 0.3*((float64(size)-1)*0.5-1) + 0.8
}

// gaussianWeights returns size normalized 1D Gaussian weights.
// sigma <= 0 selects the fixed table for sizes up to 7 and autoSigma otherwise.
func gaussianWeights(size int, sigma float64) []float64 {
	if sigma <= 0 {
		if fixed, ok := smallGaussian[size]; ok {
			out := make([]float64, size)
			copy(out, fixed)
			return out
		}
		sigma = autoSigma(size)
	}

	weights := make([]float64, size)
	center := float64(size-1) / 2
	var sum float64
	for i := range weights {
		d := float64(i) - center
		weights[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += weights[i]
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

func boxWeights(size int) []float64 {
	weights := make([]float64, size)
	for i := range weights {
		weights[i] = 1 / float64(size)
	}
	return weights
}

// sobelKernels returns the smoothing and first derivative kernels of the
// separable Sobel operator for aperture 3, 5 or 7
func sobelKernels(aperture int) (smooth, derivative []float64) {
	switch aperture {
	case 5:
		return []float64{1, 4, 6, 4, 1}, []float64{-1, -2, 0, 2, 1}
	case 7:
		return []float64{1, 6, 15, 20, 15, 6, 1}, []float64{-1, -4, -5, 0, 5, 4, 1}
	default:
		return []float64{1, 2, 1}, []float64{-1, 0, 1}
	}
}

func rowKernel(weights []float64) *convolution.Kernel {
	k := convolution.NewKernel(len(weights), 1)
	copy(k.Matrix, weights)
	return k
}

func columnKernel(weights []float64) *convolution.Kernel {
	k := convolution.NewKernel(1, len(weights))
	copy(k.Matrix, weights)
	return k
}

// convolutionOptions rounds to nearest instead of truncating and leaves alpha untouched
var convolutionOptions = &convolution.Options{Bias: 0.5, Wrap: false, KeepAlpha: true}
