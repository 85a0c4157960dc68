package filters

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/jo-hoe/filterapi/internal/backend/raster"
)

// Sobel computes the gradient magnitude of the luminance with 3x3 Sobel
// kernels, normalized so that the strongest edge is 255
type Sobel struct{}

// NewSobel creates a new Sobel edge detector
func NewSobel() *Sobel {
	return &Sobel{}
}

func (s *Sobel) Name() string { return "sobel" }

func (s *Sobel) Params() any { return nil }

// Apply returns a *image.Gray edge map
func (s *Sobel) Apply(img image.Image) (image.Image, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("sobel: empty image")
	}
	slog.Debug("Sobel: computing gradient magnitude",
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	p := planeFromGray(raster.ToGray(img))
	smooth, derivative := sobelKernels(3)
	gx := p.correlate(derivative, smooth)
	gy := p.correlate(smooth, derivative)

	magnitude := newPlane(p.width, p.height)
	for i := range magnitude.pix {
		// kernels are scaled by 1/4 so each axis stays within the input range
		magnitude.pix[i] = math.Hypot(gx.pix[i]/4, gy.pix[i]/4)
	}
	return magnitude.normalized(), nil
}

// Roberts computes the Roberts cross gradient magnitude of the luminance,
// normalized so that the strongest edge is 255
type Roberts struct{}

// NewRoberts creates a new Roberts edge detector
func NewRoberts() *Roberts {
	return &Roberts{}
}

func (r *Roberts) Name() string { return "roberts" }

func (r *Roberts) Params() any { return nil }

// Apply returns a *image.Gray edge map
func (r *Roberts) Apply(img image.Image) (image.Image, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("roberts: empty image")
	}
	slog.Debug("Roberts: computing cross gradient",
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	p := planeFromGray(raster.ToGray(img))
	magnitude := newPlane(p.width, p.height)
	parallelFor(p.height, func(y int) {
		for x := 0; x < p.width; x++ {
			d1 := p.at(x, y) - p.at(x+1, y+1)
			d2 := p.at(x+1, y) - p.at(x, y+1)
			magnitude.pix[y*p.width+x] = math.Sqrt((d1*d1 + d2*d2) / 2)
		}
	})
	return magnitude.normalized(), nil
}
