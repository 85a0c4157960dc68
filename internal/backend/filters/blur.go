package filters

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/disintegration/imaging"
	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/backend/validation"
)

// gaussianBlur convolves img with a separable Gaussian of kw x kh
func gaussianBlur(img image.Image, kw, kh int, sigma float64) *image.NRGBA {
	out := convolution.Convolve(img, rowKernel(gaussianWeights(kw, sigma)), convolutionOptions)
	out = convolution.Convolve(out, columnKernel(gaussianWeights(kh, sigma)), convolutionOptions)
	return imaging.Clone(out)
}

// GaussianParams represents typed parameters for the Gaussian blur
type GaussianParams struct {
	KernelWidth  int     `json:"kernel_width" form:"kernel_width"`
	KernelHeight int     `json:"kernel_height" form:"kernel_height"`
	Sigma        float64 `json:"sigma" form:"sigma"`
}

// DefaultGaussianParams returns the parameters used when a form omits a field
func DefaultGaussianParams() *GaussianParams {
	return &GaussianParams{KernelWidth: 5, KernelHeight: 5, Sigma: 0}
}

func (p *GaussianParams) Validate() error {
	return validation.First(
		validation.OddKernel("kernel_width", p.KernelWidth),
		validation.OddKernel("kernel_height", p.KernelHeight),
		validation.RangeFloat("sigma", p.Sigma, 0, 100),
	)
}

func (p *GaussianParams) Filter() filterstructure.Filter {
	return &Gaussian{params: *p}
}

// Gaussian smooths an image with independent width and height. Sigma 0
// derives the deviation from each kernel size.
type Gaussian struct {
	params GaussianParams
}

// NewGaussian creates a Gaussian blur from validated parameters
func NewGaussian(params GaussianParams) (*Gaussian, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Gaussian{params: params}, nil
}

func (g *Gaussian) Name() string { return "gaussiano" }

func (g *Gaussian) Params() any { return g.params }

func (g *Gaussian) Apply(img image.Image) (image.Image, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("gaussiano: empty image")
	}
	slog.Debug("Gaussian: blurring",
		"kernel_width", g.params.KernelWidth,
		"kernel_height", g.params.KernelHeight,
		"sigma", g.params.Sigma)
	return gaussianBlur(img, g.params.KernelWidth, g.params.KernelHeight, g.params.Sigma), nil
}

// MeanParams represents typed parameters for the box blur
type MeanParams struct {
	KernelWidth  int `json:"kernel_width" form:"kernel_width"`
	KernelHeight int `json:"kernel_height" form:"kernel_height"`
}

// DefaultMeanParams returns the parameters used when a form omits a field
func DefaultMeanParams() *MeanParams {
	return &MeanParams{KernelWidth: 3, KernelHeight: 3}
}

// Validate checks both sides; even sizes are allowed
func (p *MeanParams) Validate() error {
	return validation.First(
		validation.Range("kernel_width", p.KernelWidth, 1, validation.MaxKernelSize),
		validation.Range("kernel_height", p.KernelHeight, 1, validation.MaxKernelSize),
	)
}

func (p *MeanParams) Filter() filterstructure.Filter {
	return &Mean{params: *p}
}

// Mean replaces every pixel with the average of its kernel_width x kernel_height window
type Mean struct {
	params MeanParams
}

// NewMean creates a box blur from validated parameters
func NewMean(params MeanParams) (*Mean, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Mean{params: params}, nil
}

func (m *Mean) Name() string { return "media" }

func (m *Mean) Params() any { return m.params }

func (m *Mean) Apply(img image.Image) (image.Image, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("media: empty image")
	}
	slog.Debug("Mean: blurring",
		"kernel_width", m.params.KernelWidth,
		"kernel_height", m.params.KernelHeight)

	out := convolution.Convolve(img, rowKernel(boxWeights(m.params.KernelWidth)), convolutionOptions)
	out = convolution.Convolve(out, columnKernel(boxWeights(m.params.KernelHeight)), convolutionOptions)
	return imaging.Clone(out), nil
}
