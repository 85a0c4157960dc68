package filters

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/backend/validation"
)

// MedianParams represents typed parameters for the median filter
type MedianParams struct {
	Tamanho int `json:"tamanho" form:"tamanho"`
}

// DefaultMedianParams returns the parameters used when a form omits a field
func DefaultMedianParams() *MedianParams {
	return &MedianParams{Tamanho: 3}
}

func (p *MedianParams) Validate() error {
	return validation.OddKernel("tamanho", p.Tamanho)
}

func (p *MedianParams) Filter() filterstructure.Filter {
	return &Median{params: *p}
}

// Median replaces every channel value with the median of that channel over a
// tamanho x tamanho window, removing salt and pepper noise
type Median struct {
	params MedianParams
}

// NewMedian creates a median filter from validated parameters
func NewMedian(params MedianParams) (*Median, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Median{params: params}, nil
}

func (m *Median) Name() string { return "mediana" }

func (m *Median) Params() any { return m.params }

func (m *Median) Apply(img image.Image) (image.Image, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("mediana: empty image")
	}
	slog.Debug("Median: filtering", "tamanho", m.params.Tamanho)
	return channelMedian(imaging.Clone(img), m.params.Tamanho/2), nil
}

// channelMedian filters R, G and B independently with a sliding histogram per
// row. Borders replicate the edge pixels and alpha is copied through.
func channelMedian(src *image.NRGBA, radius int) *image.NRGBA {
	width, height := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	side := 2*radius + 1
	rank := side * side / 2

	parallelFor(height, func(y int) {
		var hist [3][256]int
		column := func(x, delta int) {
			x = clamp(x, 0, width-1)
			for dy := -radius; dy <= radius; dy++ {
				i := clamp(y+dy, 0, height-1)*src.Stride + x*4
				hist[0][src.Pix[i]] += delta
				hist[1][src.Pix[i+1]] += delta
				hist[2][src.Pix[i+2]] += delta
			}
		}

		for dx := -radius; dx <= radius; dx++ {
			column(dx, 1)
		}
		for x := 0; x < width; x++ {
			if x > 0 {
				column(x-radius-1, -1)
				column(x+radius, 1)
			}
			o := y*dst.Stride + x*4
			for c := 0; c < 3; c++ {
				dst.Pix[o+c] = histogramRank(&hist[c], rank)
			}
			dst.Pix[o+3] = src.Pix[y*src.Stride+x*4+3]
		}
	})
	return dst
}

// histogramRank returns the value at 0-based position rank of the histogram
func histogramRank(hist *[256]int, rank int) uint8 {
	seen := 0
	for v := 0; v < 256; v++ {
		seen += hist[v]
		if seen > rank {
			return uint8(v)
		}
	}
	return 255
}
