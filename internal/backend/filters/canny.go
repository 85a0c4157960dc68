package filters

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/backend/raster"
	"github.com/jo-hoe/filterapi/internal/backend/validation"
)

// CannyParams represents typed parameters for the Canny edge detector
type CannyParams struct {
	Limiar1         int  `json:"limiar1" form:"limiar1"`
	Limiar2         int  `json:"limiar2" form:"limiar2"`
	TamanhoAbertura int  `json:"tamanho_abertura" form:"tamanho_abertura"`
	AplicarBlur     bool `json:"aplicar_blur" form:"aplicar_blur"`
}

// DefaultCannyParams returns the parameters used when a form omits a field
func DefaultCannyParams() *CannyParams {
	return &CannyParams{Limiar1: 100, Limiar2: 200, TamanhoAbertura: 3, AplicarBlur: true}
}

// Validate checks thresholds and aperture
func (p *CannyParams) Validate() error {
	return validation.First(
		validation.Range("limiar1", p.Limiar1, 0, 255),
		validation.Range("limiar2", p.Limiar2, 0, 255),
		validation.Aperture(p.TamanhoAbertura),
		validation.ThresholdOrder(p.Limiar1, p.Limiar2),
	)
}

// Filter returns the detector for an already validated parameter set
func (p *CannyParams) Filter() filterstructure.Filter {
	return &Canny{params: *p}
}

// Canny is a multi-stage edge detector producing a binary edge map
type Canny struct {
	params CannyParams
}

// NewCanny validates params before any image is touched
func NewCanny(params CannyParams) (*Canny, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Canny{params: params}, nil
}

func (c *Canny) Name() string { return "canny" }

func (c *Canny) Params() any { return c.params }

// Apply returns a *image.Gray with edges at 255 and everything else at 0
func (c *Canny) Apply(img image.Image) (image.Image, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("canny: empty image")
	}
	slog.Debug("Canny: detecting edges",
		"limiar1", c.params.Limiar1,
		"limiar2", c.params.Limiar2,
		"aperture", c.params.TamanhoAbertura,
		"blur", c.params.AplicarBlur)

	gray := raster.ToGray(img)
	var p *plane
	if c.params.AplicarBlur {
		blurred := gaussianBlur(gray, 5, 5, 0)
		p = planeFromRed(blurred.Pix, blurred.Stride, bounds.Dx(), bounds.Dy())
	} else {
		p = planeFromGray(gray)
	}

	smooth, derivative := sobelKernels(c.params.TamanhoAbertura)
	gx := p.correlate(derivative, smooth)
	gy := p.correlate(smooth, derivative)

	low := float64(c.params.Limiar1)
	high := float64(c.params.Limiar2)
	w, h := p.width, p.height

	magnitude := newPlane(w, h)
	for i := range magnitude.pix {
		magnitude.pix[i] = math.Abs(gx.pix[i]) + math.Abs(gy.pix[i])
	}
	mag := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= w || y >= h {
			return 0
		}
		return magnitude.pix[y*w+x]
	}

	const (
		none = iota
		weak
		strong
	)
	state := make([]uint8, w*h)
	tan22 := math.Tan(math.Pi / 8)
	tan67 := math.Tan(3 * math.Pi / 8)

	parallelFor(h, func(y int) {
		for x := 0; x < w; x++ {
			i := y*w + x
			m := magnitude.pix[i]
			if m <= low {
				continue
			}
			dx, dy := gx.pix[i], gy.pix[i]
			ax, ay := math.Abs(dx), math.Abs(dy)

			var keep bool
			switch {
			case ay < ax*tan22:
				keep = m > mag(x-1, y) && m >= mag(x+1, y)
			case ay > ax*tan67:
				keep = m > mag(x, y-1) && m >= mag(x, y+1)
			default:
				s := 1
				if (dx < 0) != (dy < 0) {
					s = -1
				}
				keep = m > mag(x-s, y-1) && m > mag(x+s, y+1)
			}
			if !keep {
				continue
			}
			if m > high {
				state[i] = strong
			} else {
				state[i] = weak
			}
		}
	})

	// hysteresis: grow strong edges through 8-connected weak pixels
	out := image.NewGray(image.Rect(0, 0, w, h))
	stack := make([]int, 0, 64)
	for i, s := range state {
		if s == strong {
			stack = append(stack, i)
			out.Pix[i] = 255
		}
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		for ny := y - 1; ny <= y+1; ny++ {
			for nx := x - 1; nx <= x+1; nx++ {
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				if state[j] == weak && out.Pix[j] == 0 {
					out.Pix[j] = 255
					stack = append(stack, j)
				}
			}
		}
	}
	return out, nil
}
