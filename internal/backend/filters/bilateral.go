package filters

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/backend/validation"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// BilateralParams represents typed parameters for the bilateral filter
type BilateralParams struct {
	D           int `json:"d" form:"d"`
	SigmaCor    int `json:"sigma_cor" form:"sigma_cor"`
	SigmaEspaco int `json:"sigma_espaco" form:"sigma_espaco"`
}

// DefaultBilateralParams returns the parameters used when a form omits a field
func DefaultBilateralParams() *BilateralParams {
	return &BilateralParams{D: 9, SigmaCor: 75, SigmaEspaco: 75}
}

func (p *BilateralParams) Validate() error {
	return validation.First(
		validation.Range("d", p.D, 1, 50),
		validation.Range("sigma_cor", p.SigmaCor, 1, 300),
		validation.Range("sigma_espaco", p.SigmaEspaco, 1, 300),
	)
}

func (p *BilateralParams) Filter() filterstructure.Filter {
	return &Bilateral{params: *p}
}

// Bilateral smooths flat regions while keeping edges: each neighbour is
// weighted by its spatial distance and by its color distance to the center
type Bilateral struct {
	params BilateralParams
}

// NewBilateral creates a bilateral filter from validated parameters
func NewBilateral(params BilateralParams) (*Bilateral, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Bilateral{params: params}, nil
}

func (b *Bilateral) Name() string { return "bilateral" }

func (b *Bilateral) Params() any { return b.params }

type offset struct {
	dx, dy int
	weight float64
}

func (b *Bilateral) Apply(img image.Image) (image.Image, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("bilateral: empty image")
	}
	slog.Debug("Bilateral: filtering",
		"d", b.params.D,
		"sigma_cor", b.params.SigmaCor,
		"sigma_espaco", b.params.SigmaEspaco)

	src := imaging.Clone(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	colors := make([]colorful.Color, w*h)
	for i := range colors {
		p := src.Pix[i*4 : i*4+3]
		colors[i] = colorful.Color{R: float64(p[0]) / 255, G: float64(p[1]) / 255, B: float64(p[2]) / 255}
	}

	// circular window of diameter d
	radius := b.params.D / 2
	spaceCoeff := -0.5 / float64(b.params.SigmaEspaco*b.params.SigmaEspaco)
	var window []offset
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			r := math.Sqrt(float64(dx*dx + dy*dy))
			if r > float64(radius) {
				continue
			}
			window = append(window, offset{dx: dx, dy: dy, weight: math.Exp(r * r * spaceCoeff)})
		}
	}

	// color weights indexed by distance in 8 bit units, up to 255*sqrt(3)
	colorCoeff := -0.5 / float64(b.params.SigmaCor*b.params.SigmaCor)
	colorWeight := make([]float64, int(255*math.Sqrt(3))+2)
	for i := range colorWeight {
		colorWeight[i] = math.Exp(float64(i*i) * colorCoeff)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	parallelFor(h, func(y int) {
		for x := 0; x < w; x++ {
			center := colors[y*w+x]
			var sumR, sumG, sumB, wsum float64
			for _, o := range window {
				nx := clamp(x+o.dx, 0, w-1)
				ny := clamp(y+o.dy, 0, h-1)
				j := ny*w + nx
				dist := int(center.DistanceRgb(colors[j])*255 + 0.5)
				weight := o.weight * colorWeight[dist]
				p := src.Pix[j*4 : j*4+3]
				sumR += float64(p[0]) * weight
				sumG += float64(p[1]) * weight
				sumB += float64(p[2]) * weight
				wsum += weight
			}
			i := (y*w + x) * 4
			dst.Pix[i+0] = uint8(math.Round(sumR / wsum))
			dst.Pix[i+1] = uint8(math.Round(sumG / wsum))
			dst.Pix[i+2] = uint8(math.Round(sumB / wsum))
			dst.Pix[i+3] = src.Pix[i+3]
		}
	})
	return dst, nil
}
