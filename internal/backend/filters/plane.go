package filters

import (
	"image"
)

// plane is a single channel float raster. Reads outside the bounds are
// clamped to the nearest edge pixel.
type plane struct {
	width, height int
	pix           []float64
}

func newPlane(width, height int) *plane {
	return &plane{width: width, height: height, pix: make([]float64, width*height)}
}

func planeFromGray(g *image.Gray) *plane {
	bounds := g.Bounds()
	p := newPlane(bounds.Dx(), bounds.Dy())
	for y := 0; y < p.height; y++ {
		row := g.Pix[y*g.Stride : y*g.Stride+p.width]
		for x, v := range row {
			p.pix[y*p.width+x] = float64(v)
		}
	}
	return p
}

// planeFromRed reads the first channel of an 8 bit RGBA-like buffer
func planeFromRed(pix []uint8, stride, width, height int) *plane {
	p := newPlane(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p.pix[y*width+x] = float64(pix[y*stride+x*4])
		}
	}
	return p
}

func (p *plane) at(x, y int) float64 {
	return p.pix[clamp(y, 0, p.height-1)*p.width+clamp(x, 0, p.width-1)]
}

func (p *plane) max() float64 {
	m := 0.0
	for _, v := range p.pix {
		if v > m {
			m = v
		}
	}
	return m
}

// correlate applies a separable kernel: row along x, then column along y.
// Both kernels are anchored at their center.
func (p *plane) correlate(row, column []float64) *plane {
	tmp := newPlane(p.width, p.height)
	rr := len(row) / 2
	parallelFor(p.height, func(y int) {
		for x := 0; x < p.width; x++ {
			var sum float64
			for k, w := range row {
				sum += p.at(x+k-rr, y) * w
			}
			tmp.pix[y*p.width+x] = sum
		}
	})

	out := newPlane(p.width, p.height)
	cr := len(column) / 2
	parallelFor(p.height, func(y int) {
		for x := 0; x < p.width; x++ {
			var sum float64
			for k, w := range column {
				sum += tmp.at(x, y+k-cr) * w
			}
			out.pix[y*p.width+x] = sum
		}
	})
	return out
}

// normalized scales the plane so that its maximum maps to 255.
// A plane whose maximum is 0 yields an all-zero image.
func (p *plane) normalized() *image.Gray {
	out := image.NewGray(image.Rect(0, 0, p.width, p.height))
	m := p.max()
	if m == 0 {
		return out
	}
	for i, v := range p.pix {
		out.Pix[i] = uint8(v / m * 255)
	}
	return out
}

func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
