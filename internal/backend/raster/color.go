package raster

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Channels reports 1 for single channel rasters and 3 otherwise
func Channels(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	default:
		return 3
	}
}

// ToGray converts img to a single channel raster using BT.601 luma weights.
// A *image.Gray input is returned as is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	src := imaging.Grayscale(img)
	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	for i, j := 0, 0; i < len(gray.Pix); i, j = i+1, j+4 {
		gray.Pix[i] = src.Pix[j]
	}
	return gray
}

// ToColor expands single channel rasters to three channels so that viewers
// render them consistently. Color rasters are returned unchanged.
func ToColor(img image.Image) image.Image {
	if Channels(img) == 3 {
		return img
	}
	bounds := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Copy(dst, image.Point{}, img, bounds, draw.Src, nil)
	return dst
}
