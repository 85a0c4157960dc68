package raster

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jo-hoe/filterapi/internal/apperror"
)

const (
	DefaultMaxBytes     = 10 * 1024 * 1024
	DefaultMinDimension = 10
	DefaultMaxPixels    = 40_000_000
)

var errUndecodable = apperror.InvalidUpload("Não foi possível decodificar a imagem. O arquivo pode estar corrompido ou não ser uma imagem válida.")

// AllowedExtensions lists the accepted upload file extensions
var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

// Limits bounds what an upload may look like before and after decoding
type Limits struct {
	MaxBytes     int64
	MinDimension int
	// MaxPixels caps width*height, checked from the header before decoding
	MaxPixels int64
}

// DefaultLimits returns the 10 MiB / 10 px / 40 MP limits
func DefaultLimits() Limits {
	return Limits{MaxBytes: DefaultMaxBytes, MinDimension: DefaultMinDimension, MaxPixels: DefaultMaxPixels}
}

// CheckExtension rejects file names whose extension is not an accepted image type
func CheckExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return apperror.InvalidUpload(fmt.Sprintf("Formato de arquivo não suportado '%s'. Formatos aceitos: %s",
		ext, strings.Join(AllowedExtensions, ", ")))
}

// Decode turns uploaded bytes into an opaque *image.NRGBA.
//
// Checks run in a fixed order and the first failure is reported: extension,
// empty content, size limit, decodability, pixel count, minimum dimensions.
func Decode(data []byte, filename string, limits Limits) (*image.NRGBA, error) {
	if err := CheckExtension(filename); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, apperror.InvalidUpload("O arquivo enviado está vazio")
	}

	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		return nil, apperror.UploadTooLarge(fmt.Sprintf("Arquivo muito grande (%.2fMB). Tamanho máximo: %dMB",
			float64(len(data))/(1024*1024), limits.MaxBytes/(1024*1024)))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		slog.Debug("raster: failed to read image header", "filename", filename, "error", err)
		return nil, errUndecodable
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); limits.MaxPixels > 0 && pixels > limits.MaxPixels {
		return nil, apperror.InvalidUpload(fmt.Sprintf("Imagem muito grande (%dx%d). Máximo de %d pixels",
			cfg.Width, cfg.Height, limits.MaxPixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		slog.Debug("raster: failed to decode upload", "filename", filename, "error", err)
		return nil, errUndecodable
	}

	bounds := img.Bounds()
	if bounds.Dx() < limits.MinDimension || bounds.Dy() < limits.MinDimension {
		return nil, apperror.InvalidUpload(fmt.Sprintf("Imagem muito pequena (%dx%d). Dimensões mínimas: %dx%d pixels",
			bounds.Dx(), bounds.Dy(), limits.MinDimension, limits.MinDimension))
	}

	slog.Debug("raster: decoded upload",
		"filename", filename,
		"input_size_bytes", len(data),
		"width", bounds.Dx(),
		"height", bounds.Dy())

	return opaque(img), nil
}

// opaque copies img into a zero-origin NRGBA and drops the alpha channel
func opaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
