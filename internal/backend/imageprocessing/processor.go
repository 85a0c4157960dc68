package imageprocessing

import (
	"image"
	"log/slog"
	"time"

	"github.com/jo-hoe/filterapi/internal/apperror"
	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/backend/raster"
)

// Upload is the raw file received from a client
type Upload struct {
	Filename string
	Data     []byte
}

// Result carries everything produced by one filter run
type Result struct {
	Original    image.Image
	Filtered    image.Image
	Elapsed     time.Duration
	FilterName  string
	Level       *int
	Params      any
	Description string
}

// ElapsedMilliseconds returns the processing time as fractional milliseconds
func (r *Result) ElapsedMilliseconds() float64 {
	return float64(r.Elapsed) / float64(time.Millisecond)
}

// Processor decodes uploads and applies a filter to them
type Processor struct {
	limits raster.Limits
}

// NewProcessor creates a processor enforcing the given upload limits
func NewProcessor(limits raster.Limits) *Processor {
	return &Processor{limits: limits}
}

// Limits returns the upload limits enforced by the processor
func (p *Processor) Limits() raster.Limits {
	return p.limits
}

// Run decodes the upload and applies filter. Timing covers decode and filtering.
// A nil level marks a run with custom parameters.
func (p *Processor) Run(upload Upload, filter filterstructure.Filter, level *int, description string) (*Result, error) {
	start := time.Now()

	slog.Info("starting filter pipeline",
		"filter", filter.Name(),
		"filename", upload.Filename,
		"input_size_bytes", len(upload.Data))

	original, err := raster.Decode(upload.Data, upload.Filename, p.limits)
	if err != nil {
		slog.Info("upload rejected",
			"filter", filter.Name(),
			"filename", upload.Filename,
			"error", err)
		return nil, err
	}

	filtered, err := filter.Apply(original)
	if err != nil {
		slog.Error("filter execution failed",
			"filter", filter.Name(),
			"error", err)
		return nil, apperror.Processing("Erro ao processar imagem", err)
	}

	elapsed := time.Since(start)
	slog.Info("filter pipeline completed",
		"filter", filter.Name(),
		"level", levelAttr(level),
		"width", original.Bounds().Dx(),
		"height", original.Bounds().Dy(),
		"duration_ms", elapsed.Milliseconds())

	return &Result{
		Original:    original,
		Filtered:    filtered,
		Elapsed:     elapsed,
		FilterName:  filter.Name(),
		Level:       level,
		Params:      filter.Params(),
		Description: description,
	}, nil
}

func levelAttr(level *int) any {
	if level == nil {
		return "customizado"
	}
	return *level
}
