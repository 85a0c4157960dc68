package core

import (
	"fmt"
	"log/slog"

	"github.com/jo-hoe/filterapi/internal/backend/assembler"
	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/backend/imageprocessing"
	"github.com/jo-hoe/filterapi/internal/backend/raster"
)

type CoreService struct {
	registry  *filterstructure.Registry
	processor *imageprocessing.Processor
	archives  *assembler.Builder
	janitor   *assembler.Janitor
}

func NewCoreService(config *ServiceConfig, registry *filterstructure.Registry) *CoreService {
	limits := raster.Limits{
		MaxBytes:     config.Upload.MaxSizeBytes,
		MinDimension: config.Upload.MinDimension,
		MaxPixels:    config.Upload.MaxPixels,
	}
	slog.Info("core service initialized",
		"filters", registry.Names(),
		"max_upload_bytes", limits.MaxBytes,
		"max_pixels", limits.MaxPixels,
		"temp_dir", config.Archive.TempDir)

	return &CoreService{
		registry:  registry,
		processor: imageprocessing.NewProcessor(limits),
		archives:  assembler.NewBuilder(config.Archive.TempDir),
		janitor:   assembler.NewJanitor(),
	}
}

func (service *CoreService) Registry() *filterstructure.Registry {
	return service.registry
}

// RunPreset applies the level preset of the named filter to upload
func (service *CoreService) RunPreset(name string, level int, upload imageprocessing.Upload) (*imageprocessing.Result, error) {
	descriptor, err := service.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	filter, err := descriptor.Preset(level)
	if err != nil {
		return nil, err
	}
	return service.processor.Run(upload, filter, &level, descriptor.Description)
}

// RunCustom validates params and applies them to upload. Validation happens
// before the upload is decoded.
func (service *CoreService) RunCustom(name string, params filterstructure.CustomParams, upload imageprocessing.Upload) (*imageprocessing.Result, error) {
	descriptor, err := service.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	if !descriptor.SupportsCustom() {
		return nil, fmt.Errorf("filter %s does not accept custom parameters", name)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return service.processor.Run(upload, params.Filter(), nil, descriptor.CustomDescription)
}

func (service *CoreService) BuildArchive(result *imageprocessing.Result, format raster.Format) (*assembler.Archive, error) {
	return service.archives.Build(result, format)
}

// ScheduleCleanup deletes a transient file once the response no longer needs it
func (service *CoreService) ScheduleCleanup(path string) {
	service.janitor.Schedule(path)
}

// Close waits for pending cleanups
func (service *CoreService) Close() error {
	service.janitor.Wait()
	slog.Info("core service closed")
	return nil
}
