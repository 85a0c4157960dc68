package assembler

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jo-hoe/filterapi/internal/apperror"
	"github.com/jo-hoe/filterapi/internal/backend/imageprocessing"
	"github.com/jo-hoe/filterapi/internal/backend/raster"
)

const (
	OriginalEntry = "original"
	FilteredEntry = "filtrada"
	MetadataEntry = "info.json"
)

// Metadata is written to info.json inside every archive
type Metadata struct {
	TempoMs    float64 `json:"tempo_ms"`
	Filtro     string  `json:"filtro"`
	Nivel      *int    `json:"nivel,omitempty"`
	Parametros any     `json:"parametros,omitempty"`
	Descricao  string  `json:"descricao"`
}

// Archive is a ZIP file written to disk, waiting to be sent
type Archive struct {
	Path         string
	DownloadName string
}

// Builder writes result archives into a temp directory
type Builder struct {
	tempDir string
}

// NewBuilder creates a builder writing into tempDir; empty means os.TempDir()
func NewBuilder(tempDir string) *Builder {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Builder{tempDir: tempDir}
}

// Build encodes both rasters and writes original, filtered and info.json into
// a new ZIP file. Nothing is written to disk unless every entry encodes.
func (b *Builder) Build(result *imageprocessing.Result, format raster.Format) (*Archive, error) {
	original, err := raster.Encode(result.Original, format)
	if err != nil {
		return nil, apperror.ArchiveBuild("Erro ao criar arquivo ZIP", err)
	}
	filtered, err := raster.Encode(result.Filtered, format)
	if err != nil {
		return nil, apperror.ArchiveBuild("Erro ao criar arquivo ZIP", err)
	}
	metadata, err := json.MarshalIndent(Metadata{
		TempoMs:    result.ElapsedMilliseconds(),
		Filtro:     result.FilterName,
		Nivel:      result.Level,
		Parametros: result.Params,
		Descricao:  result.Description,
	}, "", "  ")
	if err != nil {
		return nil, apperror.ArchiveBuild("Erro ao criar arquivo ZIP", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name string
		data []byte
	}{
		{OriginalEntry + "." + format.Extension, original},
		{FilteredEntry + "." + format.Extension, filtered},
		{MetadataEntry, metadata},
	}
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate})
		if err != nil {
			return nil, apperror.ArchiveBuild("Erro ao criar arquivo ZIP", err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, apperror.ArchiveBuild("Erro ao criar arquivo ZIP", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, apperror.ArchiveBuild("Erro ao criar arquivo ZIP", err)
	}

	base := archiveBaseName(result)
	path := filepath.Join(b.tempDir, fmt.Sprintf("%s_%s.zip", base, uuid.NewString()))
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return nil, apperror.ArchiveBuild("Erro ao criar arquivo ZIP", err)
	}

	slog.Debug("archive written",
		"path", path,
		"size_bytes", buf.Len())

	return &Archive{Path: path, DownloadName: base + ".zip"}, nil
}

// archiveBaseName returns filtro_<name>_nivel<N> or filtro_<name>_customizado
func archiveBaseName(result *imageprocessing.Result) string {
	if result.Level == nil {
		return fmt.Sprintf("filtro_%s_customizado", result.FilterName)
	}
	return fmt.Sprintf("filtro_%s_nivel%d", result.FilterName, *result.Level)
}
