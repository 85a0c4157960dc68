package assembler

import (
	"github.com/jo-hoe/filterapi/internal/backend/imageprocessing"
	"github.com/jo-hoe/filterapi/internal/backend/raster"
)

// InlineResponse is the JSON body returned by the non-download endpoints
type InlineResponse struct {
	ImagemOriginal string  `json:"imagem_original"`
	ImagemFiltrada string  `json:"imagem_filtrada"`
	TempoMs        float64 `json:"tempo_ms"`
	Filtro         string  `json:"filtro"`
	Nivel          *int    `json:"nivel"`
	Parametros     any     `json:"parametros"`
}

// NewInline encodes both rasters of result as data URIs
func NewInline(result *imageprocessing.Result, format raster.Format) (*InlineResponse, error) {
	original, err := raster.EncodeDataURI(result.Original, format)
	if err != nil {
		return nil, err
	}
	filtered, err := raster.EncodeDataURI(result.Filtered, format)
	if err != nil {
		return nil, err
	}

	return &InlineResponse{
		ImagemOriginal: original,
		ImagemFiltrada: filtered,
		TempoMs:        result.ElapsedMilliseconds(),
		Filtro:         result.FilterName,
		Nivel:          result.Level,
		Parametros:     result.Params,
	}, nil
}
