package backend

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/filterapi/internal/apperror"
	"github.com/jo-hoe/filterapi/internal/backend/assembler"
	"github.com/jo-hoe/filterapi/internal/backend/filterstructure"
	"github.com/jo-hoe/filterapi/internal/backend/imageprocessing"
	"github.com/jo-hoe/filterapi/internal/backend/raster"
	"github.com/labstack/echo/v4"
)

const uploadField = "arquivo"

// levelRequest is the request shape of the preset routes
type levelRequest struct {
	Nivel   int    `param:"nivel" validate:"oneof=1 2 3"`
	Formato string `query:"formato" validate:"oneof=png jpeg jpg"`
}

// formatRequest is the request shape shared by the custom routes
type formatRequest struct {
	Formato string `query:"formato" validate:"oneof=png jpeg jpg"`
}

func (service *APIService) presetHandler(descriptor *filterstructure.Descriptor, download bool) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := &levelRequest{Formato: raster.PNG.Extension}
		if err := echo.PathParamsBinder(ctx).Int("nivel", &req.Nivel).BindError(); err != nil {
			return apperror.ValidationSchema(
				fmt.Sprintf("Erro de validação: nivel: valor '%s' inválido, esperado um de: 1, 2, 3", ctx.Param("nivel")), err)
		}
		if err := echo.QueryParamsBinder(ctx).String("formato", &req.Formato).BindError(); err != nil {
			return apperror.ValidationSchema("Erro de validação: formato: valor inválido", err)
		}
		if err := ctx.Validate(req); err != nil {
			return err
		}
		format, err := raster.ParseFormat(req.Formato)
		if err != nil {
			return err
		}

		upload, err := readUpload(ctx)
		if err != nil {
			return err
		}

		result, err := service.coreService.RunPreset(descriptor.Name, req.Nivel, upload)
		if err != nil {
			return err
		}
		return service.respond(ctx, result, format, download)
	}
}

func (service *APIService) customHandler(descriptor *filterstructure.Descriptor, download bool) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := &formatRequest{Formato: raster.PNG.Extension}
		if err := echo.QueryParamsBinder(ctx).String("formato", &req.Formato).BindError(); err != nil {
			return apperror.ValidationSchema("Erro de validação: formato: valor inválido", err)
		}
		if err := ctx.Validate(req); err != nil {
			return err
		}
		format, err := raster.ParseFormat(req.Formato)
		if err != nil {
			return err
		}

		params := descriptor.NewCustomParams()
		if err := ctx.Bind(params); err != nil {
			if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
				return err
			}
			return apperror.ValidationSchema(fmt.Sprintf("Erro de validação: %s", bindMessage(err)), err)
		}

		upload, err := readUpload(ctx)
		if err != nil {
			return err
		}

		result, err := service.coreService.RunCustom(descriptor.Name, params, upload)
		if err != nil {
			return err
		}
		return service.respond(ctx, result, format, download)
	}
}

// respond writes the inline JSON body or streams the archive. The archive file
// is scheduled for deletion once it has been written to the client.
func (service *APIService) respond(ctx echo.Context, result *imageprocessing.Result, format raster.Format, download bool) error {
	if !download {
		body, err := assembler.NewInline(result, format)
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, body)
	}

	archive, err := service.coreService.BuildArchive(result, format)
	if err != nil {
		return err
	}
	defer service.coreService.ScheduleCleanup(archive.Path)
	return ctx.Attachment(archive.Path, archive.DownloadName)
}

func readUpload(ctx echo.Context) (imageprocessing.Upload, error) {
	file, err := ctx.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
			return imageprocessing.Upload{}, err
		}
		slog.Debug("readUpload: no file in request", "field", uploadField, "error", err)
		return imageprocessing.Upload{}, apperror.InvalidUpload("Nenhum arquivo foi enviado")
	}
	if err := raster.CheckExtension(file.Filename); err != nil {
		return imageprocessing.Upload{}, err
	}

	src, err := file.Open()
	if err != nil {
		return imageprocessing.Upload{}, fmt.Errorf("failed to open uploaded file %s: %w", file.Filename, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("readUpload: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		return imageprocessing.Upload{}, fmt.Errorf("failed to read uploaded file %s: %w", file.Filename, err)
	}
	return imageprocessing.Upload{Filename: file.Filename, Data: data}, nil
}

// bindMessage extracts the binder's message without echo's code prefix
func bindMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
