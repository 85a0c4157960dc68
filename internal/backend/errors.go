package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/filterapi/internal/apperror"
	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Erro interno do servidor"

// ErrorResponse is the body of every non 2xx response
type ErrorResponse struct {
	Mensagem string `json:"mensagem"`
}

// NewHTTPErrorHandler maps apperror kinds and echo errors to {"mensagem": ...}
// bodies. Unclassified errors are logged and reported without detail.
func NewHTTPErrorHandler(maxUploadBytes int64) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		status, message := classify(err, maxUploadBytes)
		if status >= http.StatusInternalServerError {
			slog.Error("request failed",
				"method", ctx.Request().Method,
				"path", ctx.Path(),
				"status", status,
				"error", err)
		}

		var writeErr error
		if ctx.Request().Method == http.MethodHead {
			writeErr = ctx.NoContent(status)
		} else {
			writeErr = ctx.JSON(status, ErrorResponse{Mensagem: message})
		}
		if writeErr != nil {
			slog.Error("failed to write error response", "error", writeErr)
		}
	}
}

func classify(err error, maxUploadBytes int64) (int, string) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return apperror.StatusOf(appErr), appErr.Message
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound:
			return http.StatusNotFound, "Recurso não encontrado"
		case http.StatusMethodNotAllowed:
			return http.StatusMethodNotAllowed, "Método não permitido"
		case http.StatusRequestEntityTooLarge:
			return http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Arquivo muito grande. Tamanho máximo: %dMB", maxUploadBytes/(1024*1024))
		}
		if httpErr.Code < http.StatusInternalServerError {
			return httpErr.Code, fmt.Sprint(httpErr.Message)
		}
	}

	return http.StatusInternalServerError, internalErrorMessage
}
