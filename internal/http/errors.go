package http

import (
	"errors"
	"net/http"

	"github.com/jmehdipour/odata-gateway/internal/model"
	"github.com/jmehdipour/odata-gateway/internal/odata"
	"github.com/jmehdipour/odata-gateway/internal/repository"
	"github.com/jmehdipour/odata-gateway/internal/service/catalog"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// respondError maps service errors onto status codes. entity is the singular
// name used in messages ("Customer", "Order").
func (h *handlers) respondError(c echo.Context, err error, entity string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, entity+" not found")
	case errors.Is(err, repository.ErrDuplicateKey):
		return errorJSON(c, http.StatusBadRequest, entity+" ID already exists")
	case errors.Is(err, model.ErrInvalid),
		errors.Is(err, catalog.ErrImmutableKey),
		errors.Is(err, odata.ErrMalformedOption):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
		)
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}
}
