package handler

import (
	"net/http"

	"commerce-console/internal/service"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	composer *service.Composer
}

func NewCatalogHandler(composer *service.Composer) *CatalogHandler {
	return &CatalogHandler{
		composer: composer,
	}
}

// GetProduct refreshes and returns the availability snapshot for a product.
func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	entry, err := h.composer.RefreshSnapshot(ctx, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, entry)
}
