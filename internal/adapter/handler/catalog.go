package handler

import (
	"net/http"

	"idp-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the command-descriptor catalog so callers can
// discover the command surface and its argument shapes.
type CatalogHandler struct {
	commands []domain.CommandDescriptor
}

// NewCatalogHandler creates a catalog handler over the static descriptor
// catalog.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{commands: domain.Commands()}
}

// Handle processes GET /v1/commands.
func (h *CatalogHandler) Handle(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"commands": h.commands,
	})
}
