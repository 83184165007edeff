package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// @Summary Catalog activity per user
// @Tags stats
// @Produce json
// @Security Bearer
// @Success 200 {object} model.StatsInfo
// @Failure 403 {object} echo.HTTPError
// @Router /api/v1/stats [get]
func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.catalogSvc.GetStats(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
