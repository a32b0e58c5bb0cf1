package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/428lab/sales-aggregator/internal/application/analytics"
	"github.com/428lab/sales-aggregator/internal/application/dto"
)

// AnalyticsHandler expone la analítica del libro de ventas.
type AnalyticsHandler struct {
	uc *analytics.AnalyticsUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Report godoc
// @Summary      Analítica del libro de ventas
// @Description  Totales, ventas por mes, por artículo-variante y por canal. Los importes se rederivan de cada entrada.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Mes inicial YYYY-MM (inclusivo)"
// @Param        to    query  string  false  "Mes final YYYY-MM (inclusivo)"
// @Success      200   {object}  dto.AnalyticsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	var in dto.AnalyticsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Report(c.UserContext(), GetOwnerID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
