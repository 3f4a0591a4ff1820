package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/forecast"
)

// ForecastHandler expone los snapshots de pronóstico y la corrida manual
// (protegido; la corrida periódica vive en cmd/api).
type ForecastHandler struct {
	uc *forecast.UseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc *forecast.UseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// Run godoc
// @Summary      Ejecutar una corrida del pronosticador
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ForecastRunResponse
// @Router       /api/forecasts/run [post]
func (h *ForecastHandler) Run(c *fiber.Ctx) error {
	res, err := h.uc.RunOnce(c.Context(), time.Now())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.ForecastRunResponse{
		KeysProcessed:  res.KeysProcessed,
		BatchesExpired: int(res.BatchesExpired),
	})
}

// ListByWarehouse godoc
// @Summary      Snapshots de pronóstico de una bodega
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de bodega"
// @Success      200  {array}  dto.ForecastResponse
// @Router       /api/forecasts/warehouse/{id} [get]
func (h *ForecastHandler) ListByWarehouse(c *fiber.Ctx) error {
	warehouseID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	page := pageFromQuery(c)
	records, err := h.uc.ListByWarehouse(c.Context(), int64(warehouseID), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.ForecastResponse, 0, len(records))
	for _, f := range records {
		out = append(out, toForecastResponse(f))
	}
	return c.JSON(out)
}

// ListAlerts godoc
// @Summary      Claves con alerta de bajo stock
// @Tags         forecasts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ForecastResponse
// @Router       /api/forecasts/alerts [get]
func (h *ForecastHandler) ListAlerts(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	records, err := h.uc.ListAlerts(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.ForecastResponse, 0, len(records))
	for _, f := range records {
		out = append(out, toForecastResponse(f))
	}
	return c.JSON(out)
}
