package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// SerialHandler maneja el ciclo de vida de unidades serializadas (protegido).
type SerialHandler struct {
	uc *inventory.SerialUseCase
}

// NewSerialHandler construye el handler.
func NewSerialHandler(uc *inventory.SerialUseCase) *SerialHandler {
	return &SerialHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar unidad serializada (IN_STOCK)
// @Tags         serials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSerialRequest  true  "serial, producto y bodega"
// @Success      201   {object}  dto.SerialResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/serials [post]
func (h *SerialHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSerialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	item := entity.StockItem{ProductID: in.ProductID, VariantID: in.VariantID}
	unit, err := h.uc.Register(c.Context(), in.SerialNumber, item, in.WarehouseID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSerialResponse(unit))
}

// Get godoc
// @Summary      Consultar unidad por número de serie
// @Tags         serials
// @Security     Bearer
// @Produce      json
// @Param        sn  path  string  true  "número de serie"
// @Success      200  {object}  dto.SerialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/serials/{sn} [get]
func (h *SerialHandler) Get(c *fiber.Ctx) error {
	unit, err := h.uc.Get(c.Context(), c.Params("sn"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toSerialResponse(unit))
}

// Sell godoc
// @Summary      Vender unidad (IN_STOCK -> SOLD)
// @Tags         serials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sn    path  string                 true  "número de serie"
// @Param        body  body  dto.SellSerialRequest  true  "referencia de venta"
// @Success      200   {object}  dto.SerialResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/serials/{sn}/sell [post]
func (h *SerialHandler) Sell(c *fiber.Ctx) error {
	var in dto.SellSerialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	unit, err := h.uc.Sell(c.Context(), c.Params("sn"), in.SaleRef)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toSerialResponse(unit))
}

// Return godoc
// @Summary      Devolver unidad (SOLD -> RETURNED)
// @Tags         serials
// @Security     Bearer
// @Produce      json
// @Param        sn  path  string  true  "número de serie"
// @Success      200  {object}  dto.SerialResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/serials/{sn}/return [post]
func (h *SerialHandler) Return(c *fiber.Ctx) error {
	unit, err := h.uc.Return(c.Context(), c.Params("sn"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toSerialResponse(unit))
}

// Inspect godoc
// @Summary      Cerrar inspección (RETURNED -> IN_STOCK | DEFECTIVE)
// @Tags         serials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sn    path  string                    true  "número de serie"
// @Param        body  body  dto.InspectSerialRequest  true  "resultado"
// @Success      200   {object}  dto.SerialResponse
// @Router       /api/serials/{sn}/inspect [post]
func (h *SerialHandler) Inspect(c *fiber.Ctx) error {
	var in dto.InspectSerialRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	unit, err := h.uc.Inspect(c.Context(), c.Params("sn"), in.Outcome)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toSerialResponse(unit))
}

// Warranty godoc
// @Summary      Enviar a garantía (SOLD -> WARRANTY)
// @Tags         serials
// @Security     Bearer
// @Produce      json
// @Param        sn  path  string  true  "número de serie"
// @Success      200  {object}  dto.SerialResponse
// @Router       /api/serials/{sn}/warranty [post]
func (h *SerialHandler) Warranty(c *fiber.Ctx) error {
	unit, err := h.uc.Warranty(c.Context(), c.Params("sn"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toSerialResponse(unit))
}
