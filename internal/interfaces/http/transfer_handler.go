package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/transfer"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// TransferHandler maneja el flujo de traslados entre bodegas (protegido).
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear traslado (PENDING)
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "bodegas origen/destino y líneas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	lines := make([]transfer.LineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, transfer.LineInput{
			Item:     entity.StockItem{ProductID: l.ProductID, VariantID: l.VariantID},
			BatchID:  l.BatchID,
			Quantity: l.Quantity,
		})
	}
	t, err := h.uc.Create(c.Context(), in.FromWarehouseID, in.ToWarehouseID, in.Notes, GetUserID(c), lines)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(t))
}

// GetByID godoc
// @Summary      Consultar traslado con líneas
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// List godoc
// @Summary      Listar traslados por estado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  true  "PENDING|APPROVED|IN_TRANSIT|RECEIVED|CANCELLED"
// @Success      200  {array}  dto.TransferResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	status := c.Query("status", entity.TransferStatusPending)
	page := pageFromQuery(c)
	transfers, err := h.uc.ListByStatus(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toTransferResponse(t))
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar traslado (PENDING -> APPROVED)
// @Description  Si el aprobador es quien solicitó, se aprueba pero queda marcado para auditoría.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/approve [post]
func (h *TransferHandler) Approve(c *fiber.Ctx) error {
	t, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Ship godoc
// @Summary      Embarcar líneas (APPROVED -> IN_TRANSIT)
// @Description  Todo-o-nada: si alguna línea no tiene stock, ninguna se aplica y se devuelve el detalle por línea.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del traslado"
// @Param        body  body  dto.TransferQuantityRequest  true  "cantidades por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.TransferLinesErrorResponse
// @Router       /api/transfers/{id}/ship [post]
func (h *TransferHandler) Ship(c *fiber.Ctx) error {
	return h.applyQuantities(c, h.uc.Ship)
}

// Receive godoc
// @Summary      Recibir líneas en destino
// @Description  Admite recepción parcial; el traslado pasa a RECEIVED cuando cada línea queda saldada.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del traslado"
// @Param        body  body  dto.TransferQuantityRequest  true  "cantidades por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.TransferLinesErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	return h.applyQuantities(c, h.uc.Receive)
}

// WriteOff godoc
// @Summary      Baja explícita por pérdida en tránsito
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del traslado"
// @Param        body  body  dto.TransferQuantityLine  true  "línea y cantidad perdida"
// @Success      200   {object}  dto.TransferResponse
// @Router       /api/transfers/{id}/write-off [post]
func (h *TransferHandler) WriteOff(c *fiber.Ctx) error {
	var in dto.TransferQuantityLine
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	t, err := h.uc.WriteOffLoss(c.Context(), c.Params("id"), in.LineID, GetUserID(c), in.Quantity)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

// Cancel godoc
// @Summary      Cancelar traslado (solo PENDING/APPROVED)
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	t, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toTransferResponse(t))
}

func (h *TransferHandler) applyQuantities(
	c *fiber.Ctx,
	op func(ctx context.Context, transferID, actor string, inputs []transfer.QuantityInput) (*entity.Transfer, error),
) error {
	var in dto.TransferQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	inputs := make([]transfer.QuantityInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		inputs = append(inputs, transfer.QuantityInput{LineID: l.LineID, Quantity: l.Quantity})
	}
	t, err := op(c.Context(), c.Params("id"), GetUserID(c), inputs)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toTransferResponse(t))
}
