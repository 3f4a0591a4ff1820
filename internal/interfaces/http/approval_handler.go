package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/approval"
	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// ApprovalHandler maneja la compuerta de aprobaciones (protegido).
type ApprovalHandler struct {
	uc *approval.UseCase
}

// NewApprovalHandler construye el handler.
func NewApprovalHandler(uc *approval.UseCase) *ApprovalHandler {
	return &ApprovalHandler{uc: uc}
}

// Submit godoc
// @Summary      Proponer acción sensible (requiere aprobación)
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitApprovalRequest  true  "tipo de acción y payload"
// @Success      201   {object}  dto.ApprovalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/approvals [post]
func (h *ApprovalHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	a, err := h.uc.Submit(c.Context(), in.ActionType, in.Payload, GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toApprovalResponse(a))
}

// Decide godoc
// @Summary      Aprobar o rechazar una acción pendiente
// @Description  La auto-aprobación se rechaza salvo configuración explícita. La acción aprobada se ejecuta una sola vez.
// @Tags         approvals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la aprobación"
// @Param        body  body  dto.DecideApprovalRequest  true  "approve y notas"
// @Success      200   {object}  dto.ApprovalResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/approvals/{id}/decide [post]
func (h *ApprovalHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecideApprovalRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	a, err := h.uc.Decide(c.Context(), c.Params("id"), GetUserID(c), in.Approve, in.Notes)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toApprovalResponse(a))
}

// GetByID godoc
// @Summary      Consultar aprobación
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la aprobación"
// @Success      200  {object}  dto.ApprovalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/approvals/{id} [get]
func (h *ApprovalHandler) GetByID(c *fiber.Ctx) error {
	a, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toApprovalResponse(a))
}

// List godoc
// @Summary      Bandeja de aprobaciones por estado
// @Tags         approvals
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "default PENDING"
// @Success      200  {array}  dto.ApprovalResponse
// @Router       /api/approvals [get]
func (h *ApprovalHandler) List(c *fiber.Ctx) error {
	status := c.Query("status", entity.ApprovalStatusPending)
	page := pageFromQuery(c)
	approvals, err := h.uc.ListByStatus(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.ApprovalResponse, 0, len(approvals))
	for _, a := range approvals {
		out = append(out, toApprovalResponse(a))
	}
	return c.JSON(out)
}
