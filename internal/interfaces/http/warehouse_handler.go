package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/usecase"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// WarehouseHandler maneja el catálogo de bodegas (protegido).
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear bodega
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "nombre, tipo y dirección"
// @Success      201   {object}  dto.WarehouseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	whType := in.Type
	if whType == "" {
		whType = entity.WarehouseTypeMain
	}
	w, err := h.uc.Create(c.Context(), in.Name, whType, in.Address)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toWarehouseResponse(w))
}

// GetByID godoc
// @Summary      Consultar bodega
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de bodega"
// @Success      200  {object}  dto.WarehouseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	w, err := h.uc.GetByID(c.Context(), int64(id))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toWarehouseResponse(w))
}

// List godoc
// @Summary      Listar bodegas
// @Tags         warehouses
// @Security     Bearer
// @Produce      json
// @Param        include_inactive  query  bool  false  "incluir desactivadas"
// @Success      200  {object}  dto.WarehouseListResponse
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	warehouses, err := h.uc.List(c.Context(), c.QueryBool("include_inactive"), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := dto.WarehouseListResponse{
		Items: make([]dto.WarehouseResponse, 0, len(warehouses)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, w := range warehouses {
		out.Items = append(out.Items, toWarehouseResponse(w))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar bodega (incluye activar/desactivar)
// @Tags         warehouses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                         true  "ID de bodega"
// @Param        body  body  dto.UpdateWarehouseRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.WarehouseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}

	current, err := h.uc.GetByID(c.Context(), int64(id))
	if err != nil {
		return errorJSON(c, err)
	}
	name, whType, address := current.Name, current.Type, current.Address
	if in.Name != nil {
		name = *in.Name
	}
	if in.Type != nil {
		whType = *in.Type
	}
	if in.Address != nil {
		address = *in.Address
	}
	w, err := h.uc.Update(c.Context(), int64(id), name, whType, address)
	if err != nil {
		return errorJSON(c, err)
	}
	if in.Active != nil && *in.Active != w.Active {
		if *in.Active {
			w, err = h.uc.Activate(c.Context(), int64(id))
		} else {
			w, err = h.uc.Deactivate(c.Context(), int64(id))
		}
		if err != nil {
			return errorJSON(c, err)
		}
	}
	return c.JSON(toWarehouseResponse(w))
}
