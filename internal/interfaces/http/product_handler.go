package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/usecase"
)

// ProductHandler maneja la política de productos que el motor consume
// (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar política de producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "SKU, flags de seguimiento y parámetros de reposición"
// @Success      201   {object}  dto.ProductResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	p, err := h.uc.Create(c.Context(), usecase.ProductInput{
		SKU:            in.SKU,
		Name:           in.Name,
		TrackBatches:   in.TrackBatches,
		TrackSerials:   in.TrackSerials,
		AllowBackorder: in.AllowBackorder,
		ReorderPoint:   in.ReorderPoint,
		OptimalLevel:   in.OptimalLevel,
		LeadTimeDays:   in.LeadTimeDays,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
}

// GetByID godoc
// @Summary      Consultar producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	p, err := h.uc.GetByID(c.Context(), int64(id))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toProductResponse(p))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        sku  query  string  false  "busca un SKU exacto"
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	if sku := c.Query("sku"); sku != "" {
		p, err := h.uc.GetBySKU(c.Context(), sku)
		if err != nil {
			return errorJSON(c, err)
		}
		return c.JSON([]dto.ProductResponse{toProductResponse(p)})
	}
	page := pageFromQuery(c)
	products, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar política de producto (parcial)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID de producto"
// @Param        body  body  dto.UpdateProductRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateProductRequest
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
	merged := usecase.ProductInput{
		SKU:            current.SKU,
		Name:           current.Name,
		TrackBatches:   current.TrackBatches,
		TrackSerials:   current.TrackSerials,
		AllowBackorder: current.AllowBackorder,
		ReorderPoint:   current.ReorderPoint,
		OptimalLevel:   current.OptimalLevel,
		LeadTimeDays:   current.LeadTimeDays,
	}
	if in.Name != nil {
		merged.Name = *in.Name
	}
	if in.TrackBatches != nil {
		merged.TrackBatches = *in.TrackBatches
	}
	if in.TrackSerials != nil {
		merged.TrackSerials = *in.TrackSerials
	}
	if in.AllowBackorder != nil {
		merged.AllowBackorder = *in.AllowBackorder
	}
	if in.ReorderPoint != nil {
		merged.ReorderPoint = *in.ReorderPoint
	}
	if in.OptimalLevel != nil {
		merged.OptimalLevel = *in.OptimalLevel
	}
	if in.LeadTimeDays != nil {
		merged.LeadTimeDays = *in.LeadTimeDays
	}
	p, err := h.uc.Update(c.Context(), int64(id), merged)
	if err != nil {
		return errorJSON(c, err)
	}
	if in.Active != nil && *in.Active != p.Active {
		if *in.Active {
			p, err = h.uc.Activate(c.Context(), int64(id))
		} else {
			p, err = h.uc.Deactivate(c.Context(), int64(id))
		}
		if err != nil {
			return errorJSON(c, err)
		}
	}
	return c.JSON(toProductResponse(p))
}

// Deactivate godoc
// @Summary      Retirar producto (rechaza movimientos nuevos)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de producto"
// @Success      200  {object}  dto.ProductResponse
// @Router       /api/products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	p, err := h.uc.Deactivate(c.Context(), int64(id))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toProductResponse(p))
}
