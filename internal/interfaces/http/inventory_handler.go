package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// InventoryHandler maneja el ledger, los niveles y las reservas (protegido).
type InventoryHandler struct {
	appendUC  *inventory.AppendMovementUseCase
	reserveUC *inventory.ReservationUseCase
	rebuildUC *inventory.RebuildUseCase
	queryUC   *inventory.StockQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	appendUC *inventory.AppendMovementUseCase,
	reserveUC *inventory.ReservationUseCase,
	rebuildUC *inventory.RebuildUseCase,
	queryUC *inventory.StockQueryUseCase,
) *InventoryHandler {
	return &InventoryHandler{appendUC: appendUC, reserveUC: reserveUC, rebuildUC: rebuildUC, queryUC: queryUC}
}

// AppendMovement godoc
// @Summary      Registrar movimiento en el ledger
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendMovementRequest  true  "exactamente una de quantity_in/quantity_out positiva"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) AppendMovement(c *fiber.Ctx) error {
	var in dto.AppendMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	recs, err := h.appendUC.Append(c.Context(), inventory.AppendInput{
		Item:            entity.StockItem{ProductID: in.ProductID, VariantID: in.VariantID},
		WarehouseID:     in.WarehouseID,
		Type:            in.Type,
		QuantityIn:      in.QuantityIn,
		QuantityOut:     in.QuantityOut,
		BatchNumber:     in.BatchNumber,
		ManufactureDate: in.ManufactureDate,
		ExpiryDate:      in.ExpiryDate,
		ReferenceType:   in.ReferenceType,
		ReferenceID:     in.ReferenceID,
		UnitCost:        in.UnitCost,
		CreatedBy:       GetUserID(c),
		ReleaseReserved: in.ReleaseReserved,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, toMovementResponse(r))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Historial del ledger para un (item, bodega)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  int     true   "ID de producto"
// @Param        variant_id    query  int     false  "ID de variante (0 = sin variante)"
// @Param        warehouse_id  query  int     true   "ID de bodega"
// @Param        from          query  string  false  "RFC3339"
// @Param        to            query  string  false  "RFC3339"
// @Param        cursor        query  string  false  "cursor opaco de la página anterior"
// @Param        limit         query  int     false  "máx 500, default 100"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	item, warehouseID, err := itemKeyFromQuery(c)
	if err != nil {
		return errorJSON(c, err)
	}
	from, err := timeQuery(c, "from")
	if err != nil {
		return errorJSON(c, err)
	}
	to, err := timeQuery(c, "to")
	if err != nil {
		return errorJSON(c, err)
	}
	recs, next, err := h.queryUC.ListMovements(c.Context(), item, warehouseID, from, to,
		c.Query("cursor"), c.QueryInt("limit"))
	if err != nil {
		return errorJSON(c, err)
	}
	out := dto.MovementListResponse{NextCursor: next, Items: make([]dto.MovementResponse, 0, len(recs))}
	for _, r := range recs {
		out.Items = append(out.Items, toMovementResponse(r))
	}
	return c.JSON(out)
}

// GetStockLevel godoc
// @Summary      Nivel materializado de un (item, bodega)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  int  true   "ID de producto"
// @Param        variant_id    query  int  false  "ID de variante"
// @Param        warehouse_id  query  int  true   "ID de bodega"
// @Success      200  {object}  dto.StockLevelResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStockLevel(c *fiber.Ctx) error {
	item, warehouseID, err := itemKeyFromQuery(c)
	if err != nil {
		return errorJSON(c, err)
	}
	level, err := h.queryUC.GetLevel(c.Context(), item, warehouseID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(toStockLevelResponse(level))
}

// ListStockByWarehouse godoc
// @Summary      Niveles de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true   "ID de bodega"
// @Param        limit   query  int  false  "default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.StockLevelResponse
// @Router       /api/inventory/stock/warehouse/{id} [get]
func (h *InventoryHandler) ListStockByWarehouse(c *fiber.Ctx) error {
	warehouseID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	page := pageFromQuery(c)
	levels, err := h.queryUC.ListLevelsByWarehouse(c.Context(), int64(warehouseID), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, toStockLevelResponse(l))
	}
	return c.JSON(out)
}

// ListBatches godoc
// @Summary      Lotes de un (item, bodega)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  int  true   "ID de producto"
// @Param        variant_id    query  int  false  "ID de variante"
// @Param        warehouse_id  query  int  true   "ID de bodega"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	item, warehouseID, err := itemKeyFromQuery(c)
	if err != nil {
		return errorJSON(c, err)
	}
	batches, err := h.queryUC.ListBatches(c.Context(), item, warehouseID)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return c.JSON(out)
}

// Reserve godoc
// @Summary      Apartar cantidad para un pedido
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/reservations [post]
func (h *InventoryHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	item := entity.StockItem{ProductID: in.ProductID, VariantID: in.VariantID}
	if err := h.reserveUC.Reserve(c.Context(), item, in.WarehouseID, in.Quantity); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Release godoc
// @Summary      Liberar cantidad reservada
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Success      204
// @Router       /api/inventory/reservations/release [post]
func (h *InventoryHandler) Release(c *fiber.Ctx) error {
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	item := entity.StockItem{ProductID: in.ProductID, VariantID: in.VariantID}
	if err := h.reserveUC.Release(c.Context(), item, in.WarehouseID, in.Quantity); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Rebuild godoc
// @Summary      Reconstruir el nivel desde el ledger (mantenimiento)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.RebuildResponse
// @Router       /api/inventory/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	var in dto.RebuildRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return errorJSON(c, err)
	}
	item := entity.StockItem{ProductID: in.ProductID, VariantID: in.VariantID}
	res, err := h.rebuildUC.Rebuild(c.Context(), item, in.WarehouseID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.RebuildResponse{
		Level:          toStockLevelResponse(res.Level),
		DriftDetected:  res.DriftDetected,
		PreviousOnHand: res.PreviousOnHand,
	})
}

// itemKeyFromQuery parsea (product_id, variant_id, warehouse_id) de la query.
func itemKeyFromQuery(c *fiber.Ctx) (entity.StockItem, int64, error) {
	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return entity.StockItem{}, 0, errBadQuery("product_id")
	}
	var variantID int64
	if v := c.Query("variant_id"); v != "" {
		variantID, err = strconv.ParseInt(v, 10, 64)
		if err != nil || variantID < 0 {
			return entity.StockItem{}, 0, errBadQuery("variant_id")
		}
	}
	warehouseID, err := strconv.ParseInt(c.Query("warehouse_id"), 10, 64)
	if err != nil || warehouseID <= 0 {
		return entity.StockItem{}, 0, errBadQuery("warehouse_id")
	}
	return entity.StockItem{ProductID: productID, VariantID: variantID}, warehouseID, nil
}

func timeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	v := c.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, errBadQuery(name)
	}
	return &t, nil
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()
	return page
}
