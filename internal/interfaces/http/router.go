package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-core/internal/application/approval"
	"github.com/jhoicas/Inventario-core/internal/application/forecast"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/application/transfer"
	"github.com/jhoicas/Inventario-core/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	AppendUC    *inventory.AppendMovementUseCase
	ReserveUC   *inventory.ReservationUseCase
	RebuildUC   *inventory.RebuildUseCase
	QueryUC     *inventory.StockQueryUseCase
	SerialUC    *inventory.SerialUseCase
	TransferUC  *transfer.UseCase
	ForecastUC  *forecast.UseCase
	ApprovalUC  *approval.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el API exige Bearer Token; las
// operaciones que mutan saldos o deciden aprobaciones exigen además rol.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole("admin", "manager", "operator")
	managers := RequireRole("admin", "manager")

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", managers, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", managers, warehouseHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", managers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", managers, productHandler.Update)
	products.Post("/:id/deactivate", managers, productHandler.Deactivate)

	// Inventory: ledger, niveles y reservas (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AppendUC, deps.ReserveUC, deps.RebuildUC, deps.QueryUC)
	invGroup.Post("/movements", staff, inventoryHandler.AppendMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/stock", inventoryHandler.GetStockLevel)
	invGroup.Get("/stock/warehouse/:id", inventoryHandler.ListStockByWarehouse)
	invGroup.Get("/batches", inventoryHandler.ListBatches)
	invGroup.Post("/reservations", staff, inventoryHandler.Reserve)
	invGroup.Post("/reservations/release", staff, inventoryHandler.Release)
	invGroup.Post("/stock/rebuild", managers, inventoryHandler.Rebuild)

	// Serialized units (protegido)
	serials := protected.Group("/serials")
	serialHandler := NewSerialHandler(deps.SerialUC)
	serials.Post("/", staff, serialHandler.Register)
	serials.Get("/:sn", serialHandler.Get)
	serials.Post("/:sn/sell", staff, serialHandler.Sell)
	serials.Post("/:sn/return", staff, serialHandler.Return)
	serials.Post("/:sn/inspect", staff, serialHandler.Inspect)
	serials.Post("/:sn/warranty", staff, serialHandler.Warranty)

	// Transfers (protegido)
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", staff, transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/approve", managers, transferHandler.Approve)
	transfers.Post("/:id/ship", staff, transferHandler.Ship)
	transfers.Post("/:id/receive", staff, transferHandler.Receive)
	transfers.Post("/:id/write-off", managers, transferHandler.WriteOff)
	transfers.Post("/:id/cancel", staff, transferHandler.Cancel)

	// Forecasts (protegido)
	forecasts := protected.Group("/forecasts")
	forecastHandler := NewForecastHandler(deps.ForecastUC)
	forecasts.Post("/run", managers, forecastHandler.Run)
	forecasts.Get("/warehouse/:id", forecastHandler.ListByWarehouse)
	forecasts.Get("/alerts", forecastHandler.ListAlerts)

	// Approvals (protegido)
	approvals := protected.Group("/approvals")
	approvalHandler := NewApprovalHandler(deps.ApprovalUC)
	approvals.Post("/", staff, approvalHandler.Submit)
	approvals.Get("/", approvalHandler.List)
	approvals.Get("/:id", approvalHandler.GetByID)
	approvals.Post("/:id/decide", managers, approvalHandler.Decide)
}
