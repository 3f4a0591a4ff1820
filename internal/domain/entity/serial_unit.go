package entity

import "time"

// Estados de una unidad serializada.
const (
	SerialStatusInStock   = "IN_STOCK"
	SerialStatusSold      = "SOLD"
	SerialStatusReturned  = "RETURNED"
	SerialStatusDefective = "DEFECTIVE"
	SerialStatusWarranty  = "WARRANTY"
)

// SerialUnit es un ítem físico con identidad propia. WarehouseID es nil una vez
// vendido; LastWarehouseID conserva la bodega previa para restaurarla en
// devoluciones.
type SerialUnit struct {
	SerialNumber    string
	Item            StockItem
	WarehouseID     *int64
	LastWarehouseID *int64
	Status          string
	SaleRef         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
