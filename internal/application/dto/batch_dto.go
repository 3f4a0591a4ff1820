package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID              string          `json:"id"`
	ProductID       int64           `json:"product_id"`
	VariantID       int64           `json:"variant_id"`
	WarehouseID     int64           `json:"warehouse_id"`
	BatchNumber     string          `json:"batch_number"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// RegisterSerialRequest alta de una unidad serializada en bodega.
type RegisterSerialRequest struct {
	SerialNumber string `json:"serial_number" validate:"required,min=1,max=100"`
	ProductID    int64  `json:"product_id" validate:"required,gt=0"`
	VariantID    int64  `json:"variant_id" validate:"min=0"`
	WarehouseID  int64  `json:"warehouse_id" validate:"required,gt=0"`
}

// SellSerialRequest venta de una unidad serializada.
type SellSerialRequest struct {
	SaleRef string `json:"sale_ref" validate:"required"`
}

// InspectSerialRequest resultado de inspección tras una devolución.
type InspectSerialRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=IN_STOCK DEFECTIVE"`
}

// SerialResponse salida de una unidad serializada.
type SerialResponse struct {
	SerialNumber    string    `json:"serial_number"`
	ProductID       int64     `json:"product_id"`
	VariantID       int64     `json:"variant_id"`
	WarehouseID     *int64    `json:"warehouse_id,omitempty"`
	Status          string    `json:"status"`
	SaleRef         *string   `json:"sale_ref,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}
