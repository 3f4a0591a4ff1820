package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppendMovementRequest body para POST /api/inventory/movements.
// Exactamente una de quantity_in/quantity_out debe ser positiva.
type AppendMovementRequest struct {
	ProductID       int64            `json:"product_id" validate:"required,gt=0"`
	VariantID       int64            `json:"variant_id" validate:"min=0"`
	WarehouseID     int64            `json:"warehouse_id" validate:"required,gt=0"`
	Type            string           `json:"type" validate:"required"`
	QuantityIn      decimal.Decimal  `json:"quantity_in"`
	QuantityOut     decimal.Decimal  `json:"quantity_out"`
	BatchNumber     string           `json:"batch_number,omitempty"`
	ManufactureDate *time.Time       `json:"manufacture_date,omitempty"`
	ExpiryDate      *time.Time       `json:"expiry_date,omitempty"`
	ReferenceType   string           `json:"reference_type"`
	ReferenceID     string           `json:"reference_id"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	// ReleaseReserved cantidad de reserva consumida por esta salida (ventas).
	ReleaseReserved decimal.Decimal `json:"release_reserved"`
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID            string           `json:"id"`
	ProductID     int64            `json:"product_id"`
	VariantID     int64            `json:"variant_id"`
	WarehouseID   int64            `json:"warehouse_id"`
	Type          string           `json:"type"`
	QuantityIn    decimal.Decimal  `json:"quantity_in"`
	QuantityOut   decimal.Decimal  `json:"quantity_out"`
	BatchID       *string          `json:"batch_id,omitempty"`
	ReferenceType string           `json:"reference_type"`
	ReferenceID   string           `json:"reference_id"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	CreatedBy     string           `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
}

// MovementListResponse página de movimientos con cursor de continuación.
type MovementListResponse struct {
	Items      []MovementResponse `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// StockLevelResponse nivel materializado de un (item, bodega).
type StockLevelResponse struct {
	ProductID   int64           `json:"product_id"`
	VariantID   int64           `json:"variant_id"`
	WarehouseID int64           `json:"warehouse_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	Reserved    decimal.Decimal `json:"reserved"`
	Available   decimal.Decimal `json:"available"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ReserveRequest body para crear/liberar reservas.
type ReserveRequest struct {
	ProductID   int64           `json:"product_id" validate:"required,gt=0"`
	VariantID   int64           `json:"variant_id" validate:"min=0"`
	WarehouseID int64           `json:"warehouse_id" validate:"required,gt=0"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// RebuildRequest body para reconstruir el nivel desde el ledger.
type RebuildRequest struct {
	ProductID   int64 `json:"product_id" validate:"required,gt=0"`
	VariantID   int64 `json:"variant_id" validate:"min=0"`
	WarehouseID int64 `json:"warehouse_id" validate:"required,gt=0"`
}

// RebuildResponse resultado del replay.
type RebuildResponse struct {
	Level          StockLevelResponse `json:"level"`
	DriftDetected  bool               `json:"drift_detected"`
	PreviousOnHand decimal.Decimal    `json:"previous_on_hand"`
}
