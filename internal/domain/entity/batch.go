package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	BatchStatusActive   = "ACTIVE"
	BatchStatusExpired  = "EXPIRED"
	BatchStatusRecalled = "RECALLED"
	BatchStatusSoldOut  = "SOLD_OUT"
)

// Batch es un lote de un producto en una bodega. Quantity debe igualar el neto
// de los movimientos etiquetados con el lote; nunca es negativa.
type Batch struct {
	ID              string
	Item            StockItem
	WarehouseID     int64
	BatchNumber     string
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
	Quantity        decimal.Decimal
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsExpired indica si la fecha de vencimiento ya pasó.
func (b *Batch) IsExpired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}

// Drawable indica si el lote admite salidas (activo y con cantidad).
func (b *Batch) Drawable() bool {
	return b.Status == BatchStatusActive && b.Quantity.GreaterThan(decimal.Zero)
}

// ApplyNet suma el neto de un movimiento y actualiza el estado:
// SOLD_OUT al llegar a cero, ACTIVE al volver a ser positivo desde SOLD_OUT.
func (b *Batch) ApplyNet(net decimal.Decimal, now time.Time) {
	b.Quantity = b.Quantity.Add(net)
	if b.Quantity.IsZero() {
		b.Status = BatchStatusSoldOut
	} else if b.Status == BatchStatusSoldOut && b.Quantity.GreaterThan(decimal.Zero) {
		b.Status = BatchStatusActive
	}
	b.UpdatedAt = now
}
