package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel es el nivel materializado por (item, bodega): caché sobre el
// ledger, reconstruible por replay completo. OnHand = Σ entradas − Σ salidas.
// Reserved nunca supera OnHand (salvo backorder explícito del producto).
type StockLevel struct {
	Item        StockItem
	WarehouseID int64
	OnHand      decimal.Decimal
	Reserved    decimal.Decimal
	Version     int64
	UpdatedAt   time.Time
}

// Available devuelve la cantidad vendible: OnHand - Reserved.
func (s *StockLevel) Available() decimal.Decimal {
	return s.OnHand.Sub(s.Reserved)
}
