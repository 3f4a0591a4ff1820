package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastRecord es un snapshot analítico derivado del historial de ventas.
// Se recalcula periódicamente; nunca se edita a mano.
type ForecastRecord struct {
	ID                string
	Item              StockItem
	WarehouseID       int64
	PeriodStart       time.Time
	HorizonDays       int
	AvgDailyDemand    decimal.Decimal
	ForecastedDemand  decimal.Decimal
	SuggestedOrderQty decimal.Decimal
	Confidence        decimal.Decimal
	AlertFlag         bool
	GeneratedAt       time.Time
}
