package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ForecastResponse snapshot de pronóstico para un (item, bodega).
type ForecastResponse struct {
	ProductID         int64           `json:"product_id"`
	VariantID         int64           `json:"variant_id"`
	WarehouseID       int64           `json:"warehouse_id"`
	PeriodStart       time.Time       `json:"period_start"`
	HorizonDays       int             `json:"horizon_days"`
	AvgDailyDemand    decimal.Decimal `json:"avg_daily_demand"`
	ForecastedDemand  decimal.Decimal `json:"forecasted_demand"`
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"`
	Confidence        decimal.Decimal `json:"confidence"`
	AlertFlag         bool            `json:"alert_flag"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// ForecastRunResponse resultado de una corrida del pronosticador.
type ForecastRunResponse struct {
	KeysProcessed  int `json:"keys_processed"`
	BatchesExpired int `json:"batches_expired"`
}
