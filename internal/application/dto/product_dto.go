package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest registra los atributos de política de un producto del
// catálogo externo que el motor necesita conocer.
type CreateProductRequest struct {
	SKU            string          `json:"sku" validate:"required,min=1,max=100"`
	Name           string          `json:"name" validate:"required,min=1,max=300"`
	TrackBatches   bool            `json:"track_batches"`
	TrackSerials   bool            `json:"track_serials"`
	AllowBackorder bool            `json:"allow_backorder"`
	ReorderPoint   decimal.Decimal `json:"reorder_point"`
	OptimalLevel   decimal.Decimal `json:"optimal_level"`
	LeadTimeDays   int             `json:"lead_time_days" validate:"min=0"`
}

// UpdateProductRequest actualización parcial de política.
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=300"`
	TrackBatches   *bool            `json:"track_batches"`
	TrackSerials   *bool            `json:"track_serials"`
	AllowBackorder *bool            `json:"allow_backorder"`
	ReorderPoint   *decimal.Decimal `json:"reorder_point"`
	OptimalLevel   *decimal.Decimal `json:"optimal_level"`
	LeadTimeDays   *int             `json:"lead_time_days" validate:"omitempty,min=0"`
	Active         *bool            `json:"active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             int64           `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	TrackBatches   bool            `json:"track_batches"`
	TrackSerials   bool            `json:"track_serials"`
	AllowBackorder bool            `json:"allow_backorder"`
	ReorderPoint   decimal.Decimal `json:"reorder_point"`
	OptimalLevel   decimal.Decimal `json:"optimal_level"`
	LeadTimeDays   int             `json:"lead_time_days"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
