package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product guarda los atributos de política que el motor consume del catálogo
// (el catálogo maestro es un colaborador externo): flags de seguimiento,
// backorder y parámetros de reposición.
type Product struct {
	ID             int64
	SKU            string
	Name           string
	TrackBatches   bool
	TrackSerials   bool
	AllowBackorder bool
	ReorderPoint   decimal.Decimal
	OptimalLevel   decimal.Decimal
	LeadTimeDays   int
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
