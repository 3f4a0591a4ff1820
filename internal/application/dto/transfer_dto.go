package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	FromWarehouseID int64                 `json:"from_warehouse_id" validate:"required,gt=0"`
	ToWarehouseID   int64                 `json:"to_warehouse_id" validate:"required,gt=0"`
	Notes           string                `json:"notes"`
	Lines           []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// TransferLineRequest línea solicitada del traslado.
type TransferLineRequest struct {
	ProductID   int64           `json:"product_id" validate:"required,gt=0"`
	VariantID   int64           `json:"variant_id" validate:"min=0"`
	BatchID     *string         `json:"batch_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// TransferQuantityRequest cantidades por línea para ship/receive/write-off.
type TransferQuantityRequest struct {
	Lines []TransferQuantityLine `json:"lines" validate:"required,min=1,dive"`
}

// TransferQuantityLine cantidad aplicada a una línea existente.
type TransferQuantityLine struct {
	LineID   string          `json:"line_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

// DecideTransferRequest body para aprobar (approved_by se toma del token).
type DecideTransferRequest struct {
	Notes string `json:"notes"`
}

// TransferLineResponse línea del traslado.
type TransferLineResponse struct {
	ID                 string          `json:"id"`
	ProductID          int64           `json:"product_id"`
	VariantID          int64           `json:"variant_id"`
	BatchID            *string         `json:"batch_id,omitempty"`
	QuantityRequested  decimal.Decimal `json:"quantity_requested"`
	QuantityShipped    decimal.Decimal `json:"quantity_shipped"`
	QuantityReceived   decimal.Decimal `json:"quantity_received"`
	QuantityWrittenOff decimal.Decimal `json:"quantity_written_off"`
}

// TransferResponse cabecera + líneas.
type TransferResponse struct {
	ID              string                 `json:"id"`
	FromWarehouseID int64                  `json:"from_warehouse_id"`
	ToWarehouseID   int64                  `json:"to_warehouse_id"`
	Status          string                 `json:"status"`
	RequestedBy     string                 `json:"requested_by"`
	ApprovedBy      *string                `json:"approved_by,omitempty"`
	FlaggedForAudit bool                   `json:"flagged_for_audit"`
	Notes           string                 `json:"notes"`
	Lines           []TransferLineResponse `json:"lines"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// TransferLineError falla de una línea en una operación multi-línea.
type TransferLineError struct {
	LineID  string `json:"line_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TransferLinesErrorResponse agrega las fallas por línea (la operación fue
// todo-o-nada: ninguna línea se aplicó).
type TransferLinesErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Lines   []TransferLineError `json:"lines"`
}
