package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SubmitApprovalRequest body para POST /api/approvals.
type SubmitApprovalRequest struct {
	ActionType string          `json:"action_type" validate:"required,oneof=ADJUSTMENT BATCH_WRITEOFF"`
	Payload    json.RawMessage `json:"payload" validate:"required"`
}

// DecideApprovalRequest body para POST /api/approvals/:id/decide.
type DecideApprovalRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// ApprovalResponse salida de una aprobación.
type ApprovalResponse struct {
	ID          string          `json:"id"`
	ActionType  string          `json:"action_type"`
	Payload     json.RawMessage `json:"payload"`
	RequestedBy string          `json:"requested_by"`
	Status      string          `json:"status"`
	Approver    *string         `json:"approver,omitempty"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
	DecidedAt   *time.Time      `json:"decided_at,omitempty"`
}

// AdjustmentPayload payload de una acción ADJUSTMENT propuesta: delta de
// cantidad con código de razón. Se materializa como movimiento ADJUSTMENT al
// aprobarse.
type AdjustmentPayload struct {
	ProductID   int64           `json:"product_id" validate:"required,gt=0"`
	VariantID   int64           `json:"variant_id" validate:"min=0"`
	WarehouseID int64           `json:"warehouse_id" validate:"required,gt=0"`
	Delta       decimal.Decimal `json:"delta"`
	ReasonCode  string          `json:"reason_code" validate:"required"`
	BatchNumber string          `json:"batch_number,omitempty"`
}

// BatchWriteoffPayload payload de una baja de lote (vencido/retirado): genera
// un movimiento DAMAGE etiquetado con el lote al aprobarse.
type BatchWriteoffPayload struct {
	BatchID    string          `json:"batch_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	ReasonCode string          `json:"reason_code" validate:"required"`
}
