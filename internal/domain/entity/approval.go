package entity

import "time"

// Estados de una aprobación pendiente.
const (
	ApprovalStatusPending  = "PENDING"
	ApprovalStatusApproved = "APPROVED"
	ApprovalStatusRejected = "REJECTED"
	ApprovalStatusFailed   = "FAILED" // aprobado pero la acción subyacente falló
)

// Tipos de acción que pasan por la compuerta de aprobación.
const (
	ApprovalActionAdjustment    = "ADJUSTMENT"
	ApprovalActionBatchWriteoff = "BATCH_WRITEOFF"
)

// PendingApproval es una acción propuesta que requiere segunda autorización
// antes de producir efectos en el ledger. Payload es el JSON de la acción.
type PendingApproval struct {
	ID          string
	ActionType  string
	Payload     []byte
	RequestedBy string
	Status      string
	Approver    *string
	Notes       string
	CreatedAt   time.Time
	DecidedAt   *time.Time
}
