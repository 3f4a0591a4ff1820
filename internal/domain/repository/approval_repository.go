package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// ApprovalRepository define el puerto de persistencia para la compuerta de
// aprobaciones.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.PendingApproval) error
	GetByID(ctx context.Context, id string) (*entity.PendingApproval, error)
	// Decide transiciona PENDING -> toStatus de forma condicional (UPDATE ...
	// WHERE status = 'PENDING'). Devuelve false si otro decisor ganó la
	// carrera; eso garantiza que la acción subyacente se ejecute una sola vez.
	Decide(ctx context.Context, id, toStatus, approver, notes string, decidedAt time.Time) (bool, error)
	// SetStatus actualiza el estado sin condición (marcar FAILED tras ejecutar).
	SetStatus(ctx context.Context, id, status, notes string) error
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.PendingApproval, error)
}
