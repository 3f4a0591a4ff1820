package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.ApprovalRepository = (*ApprovalRepo)(nil)

// ApprovalRepo adaptador de la compuerta de aprobaciones (usable con pool o tx).
type ApprovalRepo struct {
	q Querier
}

// NewApprovalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewApprovalRepository(q Querier) *ApprovalRepo {
	return &ApprovalRepo{q: q}
}

const approvalColumns = `id, action_type, payload, requested_by, status, approver, notes, created_at, decided_at`

// Create encola una aprobación PENDING.
func (r *ApprovalRepo) Create(ctx context.Context, a *entity.PendingApproval) error {
	query := `
		INSERT INTO pending_approvals (` + approvalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ActionType, a.Payload, a.RequestedBy, a.Status, a.Approver, a.Notes, a.CreatedAt, a.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("create approval: %w", err)
	}
	return nil
}

// GetByID obtiene una aprobación por ID.
func (r *ApprovalRepo) GetByID(ctx context.Context, id string) (*entity.PendingApproval, error) {
	query := `SELECT ` + approvalColumns + ` FROM pending_approvals WHERE id = $1`
	a, err := scanApproval(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval: %w", err)
	}
	return a, nil
}

// Decide transiciona PENDING -> toStatus con UPDATE condicional. Devuelve false
// si otro decisor ganó la carrera (cero filas afectadas).
func (r *ApprovalRepo) Decide(ctx context.Context, id, toStatus, approver, notes string, decidedAt time.Time) (bool, error) {
	query := `
		UPDATE pending_approvals
		SET status = $2, approver = $3, notes = $4, decided_at = $5
		WHERE id = $1 AND status = 'PENDING'`
	tag, err := r.q.Exec(ctx, query, id, toStatus, approver, notes, decidedAt)
	if err != nil {
		return false, fmt.Errorf("decide approval: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// SetStatus actualiza el estado sin condición (marcar FAILED tras ejecutar).
func (r *ApprovalRepo) SetStatus(ctx context.Context, id, status, notes string) error {
	query := `UPDATE pending_approvals SET status = $2, notes = $3 WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id, status, notes)
	if err != nil {
		return fmt.Errorf("set approval status: %w", err)
	}
	return nil
}

// ListByStatus lista aprobaciones por estado.
func (r *ApprovalRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.PendingApproval, error) {
	query := `SELECT ` + approvalColumns + `
		FROM pending_approvals
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()
	var list []*entity.PendingApproval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanApproval(row pgx.Row) (*entity.PendingApproval, error) {
	var a entity.PendingApproval
	err := row.Scan(
		&a.ID, &a.ActionType, &a.Payload, &a.RequestedBy, &a.Status,
		&a.Approver, &a.Notes, &a.CreatedAt, &a.DecidedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
