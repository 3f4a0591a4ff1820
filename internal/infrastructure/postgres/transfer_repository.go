package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo adaptador de traslados (usable con pool o tx).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, from_warehouse_id, to_warehouse_id, status, requested_by,
	approved_by, flagged_for_audit, notes, created_at, updated_at`

// Create persiste el traslado con sus líneas.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO stock_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.FromWarehouseID, t.ToWarehouseID, t.Status, t.RequestedBy,
		t.ApprovedBy, t.FlaggedForAudit, t.Notes, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	lineQuery := `
		INSERT INTO stock_transfer_items (id, transfer_id, product_id, variant_id, batch_id,
			quantity_requested, quantity_shipped, quantity_received, quantity_written_off)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range t.Lines {
		l := &t.Lines[i]
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.TransferID, l.Item.ProductID, l.Item.VariantID, l.BatchID,
			l.QuantityRequested, l.QuantityShipped, l.QuantityReceived, l.QuantityWrittenOff,
		)
		if err != nil {
			return fmt.Errorf("create transfer line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene el traslado con sus líneas.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate bloquea la cabecera y carga las líneas para una transición.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.get(ctx, id, true)
}

func (r *TransferRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + ` FROM stock_transfers WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	if err := r.loadLines(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TransferRepo) loadLines(ctx context.Context, t *entity.Transfer) error {
	query := `
		SELECT id, transfer_id, product_id, variant_id, batch_id,
			quantity_requested, quantity_shipped, quantity_received, quantity_written_off
		FROM stock_transfer_items
		WHERE transfer_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, t.ID)
	if err != nil {
		return fmt.Errorf("load transfer lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.Item.ProductID, &l.Item.VariantID, &l.BatchID,
			&l.QuantityRequested, &l.QuantityShipped, &l.QuantityReceived, &l.QuantityWrittenOff); err != nil {
			return fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return rows.Err()
}

// UpdateHeader actualiza estado y metadata de la cabecera.
func (r *TransferRepo) UpdateHeader(ctx context.Context, t *entity.Transfer) error {
	query := `
		UPDATE stock_transfers
		SET status = $2, approved_by = $3, flagged_for_audit = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, t.ID, t.Status, t.ApprovedBy, t.FlaggedForAudit, t.Notes, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("traslado %s: %w", t.ID, domain.ErrNotFound)
	}
	return nil
}

// UpdateLine actualiza las cantidades de una línea.
func (r *TransferRepo) UpdateLine(ctx context.Context, l *entity.TransferLine) error {
	query := `
		UPDATE stock_transfer_items
		SET quantity_shipped = $2, quantity_received = $3, quantity_written_off = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, l.ID, l.QuantityShipped, l.QuantityReceived, l.QuantityWrittenOff)
	if err != nil {
		return fmt.Errorf("update transfer line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("línea %s: %w", l.ID, domain.ErrNotFound)
	}
	return nil
}

// ListByStatus lista traslados (con líneas) por estado.
func (r *TransferRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Transfer, error) {
	query := `SELECT ` + transferColumns + `
		FROM stock_transfers
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, t := range list {
		if err := r.loadLines(ctx, t); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(
		&t.ID, &t.FromWarehouseID, &t.ToWarehouseID, &t.Status, &t.RequestedBy,
		&t.ApprovedBy, &t.FlaggedForAudit, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
