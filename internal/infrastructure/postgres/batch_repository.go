package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo adaptador de lotes (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, product_id, variant_id, warehouse_id, batch_number,
	manufacture_date, expiry_date, quantity, status, created_at, updated_at`

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `
		INSERT INTO product_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Item.ProductID, b.Item.VariantID, b.WarehouseID, b.BatchNumber,
		b.ManufactureDate, b.ExpiryDate, b.Quantity, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lote %q: %w", b.BatchNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM product_batches WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetForUpdateByNumber bloquea el lote por (item, bodega, número).
func (r *BatchRepo) GetForUpdateByNumber(ctx context.Context, item entity.StockItem, warehouseID int64, batchNumber string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM product_batches
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3 AND batch_number = $4
		FOR UPDATE`
	return r.getOne(ctx, query, item.ProductID, item.VariantID, warehouseID, batchNumber)
}

// GetForUpdateByID bloquea el lote por ID.
func (r *BatchRepo) GetForUpdateByID(ctx context.Context, id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM product_batches WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *BatchRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListActiveForUpdate lotes ACTIVE de la clave bloqueados, en orden FIFO:
// vencimiento más próximo primero (NULL al final), luego fecha de creación.
func (r *BatchRepo) ListActiveForUpdate(ctx context.Context, item entity.StockItem, warehouseID int64) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM product_batches
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3 AND status = 'ACTIVE'
		ORDER BY expiry_date NULLS LAST, created_at
		FOR UPDATE`
	return r.list(ctx, query, item.ProductID, item.VariantID, warehouseID)
}

// ListByItemWarehouse lotes de una clave (todos los estados).
func (r *BatchRepo) ListByItemWarehouse(ctx context.Context, item entity.StockItem, warehouseID int64) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM product_batches
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3
		ORDER BY expiry_date NULLS LAST, created_at`
	return r.list(ctx, query, item.ProductID, item.VariantID, warehouseID)
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Update actualiza cantidad y estado de un lote.
func (r *BatchRepo) Update(ctx context.Context, b *entity.Batch) error {
	query := `
		UPDATE product_batches
		SET quantity = $2, status = $3, manufacture_date = $4, expiry_date = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.Quantity, b.Status, b.ManufactureDate, b.ExpiryDate, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", b.ID, domain.ErrNotFound)
	}
	return nil
}

// MarkExpired transiciona ACTIVE -> EXPIRED los lotes ya vencidos.
func (r *BatchRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE product_batches
		SET status = 'EXPIRED', updated_at = $1
		WHERE status = 'ACTIVE' AND expiry_date IS NOT NULL AND expiry_date < $1`
	tag, err := r.q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("mark expired: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.Item.ProductID, &b.Item.VariantID, &b.WarehouseID, &b.BatchNumber,
		&b.ManufactureDate, &b.ExpiryDate, &b.Quantity, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
