package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo adaptador del ledger sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: el ledger no se actualiza ni se borra.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, product_id, variant_id, warehouse_id, type, quantity_in, quantity_out,
	batch_id, reference_type, reference_id, unit_cost, created_by, created_at`

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementRecord) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Item.ProductID, m.Item.VariantID, m.WarehouseID, m.Type,
		m.QuantityIn, m.QuantityOut, m.BatchID, m.ReferenceType, m.ReferenceID,
		m.UnitCost, createdBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByItemWarehouse lista el ledger de una clave ordenado por creación, desde
// el cursor (exclusivo).
func (r *MovementRepo) ListByItemWarehouse(
	ctx context.Context,
	item entity.StockItem,
	warehouseID int64,
	from, to *time.Time,
	after *repository.MovementCursor,
	limit int,
) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3`
	args := []any{item.ProductID, item.VariantID, warehouseID}
	pos := 4
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	if after != nil {
		query += fmt.Sprintf(" AND (created_at, id) > ($%d, $%d)", pos, pos+1)
		args = append(args, after.CreatedAt, after.ID)
		pos += 2
	}
	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d", pos)
	args = append(args, limit)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// SumNet replay completo de la clave: Σ quantity_in − Σ quantity_out.
func (r *MovementRepo) SumNet(ctx context.Context, item entity.StockItem, warehouseID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_in - quantity_out), 0)
		FROM inventory_movements
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3`
	var net decimal.Decimal
	if err := r.q.QueryRow(ctx, query, item.ProductID, item.VariantID, warehouseID).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("sum net: %w", err)
	}
	return net, nil
}

// DailyDemand agrega las salidas por día para los tipos dados.
func (r *MovementRepo) DailyDemand(
	ctx context.Context,
	item entity.StockItem,
	warehouseID int64,
	types []string,
	from, to time.Time,
) ([]repository.DailyDemandBucket, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day, SUM(quantity_out)
		FROM inventory_movements
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3
		  AND type = ANY($4)
		  AND created_at >= $5 AND created_at < $6
		GROUP BY day
		ORDER BY day`
	rows, err := r.q.Query(ctx, query, item.ProductID, item.VariantID, warehouseID, types, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily demand: %w", err)
	}
	defer rows.Close()
	var buckets []repository.DailyDemandBucket
	for rows.Next() {
		var b repository.DailyDemandBucket
		if err := rows.Scan(&b.Day, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan daily demand: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// KeysWithMovementSince claves (item, bodega) con actividad en la ventana.
func (r *MovementRepo) KeysWithMovementSince(ctx context.Context, since time.Time) ([]repository.StockKey, error) {
	query := `
		SELECT DISTINCT product_id, variant_id, warehouse_id
		FROM inventory_movements
		WHERE created_at >= $1`
	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("keys with movement: %w", err)
	}
	defer rows.Close()
	var keys []repository.StockKey
	for rows.Next() {
		var k repository.StockKey
		if err := rows.Scan(&k.Item.ProductID, &k.Item.VariantID, &k.WarehouseID); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	var createdBy *string
	err := row.Scan(
		&m.ID, &m.Item.ProductID, &m.Item.VariantID, &m.WarehouseID, &m.Type,
		&m.QuantityIn, &m.QuantityOut, &m.BatchID, &m.ReferenceType, &m.ReferenceID,
		&m.UnitCost, &createdBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
