package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo adaptador del agregado materializado (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// Get obtiene el nivel de una clave; sin fila devuelve un nivel en cero.
func (r *StockLevelRepo) Get(ctx context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error) {
	return r.get(ctx, item, warehouseID, false)
}

// GetForUpdate obtiene el nivel y bloquea la fila (SELECT FOR UPDATE). Si la
// clave aún no tiene fila, la materializa en cero antes de bloquear: sin fila
// no hay nada que bloquear y dos primeros movimientos concurrentes de la misma
// clave se pisarían el upsert el uno al otro.
func (r *StockLevelRepo) GetForUpdate(ctx context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error) {
	seed := `
		INSERT INTO inventory_stock (product_id, variant_id, warehouse_id, on_hand, reserved, version, updated_at)
		VALUES ($1, $2, $3, 0, 0, 0, now())
		ON CONFLICT (product_id, variant_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, seed, item.ProductID, item.VariantID, warehouseID); err != nil {
		return nil, fmt.Errorf("seed stock level: %w", err)
	}
	return r.get(ctx, item, warehouseID, true)
}

func (r *StockLevelRepo) get(ctx context.Context, item entity.StockItem, warehouseID int64, forUpdate bool) (*entity.StockLevel, error) {
	query := `
		SELECT product_id, variant_id, warehouse_id, on_hand, reserved, version, updated_at
		FROM inventory_stock
		WHERE product_id = $1 AND variant_id = $2 AND warehouse_id = $3`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var s entity.StockLevel
	err := r.q.QueryRow(ctx, query, item.ProductID, item.VariantID, warehouseID).Scan(
		&s.Item.ProductID, &s.Item.VariantID, &s.WarehouseID,
		&s.OnHand, &s.Reserved, &s.Version, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockLevel{
				Item:        item,
				WarehouseID: warehouseID,
				OnHand:      decimal.Zero,
				Reserved:    decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("get stock level: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el nivel (por clave). El guard de versión rechaza
// escrituras calculadas sobre estado viejo: toda escritura debe venir de un
// GetForUpdate con la versión incrementada.
func (r *StockLevelRepo) Upsert(ctx context.Context, level *entity.StockLevel) error {
	query := `
		INSERT INTO inventory_stock (product_id, variant_id, warehouse_id, on_hand, reserved, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (product_id, variant_id, warehouse_id)
		DO UPDATE SET on_hand = EXCLUDED.on_hand, reserved = EXCLUDED.reserved,
		              version = EXCLUDED.version, updated_at = now()
		WHERE inventory_stock.version < EXCLUDED.version`
	tag, err := r.q.Exec(ctx, query,
		level.Item.ProductID, level.Item.VariantID, level.WarehouseID,
		level.OnHand, level.Reserved, level.Version,
	)
	if err != nil {
		return fmt.Errorf("upsert stock level: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("nivel %d/%d en bodega %d con versión %d: %w",
			level.Item.ProductID, level.Item.VariantID, level.WarehouseID,
			level.Version, domain.ErrConcurrencyConflict)
	}
	return nil
}

// MarkApplied registra el movimiento en el conjunto de aplicados. Devuelve
// false si ya estaba (ON CONFLICT DO NOTHING no inserta fila).
func (r *StockLevelRepo) MarkApplied(ctx context.Context, movementID string) (bool, error) {
	query := `
		INSERT INTO stock_applied_movements (movement_id)
		VALUES ($1)
		ON CONFLICT (movement_id) DO NOTHING`
	tag, err := r.q.Exec(ctx, query, movementID)
	if err != nil {
		return false, fmt.Errorf("mark applied: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListByWarehouse niveles de una bodega con paginación.
func (r *StockLevelRepo) ListByWarehouse(ctx context.Context, warehouseID int64, limit, offset int) ([]*entity.StockLevel, error) {
	query := `
		SELECT product_id, variant_id, warehouse_id, on_hand, reserved, version, updated_at
		FROM inventory_stock
		WHERE warehouse_id = $1
		ORDER BY product_id, variant_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.Item.ProductID, &s.Item.VariantID, &s.WarehouseID,
			&s.OnHand, &s.Reserved, &s.Version, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
