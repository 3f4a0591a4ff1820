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

var _ repository.SerialRepository = (*SerialRepo)(nil)

// SerialRepo adaptador de unidades serializadas (usable con pool o tx).
type SerialRepo struct {
	q Querier
}

// NewSerialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSerialRepository(q Querier) *SerialRepo {
	return &SerialRepo{q: q}
}

const serialColumns = `serial_number, product_id, variant_id, warehouse_id,
	last_warehouse_id, status, sale_ref, created_at, updated_at`

// Create persiste una unidad nueva.
func (r *SerialRepo) Create(ctx context.Context, u *entity.SerialUnit) error {
	query := `
		INSERT INTO serial_numbers (` + serialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		u.SerialNumber, u.Item.ProductID, u.Item.VariantID, u.WarehouseID,
		u.LastWarehouseID, u.Status, u.SaleRef, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("serial %q: %w", u.SerialNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("create serial: %w", err)
	}
	return nil
}

// Get obtiene una unidad por número de serie.
func (r *SerialRepo) Get(ctx context.Context, serialNumber string) (*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + ` FROM serial_numbers WHERE serial_number = $1`
	return r.getOne(ctx, query, serialNumber)
}

// GetForUpdate bloquea la unidad para una transición de estado.
func (r *SerialRepo) GetForUpdate(ctx context.Context, serialNumber string) (*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + ` FROM serial_numbers WHERE serial_number = $1 FOR UPDATE`
	return r.getOne(ctx, query, serialNumber)
}

func (r *SerialRepo) getOne(ctx context.Context, query string, arg any) (*entity.SerialUnit, error) {
	var u entity.SerialUnit
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.SerialNumber, &u.Item.ProductID, &u.Item.VariantID, &u.WarehouseID,
		&u.LastWarehouseID, &u.Status, &u.SaleRef, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get serial: %w", err)
	}
	return &u, nil
}

// Update actualiza estado y ubicación de una unidad.
func (r *SerialRepo) Update(ctx context.Context, u *entity.SerialUnit) error {
	query := `
		UPDATE serial_numbers
		SET warehouse_id = $2, last_warehouse_id = $3, status = $4, sale_ref = $5, updated_at = $6
		WHERE serial_number = $1`
	tag, err := r.q.Exec(ctx, query,
		u.SerialNumber, u.WarehouseID, u.LastWarehouseID, u.Status, u.SaleRef, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update serial: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("serial %q: %w", u.SerialNumber, domain.ErrNotFound)
	}
	return nil
}

// ListByItem unidades de un item con paginación.
func (r *SerialRepo) ListByItem(ctx context.Context, item entity.StockItem, limit, offset int) ([]*entity.SerialUnit, error) {
	query := `SELECT ` + serialColumns + `
		FROM serial_numbers
		WHERE product_id = $1 AND variant_id = $2
		ORDER BY serial_number
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, item.ProductID, item.VariantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list serials: %w", err)
	}
	defer rows.Close()
	var list []*entity.SerialUnit
	for rows.Next() {
		var u entity.SerialUnit
		if err := rows.Scan(&u.SerialNumber, &u.Item.ProductID, &u.Item.VariantID, &u.WarehouseID,
			&u.LastWarehouseID, &u.Status, &u.SaleRef, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan serial: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
