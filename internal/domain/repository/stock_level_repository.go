package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// StockLevelRepository define el puerto para el agregado materializado.
// Usado dentro de transacciones para garantizar consistencia con el ledger.
type StockLevelRepository interface {
	Get(ctx context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para lectura-modificación.
	GetForUpdate(ctx context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error)
	Upsert(ctx context.Context, level *entity.StockLevel) error
	// MarkApplied registra el movimiento en el conjunto de aplicados.
	// Devuelve false si ya estaba aplicado (el caller debe tratar la
	// aplicación como no-op).
	MarkApplied(ctx context.Context, movementID string) (bool, error)
	ListByWarehouse(ctx context.Context, warehouseID int64, limit, offset int) ([]*entity.StockLevel, error)
}
