package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	// GetForUpdateByNumber bloquea el lote por (item, bodega, número).
	GetForUpdateByNumber(ctx context.Context, item entity.StockItem, warehouseID int64, batchNumber string) (*entity.Batch, error)
	GetForUpdateByID(ctx context.Context, id string) (*entity.Batch, error)
	// ListActiveForUpdate lotes ACTIVE de la clave bloqueados, en orden FIFO
	// (vencimiento más próximo primero, luego fecha de creación).
	ListActiveForUpdate(ctx context.Context, item entity.StockItem, warehouseID int64) ([]*entity.Batch, error)
	ListByItemWarehouse(ctx context.Context, item entity.StockItem, warehouseID int64) ([]*entity.Batch, error)
	Update(ctx context.Context, batch *entity.Batch) error
	// MarkExpired transiciona ACTIVE -> EXPIRED los lotes vencidos a la fecha.
	// Devuelve cuántos cambió.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}
