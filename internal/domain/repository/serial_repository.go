package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// SerialRepository define el puerto de persistencia para unidades serializadas.
type SerialRepository interface {
	Create(ctx context.Context, unit *entity.SerialUnit) error
	Get(ctx context.Context, serialNumber string) (*entity.SerialUnit, error)
	// GetForUpdate bloquea la unidad para una transición de estado.
	GetForUpdate(ctx context.Context, serialNumber string) (*entity.SerialUnit, error)
	Update(ctx context.Context, unit *entity.SerialUnit) error
	ListByItem(ctx context.Context, item entity.StockItem, limit, offset int) ([]*entity.SerialUnit, error)
}
