package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// TransferRepository define el puerto de persistencia para traslados.
type TransferRepository interface {
	// Create persiste el traslado con sus líneas.
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetForUpdate bloquea la cabecera (y carga líneas) para una transición.
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateHeader(ctx context.Context, transfer *entity.Transfer) error
	UpdateLine(ctx context.Context, line *entity.TransferLine) error
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Transfer, error)
}
