package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el append al ledger y la
// actualización del agregado sean una unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
		batchRepo repository.BatchRepository,
	) error) error
}

// SerialTxRunner transacción acotada a unidades serializadas.
type SerialTxRunner interface {
	RunSerial(ctx context.Context, fn func(serialRepo repository.SerialRepository) error) error
}
