package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// RebuildUseCase reconstruye un nivel materializado por replay completo del
// ledger. Operación de mantenimiento exclusiva por clave: toma el mismo
// bloqueo de fila que los appends, así que no corre concurrente con ellos.
type RebuildUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
}

// NewRebuildUseCase construye el caso de uso.
func NewRebuildUseCase(txRunner TxRunner, log zerolog.Logger) *RebuildUseCase {
	return &RebuildUseCase{txRunner: txRunner, log: log}
}

// RebuildResult resultado del replay.
type RebuildResult struct {
	Level          *entity.StockLevel
	DriftDetected  bool
	PreviousOnHand decimal.Decimal
}

// Rebuild reproduce Σ entradas − Σ salidas para la clave y sobreescribe la
// caché. Si detecta deriva la corrige y la deja en el log de auditoría
// (operador, no usuario final); el ledger siempre gana.
func (uc *RebuildUseCase) Rebuild(ctx context.Context, item entity.StockItem, warehouseID int64) (*RebuildResult, error) {
	var res RebuildResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
		_ repository.BatchRepository,
	) error {
		level, err := stockRepo.GetForUpdate(ctx, item, warehouseID)
		if err != nil {
			return err
		}
		replayed, err := movRepo.SumNet(ctx, item, warehouseID)
		if err != nil {
			return err
		}

		res.PreviousOnHand = level.OnHand
		if !level.OnHand.Equal(replayed) {
			res.DriftDetected = true
			uc.log.Error().
				Err(domain.ErrConsistencyDrift).
				Int64("product_id", item.ProductID).
				Int64("variant_id", item.VariantID).
				Int64("warehouse_id", warehouseID).
				Str("cached_on_hand", level.OnHand.String()).
				Str("replayed_on_hand", replayed.String()).
				Msg("deriva de consistencia detectada; la caché se corrige con el ledger")
		}

		level.OnHand = replayed
		if level.Reserved.GreaterThan(level.OnHand) {
			level.Reserved = decimal.Max(level.OnHand, decimal.Zero)
		}
		level.Version++
		level.UpdatedAt = time.Now()
		if err := stockRepo.Upsert(ctx, level); err != nil {
			return err
		}
		res.Level = level
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
