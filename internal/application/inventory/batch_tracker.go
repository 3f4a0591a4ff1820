package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/event"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
	"github.com/jhoicas/Inventario-core/pkg/config"
)

// BatchTracker mantiene las cantidades de lote en sincronía con el ledger.
// Opera siempre dentro de la transacción del movimiento que lo origina, con
// los lotes bloqueados (SELECT FOR UPDATE).
type BatchTracker struct {
	policy string // config.BatchPolicyStrict | config.BatchPolicyFIFO
}

// NewBatchTracker construye el tracker con la política de selección de lote.
func NewBatchTracker(policy string) *BatchTracker {
	if policy == "" {
		policy = config.BatchPolicyStrict
	}
	return &BatchTracker{policy: policy}
}

// BatchDraw una extracción/depósito aplicado a un lote concreto.
type BatchDraw struct {
	Batch    *entity.Batch
	Quantity decimal.Decimal // positivo = entrada al lote, negativo = salida
	Created  bool            // el lote fue creado por este movimiento
}

// Deposit acredita una entrada al lote (PURCHASE, TRANSFER_IN, RETURN).
// Si el lote no existe para (item, bodega, número), lo crea ACTIVE con la
// metadata recibida.
func (t *BatchTracker) Deposit(
	ctx context.Context,
	batchRepo repository.BatchRepository,
	item entity.StockItem,
	warehouseID int64,
	batchNumber string,
	manufactureDate, expiryDate *time.Time,
	quantity decimal.Decimal,
	now time.Time,
) (BatchDraw, error) {
	batch, err := batchRepo.GetForUpdateByNumber(ctx, item, warehouseID, batchNumber)
	if err != nil {
		return BatchDraw{}, err
	}
	if batch == nil {
		batch = &entity.Batch{
			ID:              uuid.New().String(),
			Item:            item,
			WarehouseID:     warehouseID,
			BatchNumber:     batchNumber,
			ManufactureDate: manufactureDate,
			ExpiryDate:      expiryDate,
			Quantity:        quantity,
			Status:          entity.BatchStatusActive,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := batchRepo.Create(ctx, batch); err != nil {
			return BatchDraw{}, err
		}
		return BatchDraw{Batch: batch, Quantity: quantity, Created: true}, nil
	}
	batch.ApplyNet(quantity, now)
	if err := batchRepo.Update(ctx, batch); err != nil {
		return BatchDraw{}, err
	}
	return BatchDraw{Batch: batch, Quantity: quantity}, nil
}

// Withdraw debita una salida contra el lote indicado. Si el lote no alcanza:
// con política strict falla con ErrBatchDepleted; con fifo derrama el resto a
// los demás lotes ACTIVE en orden FIFO (vencimiento más próximo primero).
// Devuelve una extracción por lote tocado, para que el caller genere un
// movimiento etiquetado por cada una y la cantidad del lote siga igualando el
// neto de sus movimientos.
func (t *BatchTracker) Withdraw(
	ctx context.Context,
	batchRepo repository.BatchRepository,
	item entity.StockItem,
	warehouseID int64,
	batchNumber string,
	quantity decimal.Decimal,
	now time.Time,
) ([]BatchDraw, error) {
	named, err := batchRepo.GetForUpdateByNumber(ctx, item, warehouseID, batchNumber)
	if err != nil {
		return nil, err
	}
	if named == nil {
		return nil, fmt.Errorf("lote %q: %w", batchNumber, domain.ErrNotFound)
	}

	if named.Quantity.GreaterThanOrEqual(quantity) {
		named.ApplyNet(quantity.Neg(), now)
		if err := batchRepo.Update(ctx, named); err != nil {
			return nil, err
		}
		return []BatchDraw{{Batch: named, Quantity: quantity.Neg()}}, nil
	}

	if t.policy == config.BatchPolicyStrict {
		return nil, fmt.Errorf("lote %q tiene %s, se requieren %s: %w",
			named.BatchNumber, named.Quantity, quantity, domain.ErrBatchDepleted)
	}

	// fifo: agotar el lote indicado y derramar el resto
	draws := make([]BatchDraw, 0, 2)
	remaining := quantity
	if named.Quantity.GreaterThan(decimal.Zero) {
		take := named.Quantity
		named.ApplyNet(take.Neg(), now)
		if err := batchRepo.Update(ctx, named); err != nil {
			return nil, err
		}
		draws = append(draws, BatchDraw{Batch: named, Quantity: take.Neg()})
		remaining = remaining.Sub(take)
	}

	others, err := batchRepo.ListActiveForUpdate(ctx, item, warehouseID)
	if err != nil {
		return nil, err
	}
	for _, b := range others {
		if remaining.IsZero() {
			break
		}
		if b.ID == named.ID || !b.Drawable() {
			continue
		}
		take := decimal.Min(b.Quantity, remaining)
		b.ApplyNet(take.Neg(), now)
		if err := batchRepo.Update(ctx, b); err != nil {
			return nil, err
		}
		draws = append(draws, BatchDraw{Batch: b, Quantity: take.Neg()})
		remaining = remaining.Sub(take)
	}
	if remaining.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("faltan %s tras agotar lotes activos: %w", remaining, domain.ErrBatchDepleted)
	}
	return draws, nil
}

// DepletedEvents devuelve los eventos BatchDepleted de las extracciones que
// dejaron un lote en cero.
func DepletedEvents(draws []BatchDraw, now time.Time) []any {
	var events []any
	for _, d := range draws {
		if d.Batch.Status == entity.BatchStatusSoldOut {
			events = append(events, event.BatchDepleted{
				BatchID:     d.Batch.ID,
				BatchNumber: d.Batch.BatchNumber,
				Item:        d.Batch.Item,
				WarehouseID: d.Batch.WarehouseID,
				OccurredAt:  now,
			})
		}
	}
	return events
}
