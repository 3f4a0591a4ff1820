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
)

// AppendMovementUseCase registra hechos en el ledger y actualiza el agregado
// materializado en la misma transacción, con bloqueo de fila sobre
// inventory_stock (SELECT FOR UPDATE). El ledger es append-only: no existe
// ningún camino de mutación o borrado de movimientos.
type AppendMovementUseCase struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	tracker       *BatchTracker
	publisher     event.Publisher
}

// NewAppendMovementUseCase construye el caso de uso.
func NewAppendMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	tracker *BatchTracker,
	publisher event.Publisher,
) *AppendMovementUseCase {
	return &AppendMovementUseCase{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		tracker:       tracker,
		publisher:     publisher,
	}
}

// AppendInput entrada para registrar un movimiento. Exactamente una de
// QuantityIn/QuantityOut debe ser positiva.
type AppendInput struct {
	Item            entity.StockItem
	WarehouseID     int64
	Type            string
	QuantityIn      decimal.Decimal
	QuantityOut     decimal.Decimal
	BatchNumber     string
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
	ReferenceType   string
	ReferenceID     string
	UnitCost        *decimal.Decimal
	CreatedBy       string
	// ReleaseReserved cantidad de reserva que esta salida consume (ventas
	// que pasaron antes por Reserve).
	ReleaseReserved decimal.Decimal
}

func (in AppendInput) validate() error {
	if !entity.ValidMovementType(in.Type) {
		return fmt.Errorf("tipo de movimiento %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if in.QuantityIn.IsNegative() || in.QuantityOut.IsNegative() {
		return fmt.Errorf("cantidades negativas: %w", domain.ErrInvalidInput)
	}
	inPos := in.QuantityIn.GreaterThan(decimal.Zero)
	outPos := in.QuantityOut.GreaterThan(decimal.Zero)
	if inPos == outPos { // ambas o ninguna
		return fmt.Errorf("exactamente una de quantity_in/quantity_out debe ser positiva: %w", domain.ErrInvalidInput)
	}
	if in.ReleaseReserved.IsNegative() {
		return fmt.Errorf("release_reserved negativo: %w", domain.ErrInvalidInput)
	}
	return nil
}

// Append valida, inicia la transacción y aplica el movimiento. Devuelve los
// registros persistidos (más de uno solo cuando la política FIFO derrama una
// salida entre varios lotes). Tras el commit publica MovementAppended y los
// BatchDepleted que correspondan.
func (uc *AppendMovementUseCase) Append(ctx context.Context, input AppendInput) ([]*entity.MovementRecord, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, input.Item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, fmt.Errorf("producto %d: %w", input.Item.ProductID, domain.ErrNotFound)
	}
	warehouse, err := uc.warehouseRepo.GetByID(ctx, input.WarehouseID)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || !warehouse.Active {
		return nil, fmt.Errorf("bodega %d: %w", input.WarehouseID, domain.ErrNotFound)
	}

	var (
		recs   []*entity.MovementRecord
		events []any
	)
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
		batchRepo repository.BatchRepository,
	) error {
		recs, events, err = uc.AppendInTx(ctx, movRepo, stockRepo, batchRepo, product, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		uc.publisher.Publish(e)
	}
	return recs, nil
}

// AppendInTx aplica el movimiento usando los repositorios del caller (misma
// transacción). Lo usa también el flujo de traslados para que todas las líneas
// de un Ship/Receive se confirmen o reviertan juntas. Devuelve los registros
// y los eventos a publicar tras el commit.
func (uc *AppendMovementUseCase) AppendInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
	batchRepo repository.BatchRepository,
	product *entity.Product,
	input AppendInput,
) ([]*entity.MovementRecord, []any, error) {
	if err := input.validate(); err != nil {
		return nil, nil, err
	}
	now := time.Now()

	// Bloquea la fila del nivel: serializa los appends concurrentes de la clave.
	level, err := stockRepo.GetForUpdate(ctx, input.Item, input.WarehouseID)
	if err != nil {
		return nil, nil, err
	}

	delta := input.QuantityIn.Sub(input.QuantityOut)
	if delta.IsNegative() && level.OnHand.Add(delta).IsNegative() && !product.AllowBackorder {
		return nil, nil, fmt.Errorf("en bodega %d hay %s, se requieren %s: %w",
			input.WarehouseID, level.OnHand, input.QuantityOut, domain.ErrInsufficientStock)
	}

	if input.BatchNumber != "" && !product.TrackBatches {
		return nil, nil, fmt.Errorf("producto %d no maneja lotes: %w", product.ID, domain.ErrInvalidInput)
	}

	var draws []BatchDraw
	if input.BatchNumber != "" {
		if input.QuantityIn.GreaterThan(decimal.Zero) {
			d, err := uc.tracker.Deposit(ctx, batchRepo, input.Item, input.WarehouseID,
				input.BatchNumber, input.ManufactureDate, input.ExpiryDate, input.QuantityIn, now)
			if err != nil {
				return nil, nil, err
			}
			draws = []BatchDraw{d}
		} else {
			draws, err = uc.tracker.Withdraw(ctx, batchRepo, input.Item, input.WarehouseID,
				input.BatchNumber, input.QuantityOut, now)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	recs := buildMovements(input, draws, now)

	appliedDelta := decimal.Zero
	for _, rec := range recs {
		if err := movRepo.Create(ctx, rec); err != nil {
			return nil, nil, err
		}
		applied, err := stockRepo.MarkApplied(ctx, rec.ID)
		if err != nil {
			return nil, nil, err
		}
		// Aplicar dos veces el mismo movement_id es un no-op.
		if applied {
			appliedDelta = appliedDelta.Add(rec.Net())
		}
	}

	level.OnHand = level.OnHand.Add(appliedDelta)
	if input.ReleaseReserved.GreaterThan(decimal.Zero) {
		release := decimal.Min(input.ReleaseReserved, level.Reserved)
		level.Reserved = level.Reserved.Sub(release)
	}
	// Invariante reserved <= onHand (el backorder lo exime): una salida no
	// puede consumir reserva otorgada a otro pedido; esa cantidad se libera
	// primero (Release o ReleaseReserved de la propia salida).
	if level.Reserved.GreaterThan(level.OnHand) && !product.AllowBackorder {
		return nil, nil, fmt.Errorf("quedarían %s en bodega %d con %s reservadas: %w",
			level.OnHand, input.WarehouseID, level.Reserved, domain.ErrInsufficientStock)
	}
	level.Version++
	level.UpdatedAt = now
	if err := stockRepo.Upsert(ctx, level); err != nil {
		return nil, nil, err
	}

	events := DepletedEvents(draws, now)
	for _, rec := range recs {
		events = append(events, event.MovementAppended{
			MovementID:  rec.ID,
			Item:        rec.Item,
			WarehouseID: rec.WarehouseID,
			Type:        rec.Type,
			Net:         rec.Net(),
			OccurredAt:  rec.CreatedAt,
		})
	}
	return recs, events, nil
}

// buildMovements genera un registro por lote tocado, o uno simple sin lote.
func buildMovements(input AppendInput, draws []BatchDraw, now time.Time) []*entity.MovementRecord {
	base := entity.MovementRecord{
		Item:          input.Item,
		WarehouseID:   input.WarehouseID,
		Type:          input.Type,
		ReferenceType: input.ReferenceType,
		ReferenceID:   input.ReferenceID,
		UnitCost:      input.UnitCost,
		CreatedBy:     input.CreatedBy,
		CreatedAt:     now,
	}
	if len(draws) == 0 {
		rec := base
		rec.ID = uuid.New().String()
		rec.QuantityIn = input.QuantityIn
		rec.QuantityOut = input.QuantityOut
		return []*entity.MovementRecord{&rec}
	}
	recs := make([]*entity.MovementRecord, 0, len(draws))
	for _, d := range draws {
		rec := base
		rec.ID = uuid.New().String()
		batchID := d.Batch.ID
		rec.BatchID = &batchID
		if d.Quantity.IsNegative() {
			rec.QuantityOut = d.Quantity.Neg()
		} else {
			rec.QuantityIn = d.Quantity
		}
		recs = append(recs, &rec)
	}
	return recs
}
