package transfer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/event"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// TxRunner transacción con los repositorios que toca un traslado. El Ship y el
// Receive confirman todas sus líneas o ninguna.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
		batchRepo repository.BatchRepository,
		transferRepo repository.TransferRepository,
	) error) error
}

// LineFailure falla de una línea en una operación multi-línea.
type LineFailure struct {
	LineID string
	Err    error
}

// LinesError agrega las fallas por línea. La operación fue todo-o-nada:
// ninguna línea quedó aplicada.
type LinesError struct {
	Lines []LineFailure
}

func (e *LinesError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("línea %s: %v", l.LineID, l.Err))
	}
	return "líneas con error: " + strings.Join(parts, "; ")
}

// UseCase coordina el traslado en dos fases entre bodegas:
// PENDING -> APPROVED -> IN_TRANSIT -> RECEIVED, con cancelación solo
// pre-embarque. La salida en origen y la entrada en destino se confirman en
// transacciones separadas porque la mercancía viaja entre ambas; durante esa
// ventana el stock embarcado no es vendible en ninguna bodega.
type UseCase struct {
	txRunner      TxRunner
	transferRepo  repository.TransferRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	appendUC      *inventory.AppendMovementUseCase
	publisher     event.Publisher
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	appendUC *inventory.AppendMovementUseCase,
	publisher event.Publisher,
) *UseCase {
	return &UseCase{
		txRunner:      txRunner,
		transferRepo:  transferRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		appendUC:      appendUC,
		publisher:     publisher,
	}
}

// LineInput línea solicitada al crear el traslado.
type LineInput struct {
	Item     entity.StockItem
	BatchID  *string
	Quantity decimal.Decimal
}

// QuantityInput cantidad aplicada a una línea existente (ship/receive/write-off).
type QuantityInput struct {
	LineID   string
	Quantity decimal.Decimal
}

// Create registra el traslado en PENDING con sus líneas.
func (uc *UseCase) Create(ctx context.Context, fromWarehouseID, toWarehouseID int64, notes, requestedBy string, lines []LineInput) (*entity.Transfer, error) {
	if fromWarehouseID == toWarehouseID {
		return nil, fmt.Errorf("bodega origen y destino iguales: %w", domain.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("el traslado requiere al menos una línea: %w", domain.ErrInvalidInput)
	}
	for _, wid := range []int64{fromWarehouseID, toWarehouseID} {
		wh, err := uc.warehouseRepo.GetByID(ctx, wid)
		if err != nil {
			return nil, err
		}
		if wh == nil || !wh.Active {
			return nil, fmt.Errorf("bodega %d: %w", wid, domain.ErrNotFound)
		}
	}

	now := time.Now()
	transfer := &entity.Transfer{
		ID:              uuid.New().String(),
		FromWarehouseID: fromWarehouseID,
		ToWarehouseID:   toWarehouseID,
		Status:          entity.TransferStatusPending,
		RequestedBy:     requestedBy,
		Notes:           notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, l := range lines {
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("cantidad solicitada debe ser positiva: %w", domain.ErrInvalidInput)
		}
		product, err := uc.productRepo.GetByID(ctx, l.Item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.Active {
			return nil, fmt.Errorf("producto %d: %w", l.Item.ProductID, domain.ErrNotFound)
		}
		transfer.Lines = append(transfer.Lines, entity.TransferLine{
			ID:                uuid.New().String(),
			TransferID:        transfer.ID,
			Item:              l.Item,
			BatchID:           l.BatchID,
			QuantityRequested: l.Quantity,
		})
	}

	if err := uc.transferRepo.Create(ctx, transfer); err != nil {
		return nil, err
	}
	uc.publisher.Publish(event.TransferStateChanged{
		TransferID: transfer.ID,
		From:       "",
		To:         entity.TransferStatusPending,
		ChangedBy:  requestedBy,
		OccurredAt: now,
	})
	return transfer, nil
}

// Approve transiciona PENDING -> APPROVED. Si el aprobador es quien solicitó,
// la segregación de funciones no se cumple: se aprueba pero queda marcado para
// auditoría.
func (uc *UseCase) Approve(ctx context.Context, transferID, approver string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := uc.txRunner.RunTransfer(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockLevelRepository,
		_ repository.BatchRepository,
		transferRepo repository.TransferRepository,
	) error {
		transfer, err := uc.locked(ctx, transferRepo, transferID)
		if err != nil {
			return err
		}
		if transfer.Status != entity.TransferStatusPending {
			return fmt.Errorf("aprobar traslado en estado %s: %w", transfer.Status, domain.ErrInvalidState)
		}
		transfer.Status = entity.TransferStatusApproved
		transfer.ApprovedBy = &approver
		transfer.FlaggedForAudit = approver == transfer.RequestedBy
		transfer.UpdatedAt = time.Now()
		if err := transferRepo.UpdateHeader(ctx, transfer); err != nil {
			return err
		}
		out = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.Publish(event.TransferStateChanged{
		TransferID: transferID,
		From:       entity.TransferStatusPending,
		To:         entity.TransferStatusApproved,
		ChangedBy:  approver,
		OccurredAt: out.UpdatedAt,
	})
	return out, nil
}

// Ship embarca cantidades: APPROVED -> IN_TRANSIT. Por cada línea genera un
// TRANSFER_OUT en origen (etiquetado con lote si aplica). Todo-o-nada: si
// alguna línea no tiene stock disponible, ninguna se aplica y el error agrega
// las fallas por línea.
func (uc *UseCase) Ship(ctx context.Context, transferID, shippedBy string, inputs []QuantityInput) (*entity.Transfer, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("ship sin líneas: %w", domain.ErrInvalidInput)
	}
	var (
		out    *entity.Transfer
		events []any
	)
	err := uc.txRunner.RunTransfer(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
		batchRepo repository.BatchRepository,
		transferRepo repository.TransferRepository,
	) error {
		transfer, err := uc.locked(ctx, transferRepo, transferID)
		if err != nil {
			return err
		}
		if transfer.Status != entity.TransferStatusApproved {
			return fmt.Errorf("embarcar traslado en estado %s: %w", transfer.Status, domain.ErrInvalidState)
		}

		byID := lineIndex(transfer)

		// Primera pasada: validar cuotas y disponibilidad con las filas ya
		// bloqueadas, agregando las fallas por línea. El disponible se consume
		// acumulado por clave: varias líneas del mismo ítem comparten el mismo
		// nivel en origen.
		var failures []LineFailure
		remaining := make(map[entity.StockItem]decimal.Decimal)
		for _, in := range inputs {
			line, ok := byID[in.LineID]
			if !ok {
				failures = append(failures, LineFailure{LineID: in.LineID, Err: domain.ErrNotFound})
				continue
			}
			if !in.Quantity.GreaterThan(decimal.Zero) {
				failures = append(failures, LineFailure{LineID: in.LineID, Err: domain.ErrInvalidInput})
				continue
			}
			if in.Quantity.GreaterThan(line.QuantityRequested.Sub(line.QuantityShipped)) {
				failures = append(failures, LineFailure{LineID: in.LineID,
					Err: fmt.Errorf("embarcaría %s sobre %s solicitadas: %w",
						line.QuantityShipped.Add(in.Quantity), line.QuantityRequested, domain.ErrInvalidInput)})
				continue
			}
			available, seen := remaining[line.Item]
			if !seen {
				level, err := stockRepo.GetForUpdate(ctx, line.Item, transfer.FromWarehouseID)
				if err != nil {
					return err
				}
				available = level.Available()
			}
			if in.Quantity.GreaterThan(available) {
				failures = append(failures, LineFailure{LineID: in.LineID,
					Err: fmt.Errorf("disponible %s, se embarcan %s: %w",
						available, in.Quantity, domain.ErrInsufficientStock)})
				remaining[line.Item] = available
				continue
			}
			remaining[line.Item] = available.Sub(in.Quantity)
		}
		if len(failures) > 0 {
			return &LinesError{Lines: failures}
		}

		for _, in := range inputs {
			line := byID[in.LineID]
			appendInput, err := uc.movementInput(ctx, batchRepo, line, transfer.FromWarehouseID,
				entity.MovementTypeTRANSFEROUT, decimal.Zero, in.Quantity, transfer.ID, shippedBy)
			if err != nil {
				return err
			}
			product, err := uc.productRepo.GetByID(ctx, line.Item.ProductID)
			if err != nil {
				return err
			}
			_, evts, err := uc.appendUC.AppendInTx(ctx, movRepo, stockRepo, batchRepo, product, appendInput)
			if err != nil {
				return fmt.Errorf("línea %s: %w", line.ID, err)
			}
			events = append(events, evts...)
			line.QuantityShipped = line.QuantityShipped.Add(in.Quantity)
			if err := transferRepo.UpdateLine(ctx, line); err != nil {
				return err
			}
		}

		transfer.Status = entity.TransferStatusInTransit
		transfer.UpdatedAt = time.Now()
		if err := transferRepo.UpdateHeader(ctx, transfer); err != nil {
			return err
		}
		out = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	events = append(events, event.TransferStateChanged{
		TransferID: transferID,
		From:       entity.TransferStatusApproved,
		To:         entity.TransferStatusInTransit,
		ChangedBy:  shippedBy,
		OccurredAt: out.UpdatedAt,
	})
	for _, e := range events {
		uc.publisher.Publish(e)
	}
	return out, nil
}

// Receive confirma entradas en destino. Admite recepción parcial: el traslado
// solo pasa a RECEIVED cuando cada línea queda saldada (recibido + baja
// explícita == embarcado); si no, sigue IN_TRANSIT esperando el resto.
func (uc *UseCase) Receive(ctx context.Context, transferID, receivedBy string, inputs []QuantityInput) (*entity.Transfer, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("receive sin líneas: %w", domain.ErrInvalidInput)
	}
	var (
		out      *entity.Transfer
		events   []any
		received bool
	)
	err := uc.txRunner.RunTransfer(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
		batchRepo repository.BatchRepository,
		transferRepo repository.TransferRepository,
	) error {
		transfer, err := uc.locked(ctx, transferRepo, transferID)
		if err != nil {
			return err
		}
		if transfer.Status != entity.TransferStatusInTransit {
			return fmt.Errorf("recibir traslado en estado %s: %w", transfer.Status, domain.ErrInvalidState)
		}

		byID := lineIndex(transfer)

		var failures []LineFailure
		for _, in := range inputs {
			line, ok := byID[in.LineID]
			if !ok {
				failures = append(failures, LineFailure{LineID: in.LineID, Err: domain.ErrNotFound})
				continue
			}
			if !in.Quantity.GreaterThan(decimal.Zero) {
				failures = append(failures, LineFailure{LineID: in.LineID, Err: domain.ErrInvalidInput})
				continue
			}
			if in.Quantity.GreaterThan(line.Outstanding()) {
				failures = append(failures, LineFailure{LineID: in.LineID,
					Err: fmt.Errorf("recibiría %s con %s pendientes: %w",
						in.Quantity, line.Outstanding(), domain.ErrInvalidInput)})
			}
		}
		if len(failures) > 0 {
			return &LinesError{Lines: failures}
		}

		for _, in := range inputs {
			line := byID[in.LineID]
			appendInput, err := uc.movementInput(ctx, batchRepo, line, transfer.ToWarehouseID,
				entity.MovementTypeTRANSFERIN, in.Quantity, decimal.Zero, transfer.ID, receivedBy)
			if err != nil {
				return err
			}
			product, err := uc.productRepo.GetByID(ctx, line.Item.ProductID)
			if err != nil {
				return err
			}
			_, evts, err := uc.appendUC.AppendInTx(ctx, movRepo, stockRepo, batchRepo, product, appendInput)
			if err != nil {
				return fmt.Errorf("línea %s: %w", line.ID, err)
			}
			events = append(events, evts...)
			line.QuantityReceived = line.QuantityReceived.Add(in.Quantity)
			if err := transferRepo.UpdateLine(ctx, line); err != nil {
				return err
			}
		}

		transfer.UpdatedAt = time.Now()
		if transfer.AllLinesAccounted() {
			transfer.Status = entity.TransferStatusReceived
			received = true
		}
		if err := transferRepo.UpdateHeader(ctx, transfer); err != nil {
			return err
		}
		out = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	if received {
		events = append(events, event.TransferStateChanged{
			TransferID: transferID,
			From:       entity.TransferStatusInTransit,
			To:         entity.TransferStatusReceived,
			ChangedBy:  receivedBy,
			OccurredAt: out.UpdatedAt,
		})
	}
	for _, e := range events {
		uc.publisher.Publish(e)
	}
	return out, nil
}

// WriteOffLoss registra una baja explícita por pérdida en tránsito: cierra la
// brecha embarcado/recibido de la línea sin movimiento en destino (el stock ya
// salió de origen y nunca llegó). Si con la baja todas las líneas quedan
// saldadas, el traslado pasa a RECEIVED.
func (uc *UseCase) WriteOffLoss(ctx context.Context, transferID, lineID, writtenOffBy string, qty decimal.Decimal) (*entity.Transfer, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("cantidad de baja debe ser positiva: %w", domain.ErrInvalidInput)
	}
	var (
		out      *entity.Transfer
		received bool
	)
	err := uc.txRunner.RunTransfer(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockLevelRepository,
		_ repository.BatchRepository,
		transferRepo repository.TransferRepository,
	) error {
		transfer, err := uc.locked(ctx, transferRepo, transferID)
		if err != nil {
			return err
		}
		if transfer.Status != entity.TransferStatusInTransit {
			return fmt.Errorf("dar de baja en traslado %s: %w", transfer.Status, domain.ErrInvalidState)
		}
		line, ok := lineIndex(transfer)[lineID]
		if !ok {
			return fmt.Errorf("línea %s: %w", lineID, domain.ErrNotFound)
		}
		if qty.GreaterThan(line.Outstanding()) {
			return fmt.Errorf("baja de %s con %s pendientes: %w", qty, line.Outstanding(), domain.ErrInvalidInput)
		}
		line.QuantityWrittenOff = line.QuantityWrittenOff.Add(qty)
		if err := transferRepo.UpdateLine(ctx, line); err != nil {
			return err
		}
		transfer.UpdatedAt = time.Now()
		if transfer.AllLinesAccounted() {
			transfer.Status = entity.TransferStatusReceived
			received = true
		}
		if err := transferRepo.UpdateHeader(ctx, transfer); err != nil {
			return err
		}
		out = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	if received {
		uc.publisher.Publish(event.TransferStateChanged{
			TransferID: transferID,
			From:       entity.TransferStatusInTransit,
			To:         entity.TransferStatusReceived,
			ChangedBy:  writtenOffBy,
			OccurredAt: out.UpdatedAt,
		})
	}
	return out, nil
}

// Cancel solo es válido pre-embarque (PENDING/APPROVED). Con mercancía en
// tránsito el único camino es recibir y devolver.
func (uc *UseCase) Cancel(ctx context.Context, transferID, cancelledBy string) (*entity.Transfer, error) {
	var (
		out  *entity.Transfer
		from string
	)
	err := uc.txRunner.RunTransfer(ctx, func(
		_ repository.MovementRepository,
		_ repository.StockLevelRepository,
		_ repository.BatchRepository,
		transferRepo repository.TransferRepository,
	) error {
		transfer, err := uc.locked(ctx, transferRepo, transferID)
		if err != nil {
			return err
		}
		if !transfer.CanCancel() {
			return fmt.Errorf("cancelar traslado en estado %s: %w", transfer.Status, domain.ErrInvalidState)
		}
		from = transfer.Status
		transfer.Status = entity.TransferStatusCancelled
		transfer.UpdatedAt = time.Now()
		if err := transferRepo.UpdateHeader(ctx, transfer); err != nil {
			return err
		}
		out = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.publisher.Publish(event.TransferStateChanged{
		TransferID: transferID,
		From:       from,
		To:         entity.TransferStatusCancelled,
		ChangedBy:  cancelledBy,
		OccurredAt: out.UpdatedAt,
	})
	return out, nil
}

// Get devuelve el traslado con líneas.
func (uc *UseCase) Get(ctx context.Context, transferID string) (*entity.Transfer, error) {
	transfer, err := uc.transferRepo.GetByID(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("traslado %s: %w", transferID, domain.ErrNotFound)
	}
	return transfer, nil
}

// ListByStatus lista traslados por estado.
func (uc *UseCase) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Transfer, error) {
	return uc.transferRepo.ListByStatus(ctx, status, limit, offset)
}

func (uc *UseCase) locked(ctx context.Context, transferRepo repository.TransferRepository, transferID string) (*entity.Transfer, error) {
	transfer, err := transferRepo.GetForUpdate(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, fmt.Errorf("traslado %s: %w", transferID, domain.ErrNotFound)
	}
	return transfer, nil
}

// movementInput arma el AppendInput de una línea; si la línea referencia un
// lote, resuelve su número para el tracker.
func (uc *UseCase) movementInput(
	ctx context.Context,
	batchRepo repository.BatchRepository,
	line *entity.TransferLine,
	warehouseID int64,
	movType string,
	qtyIn, qtyOut decimal.Decimal,
	transferID, createdBy string,
) (inventory.AppendInput, error) {
	input := inventory.AppendInput{
		Item:          line.Item,
		WarehouseID:   warehouseID,
		Type:          movType,
		QuantityIn:    qtyIn,
		QuantityOut:   qtyOut,
		ReferenceType: "stock_transfer",
		ReferenceID:   transferID,
		CreatedBy:     createdBy,
	}
	if line.BatchID != nil {
		batch, err := batchRepo.GetByID(ctx, *line.BatchID)
		if err != nil {
			return input, err
		}
		if batch == nil {
			return input, fmt.Errorf("lote %s: %w", *line.BatchID, domain.ErrNotFound)
		}
		input.BatchNumber = batch.BatchNumber
		input.ManufactureDate = batch.ManufactureDate
		input.ExpiryDate = batch.ExpiryDate
	}
	return input, nil
}

func lineIndex(t *entity.Transfer) map[string]*entity.TransferLine {
	byID := make(map[string]*entity.TransferLine, len(t.Lines))
	for i := range t.Lines {
		byID[t.Lines[i].ID] = &t.Lines[i]
	}
	return byID
}
