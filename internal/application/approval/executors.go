package approval

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/application/dto"
	"github.com/jhoicas/Inventario-core/internal/application/inventory"
	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// AdjustmentExecutor materializa un ADJUSTMENT aprobado como movimiento en el
// ledger (nunca como edición del agregado).
type AdjustmentExecutor struct {
	appendUC *inventory.AppendMovementUseCase
}

// NewAdjustmentExecutor construye el ejecutor.
func NewAdjustmentExecutor(appendUC *inventory.AppendMovementUseCase) *AdjustmentExecutor {
	return &AdjustmentExecutor{appendUC: appendUC}
}

func (e *AdjustmentExecutor) Validate(payload json.RawMessage) error {
	var p dto.AdjustmentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("payload de ajuste malformado: %w", domain.ErrInvalidInput)
	}
	if err := dto.Validate(p); err != nil {
		return err
	}
	if p.Delta.IsZero() {
		return fmt.Errorf("delta de ajuste en cero: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (e *AdjustmentExecutor) Execute(ctx context.Context, payload json.RawMessage, approvedBy string) error {
	var p dto.AdjustmentPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("payload de ajuste malformado: %w", domain.ErrInvalidInput)
	}
	input := inventory.AppendInput{
		Item:          entity.StockItem{ProductID: p.ProductID, VariantID: p.VariantID},
		WarehouseID:   p.WarehouseID,
		Type:          entity.MovementTypeADJUSTMENT,
		BatchNumber:   p.BatchNumber,
		ReferenceType: "approval",
		ReferenceID:   p.ReasonCode,
		CreatedBy:     approvedBy,
	}
	if p.Delta.GreaterThan(decimal.Zero) {
		input.QuantityIn = p.Delta
	} else {
		input.QuantityOut = p.Delta.Neg()
	}
	_, err := e.appendUC.Append(ctx, input)
	return err
}

// BatchWriteoffExecutor materializa la baja de un lote (vencido o retirado)
// como movimiento DAMAGE etiquetado con el lote.
type BatchWriteoffExecutor struct {
	appendUC  *inventory.AppendMovementUseCase
	batchRepo repository.BatchRepository
}

// NewBatchWriteoffExecutor construye el ejecutor.
func NewBatchWriteoffExecutor(appendUC *inventory.AppendMovementUseCase, batchRepo repository.BatchRepository) *BatchWriteoffExecutor {
	return &BatchWriteoffExecutor{appendUC: appendUC, batchRepo: batchRepo}
}

func (e *BatchWriteoffExecutor) Validate(payload json.RawMessage) error {
	var p dto.BatchWriteoffPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("payload de baja de lote malformado: %w", domain.ErrInvalidInput)
	}
	if err := dto.Validate(p); err != nil {
		return err
	}
	if !p.Quantity.GreaterThan(decimal.Zero) {
		return fmt.Errorf("cantidad de baja debe ser positiva: %w", domain.ErrInvalidInput)
	}
	return nil
}

func (e *BatchWriteoffExecutor) Execute(ctx context.Context, payload json.RawMessage, approvedBy string) error {
	var p dto.BatchWriteoffPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("payload de baja de lote malformado: %w", domain.ErrInvalidInput)
	}
	batch, err := e.batchRepo.GetByID(ctx, p.BatchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return fmt.Errorf("lote %s: %w", p.BatchID, domain.ErrNotFound)
	}
	_, err = e.appendUC.Append(ctx, inventory.AppendInput{
		Item:          batch.Item,
		WarehouseID:   batch.WarehouseID,
		Type:          entity.MovementTypeDAMAGE,
		QuantityOut:   p.Quantity,
		BatchNumber:   batch.BatchNumber,
		ReferenceType: "approval",
		ReferenceID:   p.ReasonCode,
		CreatedBy:     approvedBy,
	})
	return err
}
