package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// SerialUseCase máquina de estados por unidad serializada. Cada transición
// corre en transacción con la unidad bloqueada (SELECT FOR UPDATE).
type SerialUseCase struct {
	txRunner    SerialTxRunner
	serialRepo  repository.SerialRepository // atado al pool, para lecturas
	productRepo repository.ProductRepository
}

// NewSerialUseCase construye el caso de uso.
func NewSerialUseCase(txRunner SerialTxRunner, serialRepo repository.SerialRepository, productRepo repository.ProductRepository) *SerialUseCase {
	return &SerialUseCase{txRunner: txRunner, serialRepo: serialRepo, productRepo: productRepo}
}

// Get devuelve una unidad por número de serie.
func (uc *SerialUseCase) Get(ctx context.Context, serialNumber string) (*entity.SerialUnit, error) {
	unit, err := uc.serialRepo.Get(ctx, serialNumber)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmt.Errorf("serial %q: %w", serialNumber, domain.ErrNotFound)
	}
	return unit, nil
}

// ListByItem unidades de un item con paginación.
func (uc *SerialUseCase) ListByItem(ctx context.Context, item entity.StockItem, limit, offset int) ([]*entity.SerialUnit, error) {
	return uc.serialRepo.ListByItem(ctx, item, limit, offset)
}

// Register da de alta una unidad IN_STOCK en una bodega (recepción).
func (uc *SerialUseCase) Register(ctx context.Context, serialNumber string, item entity.StockItem, warehouseID int64) (*entity.SerialUnit, error) {
	product, err := uc.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %d: %w", item.ProductID, domain.ErrNotFound)
	}
	if !product.TrackSerials {
		return nil, fmt.Errorf("producto %d no maneja seriales: %w", item.ProductID, domain.ErrInvalidInput)
	}
	now := time.Now()
	unit := &entity.SerialUnit{
		SerialNumber: serialNumber,
		Item:         item,
		WarehouseID:  &warehouseID,
		Status:       entity.SerialStatusInStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.RunSerial(ctx, func(serialRepo repository.SerialRepository) error {
		return serialRepo.Create(ctx, unit)
	})
	if err != nil {
		return nil, err
	}
	return unit, nil
}

// Sell transiciona IN_STOCK -> SOLD y limpia la bodega (la unidad salió del
// inventario). Cualquier otro estado origen falla con ErrInvalidState.
func (uc *SerialUseCase) Sell(ctx context.Context, serialNumber, saleRef string) (*entity.SerialUnit, error) {
	return uc.transition(ctx, serialNumber, func(unit *entity.SerialUnit, now time.Time) error {
		if unit.Status != entity.SerialStatusInStock {
			return fmt.Errorf("vender serial en estado %s: %w", unit.Status, domain.ErrInvalidState)
		}
		unit.Status = entity.SerialStatusSold
		unit.SaleRef = &saleRef
		unit.LastWarehouseID = unit.WarehouseID
		unit.WarehouseID = nil
		return nil
	})
}

// Return transiciona SOLD -> RETURNED y restaura la bodega previa. No vuelve a
// IN_STOCK automáticamente: requiere el paso de inspección.
func (uc *SerialUseCase) Return(ctx context.Context, serialNumber string) (*entity.SerialUnit, error) {
	return uc.transition(ctx, serialNumber, func(unit *entity.SerialUnit, now time.Time) error {
		if unit.Status != entity.SerialStatusSold {
			return fmt.Errorf("devolver serial en estado %s: %w", unit.Status, domain.ErrInvalidState)
		}
		unit.Status = entity.SerialStatusReturned
		unit.WarehouseID = unit.LastWarehouseID
		return nil
	})
}

// Inspect cierra una devolución: RETURNED -> IN_STOCK o DEFECTIVE.
func (uc *SerialUseCase) Inspect(ctx context.Context, serialNumber, outcome string) (*entity.SerialUnit, error) {
	if outcome != entity.SerialStatusInStock && outcome != entity.SerialStatusDefective {
		return nil, fmt.Errorf("resultado de inspección %q: %w", outcome, domain.ErrInvalidInput)
	}
	return uc.transition(ctx, serialNumber, func(unit *entity.SerialUnit, now time.Time) error {
		if unit.Status != entity.SerialStatusReturned {
			return fmt.Errorf("inspeccionar serial en estado %s: %w", unit.Status, domain.ErrInvalidState)
		}
		unit.Status = outcome
		if outcome == entity.SerialStatusInStock {
			unit.SaleRef = nil
		}
		return nil
	})
}

// Warranty transiciona SOLD -> WARRANTY (unidad en servicio técnico).
func (uc *SerialUseCase) Warranty(ctx context.Context, serialNumber string) (*entity.SerialUnit, error) {
	return uc.transition(ctx, serialNumber, func(unit *entity.SerialUnit, now time.Time) error {
		if unit.Status != entity.SerialStatusSold {
			return fmt.Errorf("garantía para serial en estado %s: %w", unit.Status, domain.ErrInvalidState)
		}
		unit.Status = entity.SerialStatusWarranty
		return nil
	})
}

func (uc *SerialUseCase) transition(ctx context.Context, serialNumber string, apply func(*entity.SerialUnit, time.Time) error) (*entity.SerialUnit, error) {
	var out *entity.SerialUnit
	err := uc.txRunner.RunSerial(ctx, func(serialRepo repository.SerialRepository) error {
		unit, err := serialRepo.GetForUpdate(ctx, serialNumber)
		if err != nil {
			return err
		}
		if unit == nil {
			return fmt.Errorf("serial %q: %w", serialNumber, domain.ErrNotFound)
		}
		now := time.Now()
		if err := apply(unit, now); err != nil {
			return err
		}
		unit.UpdatedAt = now
		if err := serialRepo.Update(ctx, unit); err != nil {
			return err
		}
		out = unit
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
