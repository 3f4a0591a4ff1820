package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// WarehouseUseCase administra el catálogo de bodegas. Las bodegas nunca se
// borran (el ledger las referencia); se desactivan.
type WarehouseUseCase struct {
	warehouseRepo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(warehouseRepo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{warehouseRepo: warehouseRepo}
}

// Create da de alta una bodega activa.
func (uc *WarehouseUseCase) Create(ctx context.Context, name, whType, address string) (*entity.Warehouse, error) {
	if !entity.ValidWarehouseType(whType) {
		return nil, fmt.Errorf("tipo de bodega %q: %w", whType, domain.ErrInvalidInput)
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		Name:      name,
		Type:      whType,
		Address:   address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// Update modifica nombre, tipo y dirección.
func (uc *WarehouseUseCase) Update(ctx context.Context, id int64, name, whType, address string) (*entity.Warehouse, error) {
	if !entity.ValidWarehouseType(whType) {
		return nil, fmt.Errorf("tipo de bodega %q: %w", whType, domain.ErrInvalidInput)
	}
	warehouse, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	warehouse.Name = name
	warehouse.Type = whType
	warehouse.Address = address
	warehouse.UpdatedAt = time.Now()
	if err := uc.warehouseRepo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

// Deactivate marca la bodega inactiva: deja de aceptar movimientos pero su
// historial sigue consultable.
func (uc *WarehouseUseCase) Deactivate(ctx context.Context, id int64) (*entity.Warehouse, error) {
	return uc.setActive(ctx, id, false)
}

// Activate reactiva una bodega.
func (uc *WarehouseUseCase) Activate(ctx context.Context, id int64) (*entity.Warehouse, error) {
	return uc.setActive(ctx, id, true)
}

// GetByID devuelve una bodega.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id int64) (*entity.Warehouse, error) {
	return uc.get(ctx, id)
}

// List devuelve las bodegas; includeInactive incluye las desactivadas.
func (uc *WarehouseUseCase) List(ctx context.Context, includeInactive bool, limit, offset int) ([]*entity.Warehouse, error) {
	return uc.warehouseRepo.List(ctx, includeInactive, limit, offset)
}

func (uc *WarehouseUseCase) setActive(ctx context.Context, id int64, active bool) (*entity.Warehouse, error) {
	warehouse, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	warehouse.Active = active
	warehouse.UpdatedAt = time.Now()
	if err := uc.warehouseRepo.Update(ctx, warehouse); err != nil {
		return nil, err
	}
	return warehouse, nil
}

func (uc *WarehouseUseCase) get(ctx context.Context, id int64) (*entity.Warehouse, error) {
	warehouse, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("bodega %d: %w", id, domain.ErrNotFound)
	}
	return warehouse, nil
}
