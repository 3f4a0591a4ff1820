package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// ReservationUseCase aparta/libera cantidad contra niveles materializados.
// Reserve y Release corren en transacción con la fila bloqueada: dos reservas
// concurrentes sobre la misma clave nunca otorgan más que el disponible.
type ReservationUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner, productRepo: productRepo}
}

// Reserve aparta qty para un pedido no despachado. Falla con
// ErrInsufficientStock si qty > onHand - reserved, salvo que el producto
// permita backorder.
func (uc *ReservationUseCase) Reserve(ctx context.Context, item entity.StockItem, warehouseID int64, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return fmt.Errorf("cantidad a reservar debe ser positiva: %w", domain.ErrInvalidInput)
	}
	product, err := uc.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %d: %w", item.ProductID, domain.ErrNotFound)
	}

	return uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
		_ repository.BatchRepository,
	) error {
		level, err := stockRepo.GetForUpdate(ctx, item, warehouseID)
		if err != nil {
			return err
		}
		if qty.GreaterThan(level.Available()) && !product.AllowBackorder {
			return fmt.Errorf("disponible %s, se solicitan %s: %w",
				level.Available(), qty, domain.ErrInsufficientStock)
		}
		level.Reserved = level.Reserved.Add(qty)
		level.Version++
		level.UpdatedAt = time.Now()
		return stockRepo.Upsert(ctx, level)
	})
}

// Release devuelve cantidad reservada al disponible (pedido cancelado o
// despachado por otra vía). Libera como máximo lo reservado.
func (uc *ReservationUseCase) Release(ctx context.Context, item entity.StockItem, warehouseID int64, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return fmt.Errorf("cantidad a liberar debe ser positiva: %w", domain.ErrInvalidInput)
	}
	return uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		stockRepo repository.StockLevelRepository,
		_ repository.BatchRepository,
	) error {
		level, err := stockRepo.GetForUpdate(ctx, item, warehouseID)
		if err != nil {
			return err
		}
		release := decimal.Min(qty, level.Reserved)
		level.Reserved = level.Reserved.Sub(release)
		level.Version++
		level.UpdatedAt = time.Now()
		return stockRepo.Upsert(ctx, level)
	})
}
