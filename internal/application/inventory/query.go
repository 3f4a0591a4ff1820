package inventory

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-core/internal/domain"
	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

// StockQueryUseCase consultas de solo lectura sobre niveles, ledger y lotes
// (repositorios atados al pool, sin transacción).
type StockQueryUseCase struct {
	movRepo   repository.MovementRepository
	stockRepo repository.StockLevelRepository
	batchRepo repository.BatchRepository
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	movRepo repository.MovementRepository,
	stockRepo repository.StockLevelRepository,
	batchRepo repository.BatchRepository,
) *StockQueryUseCase {
	return &StockQueryUseCase{movRepo: movRepo, stockRepo: stockRepo, batchRepo: batchRepo}
}

// GetLevel devuelve el nivel materializado de un (item, bodega). Si nunca hubo
// movimientos devuelve un nivel en cero.
func (uc *StockQueryUseCase) GetLevel(ctx context.Context, item entity.StockItem, warehouseID int64) (*entity.StockLevel, error) {
	return uc.stockRepo.Get(ctx, item, warehouseID)
}

// ListLevelsByWarehouse niveles de una bodega con paginación.
func (uc *StockQueryUseCase) ListLevelsByWarehouse(ctx context.Context, warehouseID int64, limit, offset int) ([]*entity.StockLevel, error) {
	return uc.stockRepo.ListByWarehouse(ctx, warehouseID, limit, offset)
}

// ListMovements devuelve una página del ledger para la clave, ordenada por
// creación, con un cursor opaco restartable.
func (uc *StockQueryUseCase) ListMovements(
	ctx context.Context,
	item entity.StockItem,
	warehouseID int64,
	from, to *time.Time,
	cursor string,
	limit int,
) ([]*entity.MovementRecord, string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}
	recs, err := uc.movRepo.ListByItemWarehouse(ctx, item, warehouseID, from, to, after, limit)
	if err != nil {
		return nil, "", err
	}
	next := ""
	if len(recs) == limit {
		last := recs[len(recs)-1]
		next = encodeCursor(&repository.MovementCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return recs, next, nil
}

// ListBatches lotes de un (item, bodega).
func (uc *StockQueryUseCase) ListBatches(ctx context.Context, item entity.StockItem, warehouseID int64) ([]*entity.Batch, error) {
	return uc.batchRepo.ListByItemWarehouse(ctx, item, warehouseID)
}

// El cursor es "created_at|id" en base64 URL-safe: opaco para el caller,
// restartable para el motor.
func encodeCursor(c *repository.MovementCursor) string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (*repository.MovementCursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("cursor malformado: %w", domain.ErrInvalidInput)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("cursor malformado: %w", domain.ErrInvalidInput)
	}
	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return nil, fmt.Errorf("cursor malformado: %w", domain.ErrInvalidInput)
	}
	return &repository.MovementCursor{CreatedAt: ts, ID: parts[1]}, nil
}
