package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// MovementCursor posición para paginación restartable del ledger
// (orden por created_at, id).
type MovementCursor struct {
	CreatedAt time.Time
	ID        string
}

// DailyDemandBucket demanda agregada de un día (para el pronosticador).
type DailyDemandBucket struct {
	Day      time.Time
	Quantity decimal.Decimal
}

// StockKey identifica un (item, bodega) con actividad.
type StockKey struct {
	Item        entity.StockItem
	WarehouseID int64
}

// MovementRepository define el puerto de persistencia del ledger. El ledger es
// append-only por diseño: el puerto no expone actualización ni borrado.
type MovementRepository interface {
	Create(ctx context.Context, m *entity.MovementRecord) error
	GetByID(ctx context.Context, id string) (*entity.MovementRecord, error)
	// ListByItemWarehouse devuelve movimientos ordenados por creación, desde el
	// cursor (exclusivo). from/to acotan el rango temporal; nil = sin límite.
	ListByItemWarehouse(ctx context.Context, item entity.StockItem, warehouseID int64, from, to *time.Time, after *MovementCursor, limit int) ([]*entity.MovementRecord, error)
	// SumNet replay completo: Σ quantity_in − Σ quantity_out para la clave.
	SumNet(ctx context.Context, item entity.StockItem, warehouseID int64) (decimal.Decimal, error)
	// DailyDemand agrega salidas por día para los tipos dados (SALE, etc.).
	DailyDemand(ctx context.Context, item entity.StockItem, warehouseID int64, types []string, from, to time.Time) ([]DailyDemandBucket, error)
	// KeysWithMovementSince claves con actividad en la ventana (iteración del pronosticador).
	KeysWithMovementSince(ctx context.Context, since time.Time) ([]StockKey, error)
}
