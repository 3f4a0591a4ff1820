package repository

import (
	"context"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
)

// ForecastRepository define el puerto de persistencia para snapshots de
// pronóstico. Upsert por (item, bodega, período, horizonte).
type ForecastRepository interface {
	Upsert(ctx context.Context, record *entity.ForecastRecord) error
	ListByWarehouse(ctx context.Context, warehouseID int64, limit, offset int) ([]*entity.ForecastRecord, error)
	// ListAlerts devuelve los snapshots con alert_flag activo (dashboard de bajo stock).
	ListAlerts(ctx context.Context, limit, offset int) ([]*entity.ForecastRecord, error)
}
