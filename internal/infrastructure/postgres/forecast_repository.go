package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Inventario-core/internal/domain/entity"
	"github.com/jhoicas/Inventario-core/internal/domain/repository"
)

var _ repository.ForecastRepository = (*ForecastRepo)(nil)

// ForecastRepo adaptador de snapshots de pronóstico (usable con pool o tx).
type ForecastRepo struct {
	q Querier
}

// NewForecastRepository construye el adaptador. Pasar pool o tx (Querier).
func NewForecastRepository(q Querier) *ForecastRepo {
	return &ForecastRepo{q: q}
}

const forecastColumns = `id, product_id, variant_id, warehouse_id, period_start, horizon_days,
	avg_daily_demand, forecasted_demand, suggested_order_qty, confidence, alert_flag, generated_at`

// Upsert inserta o reemplaza el snapshot por (clave, período, horizonte).
func (r *ForecastRepo) Upsert(ctx context.Context, f *entity.ForecastRecord) error {
	query := `
		INSERT INTO inventory_forecast (` + forecastColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (product_id, variant_id, warehouse_id, period_start, horizon_days)
		DO UPDATE SET avg_daily_demand = EXCLUDED.avg_daily_demand,
		              forecasted_demand = EXCLUDED.forecasted_demand,
		              suggested_order_qty = EXCLUDED.suggested_order_qty,
		              confidence = EXCLUDED.confidence,
		              alert_flag = EXCLUDED.alert_flag,
		              generated_at = EXCLUDED.generated_at`
	_, err := r.q.Exec(ctx, query,
		f.ID, f.Item.ProductID, f.Item.VariantID, f.WarehouseID, f.PeriodStart, f.HorizonDays,
		f.AvgDailyDemand, f.ForecastedDemand, f.SuggestedOrderQty, f.Confidence, f.AlertFlag, f.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert forecast: %w", err)
	}
	return nil
}

// ListByWarehouse snapshots más recientes de una bodega.
func (r *ForecastRepo) ListByWarehouse(ctx context.Context, warehouseID int64, limit, offset int) ([]*entity.ForecastRecord, error) {
	query := `SELECT ` + forecastColumns + `
		FROM inventory_forecast
		WHERE warehouse_id = $1
		ORDER BY generated_at DESC, product_id, variant_id
		LIMIT $2 OFFSET $3`
	return r.list(ctx, query, warehouseID, limit, offset)
}

// ListAlerts snapshots con alerta de bajo stock activa.
func (r *ForecastRepo) ListAlerts(ctx context.Context, limit, offset int) ([]*entity.ForecastRecord, error) {
	query := `SELECT ` + forecastColumns + `
		FROM inventory_forecast
		WHERE alert_flag
		ORDER BY generated_at DESC, product_id, variant_id
		LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *ForecastRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ForecastRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list forecasts: %w", err)
	}
	defer rows.Close()
	var list []*entity.ForecastRecord
	for rows.Next() {
		var f entity.ForecastRecord
		if err := rows.Scan(&f.ID, &f.Item.ProductID, &f.Item.VariantID, &f.WarehouseID,
			&f.PeriodStart, &f.HorizonDays, &f.AvgDailyDemand, &f.ForecastedDemand,
			&f.SuggestedOrderQty, &f.Confidence, &f.AlertFlag, &f.GeneratedAt); err != nil {
			return nil, fmt.Errorf("scan forecast: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
